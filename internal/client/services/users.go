package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/userdir/internal/client/blob"
	"github.com/dmitrijs2005/userdir/internal/client/models"
	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/cryptox"
	"github.com/dmitrijs2005/userdir/internal/logging"
)

// ErrUploadsDisabled is returned when a file is attached but no blob
// storage is configured.
var ErrUploadsDisabled = fmt.Errorf("%w: avatar uploads are not configured", common.ErrUnavailable)

// Confirmer gates destructive operations.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// UserStore is the write side of the record store.
type UserStore interface {
	Get(id int64) (models.User, bool)
	AppendNew(ctx context.Context, u models.User, now time.Time) models.User
	UpdateByID(ctx context.Context, id int64, patch models.UserPatch) bool
	RemoveByID(ctx context.Context, id int64) bool
}

// UserDirectory is the remote lookup used by Detail.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
}

// CreateUserInput is the create form. ConfirmPassword is only compared,
// never stored. A zero Status means active.
type CreateUserInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	Avatar          *models.Attachment
	Status          models.Status
}

// Edit is an in-progress edit of record ID. Avatar is what the form shows;
// NewAvatar, when set, replaces it.
type Edit struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Avatar    models.Avatar
	NewAvatar *models.Attachment
}

// EditFor starts an edit pre-filled from u.
func EditFor(u models.User) Edit {
	return Edit{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Avatar: u.Avatar}
}

// UserService applies create, update and delete to the store and the remote directory.
type UserService struct {
	store  UserStore
	remote UserDirectory
	blobs  blob.Storage
	now    func() time.Time
	logger logging.Logger
}

// NewUserService wires the mutations. blobs may be nil, in which case
// attaching a file fails with ErrUploadsDisabled.
func NewUserService(store UserStore, remote UserDirectory, blobs blob.Storage, l logging.Logger) *UserService {
	return &UserService{
		store:  store,
		remote: remote,
		blobs:  blobs,
		now:    time.Now,
		logger: l.With("module", "users"),
	}
}

// Create validates in, uploads its avatar if any, and appends the new
// record with a fresh local id. Nothing is written on failure.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (models.User, error) {
	if err := ValidateCreate(in); err != nil {
		return models.User{}, err
	}

	avatar, err := s.resolveAvatar(ctx, in.Avatar)
	if err != nil {
		return models.User{}, err
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	status := in.Status
	if status == "" {
		status = models.StatusActive
	}

	u := s.store.AppendNew(ctx, models.User{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Avatar:    avatar,
		Status:    status,
		Password:  hash,
	}, s.now())

	s.logger.Info(ctx, "user created", "id", u.ID, "email", u.Email)
	return u, nil
}

// CommitEdit applies the names, email and avatar of e. Status and
// credential are left alone.
func (s *UserService) CommitEdit(ctx context.Context, e Edit) (models.User, error) {
	before, ok := s.store.Get(e.ID)
	if !ok {
		return models.User{}, fmt.Errorf("%w: user %d", common.ErrNotFound, e.ID)
	}
	if err := validateProfile(e.FirstName, e.LastName, e.Email); err != nil {
		return models.User{}, err
	}

	file := e.NewAvatar
	if file == nil && e.Avatar.Kind() == models.AvatarFile {
		file = e.Avatar.File()
	}
	if err := ValidateAvatar(file); err != nil {
		return models.User{}, err
	}

	avatar := e.Avatar
	if file != nil {
		var err error
		if avatar, err = s.resolveAvatar(ctx, file); err != nil {
			return models.User{}, err
		}
	}

	patch := models.UserPatch{
		FirstName: &e.FirstName,
		LastName:  &e.LastName,
		Email:     &e.Email,
		Avatar:    &avatar,
	}
	if !s.store.UpdateByID(ctx, e.ID, patch) {
		// removed while the upload was in flight
		s.discardBlob(ctx, avatar, before.Avatar)
		return models.User{}, fmt.Errorf("%w: user %d", common.ErrNotFound, e.ID)
	}

	if before.Avatar.URL() != avatar.URL() {
		s.discardBlob(ctx, before.Avatar, avatar)
	}

	after, _ := s.store.Get(e.ID)
	s.logger.Info(ctx, "user updated", "id", e.ID)
	return after, nil
}

// Delete removes record id after c confirms. A declined confirmation is
// ErrCancelled and changes nothing.
func (s *UserService) Delete(ctx context.Context, id int64, c Confirmer) error {
	u, ok := s.store.Get(id)
	if !ok {
		return fmt.Errorf("%w: user %d", common.ErrNotFound, id)
	}

	yes, err := c.Confirm(ctx, fmt.Sprintf("Delete %s <%s>?", u.FullName(), u.Email))
	if err != nil {
		return fmt.Errorf("confirm: %w", err)
	}
	if !yes {
		return common.ErrCancelled
	}

	if !s.store.RemoveByID(ctx, id) {
		return fmt.Errorf("%w: user %d", common.ErrNotFound, id)
	}
	s.discardBlob(ctx, u.Avatar, models.Avatar{})
	s.logger.Info(ctx, "user deleted", "id", id)
	return nil
}

// Detail fetches a record from the remote service. Locally created records
// are only known locally and are served from the store.
func (s *UserService) Detail(ctx context.Context, id int64) (models.User, error) {
	if models.IsLocalID(id) {
		if u, ok := s.store.Get(id); ok {
			return u, nil
		}
		return models.User{}, fmt.Errorf("%w: user %d", common.ErrNotFound, id)
	}
	u, err := s.remote.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// SignedAvatarURL returns a time-limited link to an avatar kept in our
// bucket, or the avatar URL unchanged when it lives elsewhere.
func (s *UserService) SignedAvatarURL(ctx context.Context, u models.User, ttl time.Duration) (string, error) {
	if s.blobs == nil {
		return u.Avatar.URL(), nil
	}
	key, ok := s.blobs.KeyFromURL(u.Avatar.URL())
	if !ok {
		return u.Avatar.URL(), nil
	}
	return s.blobs.SignedURL(ctx, key, ttl)
}

// resolveAvatar uploads f and returns its durable URL. No file means no avatar.
func (s *UserService) resolveAvatar(ctx context.Context, f *models.Attachment) (models.Avatar, error) {
	if f == nil {
		return models.Avatar{}, nil
	}
	if s.blobs == nil {
		return models.Avatar{}, ErrUploadsDisabled
	}

	key, err := s.blobs.Upload(ctx, blob.NewObjectKey(s.now(), f.Name), f)
	if err != nil {
		if !errors.Is(err, common.ErrUnavailable) {
			err = fmt.Errorf("%w: %v", common.ErrUnavailable, err)
		}
		return models.Avatar{}, err
	}
	return models.AvatarFromURL(s.blobs.PublicURL(key)), nil
}

// discardBlob deletes old from the bucket unless it is ours to keep.
// Failures are logged only.
func (s *UserService) discardBlob(ctx context.Context, old, keep models.Avatar) {
	if s.blobs == nil || old.URL() == "" || old.URL() == keep.URL() {
		return
	}
	key, ok := s.blobs.KeyFromURL(old.URL())
	if !ok {
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "failed to delete avatar blob", "key", key, "error", err)
	}
}
