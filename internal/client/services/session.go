package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/userdir/internal/auth"
	"github.com/dmitrijs2005/userdir/internal/client/client"
	"github.com/dmitrijs2005/userdir/internal/client/models"
	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/cryptox"
	"github.com/dmitrijs2005/userdir/internal/logging"
)

// MarkerStore persists the signed session marker.
type MarkerStore interface {
	SessionMarker(ctx context.Context) (string, error)
	SaveSessionMarker(ctx context.Context, marker string) error
	ClearSessionMarker(ctx context.Context) error
}

// UserLookup is the read side of the record store.
type UserLookup interface {
	Get(id int64) (models.User, bool)
	Find(pred func(models.User) bool) (models.User, bool)
}

// Authenticator is the remote login endpoint.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (models.Principal, error)
}

// SessionManager owns the at-most-one logged-in principal.
type SessionManager struct {
	markers MarkerStore
	users   UserLookup
	remote  Authenticator
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
	logger  logging.Logger

	mu        sync.RWMutex
	principal *models.Principal
}

// NewSessionManager signs markers with secret. A zero ttl issues markers
// that never expire.
func NewSessionManager(markers MarkerStore, users UserLookup, remote Authenticator, secret []byte, ttl time.Duration, l logging.Logger) *SessionManager {
	return &SessionManager{
		markers: markers,
		users:   users,
		remote:  remote,
		secret:  secret,
		ttl:     ttl,
		now:     time.Now,
		logger:  l.With("module", "session"),
	}
}

// Restore authenticates from the persisted marker, if there is a valid one.
// An unreadable, forged or expired marker is discarded.
func (s *SessionManager) Restore(ctx context.Context) bool {
	marker, err := s.markers.SessionMarker(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to read session marker", "error", err)
		return false
	}
	if marker == "" {
		return false
	}

	p, err := auth.ParseMarker(marker, s.secret)
	if err != nil {
		s.logger.Warn(ctx, "discarding invalid session marker", "error", err)
		if err := s.markers.ClearSessionMarker(ctx); err != nil {
			s.logger.Error(ctx, "failed to clear session marker", "error", err)
		}
		return false
	}

	s.set(&p)
	s.logger.Info(ctx, "session restored", "email", p.Email, "external", p.External)
	return true
}

// LoginWithCredentials authenticates against a local record whose email
// matches exactly and whose stored credential matches password. On failure
// the session is left as it was.
func (s *SessionManager) LoginWithCredentials(ctx context.Context, email, password string) (models.User, error) {
	u, ok := s.users.Find(func(u models.User) bool {
		return u.Email == email && cryptox.CheckPassword(u.Password, password) == nil
	})
	if !ok {
		s.logger.Info(ctx, "local login rejected", "email", email)
		return models.User{}, common.ErrInvalidCredentials
	}

	p := models.PrincipalFromUser(u)
	s.set(&p)
	s.persist(ctx, p)
	s.logger.Info(ctx, "logged in", "email", email, "user_id", u.ID)
	return u, nil
}

// LoginWithExternalPrincipal authenticates against the remote service. The
// principal need not exist in the local directory.
func (s *SessionManager) LoginWithExternalPrincipal(ctx context.Context, email, password string) (models.Principal, error) {
	p, err := s.remote.Login(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, client.ErrUnauthorized):
			return models.Principal{}, fmt.Errorf("%w: %v", common.ErrInvalidCredentials, err)
		case errors.Is(err, common.ErrUnavailable), errors.Is(err, context.Canceled):
			return models.Principal{}, err
		default:
			return models.Principal{}, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
		}
	}

	p.External = true
	if p.Email == "" {
		p.Email = email
	}
	s.set(&p)
	s.persist(ctx, p)
	s.logger.Info(ctx, "logged in via remote service", "email", p.Email)
	return p, nil
}

// Logout ends the session. It is a no-op when nobody is logged in, apart
// from clearing any leftover marker.
func (s *SessionManager) Logout(ctx context.Context) error {
	s.set(nil)
	if err := s.markers.ClearSessionMarker(ctx); err != nil {
		return fmt.Errorf("clear session marker: %w", err)
	}
	return nil
}

// Current returns the logged-in principal. A local principal is refreshed
// from its record so edits show up; a principal whose record is gone, or
// an external one, is returned as stored.
func (s *SessionManager) Current() (models.Principal, bool) {
	s.mu.RLock()
	p := s.principal
	s.mu.RUnlock()
	if p == nil {
		return models.Principal{}, false
	}

	cur := *p
	if !cur.External && cur.UserID != 0 {
		if u, ok := s.users.Get(cur.UserID); ok {
			token := cur.Token
			cur = models.PrincipalFromUser(u)
			cur.Token = token
		}
	}
	return cur, true
}

func (s *SessionManager) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.principal != nil
}

func (s *SessionManager) set(p *models.Principal) {
	s.mu.Lock()
	s.principal = p
	s.mu.Unlock()
}

// persist writes the marker. Failures are logged; the in-memory session
// stays authenticated.
func (s *SessionManager) persist(ctx context.Context, p models.Principal) {
	marker, err := auth.SignMarker(p, s.secret, s.ttl, s.now())
	if err != nil {
		s.logger.Error(ctx, "failed to sign session marker", "error", err)
		return
	}
	if err := s.markers.SaveSessionMarker(ctx, marker); err != nil {
		s.logger.Error(ctx, "failed to persist session marker", "error", err)
	}
}
