// Package store holds the canonical ordered user collection.
//
// Every change bumps Revision and, when the collection is non-empty,
// writes the whole collection through the Snapshotter. Write failures are
// logged and never returned.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/userdir/internal/client/models"
	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/logging"
)

// Snapshotter is the durable side of the store.
type Snapshotter interface {
	Users(ctx context.Context) ([]models.User, error)
	SaveUsers(ctx context.Context, users []models.User) error
}

// Store is the in-memory user collection the views read from.
type Store struct {
	snap   Snapshotter
	logger logging.Logger

	mu    sync.RWMutex
	users []models.User
	rev   uint64

	// held across a save so snapshots land in mutation order
	persistMu sync.Mutex
}

// New returns an empty store persisting through snap.
func New(snap Snapshotter, l logging.Logger) *Store {
	return &Store{snap: snap, logger: l.With("module", "store")}
}

// Load replaces the in-memory collection with the durable snapshot. An
// absent or malformed snapshot leaves the store empty.
func (s *Store) Load(ctx context.Context) {
	users, err := s.snap.Users(ctx)
	if err != nil {
		if errors.Is(err, common.ErrPersistenceDecode) {
			s.logger.Warn(ctx, "ignoring malformed snapshot", "error", err)
		} else {
			s.logger.Error(ctx, "failed to read snapshot", "error", err)
		}
		users = nil
	}

	s.mu.Lock()
	s.users = clone(users)
	s.rev++
	s.mu.Unlock()

	s.logger.Info(ctx, "store loaded", "count", len(users))
}

// ReplaceAll swaps in records wholesale.
func (s *Store) ReplaceAll(ctx context.Context, records []models.User) {
	s.mu.Lock()
	s.users = clone(records)
	s.commit(ctx)
}

// Append adds u at the end. A non-positive or already present id is rejected.
func (s *Store) Append(ctx context.Context, u models.User) error {
	if u.ID <= 0 {
		return common.Invalid("id", "must be positive")
	}
	s.mu.Lock()
	if s.indexOf(u.ID) >= 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: id %d already exists", common.ErrConflict, u.ID)
	}
	s.users = append(s.users, u)
	s.commit(ctx)
	return nil
}

// AppendNew assigns u a local id derived from now, bumped by one until it
// is unused, then appends it. The stored record is returned.
func (s *Store) AppendNew(ctx context.Context, u models.User, now time.Time) models.User {
	s.mu.Lock()
	id := models.NewLocalID(now)
	for s.indexOf(id) >= 0 {
		id++
	}
	u.ID = id
	s.users = append(s.users, u)
	s.commit(ctx)
	return u
}

// UpdateByID applies patch to the record with id. It reports false, and
// changes nothing, when no such record exists.
func (s *Store) UpdateByID(ctx context.Context, id int64, patch models.UserPatch) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	patch.Apply(&s.users[i])
	s.commit(ctx)
	return true
}

// RemoveByID deletes the record with id, keeping the order of the rest.
func (s *Store) RemoveByID(ctx context.Context, id int64) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.users = append(s.users[:i:i], s.users[i+1:]...)
	s.commit(ctx)
	return true
}

func (s *Store) All() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.users)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *Store) Get(id int64) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.users[i], true
	}
	return models.User{}, false
}

// Find returns the first record matching pred.
func (s *Store) Find(pred func(models.User) bool) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if pred(u) {
			return u, true
		}
	}
	return models.User{}, false
}

// Revision increases on every change to the collection.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rev
}

// commit must be called with mu held; it releases mu.
func (s *Store) commit(ctx context.Context) {
	s.rev++
	var snapshot []models.User
	if len(s.users) > 0 {
		snapshot = clone(s.users)
		s.persistMu.Lock()
	}
	s.mu.Unlock()

	if snapshot == nil {
		return
	}
	defer s.persistMu.Unlock()
	if err := s.snap.SaveUsers(context.WithoutCancel(ctx), snapshot); err != nil {
		s.logger.Error(ctx, "failed to persist users", "error", err, "count", len(snapshot))
	}
}

func (s *Store) indexOf(id int64) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

func clone(in []models.User) []models.User {
	if in == nil {
		return nil
	}
	out := make([]models.User, len(in))
	copy(out, in)
	return out
}
