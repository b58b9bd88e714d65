// Package snapshots is the single read/write path for the durable client
// state: the user collection and the session marker.
package snapshots

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/userdir/internal/client/models"
	"github.com/dmitrijs2005/userdir/internal/client/repositories/kv"
	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/dbx"
	"github.com/dmitrijs2005/userdir/internal/logging"
)

const (
	KeyUsers         = "users"
	KeySession       = "session"
	KeySessionSecret = "session_secret"

	sessionSecretLen = 32
)

type Repository struct {
	db  *sql.DB
	kv  kv.Repository
	log logging.Logger
}

func New(db *sql.DB, log logging.Logger) *Repository {
	return &Repository{db: db, kv: kv.NewSQLiteRepository(db), log: log}
}

// Users returns the persisted collection, or nil when none was saved.
// Content that does not decode yields an error wrapping
// common.ErrPersistenceDecode; callers treat it as absent.
// Records with a non-positive id or a repeated id are dropped.
func (r *Repository) Users(ctx context.Context) ([]models.User, error) {
	raw, err := r.kv.Get(ctx, KeyUsers)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var users []models.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrPersistenceDecode, KeyUsers, err)
	}

	seen := make(map[int64]struct{}, len(users))
	out := users[:0]
	for _, u := range users {
		if u.ID <= 0 {
			continue
		}
		if _, dup := seen[u.ID]; dup {
			continue
		}
		seen[u.ID] = struct{}{}
		out = append(out, u)
	}
	if dropped := len(users) - len(out); dropped > 0 {
		r.log.Warn(ctx, "dropped invalid records from snapshot", "count", dropped)
	}
	return out, nil
}

// SaveUsers replaces the persisted collection. An empty collection is
// never written, so a stored snapshot is not clobbered by an empty one.
func (r *Repository) SaveUsers(ctx context.Context, users []models.User) error {
	if len(users) == 0 {
		return nil
	}
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	return r.kv.Set(ctx, KeyUsers, raw)
}

// SessionMarker returns the stored marker, or "" when there is none.
func (r *Repository) SessionMarker(ctx context.Context) (string, error) {
	raw, err := r.kv.Get(ctx, KeySession)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (r *Repository) SaveSessionMarker(ctx context.Context, marker string) error {
	return r.kv.Set(ctx, KeySession, []byte(marker))
}

func (r *Repository) ClearSessionMarker(ctx context.Context) error {
	return r.kv.Delete(ctx, KeySession)
}

// SessionSecret returns the key used to sign session markers, generating
// and persisting one on first use.
func (r *Repository) SessionSecret(ctx context.Context) ([]byte, error) {
	var secret []byte
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		v, err := repo.Get(ctx, KeySessionSecret)
		if err != nil {
			return err
		}
		if len(v) >= sessionSecretLen {
			secret = v
			return nil
		}
		secret = common.GenerateRandByteArray(sessionSecretLen)
		return repo.Set(ctx, KeySessionSecret, secret)
	})
	if err != nil {
		return nil, fmt.Errorf("session secret: %w", err)
	}
	return secret, nil
}
