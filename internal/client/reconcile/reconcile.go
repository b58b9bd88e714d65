// Package reconcile merges the first remote page with the local overlay,
// once, at startup.
package reconcile

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/userdir/internal/client/models"
	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/logging"
)

var ErrAlreadyReconciled = errors.New("already reconciled")

// Merge returns remote in order followed by every local record whose id is
// not in remote, in local order. Remote wins on id collision. A repeated id
// within either side keeps its first occurrence.
func Merge(remote, local []models.User) []models.User {
	seen := make(map[int64]struct{}, len(remote)+len(local))
	out := make([]models.User, 0, len(remote)+len(local))
	for _, side := range [][]models.User{remote, local} {
		for _, u := range side {
			if _, dup := seen[u.ID]; dup {
				continue
			}
			seen[u.ID] = struct{}{}
			out = append(out, u)
		}
	}
	return out
}

// RemoteSource fetches one page of the remote directory.
type RemoteSource interface {
	GetAll(ctx context.Context, page int) ([]models.User, error)
}

// OverlaySource reads the persisted local overlay.
type OverlaySource interface {
	Users(ctx context.Context) ([]models.User, error)
}

// Target receives the merged collection.
type Target interface {
	ReplaceAll(ctx context.Context, records []models.User)
}

// Result describes what Run did.
type Result struct {
	Remote    int
	Local     int
	Merged    int
	RemoteErr error
}

// Reconciler merges one remote page with the local overlay into the target.
type Reconciler struct {
	remote  RemoteSource
	overlay OverlaySource
	target  Target
	logger  logging.Logger

	once sync.Once
}

// NewReconciler returns a Reconciler writing into target.
func NewReconciler(remote RemoteSource, overlay OverlaySource, target Target, l logging.Logger) *Reconciler {
	return &Reconciler{
		remote:  remote,
		overlay: overlay,
		target:  target,
		logger:  l.With("module", "reconcile"),
	}
}

// Run performs the merge. A remote failure is logged and reported in
// Result.RemoteErr; the target then receives the overlay alone, unless the
// overlay is empty too, in which case it is left untouched. Only a second
// call returns an error.
func (r *Reconciler) Run(ctx context.Context) (Result, error) {
	ran := false
	var res Result
	r.once.Do(func() {
		ran = true
		res = r.run(ctx)
	})
	if !ran {
		return Result{}, ErrAlreadyReconciled
	}
	return res, nil
}

func (r *Reconciler) run(ctx context.Context) Result {
	local, err := r.overlay.Users(ctx)
	if err != nil {
		if errors.Is(err, common.ErrPersistenceDecode) {
			r.logger.Warn(ctx, "ignoring malformed overlay", "error", err)
		} else {
			r.logger.Error(ctx, "failed to read overlay", "error", err)
		}
		local = nil
	}

	remote, err := r.remote.GetAll(ctx, 1)
	if err != nil {
		r.logger.Warn(ctx, "remote fetch failed, using local overlay only", "error", err, "local", len(local))
		if len(local) > 0 {
			r.target.ReplaceAll(ctx, local)
		}
		return Result{Local: len(local), Merged: len(local), RemoteErr: err}
	}

	merged := Merge(remote, local)
	r.target.ReplaceAll(ctx, merged)
	r.logger.Info(ctx, "merged remote users with local overlay",
		"remote", len(remote), "local", len(local), "merged", len(merged))
	return Result{Remote: len(remote), Local: len(local), Merged: len(merged)}
}
