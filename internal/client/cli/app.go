package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/userdir/internal/client/blob"
	"github.com/dmitrijs2005/userdir/internal/client/client"
	"github.com/dmitrijs2005/userdir/internal/client/config"
	"github.com/dmitrijs2005/userdir/internal/client/reconcile"
	"github.com/dmitrijs2005/userdir/internal/client/repositories"
	"github.com/dmitrijs2005/userdir/internal/client/repositories/snapshots"
	"github.com/dmitrijs2005/userdir/internal/client/services"
	"github.com/dmitrijs2005/userdir/internal/client/store"
	"github.com/dmitrijs2005/userdir/internal/client/view"
	"github.com/dmitrijs2005/userdir/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	remote     client.Client
	store      *store.Store
	session    *services.SessionManager
	users      *services.UserService
	view       *view.Projection
	reconciler *reconcile.Reconciler
	notify     *notifier
	reader     *bufio.Reader
	out        io.Writer
	Mode       Mode
}

// NewApp opens the local database, loads the persisted directory and wires
// the services. Nothing talks to the remote service until Run.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, c.LogLevel, c.LogFormat)

	db, err := repositories.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	remote, err := client.NewHTTPClient(c.APIBaseURL, c.APIKey, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	snaps := snapshots.New(db, logger)
	secret := []byte(c.SessionSecret)
	if len(secret) == 0 {
		if secret, err = snaps.SessionSecret(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	var blobs blob.Storage
	if c.S3Enabled() {
		blobs = blob.NewS3Storage(blob.S3Config{
			Endpoint:      c.S3Endpoint,
			Region:        c.S3Region,
			Bucket:        c.S3Bucket,
			AccessKey:     c.S3AccessKey,
			SecretKey:     c.S3SecretKey,
			PublicBaseURL: c.S3PublicBaseURL,
		}, c.RequestTimeout, logger)
	} else {
		logger.Info(ctx, "avatar uploads disabled, no bucket configured")
	}

	st := store.New(snaps, logger)
	st.Load(ctx)

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		remote:     remote,
		store:      st,
		session:    services.NewSessionManager(snaps, st, remote, secret, c.SessionTTL, logger),
		users:      services.NewUserService(st, remote, blobs, logger),
		view:       view.New(st, c.RecentWindow),
		reconciler: reconcile.NewReconciler(remote, snaps, st, logger),
		notify:     newNotifier(os.Stdout),
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}, nil
}

// Run restores the session and merges the remote directory, then serves the
// REPL until the operator exits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if err := a.startup(ctx); err != nil {
		return err
	}
	a.Root(ctx)
	return nil
}

// startup runs session restore and the remote merge side by side. Neither
// depends on the other's result.
func (a *App) startup(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if a.session.Restore(gctx) {
			p, _ := a.session.Current()
			a.notify.Info("Welcome back, %s", p.DisplayName())
		}
		return nil
	})

	g.Go(func() error {
		res, err := a.reconciler.Run(gctx)
		if err != nil {
			return err
		}
		if res.RemoteErr != nil {
			a.setMode(ModeOffline)
			a.notify.Warn("Remote directory unavailable, showing %d local user(s)", res.Merged)
			return nil
		}
		a.setMode(ModeOnline)
		return nil
	})

	return g.Wait()
}

func (a *App) Close() {
	if err := a.remote.Close(); err != nil {
		a.logger.Warn(context.Background(), "failed to close remote client", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn(context.Background(), "failed to close database", "error", err)
	}
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		a.logger.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) getStatus() string {
	s := ""
	if p, ok := a.session.Current(); ok {
		s = p.Email + " "
	}
	if a.Mode != "" {
		s += string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
