// Package devserver runs a local stand-in for the remote user service so
// the CLI can be exercised without network access.
package devserver

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/userdir/internal/client/models"
	"github.com/dmitrijs2005/userdir/internal/devserver/config"
	"github.com/dmitrijs2005/userdir/internal/devserver/httpapi"
	"github.com/dmitrijs2005/userdir/internal/devserver/users"
	"github.com/dmitrijs2005/userdir/internal/logging"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, "json")

	var fixtures []models.User
	if c.FixturesFile != "" {
		var err error
		if fixtures, err = users.LoadFixtures(c.FixturesFile); err != nil {
			return nil, fmt.Errorf("fixtures: %w", err)
		}
	} else {
		fixtures = users.DefaultUsers()
	}

	us := users.NewService(fixtures, c.PerPage, c.SecretKey, c.TokenTTL)
	srv := httpapi.NewServer(c.EndpointAddr, c.APIKey, us, logger)

	return &App{config: c, logger: logger, server: srv}, nil
}

// Run serves until ctx is cancelled or the process receives SIGINT/SIGTERM/SIGQUIT.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting dev server...", "users_per_page", app.config.PerPage)
	return app.server.Run(ctx)
}
