// Package httpapi serves the reqres-compatible user API over echo.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dmitrijs2005/userdir/internal/devserver/users"
	"github.com/dmitrijs2005/userdir/internal/logging"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	address string
	apiKey  string
	users   *users.Service
	logger  logging.Logger
	echo    *echo.Echo
}

// NewServer builds the API. An empty apiKey disables the header check.
func NewServer(address, apiKey string, us *users.Service, l logging.Logger) *Server {
	s := &Server{
		address: address,
		apiKey:  apiKey,
		users:   us,
		logger:  l.With("module", "http_server"),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(s.requestLogger)

	api := e.Group("/api", s.requireAPIKey)
	api.GET("/users", s.listUsers)
	api.GET("/users/:id", s.getUser)
	api.POST("/login", s.login)

	s.echo = e
	return s
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		req := c.Request()
		s.logger.Debug(req.Context(), "request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", c.Response().Status,
			"duration", time.Since(start))
		return nil
	}
}
