package client

import (
	"context"

	"github.com/dmitrijs2005/userdir/internal/client/models"
)

// Client is the remote user service.
type Client interface {
	Close() error
	// GetAll returns one page of users. Pages are 1-based.
	GetAll(ctx context.Context, page int) ([]models.User, error)
	// GetByID returns ErrNotFound when the service has no such user.
	GetByID(ctx context.Context, id int64) (models.User, error)
	// Login exchanges credentials for an external principal carrying the
	// service token. A rejection is ErrUnauthorized.
	Login(ctx context.Context, email, password string) (models.Principal, error)
	Ping(ctx context.Context) error
}
