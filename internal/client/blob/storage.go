// Package blob stores avatar files in an S3-compatible bucket and hands
// back URLs for them.
package blob

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/userdir/internal/client/models"
)

// DefaultSignedURLTTL is used by SignedURL when ttl is zero.
const DefaultSignedURLTTL = time.Hour

// Storage is an opaque "store blob, get URL" collaborator.
type Storage interface {
	// Upload stores f under key and returns the key it was stored at.
	Upload(ctx context.Context, key string, f *models.Attachment) (string, error)
	// PublicURL is the durable URL of an uploaded key.
	PublicURL(key string) string
	// SignedURL is a time-limited URL for a private bucket.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL maps a PublicURL result back to its key. ok is false for
	// URLs this storage did not produce.
	KeyFromURL(u string) (key string, ok bool)
}

var newUUID = uuid.New

// NewObjectKey builds a unique key for a file named name, e.g.
// "avatars/2025/4/30/6f1c...-me.png".
func NewObjectKey(now time.Time, name string) string {
	return fmt.Sprintf("avatars/%d/%d/%d/%s-%s", now.Year(), now.Month(), now.Day(), newUUID(), sanitizeName(name))
}

func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := strings.Trim(b.String(), ".")
	if s == "" {
		return "file"
	}
	return s
}
