// Package kv stores opaque values under string keys in the local SQLite database.
package kv

import (
	"context"
)

// Repository is a durable key/value store. Get returns (nil, nil) for an absent key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
