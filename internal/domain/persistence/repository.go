package persistence

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Repository stores string blobs under string keys.
type Repository interface {
	// Get returns ErrNotFound when key has never been written.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes all entries or none.
	SetMany(ctx context.Context, entries map[string]string) error
	Delete(ctx context.Context, key string) error
}
