package cache

import (
	"context"
	"errors"
	"time"
)

// ErrConflict is returned by Update when the key kept changing underneath every attempt.
var ErrConflict = errors.New("cache: concurrent update conflict")

// Cache defines the interface for caching services.
// Get returns an empty string and a nil error when the key does not exist.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	// Update atomically replaces the value at key with fn(current). An empty result deletes the key.
	// fn may run more than once when the key changes concurrently.
	Update(ctx context.Context, key string, expiration time.Duration, fn func(current string) (string, error)) error
	Close() error
}
