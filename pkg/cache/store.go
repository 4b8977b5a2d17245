// Package cache provides the byte-oriented key/value stores that back the
// feed candidate cache.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when no live entry exists for the key.
var ErrMiss = errors.New("cache: miss")

// Store is a TTL key/value store. Implementations must return ErrMiss for
// absent or expired keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
