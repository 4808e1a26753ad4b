package domain

import (
	"context"
	"time"
)

// Cache defines the interface (port) for caching operations.
type Cache interface {
	// Set adds an item to the cache, overwriting an existing item if one exists.
	// If expiration is 0, the item is cached indefinitely.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Ping checks the health of the cache service.
	Ping(ctx context.Context) error
}
