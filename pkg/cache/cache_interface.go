package cache

import (
	"context"
	"time"
)

// Cache is the contract for the shared cache layer. Implementations may be
// Redis or in-memory; repositories only see this interface.
type Cache interface {
	// Get loads a cached value into dest. found=false means a miss and
	// dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// Ping verifies connectivity.
	Ping(ctx context.Context) error
}
