// Package cache provides persistent key-value caching for resolved titles.
//
// Cache entries carry the payload bytes, the time they were fetched, and an
// expiry derived from the TTL in force when they were written. An entry past
// its expiry is deleted on read and reported as a miss, so callers never see
// stale data.
//
// Three backends are provided:
//   - FileCache: JSON files on local disk, for single-user CLI runs
//   - RedisCache: a shared Redis instance, for server deployments
//   - NullCache: a no-op backend that disables caching
package cache

import (
	"context"
	"time"
)

// Cache is the interface for title cache backends.
//
// Implementations are not required to be goroutine-safe; the CLI resolves
// references sequentially. The Redis backend happens to be safe for
// concurrent use, which the HTTP server relies on.
type Cache interface {
	// Get retrieves a value by key. The second return value reports whether
	// a fresh entry was found; expired entries count as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under key with the given TTL.
	// A TTL of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry and returns the number removed.
	Clear(ctx context.Context) (int, error)

	// Close releases any resources held by the backend.
	Close() error
}
