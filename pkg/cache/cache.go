// Package cache provides a small byte-value cache abstraction used for
// persisting fetched icon documents across renders. Entries are opaque
// bytes; validation of the payload is the caller's job, so a corrupted
// entry is simply deleted and refetched.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
//
// Implementations are not required to be goroutine-safe. Sharing an on-disk
// cache directory between processes is allowed; writes are best-effort and
// last-writer-wins per entry.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
