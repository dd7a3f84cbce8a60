// Package cache provides the process-wide result cache used for paginated
// product listings.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store with per-entry TTL and prefix enumeration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. The bool is false when the key is absent
	// or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for ttl. A non-positive ttl keeps the entry
	// until it is deleted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	// Keys lists live keys starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
