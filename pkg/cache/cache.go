// Package cache stores rendered chart artifacts keyed by content hash.
//
// Entries are memoized render output: the same chart definition and render
// options always produce the same bytes, so a hit can be served without
// running layout or any sink. Nothing in the cache is authoritative data;
// every backend may drop entries at any time.
//
// # Backends
//
//   - [FileCache]: lz4-compressed files under a directory, for the CLI
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] derives keys from a chart hash plus the options that affect
// output. [ScopedKeyer] prefixes keys to isolate tenants or versions.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	TTLScene    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry. Implementations are safe for
// concurrent use.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}
