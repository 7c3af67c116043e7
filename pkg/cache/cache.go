// Package cache provides byte-level caching for computed layouts and
// rendered artifacts.
//
// Layout runs are deterministic given the graph, the options and the seed,
// so their results can be cached by content hash. The pipeline stores the
// JSON layout under a [Keyer.LayoutKey] and each rendered artifact under a
// [Keyer.ArtifactKey].
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for multi-instance API deployments
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Default time-to-live values for cached entries.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with optional expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached bytes and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache disables caching: every Get misses and every write is dropped.
// The pipeline uses it when no backend is configured.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() *NullCache { return &NullCache{} }

// Get always misses.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (*NullCache) Delete(context.Context, string) error {
	return nil
}

func (*NullCache) Close() error {
	return nil
}

var (
	_ Cache = (*NullCache)(nil)
	_ Cache = (*FileCache)(nil)
	_ Cache = (*RedisCache)(nil)
)
