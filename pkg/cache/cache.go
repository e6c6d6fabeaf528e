// Package cache stores generated maps and rendered artifacts.
//
// Generation is deterministic, so a map built from the same options can be
// served from cache instead of being rebuilt. Three backends are provided:
//
//   - [DisabledCache]: stores nothing, for --no-cache and backend "none"
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP API
//
// Keys are built by a [Keyer] so every backend agrees on naming.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Default TTLs.
const (
	MapTTL      = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)
