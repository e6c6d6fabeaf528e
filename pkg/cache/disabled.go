package cache

import (
	"context"
	"time"
)

// DisabledCache stands in when caching is off. Every Get misses, so the
// runner regenerates maps and re-renders artifacts on each call.
type DisabledCache struct {
	// Reason says why caching is off, e.g. "--no-cache".
	Reason string
}

// Disabled returns a cache that stores nothing.
func Disabled(reason string) *DisabledCache {
	return &DisabledCache{Reason: reason}
}

func (*DisabledCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (*DisabledCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*DisabledCache) Delete(context.Context, string) error { return nil }

func (*DisabledCache) Close() error { return nil }

var _ Cache = (*DisabledCache)(nil)
