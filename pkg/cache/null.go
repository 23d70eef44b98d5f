package cache

import (
	"context"
	"time"
)

// NullCache stores nothing, so every graph and artifact lookup misses
// and each request runs deno info afresh. It is what --no-cache and
// backend = "none" open.
type NullCache struct{}

// NewNullCache returns a cache that discards every write.
func NewNullCache() Cache {
	return NullCache{}
}

func (NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
