package source

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cloudydeno/module-visualizer/pkg/cache"
	"github.com/cloudydeno/module-visualizer/pkg/observability"
)

// Cached serves reports from a cache before asking the wrapped source.
// Local file modules always bypass the cache since they change on disk.
type Cached struct {
	Source Source
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger
}

// NewCached wraps src. Nil cache and keyer mean no caching and the
// default key layout.
func NewCached(src Source, c cache.Cache, ttl time.Duration, logger *log.Logger) *Cached {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Cached{Source: src, Cache: c, Keyer: cache.NewDefaultKeyer(), TTL: ttl, Logger: logger}
}

// Fetch returns the cached report for moduleURL or fetches and stores it.
func (c *Cached) Fetch(ctx context.Context, moduleURL string) ([]byte, error) {
	if strings.HasPrefix(moduleURL, "file:") {
		return c.Source.Fetch(ctx, moduleURL)
	}

	key := c.Keyer.GraphKey(moduleURL)
	data, hit, err := c.Cache.Get(ctx, key)
	if err != nil {
		c.Logger.Warn("cache read failed", "key", key, "err", err)
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, "graph")
		c.Logger.Debug("graph cache hit", "module", moduleURL)
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "graph")

	data, err = c.Source.Fetch(ctx, moduleURL)
	if err != nil {
		return nil, err
	}
	if err := c.Cache.Set(ctx, key, data, c.TTL); err != nil {
		c.Logger.Warn("cache write failed", "key", key, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "graph", len(data))
	}
	return data, nil
}

// Invalidate drops the cached report of moduleURL.
func (c *Cached) Invalidate(ctx context.Context, moduleURL string) error {
	return c.Cache.Delete(ctx, c.Keyer.GraphKey(moduleURL))
}

var _ Source = (*Cached)(nil)
