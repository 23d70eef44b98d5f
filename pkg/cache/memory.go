package cache

import (
	"bytes"
	"context"
	"sync"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/cloudydeno/module-visualizer/pkg/observability"
)

// DefaultMemoryBytes is the default byte budget of a MemoryCache.
const DefaultMemoryBytes = 25_000_000

// MemoryCache is an in-process cache bounded by the total size of its
// values. When a write pushes the total over the budget, the oldest
// insertions are evicted first. Rewriting a key counts as a fresh
// insertion. Values larger than the whole budget are not stored.
type MemoryCache struct {
	mu       sync.Mutex
	maxBytes int64
	size     int64
	entries  *orderedmap.OrderedMap[string, memoryEntry]
	now      func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates a cache holding at most maxBytes of values.
// A non-positive maxBytes uses DefaultMemoryBytes.
func NewMemoryCache(maxBytes int64) *MemoryCache {
	if maxBytes <= 0 {
		maxBytes = DefaultMemoryBytes
	}
	return &MemoryCache{
		maxBytes: maxBytes,
		entries:  orderedmap.New[string, memoryEntry](),
		now:      time.Now,
	}
}

// Get retrieves a value. Expired entries are dropped on read.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.remove(key)
		return nil, false, nil
	}
	return bytes.Clone(e.data), true, nil
}

// Set stores a copy of data and evicts old entries beyond the budget.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.remove(key)
	if int64(len(data)) > c.maxBytes {
		return nil
	}

	e := memoryEntry{data: bytes.Clone(data)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries.Set(key, e)
	c.size += int64(len(data))

	for c.size > c.maxBytes {
		oldest := c.entries.Oldest()
		if oldest == nil {
			break
		}
		size := len(oldest.Value.data)
		c.remove(oldest.Key)
		observability.Cache().OnCacheEvict(ctx, oldest.Key, size)
	}
	return nil
}

// Delete removes a value.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(key)
	return nil
}

// Close drops every entry.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = orderedmap.New[string, memoryEntry]()
	c.size = 0
	return nil
}

// Len returns the number of stored entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Size returns the total bytes of stored values.
func (c *MemoryCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// remove must be called with mu held.
func (c *MemoryCache) remove(key string) {
	if e, ok := c.entries.Delete(key); ok {
		c.size -= int64(len(e.data))
	}
}

var _ Cache = (*MemoryCache)(nil)
