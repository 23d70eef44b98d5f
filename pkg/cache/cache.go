// Package cache stores raw module graphs and rendered artifacts between
// requests.
//
// The graph engine itself never caches; a [Cache] is handed to the graph
// source and the pipeline runner, which decide what to keep. Four
// backends are provided:
//
//   - [NullCache] stores nothing.
//   - [MemoryCache] keeps entries in process, evicting the oldest
//     insertions once a total byte budget is exceeded.
//   - [FileCache] keeps JSON envelopes on disk, for the CLI.
//   - [RedisCache] shares entries between server replicas.
//
// Keys are built by a [Keyer] so every component agrees on naming:
//
//	k := cache.NewDefaultKeyer()
//	k.GraphKey("https://deno.land/x/oak/mod.ts") // "graph:<sha256>"
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer names cache entries.
type Keyer interface {
	// HTTPKey names a cached HTTP response body.
	HTTPKey(namespace, key string) string

	// GraphKey names the raw graph report of a module.
	GraphKey(moduleURL string) string

	// ArtifactKey names a serialized or rendered output of a module.
	ArtifactKey(moduleURL string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts lists everything that changes a rendered output.
type ArtifactKeyOpts struct {
	Format       string `json:"format"`
	Pretty       bool   `json:"pretty,omitempty"`
	IsolateStd   bool   `json:"isolate_std,omitempty"`
	IsolateFiles bool   `json:"isolate_files,omitempty"`
	RankDir      string `json:"rankdir,omitempty"`
	Font         string `json:"font,omitempty"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// GraphKey returns "graph:" followed by the SHA-256 of the URL.
func (DefaultKeyer) GraphKey(moduleURL string) string {
	return "graph:" + Hash([]byte(moduleURL))
}

// ArtifactKey hashes the URL together with the output options.
func (DefaultKeyer) ArtifactKey(moduleURL string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", moduleURL, opts)
}

var _ Keyer = DefaultKeyer{}
