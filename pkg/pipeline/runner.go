package pipeline

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/cloudydeno/module-visualizer/pkg/cache"
	"github.com/cloudydeno/module-visualizer/pkg/errors"
	"github.com/cloudydeno/module-visualizer/pkg/ingest"
	"github.com/cloudydeno/module-visualizer/pkg/modmap"
	"github.com/cloudydeno/module-visualizer/pkg/observability"
	"github.com/cloudydeno/module-visualizer/pkg/render"
	"github.com/cloudydeno/module-visualizer/pkg/source"
)

// Runner executes the pipeline with artifact caching. Concurrent requests
// for the same module share one fetch.
type Runner struct {
	Source source.Source
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// ArtifactTTL is how long encoded outputs are kept. Zero uses
	// DefaultArtifactTTL.
	ArtifactTTL time.Duration

	fetches singleflight.Group
}

// NewRunner creates a pipeline runner.
// If c is nil, a NullCache is used (no caching).
// If keyer is nil, the default keyer is used.
// If logger is nil, log.Default() is used.
func NewRunner(src source.Source, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Source:      src,
		Cache:       c,
		Keyer:       keyer,
		Logger:      logger,
		ArtifactTTL: DefaultArtifactTTL,
	}
}

// Execute produces the output for moduleURL described by opts. Options
// are validated before any fetch happens.
func (r *Runner) Execute(ctx context.Context, moduleURL string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := errors.ValidateModuleURL(moduleURL); err != nil {
		return nil, err
	}

	key := r.Keyer.ArtifactKey(moduleURL, opts.ArtifactKeyOpts())
	cacheable := !opts.Refresh && !strings.HasPrefix(moduleURL, "file:")
	if cacheable {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			r.Logger.Debug("artifact cache hit", "module", moduleURL, "format", opts.Format)
			return &Result{Output: data, ContentType: render.ContentType(opts.Format), CacheHit: true}, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	result := &Result{ContentType: render.ContentType(opts.Format)}

	start := time.Now()
	m, err := r.Compute(ctx, moduleURL, opts)
	if err != nil {
		return nil, err
	}
	result.Map = m
	result.Stats = Stats{
		NodeCount:   m.Len(),
		EdgeCount:   m.EdgeCount(),
		TotalSize:   m.TotalSize(),
		ComputeTime: time.Since(start),
	}

	start = time.Now()
	out, err := r.Render(ctx, m, opts)
	if err != nil {
		return nil, err
	}
	result.Output = out
	result.Stats.RenderTime = time.Since(start)

	if cacheable {
		ttl := r.ArtifactTTL
		if ttl == 0 {
			ttl = DefaultArtifactTTL
		}
		if err := r.Cache.Set(ctx, key, out, ttl); err != nil {
			r.Logger.Warn("artifact cache write failed", "module", moduleURL, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(out))
		}
	}
	return result, nil
}

// Compute fetches the raw graph of moduleURL and builds its normalized map.
func (r *Runner) Compute(ctx context.Context, moduleURL string, opts Options) (m *modmap.Map, err error) {
	hooks := observability.Pipeline()
	hooks.OnComputeStart(ctx, moduleURL)
	start := time.Now()
	defer func() {
		nodes := 0
		if m != nil {
			nodes = m.Len()
		}
		hooks.OnComputeComplete(ctx, moduleURL, nodes, time.Since(start), err)
	}()

	if r.Source == nil {
		return nil, errors.New(errors.ErrCodeInternal, "pipeline has no graph source")
	}

	data, err := r.fetch(ctx, moduleURL)
	if err != nil {
		return nil, err
	}
	m, err = ingest.Load(data, opts.MapOptions(moduleURL, r.Logger))
	if err != nil {
		return nil, err
	}
	r.Logger.Info("computed graph",
		"module", moduleURL,
		"nodes", m.Len(),
		"edges", m.EdgeCount(),
		"duration", time.Since(start))
	return m, nil
}

// fetch collapses concurrent fetches of the same module into one call.
// Each caller still builds its own map since maps are not shared.
func (r *Runner) fetch(ctx context.Context, moduleURL string) ([]byte, error) {
	ch := r.fetches.DoChan(moduleURL, func() (any, error) {
		return r.Source.Fetch(context.WithoutCancel(ctx), moduleURL)
	})
	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "computing %s", moduleURL)
		}
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			r.Logger.Debug("shared in-flight fetch", "module", moduleURL)
		}
		return res.Val.([]byte), nil
	}
}

// Render encodes m in the output format of opts.
func (r *Runner) Render(ctx context.Context, m *modmap.Map, opts Options) (out []byte, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Format)
	start := time.Now()
	defer func() {
		hooks.OnRenderComplete(ctx, opts.Format, len(out), time.Since(start), err)
	}()

	var buf bytes.Buffer
	if err := render.Encode(&buf, m, opts.TextFormat(), opts.RenderOptions()); err != nil {
		return nil, err
	}
	if !opts.IsImage() {
		return buf.Bytes(), nil
	}

	out, err = render.Rasterize(ctx, buf.Bytes(), opts.Format)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("rasterized graph", "format", opts.Format, "bytes", len(out), "duration", time.Since(start))
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
