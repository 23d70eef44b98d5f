// Package pipeline turns a module URL into a serialized or rendered
// dependency graph.
//
// The CLI, the HTTP server and the MCP server all go through the same
// [Runner], so options are parsed, validated and cached the same way
// regardless of the entry point.
//
// # Stages
//
//  1. Fetch: ask a [source.Source] for the raw graph report
//  2. Compute: ingest the report into a normalized [modmap.Map]
//  3. Encode: serialize the map as DOT or JSON
//  4. Rasterize: optionally render the DOT through Graphviz
//
// # Usage
//
//	runner := pipeline.NewRunner(src, cache, nil, logger)
//	opts := pipeline.FromQuery(r.URL.Query())
//	res, err := runner.Execute(ctx, "https://deno.land/x/oak/mod.ts", opts)
//	if err != nil {
//	    return err
//	}
//	w.Header().Set("Content-Type", res.ContentType)
//	w.Write(res.Output)
package pipeline

import (
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cloudydeno/module-visualizer/pkg/cache"
	"github.com/cloudydeno/module-visualizer/pkg/errors"
	"github.com/cloudydeno/module-visualizer/pkg/modmap"
	"github.com/cloudydeno/module-visualizer/pkg/registry"
	"github.com/cloudydeno/module-visualizer/pkg/render"
)

const (
	// DefaultFormat is used when no format is requested.
	DefaultFormat = render.FormatDOT

	// DefaultArtifactTTL bounds how long an encoded output is reused.
	DefaultArtifactTTL = time.Hour

	// RendererInteractive asks HTML front ends to draw the graph in the
	// browser instead of embedding a server-rendered SVG.
	RendererInteractive = "interactive"
)

// ValidFormats is the set of formats [Runner.Execute] can produce.
var ValidFormats = map[string]bool{
	render.FormatDOT:  true,
	render.FormatJSON: true,
	render.FormatSVG:  true,
	render.FormatPNG:  true,
	render.FormatJPEG: true,
	"jpeg":            true,
}

// Options is the request-level options bag shared by every front end.
type Options struct {
	// Format is the output format. Text formats are "dot" and "json";
	// "svg", "png", "jpg" and "jpeg" rasterize the DOT output.
	Format string `json:"format,omitempty"`

	Pretty       bool   `json:"pretty,omitempty"`
	IsolateStd   bool   `json:"isolate_std,omitempty"`
	IsolateFiles bool   `json:"isolate_files,omitempty"`
	RankDir      string `json:"rankdir,omitempty"`
	Font         string `json:"font,omitempty"`

	// Renderer only affects HTML pages.
	Renderer string `json:"renderer,omitempty"`

	// Refresh skips the artifact cache for this request.
	Refresh bool `json:"refresh,omitempty"`

	validated bool
}

// Result is the output of one [Runner.Execute] call.
type Result struct {
	// Map is nil when the output came from the artifact cache.
	Map         *modmap.Map
	Output      []byte
	ContentType string
	Stats       Stats
	CacheHit    bool
}

// Stats describes the computed graph and where time went.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	TotalSize   int64
	ComputeTime time.Duration
	RenderTime  time.Duration
}

// FromQuery reads options from URL query parameters. A present "pretty"
// key enables pretty output regardless of its value.
func FromQuery(q url.Values) Options {
	return Options{
		Format:       q.Get("format"),
		Pretty:       q.Has("pretty"),
		IsolateStd:   q.Get("std") == "isolate",
		IsolateFiles: q.Get("files") == "isolate",
		RankDir:      q.Get("rankdir"),
		Font:         q.Get("font"),
		Renderer:     q.Get("renderer"),
	}
}

// Query is the inverse of [FromQuery], omitting defaults.
func (o Options) Query() url.Values {
	q := url.Values{}
	if o.Format != "" {
		q.Set("format", o.Format)
	}
	if o.Pretty {
		q.Set("pretty", "")
	}
	if o.IsolateStd {
		q.Set("std", "isolate")
	}
	if o.IsolateFiles {
		q.Set("files", "isolate")
	}
	if o.RankDir != "" && o.RankDir != render.DefaultRankDir {
		q.Set("rankdir", o.RankDir)
	}
	if o.Font != "" {
		q.Set("font", o.Font)
	}
	if o.Renderer != "" {
		q.Set("renderer", o.Renderer)
	}
	return q
}

// ValidateFormat returns an INVALID_FORMAT error for unknown formats.
func ValidateFormat(format string) error {
	if format == "" || ValidFormats[format] {
		return nil
	}
	return render.CheckFormat(format)
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Renderer != "" && o.Renderer != RendererInteractive {
		return errors.New(errors.ErrCodeInvalidInput, "unsupported renderer %q", o.Renderer)
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.RankDir == "" {
		o.RankDir = render.DefaultRankDir
	}
	if o.Font == "" {
		o.Font = render.DefaultFont
	}
	o.validated = true
	return nil
}

// IsImage reports whether the output is rendered through Graphviz.
func (o *Options) IsImage() bool {
	return render.IsImageFormat(o.Format)
}

// TextFormat is the serializer format feeding the output: the requested
// format for text output, DOT for images.
func (o *Options) TextFormat() string {
	if o.IsImage() {
		return render.FormatDOT
	}
	if o.Format == "" {
		return DefaultFormat
	}
	return o.Format
}

// MapOptions returns the grouping options for the Module Map.
func (o *Options) MapOptions(moduleURL string, logger *log.Logger) modmap.Options {
	return modmap.Options{
		Options: registry.Options{
			MainModule:   moduleURL,
			IsolateStd:   o.IsolateStd,
			IsolateFiles: o.IsolateFiles,
		},
		Logger: logger,
	}
}

// RenderOptions returns the serializer options.
func (o *Options) RenderOptions() render.Options {
	return render.Options{
		RankDir: o.RankDir,
		Font:    o.Font,
		Pretty:  o.Pretty,
	}
}

// ArtifactKeyOpts returns cache key options for the output.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:       o.Format,
		Pretty:       o.Pretty,
		IsolateStd:   o.IsolateStd,
		IsolateFiles: o.IsolateFiles,
		RankDir:      o.RankDir,
		Font:         o.Font,
	}
}
