package ingest

import (
	"bytes"
	"encoding/json"
	"maps"

	"github.com/cloudydeno/module-visualizer/pkg/errors"
	"github.com/cloudydeno/module-visualizer/pkg/modmap"
)

// File is one reported source file.
type File struct {
	URL string
	modmap.RawFile
}

// RawGraph is the complete upstream report: entry point, files in report
// order, and the redirect table.
type RawGraph struct {
	RootURL   string
	Files     []File
	Redirects map[string]string
}

// Parse decodes a `deno info --json` report.
func Parse(data []byte) (*RawGraph, error) {
	if len(data) == 0 || data[0] != '{' {
		return nil, errors.New(errors.ErrCodeBadUpstream, "expected JSON from deno info, got %q", preview(data))
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBadUpstream, err, "decode deno info output")
	}
	g := FromInfo(&info)
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// FromInfo flattens a decoded report. Every dependency is expanded into
// its code and type targets; a target that failed to load, either on the
// edge itself or as a module of the report, carries that error.
func FromInfo(info *Info) *RawGraph {
	failed := make(map[string]string)
	for _, mod := range info.Modules {
		if mod.Error != "" {
			failed[mod.Specifier] = mod.Error
		}
	}

	g := &RawGraph{
		RootURL:   info.RootURL(),
		Redirects: info.Redirects,
		Files:     make([]File, 0, len(info.Modules)),
	}
	for _, mod := range info.Modules {
		f := File{URL: mod.Specifier}
		if mod.Error != "" {
			f.Error = mod.Error
			g.Files = append(g.Files, f)
			continue
		}

		f.Size = mod.Size
		seen := make(map[string]bool)
		add := func(r *Resolved) {
			u := r.url()
			if u == "" || seen[u] {
				return
			}
			seen[u] = true
			dep := modmap.Dependency{URL: u, Error: r.err()}
			if dep.Error == "" {
				dep.Error = failed[g.resolve(u)]
			}
			f.Deps = append(f.Deps, dep)
		}
		for _, d := range mod.Dependencies {
			add(d.Code)
			add(d.Type)
		}
		if mod.TypesDependency != nil {
			add(mod.TypesDependency.Dependency)
		}
		g.Files = append(g.Files, f)
	}
	return g
}

// Validate checks that the root is set and present among the files,
// possibly through a redirect.
func (g *RawGraph) Validate() error {
	if g.RootURL == "" {
		return errors.New(errors.ErrCodeBadUpstream, "report has no root module")
	}
	root := g.resolve(g.RootURL)
	for _, f := range g.Files {
		if f.URL == root || f.URL == g.RootURL {
			return nil
		}
	}
	return errors.New(errors.ErrCodeBadUpstream, "root module %q not found among %d reported modules", g.RootURL, len(g.Files))
}

// resolve follows the redirect table a bounded number of times.
func (g *RawGraph) resolve(u string) string {
	for range 10 {
		next, ok := g.Redirects[u]
		if !ok || next == u {
			break
		}
		u = next
	}
	return u
}

// Build validates g and constructs the normalized map. opts.Redirects is
// extended with the report's redirect table.
func Build(g *RawGraph, opts modmap.Options) (*modmap.Map, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if len(g.Redirects) > 0 {
		merged := make(map[string]string, len(opts.Redirects)+len(g.Redirects))
		maps.Copy(merged, opts.Redirects)
		maps.Copy(merged, g.Redirects)
		opts.Redirects = merged
	}

	m := modmap.New(opts)
	m.SetMainURL(g.RootURL)
	for _, f := range g.Files {
		m.IngestFile(f.URL, f.RawFile)
	}
	m.Normalize()
	return m, nil
}

// Load parses a report and builds its map.
func Load(data []byte, opts modmap.Options) (*modmap.Map, error) {
	g, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Build(g, opts)
}

func preview(data []byte) string {
	const limit = 40
	data = bytes.TrimSpace(data)
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}
