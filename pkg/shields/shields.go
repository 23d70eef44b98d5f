// Package shields builds shields.io endpoint badges describing a module
// graph.
//
// Each badge is the JSON document shields.io's endpoint badge expects
// (https://shields.io/endpoint), so a README can embed e.g.
//
//	https://img.shields.io/endpoint?url=https://host/shields/dep-count/x/oak/mod.ts
package shields

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cloudydeno/module-visualizer/pkg/errors"
	"github.com/cloudydeno/module-visualizer/pkg/integrations/denoland"
	"github.com/cloudydeno/module-visualizer/pkg/integrations/npm"
	"github.com/cloudydeno/module-visualizer/pkg/modmap"
	"github.com/cloudydeno/module-visualizer/pkg/pipeline"
	"github.com/cloudydeno/module-visualizer/pkg/render"
)

// Badge identifiers, as used in request paths.
const (
	DepCountID      = "dep-count"
	UpdatesID       = "updates"
	CacheSizeID     = "cache-size"
	LatestVersionID = "latest-version"

	// SetupID is the HTML page listing a module's badges.
	SetupID = "setup"
)

const (
	graphCacheAge   = 4 * time.Hour
	versionCacheAge = time.Hour
)

// Badge is a shields.io endpoint document.
type Badge struct {
	SchemaVersion int    `json:"schemaVersion"`
	Label         string `json:"label"`
	Message       string `json:"message"`
	Color         string `json:"color"`
	NamedLogo     string `json:"namedLogo,omitempty"`
	IsError       bool   `json:"isError,omitempty"`
	CacheSeconds  int    `json:"cacheSeconds"`
}

func newBadge(label, message string, age time.Duration) Badge {
	return Badge{
		SchemaVersion: 1,
		Label:         label,
		Message:       message,
		Color:         "informational",
		CacheSeconds:  int(age.Seconds()),
	}
}

// DepCount counts the modules m depends on, excluding the main module.
func DepCount(m *modmap.Map) Badge {
	n := max(m.Len()-1, 0)
	return newBadge("dependencies", strconv.Itoa(n), graphCacheAge)
}

// CacheSize reports the total bytes of source in m.
func CacheSize(m *modmap.Map) Badge {
	return newBadge("install size", render.HumanSize(m.TotalSize()), graphCacheAge)
}

// LatestVersion reports the newest release of a deno.land/x module.
func LatestVersion(version string) Badge {
	b := newBadge("deno.land/x", version, versionCacheAge)
	b.NamedLogo = "deno"
	return b
}

// ErrorBadge reports a failure. The message is the error code so that
// badges never leak upstream output.
func ErrorBadge(err error) Badge {
	msg := string(errors.GetCode(err))
	if msg == "" {
		msg = "Error"
	}
	return Badge{
		SchemaVersion: 1,
		Label:         "badge failed",
		Message:       msg,
		Color:         "inactive",
		IsError:       true,
		CacheSeconds:  int(graphCacheAge.Seconds()),
	}
}

// Grapher computes the Module Map of a module URL.
type Grapher interface {
	Compute(ctx context.Context, moduleURL string, opts pipeline.Options) (*modmap.Map, error)
}

// VersionLookup lists the releases of a deno.land module.
type VersionLookup interface {
	LatestVersion(ctx context.Context, name string, refresh bool) (string, error)
	FetchVersions(ctx context.Context, name string, refresh bool) (*denoland.Versions, error)
}

// TagLookup lists the tags of a GitHub repository, newest first.
type TagLookup interface {
	Tags(ctx context.Context, owner, repo string, refresh bool) ([]string, error)
}

// PackageRegistry checks npm packages.
type PackageRegistry interface {
	DistTags(ctx context.Context, pkg string, refresh bool) (map[string]string, error)
	Audit(ctx context.Context, packages map[string]string) (*npm.Vulnerabilities, error)
}

// Service computes badges for resolved modules. Versions, Tags and
// Packages are only needed by the badges that query upstream registries.
type Service struct {
	Graphs   Grapher
	Versions VersionLookup
	Tags     TagLookup
	Packages PackageRegistry
}

// Supports reports whether id names a badge that applies to slug.
func Supports(id, slug string) bool {
	switch id {
	case DepCountID, UpdatesID, CacheSizeID:
		return true
	case LatestVersionID:
		return strings.HasPrefix(slug, "x/")
	}
	return false
}

// Badge computes badge id for the module at moduleURL, reached via slug.
// Unsupported combinations are NOT_FOUND.
func (s *Service) Badge(ctx context.Context, id, slug, moduleURL string) (Badge, error) {
	if !Supports(id, slug) {
		return Badge{}, errors.New(errors.ErrCodeNotFound, "no %q badge for %s", id, slug)
	}

	if id == LatestVersionID {
		if s.Versions == nil {
			return Badge{}, errors.New(errors.ErrCodeUnsupported, "version lookups are not configured")
		}
		version, err := s.Versions.LatestVersion(ctx, ModuleName(slug), false)
		if err != nil {
			return Badge{}, errors.Wrap(errors.ErrCodeUpstreamFailed, err, "latest version of %s", slug)
		}
		return LatestVersion(version), nil
	}

	m, err := s.Graphs.Compute(ctx, moduleURL, pipeline.Options{})
	if err != nil {
		return Badge{}, err
	}
	switch id {
	case DepCountID:
		return DepCount(m), nil
	case UpdatesID:
		return s.Updates(ctx, m)
	}
	return CacheSize(m), nil
}

// Endpoint is one badge as offered on the setup page.
type Endpoint struct {
	ID string
	// URL serves the badge JSON.
	URL string
	// Image is the shields.io rendering of URL.
	Image string
	// Markdown embeds Image linked to the module's graph page.
	Markdown string
}

// Endpoints lists the badges available for slug, served from origin
// (scheme and host, no trailing slash).
func Endpoints(origin, slug string) []Endpoint {
	graph := origin + "/dependencies-of/" + slug
	var out []Endpoint
	for _, id := range []string{DepCountID, UpdatesID, CacheSizeID, LatestVersionID} {
		if !Supports(id, slug) {
			continue
		}
		u := origin + "/shields/" + id + "/" + slug
		img := "https://img.shields.io/endpoint?url=" + url.QueryEscape(u)
		out = append(out, Endpoint{
			ID:       id,
			URL:      u,
			Image:    img,
			Markdown: "[![" + id + "](" + img + ")](" + graph + ")",
		})
	}
	return out
}

// ModuleName extracts the deno.land/x module name from an x/ slug:
// "x/oak@v12.6.1/mod.ts" is "oak".
func ModuleName(slug string) string {
	rest := strings.TrimPrefix(slug, "x/")
	name, _, _ := strings.Cut(rest, "/")
	name, _, _ = strings.Cut(name, "@")
	return name
}
