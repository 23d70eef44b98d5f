package shields

import (
	"context"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cloudydeno/module-visualizer/pkg/errors"
	"github.com/cloudydeno/module-visualizer/pkg/modmap"
)

const (
	updatesCacheAge = 2 * time.Hour

	// stdRecentReleases is how many of the newest std releases still
	// count as current.
	stdRecentReleases = 5

	lookupConcurrency = 8
)

// Hosts of the deep links produced by the registry classifier.
const (
	hostDenoLand = "deno.land"
	hostGitHub   = "github.com"
	hostNpm      = "www.npmjs.com"
)

// Updates audits the npm packages in m and reports whether the direct
// dependencies of the main module are on current releases.
func (s *Service) Updates(ctx context.Context, m *modmap.Map) (Badge, error) {
	if s.Versions == nil || s.Tags == nil || s.Packages == nil {
		return Badge{}, errors.New(errors.ErrCodeUnsupported, "update lookups are not configured")
	}
	root := m.Main()
	if root == nil {
		return Badge{}, errors.New(errors.ErrCodeInternal, "graph has no main module")
	}

	pureDeno := true
	packages := make(map[string]string)
	for _, n := range m.Nodes() {
		l := parseLink(m.Attrs(n).Href)
		if l.host == "" {
			pureDeno = false
			continue
		}
		if l.host == hostDenoLand {
			continue
		}
		if n != root {
			pureDeno = false
		}
		if pkg, version, ok := l.npmPackage(); ok && version != "" {
			packages[pkg] = version
		}
	}

	vulns, err := s.Packages.Audit(ctx, packages)
	if err != nil {
		return Badge{}, errors.Wrap(errors.ErrCodeUpstreamFailed, err, "npm audit")
	}
	if worst := vulns.Worst(); worst != "" {
		b := newBadge("dependencies", worst+" vulnerability", updatesCacheAge)
		b.Color = "red"
		b.NamedLogo = "npm"
		return b, nil
	}

	deps := root.DependsOn()
	links := make([]link, len(deps))
	for i, k := range deps {
		if dep := m.Get(k); dep != nil {
			links[i] = parseLink(m.Attrs(dep).Href)
		}
		switch links[i].host {
		case "", hostDenoLand, hostGitHub:
		default:
			pureDeno = false
		}
	}

	current := make([]bool, len(links))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, l := range links {
		g.Go(func() error {
			ok, err := s.isCurrent(gctx, l)
			current[i] = ok
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Badge{}, errors.Wrap(errors.ErrCodeUpstreamFailed, err, "dependency versions")
	}

	upToDate := 0
	for _, ok := range current {
		if ok {
			upToDate++
		}
	}
	fraction := 1.0
	if len(current) > 0 {
		fraction = float64(upToDate) / float64(len(current))
	}

	b := newBadge("dependencies", "up to date", updatesCacheAge)
	if fraction <= 0.75 {
		b.Message = "out of date"
	}
	switch {
	case fraction <= 0.5:
		b.Color = "red"
	case fraction <= 0.75:
		b.Color = "orange"
	case fraction < 1:
		b.Color = "yellow"
	default:
		b.Color = "green"
	}
	if pureDeno {
		b.NamedLogo = "deno"
	}
	return b, nil
}

// isCurrent decides whether the release behind l is the newest one.
// Links that cannot be checked count as current.
func (s *Service) isCurrent(ctx context.Context, l link) (bool, error) {
	switch l.host {
	case hostDenoLand:
		seg := l.segment(0)
		if seg == "x" {
			seg = l.segment(1)
		}
		name, version, _ := strings.Cut(seg, "@")
		v, err := s.Versions.FetchVersions(ctx, name, false)
		if err != nil {
			return false, err
		}
		if name == "std" {
			return slices.Contains(v.Versions[:min(stdRecentReleases, len(v.Versions))], version), nil
		}
		return version == v.Latest, nil

	case hostGitHub:
		owner, repo, ref := l.segment(0), l.segment(1), l.segment(3)
		tags, err := s.Tags.Tags(ctx, owner, repo, false)
		if err != nil {
			return false, err
		}
		// Branches and commits are not releases.
		return !slices.Contains(tags, ref) || tags[0] == ref, nil

	case hostNpm:
		pkg, version, _ := l.npmPackage()
		if version == "" {
			return true, nil
		}
		tags, err := s.Packages.DistTags(ctx, pkg, false)
		if err != nil {
			return false, err
		}
		for _, v := range tags {
			if v == version {
				return true, nil
			}
		}
		return false, nil
	}
	return true, nil
}

// link is a node's deep link split into host and path segments.
type link struct {
	host  string
	parts []string
}

func parseLink(href string) link {
	rest, ok := strings.CutPrefix(href, "https://")
	if !ok || rest == "" {
		return link{}
	}
	parts := strings.Split(rest, "/")
	return link{host: parts[0], parts: parts[1:]}
}

// segment returns path segment i, or "" past the end.
func (l link) segment(i int) string {
	if i < len(l.parts) {
		return l.parts[i]
	}
	return ""
}

// npmPackage reads "/package/<name>[/v/<version>]", where a scoped name
// spans two segments.
func (l link) npmPackage() (pkg, version string, ok bool) {
	if l.host != hostNpm || l.segment(0) != "package" {
		return "", "", false
	}
	rest := l.parts[1:]
	if len(rest) == 0 || rest[0] == "" {
		return "", "", false
	}
	pkg = rest[0]
	if strings.HasPrefix(pkg, "@") && len(rest) > 1 {
		pkg += "/" + rest[1]
		rest = rest[1:]
	}
	if len(rest) > 2 && rest[1] == "v" {
		version = rest[2]
	}
	return pkg, version, true
}
