package registry

import (
	"net/url"
	"regexp"
	"strings"
)

// Options tunes how URLs are grouped into packages.
type Options struct {
	// MainModule is the root module URL; local file labels are relative to
	// its directory.
	MainModule string

	// IsolateStd keeps each folder of the standard library as its own
	// package instead of collapsing the whole library into one node.
	IsolateStd bool

	// IsolateFiles keeps every local file as its own package instead of
	// grouping local files by directory.
	IsolateFiles bool
}

// Identity returns the canonical base string for rawURL. Two URLs that
// belong to the same deployed package version share an identity.
func Identity(rawURL string, opts Options) string {
	p, ok := parse(rawURL)
	if !ok {
		return rawURL
	}
	if r := rules[p.kind]; r.identity != nil {
		if id, ok := r.identity(p, opts); ok {
			return id
		}
	}
	return identityFallback(p)
}

// identityFallback truncates after the first path segment carrying a
// version marker, or keeps the URL whole.
func identityFallback(p parsed) string {
	if !strings.Contains(p.u.Path, "@") {
		return p.raw
	}
	for i, part := range p.parts {
		if strings.Contains(part, "@") {
			return p.join(0, i+1)
		}
	}
	return p.raw
}

func identityVerbatim(p parsed, _ Options) (string, bool) {
	return p.raw, true
}

func identityLocalFile(p parsed, opts Options) (string, bool) {
	if opts.IsolateFiles || strings.HasSuffix(p.u.Path, "deps.ts") {
		return p.raw, true
	}
	return directoryOf(p.u), true
}

// directoryOf resolves "." against u, yielding its directory with a
// trailing slash.
func directoryOf(u *url.URL) string {
	return u.ResolveReference(&url.URL{Path: "."}).String()
}

func identityDenoLand(p parsed, opts Options) (string, bool) {
	if strings.HasPrefix(p.part(3), "std") && !opts.IsolateStd {
		return p.join(0, 4), true
	}
	return p.join(0, 5), true
}

func identityDenoCDN(p parsed, opts Options) (string, bool) {
	if p.part(3) == "std" && opts.IsolateStd {
		return p.join(0, 8), true
	}
	return p.join(0, 6), true
}

func identityCrux(p parsed, _ Options) (string, bool) {
	origin := p.u.Scheme + "://" + p.u.Host
	if len(p.parts) == 4 {
		return origin + "/" + p.part(3), true
	}
	name, _, _ := strings.Cut(p.part(5), ".")
	return origin + "/" + name, true
}

func identityEsmSh(p parsed, _ Options) (string, bool) {
	return p.join(0, 4+p.scoped(3)), true
}

func identityEsmCDN(p parsed, _ Options) (string, bool) {
	if strings.HasPrefix(p.part(4), "_") {
		return p.join(0, 4) + "/_internal", true
	}
	return p.join(0, 5+p.scoped(4)), true
}

func identityDreg(p parsed, _ Options) (string, bool) {
	if p.part(3) != "package" {
		return p.join(0, 4), true
	}
	return p.join(0, 5+p.scoped(4)), true
}

func identityGitHub(p parsed, _ Options) (string, bool) {
	return "https://raw.githubusercontent.com/" + p.part(3) + "/" + p.part(4) + "/" + p.part(6), true
}

func identityRawGitHub(p parsed, _ Options) (string, bool) {
	return p.join(0, 6), true
}

func identityGist(p parsed, _ Options) (string, bool) {
	return p.join(0, 7), true
}

func identityDenoPkg(p parsed, _ Options) (string, bool) {
	repo, version, _ := strings.Cut(p.part(4), "@")
	if version == "" {
		version = "master"
	}
	return "https://raw.githubusercontent.com/" + p.part(3) + "/" + repo + "/" + version, true
}

// skypackHash matches the build hash skypack appends to pinned versions.
var skypackHash = regexp.MustCompile(`([^/]+@[^/]+)-[^-]+$`)

// withSkypackDash inserts the "-" path segment pinned skypack URLs carry.
func withSkypackDash(parts []string) []string {
	if segment(parts, 3) == "-" {
		return parts
	}
	out := make([]string, 0, len(parts)+1)
	out = append(out, parts[:min(3, len(parts))]...)
	out = append(out, "-")
	if len(parts) > 3 {
		out = append(out, parts[3:]...)
	}
	return out
}

func identitySkypack(p parsed, _ Options) (string, bool) {
	parts := withSkypackDash(p.parts)
	n := 5
	if strings.HasPrefix(segment(parts, 4), "@") {
		n++
	}
	return skypackHash.ReplaceAllString(joinRange(parts, 0, n), "$1"), true
}

func identityPika(p parsed, _ Options) (string, bool) {
	parts := withSkypackDash(p.parts)
	n := 5
	if strings.HasPrefix(segment(parts, 4), "@") {
		n++
	}
	return "https://cdn.skypack.dev/" + joinRange(parts, 3, n), true
}

func identityJSPM(p parsed, _ Options) (string, bool) {
	parts := append([]string(nil), p.parts...)
	if len(parts) > 3 && !strings.Contains(parts[3], ":") {
		parts[3] = "npm:" + parts[3]
	}
	n := 4
	if strings.Contains(segment(parts, 3), ":@") {
		n++
	}
	path := joinRange(parts, 0, n)
	if i := strings.IndexAny(path, "?!"); i >= 0 {
		path = path[:i]
	}
	return path, true
}

func identityJSDelivr(p parsed, _ Options) (string, bool) {
	switch p.part(3) {
	case "gh":
		return p.join(0, 6), true
	case "npm":
		return p.join(0, 5+p.scoped(4)), true
	}
	return "", false
}

func identityUnpkg(p parsed, _ Options) (string, bool) {
	return p.join(0, 4+p.scoped(3)), true
}

func identityAWSAPI(p parsed, _ Options) (string, bool) {
	return p.join(0, 5), true
}

func identityFirstSegment(p parsed, _ Options) (string, bool) {
	return p.join(0, 4), true
}
