package registry

import (
	"net/url"
	"strings"
)

// Kind enumerates the registries the classifier knows about.
type Kind int

const (
	KindUnknown     Kind = iota // https host without a dedicated rule
	KindNonHTTPS                // http:, data:, node:, npm: and friends
	KindLocalFile               // file: URLs
	KindDenoLand                // deno.land/std and deno.land/x
	KindDenoCDN                 // cdn.deno.land
	KindCrux                    // crux.land
	KindEsmSh                   // esm.sh
	KindEsmCDN                  // cdn.esm.sh
	KindDreg                    // cdn.dreg.dev
	KindGitHub                  // github.com, rewritten to raw content
	KindRawGitHub               // raw.githubusercontent.com
	KindGist                    // gist.githubusercontent.com
	KindDenoPkg                 // denopkg.com, rewritten to raw content
	KindSkypack                 // cdn.skypack.dev
	KindPika                    // cdn.pika.dev, rewritten to skypack
	KindJSPM                    // dev.jspm.io and jspm.dev
	KindJSDelivr                // cdn.jsdelivr.net
	KindUnpkg                   // unpkg.com and cdn.pagic.org
	KindAWSAPI                  // aws-api.deno.dev
	KindGitHubPages             // *.github.io
	KindArweave                 // *.arweave.net
)

var kindNames = map[Kind]string{
	KindUnknown:     "unknown",
	KindNonHTTPS:    "non-https",
	KindLocalFile:   "file",
	KindDenoLand:    "deno.land",
	KindDenoCDN:     "cdn.deno.land",
	KindCrux:        "crux.land",
	KindEsmSh:       "esm.sh",
	KindEsmCDN:      "cdn.esm.sh",
	KindDreg:        "cdn.dreg.dev",
	KindGitHub:      "github.com",
	KindRawGitHub:   "raw.githubusercontent.com",
	KindGist:        "gist.githubusercontent.com",
	KindDenoPkg:     "denopkg.com",
	KindSkypack:     "cdn.skypack.dev",
	KindPika:        "cdn.pika.dev",
	KindJSPM:        "jspm",
	KindJSDelivr:    "cdn.jsdelivr.net",
	KindUnpkg:       "unpkg",
	KindAWSAPI:      "aws-api.deno.dev",
	KindGitHubPages: "github.io",
	KindArweave:     "arweave.net",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

var hostKinds = map[string]Kind{
	"deno.land":                  KindDenoLand,
	"cdn.deno.land":              KindDenoCDN,
	"crux.land":                  KindCrux,
	"esm.sh":                     KindEsmSh,
	"cdn.esm.sh":                 KindEsmCDN,
	"cdn.dreg.dev":               KindDreg,
	"github.com":                 KindGitHub,
	"raw.githubusercontent.com":  KindRawGitHub,
	"gist.githubusercontent.com": KindGist,
	"denopkg.com":                KindDenoPkg,
	"cdn.skypack.dev":            KindSkypack,
	"cdn.pika.dev":               KindPika,
	"dev.jspm.io":                KindJSPM,
	"jspm.dev":                   KindJSPM,
	"cdn.jsdelivr.net":           KindJSDelivr,
	"cdn.pagic.org":              KindUnpkg,
	"unpkg.com":                  KindUnpkg,
	"aws-api.deno.dev":           KindAWSAPI,
}

// Classify reports which registry serves rawURL.
func Classify(rawURL string) Kind {
	p, ok := parse(rawURL)
	if !ok {
		return KindUnknown
	}
	return p.kind
}

func kindOf(u *url.URL) Kind {
	switch u.Scheme {
	case "file":
		return KindLocalFile
	case "https":
	default:
		return KindNonHTTPS
	}
	if k, ok := hostKinds[strings.ToLower(u.Host)]; ok {
		return k
	}
	hostname := strings.ToLower(u.Hostname())
	switch {
	case strings.HasSuffix(hostname, ".github.io"):
		return KindGitHubPages
	case strings.HasSuffix(hostname, ".arweave.net"):
		return KindArweave
	}
	return KindUnknown
}

// parsed is a URL split the way the rules consume it: parts is the raw
// string split on "/", so parts[2] is the host and parts[3] the first
// path segment.
type parsed struct {
	raw   string
	u     *url.URL
	kind  Kind
	parts []string
}

func parse(rawURL string) (parsed, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return parsed{raw: rawURL}, false
	}
	return parsed{
		raw:   rawURL,
		u:     u,
		kind:  kindOf(u),
		parts: strings.Split(rawURL, "/"),
	}, true
}

// part returns parts[i], or "" when i is out of range.
func (p parsed) part(i int) string {
	return segment(p.parts, i)
}

// join joins parts[from:to], clipping to to the available range.
func (p parsed) join(from, to int) string {
	return joinRange(p.parts, from, to)
}

// scoped returns 1 when parts[i] is an npm-style scope ("@scope").
func (p parsed) scoped(i int) int {
	if strings.HasPrefix(p.part(i), "@") {
		return 1
	}
	return 0
}

func segment(parts []string, i int) string {
	if i < 0 || i >= len(parts) {
		return ""
	}
	return parts[i]
}

func joinRange(parts []string, from, to int) string {
	if to > len(parts) {
		to = len(parts)
	}
	if from >= to {
		return ""
	}
	return strings.Join(parts[from:to], "/")
}
