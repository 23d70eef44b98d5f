package registry

import (
	"regexp"
	"strings"
)

// CSS color names used as node fill colors.
const (
	ColorDenoStd     = "lightgreen"
	ColorDenoX       = "lightskyblue"
	ColorCrux        = "greenyellow"
	ColorEsmCDN      = "blanchedalmond"
	ColorEsmSh       = "burlywood"
	ColorDreg        = "wheat"
	ColorRawGitHub   = "chocolate"
	ColorGist        = "violet"
	ColorSkypack     = "darkturquoise"
	ColorJSPM        = "palevioletred"
	ColorPagic       = "rosybrown"
	ColorJSDelivr    = "yellowgreen"
	ColorUnpkg       = "rosybrown"
	ColorGitHubPages = "lightsalmon"
	ColorAWSAPI      = "darkorange"
	ColorError       = "salmon"
	ColorUnknown     = "silver"
)

// ColorEntry pairs a registry (or category) name with its fill color.
type ColorEntry struct {
	Key   string `json:"key"`
	Color string `json:"color"`
}

// IsRegistry reports whether the entry names a host rather than a
// category such as "error".
func (e ColorEntry) IsRegistry() bool {
	return strings.Contains(e.Key, ".")
}

// ColorKey is the legend for node colors, in display order.
var ColorKey = []ColorEntry{
	{"deno.land/std", ColorDenoStd},
	{"deno.land/x", ColorDenoX},
	{"crux.land", ColorCrux},
	{"cdn.esm.sh", ColorEsmCDN},
	{"esm.sh", ColorEsmSh},
	{"cdn.dreg.dev", ColorDreg},
	{"raw.githubusercontent.com", ColorRawGitHub},
	{"gist.githubusercontent.com", ColorGist},
	{"cdn.skypack.dev", ColorSkypack},
	{"dev.jspm.io", ColorJSPM},
	{"jspm.dev", ColorJSPM},
	{"cdn.pagic.org", ColorPagic},
	{"cdn.jsdelivr.net", ColorJSDelivr},
	{"unpkg.com", ColorUnpkg},
	{"github.io", ColorGitHubPages},
	{"aws-api.deno.dev", ColorAWSAPI},
	{"error", ColorError},
	{"unknown", ColorUnknown},
}

// FragmentError marks nodes that hold failed resolutions.
const FragmentError = "#error"

// Attrs holds presentation attributes for a node.
type Attrs struct {
	FillColor string
	Href      string
}

// Map returns the attributes keyed by their Graphviz names. Empty values
// are left out.
func (a Attrs) Map() map[string]string {
	m := make(map[string]string, 2)
	if a.FillColor != "" {
		m["fillcolor"] = a.FillColor
	}
	if a.Href != "" {
		m["href"] = a.Href
	}
	return m
}

// AttrsOf returns the fill color and deep link for m. Error nodes always
// get the error color and no link.
func AttrsOf(m Module) Attrs {
	if m.Fragment == FragmentError {
		return Attrs{FillColor: ColorError}
	}
	p, ok := parse(m.Base)
	if !ok {
		return Attrs{FillColor: ColorUnknown}
	}
	if r := rules[p.kind]; r.attrs != nil {
		if a, ok := r.attrs(p, m.Base); ok {
			return a
		}
	}
	return Attrs{FillColor: ColorUnknown}
}

// pathParts splits the URL path, so pathParts[1] is the first segment.
func pathParts(p parsed) []string {
	return strings.Split(p.u.Path, "/")
}

// pathFrom returns the path with its first n bytes removed.
func pathFrom(p parsed, n int) string {
	if n >= len(p.u.Path) {
		return ""
	}
	return p.u.Path[n:]
}

func attrsDenoLand(p parsed, base string) (Attrs, bool) {
	if strings.HasPrefix(p.u.Path, "/std") {
		return Attrs{FillColor: ColorDenoStd, Href: base}, true
	}
	return Attrs{FillColor: ColorDenoX, Href: base}, true
}

func attrsSelfLink(color string) func(parsed, string) (Attrs, bool) {
	return func(_ parsed, base string) (Attrs, bool) {
		return Attrs{FillColor: color, Href: base}, true
	}
}

func attrsRawGitHub(p parsed, _ string) (Attrs, bool) {
	pp := pathParts(p)
	href := "https://github.com/" + segment(pp, 1) + "/" + segment(pp, 2) + "/tree/" + segment(pp, 3)
	return Attrs{FillColor: ColorRawGitHub, Href: href}, true
}

func attrsGist(p parsed, _ string) (Attrs, bool) {
	pp := pathParts(p)
	href := "https://gist.github.com/" + segment(pp, 1) + "/" + segment(pp, 2) + "/" + segment(pp, 4)
	return Attrs{FillColor: ColorGist, Href: href}, true
}

func attrsEsmCDN(p parsed, _ string) (Attrs, bool) {
	pp := pathParts(p)
	return Attrs{FillColor: ColorEsmCDN, Href: NpmHref(joinRange(pp, 2, len(pp)))}, true
}

func attrsEsmSh(p parsed, _ string) (Attrs, bool) {
	return Attrs{FillColor: ColorEsmSh, Href: NpmHref(pathFrom(p, 1))}, true
}

func attrsDreg(p parsed, _ string) (Attrs, bool) {
	pp := pathParts(p)
	return Attrs{FillColor: ColorDreg, Href: NpmHref(joinRange(pp, 2, len(pp)))}, true
}

func attrsSkypack(p parsed, _ string) (Attrs, bool) {
	return Attrs{FillColor: ColorSkypack, Href: NpmHref(pathFrom(p, 3))}, true
}

func attrsJSPM(p parsed, _ string) (Attrs, bool) {
	return Attrs{FillColor: ColorJSPM, Href: NpmHref(pathFrom(p, 5))}, true
}

func attrsJSDelivr(p parsed, _ string) (Attrs, bool) {
	pp := pathParts(p)
	switch segment(pp, 1) {
	case "gh":
		repo, ver, _ := strings.Cut(segment(pp, 3), "@")
		href := "https://github.com/" + segment(pp, 2) + "/" + repo
		if ver != "" {
			href += "/tree/" + ver
		}
		return Attrs{FillColor: ColorJSDelivr, Href: href}, true
	case "npm":
		return Attrs{FillColor: ColorJSDelivr, Href: NpmHref(pathFrom(p, 5))}, true
	}
	return Attrs{}, false
}

func attrsUnpkg(p parsed, _ string) (Attrs, bool) {
	color := ColorUnpkg
	if strings.EqualFold(p.u.Host, "cdn.pagic.org") {
		color = ColorPagic
	}
	return Attrs{FillColor: color, Href: NpmHref(pathFrom(p, 1))}, true
}

func attrsGitHubPages(p parsed, _ string) (Attrs, bool) {
	user, _, _ := strings.Cut(p.u.Hostname(), ".")
	href := "https://github.com/" + user + "/" + segment(pathParts(p), 1)
	return Attrs{FillColor: ColorGitHubPages, Href: href}, true
}

var npmVersionSep = regexp.MustCompile(`@v?`)

// NpmHref builds the npmjs.com page for a package id such as
// "@scope/name@1.2.3" or "name@v4". Internal ids (leading "_") and empty
// ids yield "".
func NpmHref(id string) string {
	if id == "" || strings.HasPrefix(id, "_") {
		return ""
	}
	var href string
	if rest, ok := strings.CutPrefix(id, "@"); ok {
		name, _, _ := strings.Cut(rest, "@")
		href = "https://www.npmjs.com/package/@" + name
	} else {
		name, _, _ := strings.Cut(id, "@")
		href = "https://www.npmjs.com/package/" + name
	}
	if parts := npmVersionSep.Split(id[1:], -1); len(parts) > 1 {
		href += "/v/" + parts[1]
	}
	return href
}
