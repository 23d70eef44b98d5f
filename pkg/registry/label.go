package registry

import (
	"fmt"
	"strings"
)

// Module is the view of a package node that labels and attributes are
// derived from.
type Module struct {
	Base     string   // canonical identity
	Fragment string   // "" or "#error"
	Files    []string // URLs of the constituent files, in ingest order
}

// Bullet prefixes enumerated sub-items inside a label.
const Bullet = "    • "

// Label returns one to three display lines for m.
func Label(m Module, opts Options) []string {
	p, ok := parse(m.Base)
	if !ok {
		return []string{m.Base}
	}
	if r := rules[p.kind]; r.label != nil {
		if lines, ok := r.label(p, m, opts); ok {
			return lines
		}
	}
	return []string{m.Base}
}

// maxWalkDepth bounds how many path components must remain when walking
// up from the main module's directory to find a common ancestor.
const maxWalkDepth = 5

func labelLocalFile(p parsed, _ Module, opts Options) ([]string, bool) {
	mainDir := opts.MainModule
	if mp, ok := parse(opts.MainModule); ok {
		mainDir = directoryOf(mp.u)
	}
	this := p.raw
	if strings.HasPrefix(this, mainDir) {
		return []string{"./" + this[len(mainDir):]}, true
	}

	dirs := strings.Split(mainDir, "/")
	dirs = dirs[:len(dirs)-1]
	for steps := 1; len(dirs) > maxWalkDepth; steps++ {
		last := dirs[len(dirs)-1]
		dirs = dirs[:len(dirs)-1]
		if last == "" {
			break
		}
		joined := strings.Join(dirs, "/")
		if strings.HasPrefix(this, joined+"/") {
			walkUp := strings.TrimSuffix(strings.Repeat("../", steps), "/")
			return []string{walkUp + "/" + this[len(joined)+1:]}, true
		}
	}
	return []string{this}, true
}

// folderBullets lists the distinct path segments at index seg across the
// module's files, in first-seen order.
func folderBullets(files []string, seg int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range files {
		folder := segment(strings.Split(f, "/"), seg)
		if seen[folder] {
			continue
		}
		seen[folder] = true
		out = append(out, Bullet+"/"+folder)
	}
	return out
}

func labelDenoLand(p parsed, m Module, opts Options) ([]string, bool) {
	lines := []string{"/" + p.join(3, len(p.parts))}
	if strings.HasPrefix(p.part(3), "std") && !opts.IsolateStd {
		lines = append(lines, folderBullets(m.Files, 4)...)
	}
	return lines, true
}

func labelDenoCDN(p parsed, m Module, opts Options) ([]string, bool) {
	name := "/" + p.part(3) + "@" + p.part(5)
	if p.part(3) != "std" {
		name = "/x" + name
	}
	if rest := p.join(7, len(p.parts)); rest != "" {
		name += "/" + rest
	}
	lines := []string{name, "from " + p.part(2)}
	if p.part(3) == "std" && !opts.IsolateStd {
		lines = append(lines, folderBullets(m.Files, 7)...)
	}
	return lines, true
}

func labelCrux(p parsed, _ Module, _ Options) ([]string, bool) {
	_, rest, _ := strings.Cut(p.raw, "//")
	return []string{rest}, true
}

// labelFromHost names the package by the path from segment i onwards and
// attributes it to the serving host.
func labelFromHost(i int) func(parsed, Module, Options) ([]string, bool) {
	return func(p parsed, _ Module, _ Options) ([]string, bool) {
		return []string{p.join(i, len(p.parts)), "from " + p.part(2)}, true
	}
}

func labelEsmCDN(p parsed, _ Module, _ Options) ([]string, bool) {
	return []string{p.join(4, len(p.parts)), "from " + p.part(2) + "/" + p.part(3)}, true
}

func labelDreg(p parsed, _ Module, _ Options) ([]string, bool) {
	if p.part(3) != "package" {
		return []string{p.join(0, 4)}, true
	}
	return []string{p.join(4, len(p.parts)), "from " + p.part(2)}, true
}

// longRef is the length from which a git ref is treated as a commit hash
// and put on its own line.
const longRef = 20

func labelRawGitHub(p parsed, _ Module, _ Options) ([]string, bool) {
	from := "from github.com/" + p.part(3)
	if len(p.part(5)) >= longRef {
		return []string{p.part(4), "  @ " + p.part(5), from}, true
	}
	var rest []string
	if len(p.parts) > 4 {
		rest = p.parts[4:]
	}
	return []string{strings.Join(rest, "@"), from}, true
}

func labelGist(p parsed, _ Module, _ Options) ([]string, bool) {
	return []string{"gist: " + p.part(3) + "/" + p.part(4), "  @ " + p.part(6)}, true
}

func labelJSPM(p parsed, _ Module, _ Options) ([]string, bool) {
	parts := append([]string(nil), p.parts...)
	if len(parts) > 3 {
		parts[3] = strings.TrimPrefix(parts[3], "npm:")
	}
	return []string{joinRange(parts, 3, len(parts)), "from " + p.part(2)}, true
}

func labelJSDelivr(p parsed, _ Module, _ Options) ([]string, bool) {
	switch p.part(3) {
	case "gh":
		from := "from github.com/" + p.part(4)
		repo, ver, _ := strings.Cut(p.part(5), "@")
		if len(ver) >= longRef {
			return []string{repo, "  @ " + ver, from}, true
		}
		return []string{p.part(5), from}, true
	case "npm":
		return []string{p.join(4, len(p.parts)), "from " + p.join(2, 4)}, true
	}
	return nil, false
}

// maxNamedServices caps how many service names an aws-api label lists.
const maxNamedServices = 3

func labelAWSAPI(p parsed, m Module, _ Options) ([]string, bool) {
	seen := make(map[string]bool)
	var services []string
	for _, f := range m.Files {
		svc, _, _ := strings.Cut(segment(strings.Split(f, "/"), 5), ".")
		if !seen[svc] {
			seen[svc] = true
			services = append(services, svc)
		}
	}
	var named []string
	for _, svc := range services {
		if len(svc) < 8 && len(named) < maxNamedServices {
			named = append(named, svc)
		}
	}
	if len(named) == 0 && len(services) > 0 {
		named = append(named, services[0])
	}
	list := "    " + strings.Join(named, ", ")
	if others := len(services) - len(named); others > 0 {
		list += fmt.Sprintf(" + %d others", others)
	}
	name := strings.TrimSuffix(strings.TrimPrefix(p.raw, p.u.Scheme+":"), "/services")
	return []string{name, list}, true
}

func labelGitHubPages(p parsed, _ Module, _ Options) ([]string, bool) {
	return []string{p.join(3, len(p.parts)), "from " + p.u.Hostname()}, true
}
