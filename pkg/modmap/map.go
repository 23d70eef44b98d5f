// Package modmap builds the package-level dependency graph of a module.
//
// A [Map] is an arena of [Node]s addressed by [Key]. Nodes are created on
// demand while raw per-file records are ingested, then two normalization
// passes rewrite keys in place: [Map.FixupRedirects] resolves unversioned
// placeholders and [Map.CollapseWeakVersions] merges weak version
// references into the pinned node they resolved to. Edges are stored as
// ordered key sets, so deleting a node never leaves dangling pointers.
//
// A Map is built and read by a single goroutine; it is not safe for
// concurrent use.
package modmap

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/cloudydeno/module-visualizer/pkg/registry"
)

// maxRedirectHops bounds how far a redirect chain is followed.
const maxRedirectHops = 10

// Options configures how a Map groups and labels files.
type Options struct {
	registry.Options

	// Redirects maps a requested URL to the URL it resolved to.
	Redirects map[string]string

	// Logger receives normalization warnings. Nil uses log.Default().
	Logger *log.Logger
}

// Dependency is one outgoing edge of a raw file.
type Dependency struct {
	URL string
	// Error is set when upstream failed to resolve this specific edge.
	Error string
}

// RawFile is a resolved source file as reported by the graph source.
type RawFile struct {
	Size  int64
	Deps  []Dependency
	Error string
}

// Map is the package graph of one module.
type Map struct {
	opts   Options
	logger *log.Logger
	nodes  map[Key]*Node
	order  []Key
	main   *Key
}

// New returns an empty Map.
func New(opts Options) *Map {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Map{
		opts:   opts,
		logger: logger,
		nodes:  make(map[Key]*Node),
	}
}

// Options returns the options the map was built with.
func (m *Map) Options() Options {
	return m.opts
}

// resolve follows the redirect table from url.
func (m *Map) resolve(url string) string {
	for range maxRedirectHops {
		next, ok := m.opts.Redirects[url]
		if !ok || next == url {
			break
		}
		url = next
	}
	return url
}

// KeyFor returns the key url would be stored under.
func (m *Map) KeyFor(url, fragment string) Key {
	return Key{
		Identity: registry.Identity(m.resolve(url), m.opts.Options),
		Fragment: fragment,
	}
}

// GetOrCreate returns the node for url, creating an empty one on miss.
func (m *Map) GetOrCreate(url, fragment string) *Node {
	k := m.KeyFor(url, fragment)
	if n, ok := m.nodes[k]; ok {
		return n
	}
	n := newNode(k)
	m.nodes[k] = n
	m.order = append(m.order, k)
	return n
}

// SetMainURL records the root module, creating its node first so it
// leads iteration order.
func (m *Map) SetMainURL(url string) *Node {
	n := m.GetOrCreate(url, "")
	k := n.Key
	m.main = &k
	if m.opts.MainModule == "" {
		m.opts.MainModule = m.resolve(url)
	}
	return n
}

// Main returns the root node, or nil if none was set or it was removed.
func (m *Map) Main() *Node {
	if m.main == nil {
		return nil
	}
	return m.nodes[*m.main]
}

// IngestFile adds one raw file to the graph.
func (m *Map) IngestFile(url string, f RawFile) {
	if f.Error != "" {
		n := m.GetOrCreate(url, registry.FragmentError)
		n.Errors = append(n.Errors, f.Error)
		return
	}

	n := m.GetOrCreate(url, "")
	n.TotalSize += f.Size
	deps := make([]string, 0, len(f.Deps))
	for _, d := range f.Deps {
		deps = append(deps, d.URL)
	}
	n.Files = append(n.Files, File{URL: url, Size: f.Size, Deps: deps})

	for _, d := range f.Deps {
		if d.URL == "" {
			continue
		}
		var target *Node
		if d.Error != "" {
			target = m.GetOrCreate(d.URL, registry.FragmentError)
			target.addError(d.Error)
		} else {
			target = m.GetOrCreate(d.URL, "")
		}
		n.addDep(target.Key)
	}
}

// Len returns the number of nodes.
func (m *Map) Len() int {
	return len(m.order)
}

// Get returns the node stored under k, or nil.
func (m *Map) Get(k Key) *Node {
	return m.nodes[k]
}

// Nodes returns every node in insertion order.
func (m *Map) Nodes() []*Node {
	out := make([]*Node, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.nodes[k])
	}
	return out
}

// EdgeCount returns the total number of dependency edges.
func (m *Map) EdgeCount() int {
	total := 0
	for _, n := range m.nodes {
		total += n.deps.len()
	}
	return total
}

// TotalSize sums the size of every file in the graph.
func (m *Map) TotalSize() int64 {
	var total int64
	for _, n := range m.nodes {
		total += n.TotalSize
	}
	return total
}

// Label returns the display lines for n.
func (m *Map) Label(n *Node) []string {
	return registry.Label(n.Module(), m.opts.Options)
}

// Attrs returns the presentation attributes for n.
func (m *Map) Attrs(n *Node) registry.Attrs {
	return registry.AttrsOf(n.Module())
}

func (m *Map) remove(k Key) {
	delete(m.nodes, k)
	m.order = slices.DeleteFunc(m.order, func(o Key) bool { return o == k })
}
