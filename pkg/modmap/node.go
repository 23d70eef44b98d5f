package modmap

import "github.com/cloudydeno/module-visualizer/pkg/registry"

// Key uniquely identifies a node within a Map.
type Key struct {
	Identity string
	Fragment string
}

// String returns the identity with its fragment appended, which is how
// nodes are keyed in serialized output.
func (k Key) String() string {
	return k.Identity + k.Fragment
}

// File is one constituent source file of a node.
type File struct {
	URL  string   `json:"url"`
	Size int64    `json:"size"`
	Deps []string `json:"deps"`
}

// Node is a package: every file the classifier groups under one identity.
type Node struct {
	Key       Key
	TotalSize int64
	Files     []File
	Errors    []string

	deps        keySet
	unversioned keySet
}

func newNode(k Key) *Node {
	return &Node{Key: k, deps: newKeySet(), unversioned: newKeySet()}
}

// IsError reports whether the node holds failed resolutions.
func (n *Node) IsError() bool {
	return n.Key.Fragment == registry.FragmentError
}

// FileCount returns the number of constituent files.
func (n *Node) FileCount() int {
	return len(n.Files)
}

// DependsOn returns the keys of the node's dependencies in the order the
// edges were first recorded.
func (n *Node) DependsOn() []Key {
	return n.deps.keys()
}

// DependsOnUnversioned returns the dependencies that were reached through
// an unversioned reference resolved to a specific version.
func (n *Node) DependsOnUnversioned() []Key {
	return n.unversioned.keys()
}

// HasDependency reports whether the node has an edge to k.
func (n *Node) HasDependency(k Key) bool {
	return n.deps.has(k)
}

// FileURLs lists the URLs of the constituent files.
func (n *Node) FileURLs() []string {
	urls := make([]string, len(n.Files))
	for i, f := range n.Files {
		urls[i] = f.URL
	}
	return urls
}

// Module returns the classifier's view of the node.
func (n *Node) Module() registry.Module {
	return registry.Module{
		Base:     n.Key.Identity,
		Fragment: n.Key.Fragment,
		Files:    n.FileURLs(),
	}
}

// addError records msg once. Failed files append directly so repeated
// messages from different files are kept.
func (n *Node) addError(msg string) {
	for _, e := range n.Errors {
		if e == msg {
			return
		}
	}
	n.Errors = append(n.Errors, msg)
}

// addDep records an edge unless it would point at the node itself.
func (n *Node) addDep(k Key) bool {
	if k == n.Key {
		return false
	}
	n.deps.add(k)
	return true
}
