package modmap

import "strings"

// Normalize runs both normalization passes in order.
func (m *Map) Normalize() {
	m.FixupRedirects()
	m.CollapseWeakVersions()
}

// redirectHost is the registry whose unversioned URLs redirect to the
// latest published version.
const redirectHost = "https://deno.land"

// FixupRedirects replaces empty placeholder nodes left behind by
// unversioned deno.land imports with the newest versioned node of the
// same package. The newest candidate is the greatest identity by byte-wise
// string order. Placeholders without a candidate are logged and kept.
func (m *Map) FixupRedirects() {
	for _, n := range m.Nodes() {
		placeholder := n.Key
		if n.FileCount() > 0 || n.IsError() {
			continue
		}
		if !strings.HasPrefix(placeholder.Identity, redirectHost) || strings.Contains(placeholder.Identity, "@") {
			m.logger.Warn("empty module", "identity", placeholder.Identity)
			continue
		}

		candidate, ok := m.latestVersionOf(placeholder.Identity)
		if !ok {
			m.logger.Warn("empty module", "identity", placeholder.Identity)
			continue
		}
		for _, user := range m.Nodes() {
			if !user.deps.remove(placeholder) {
				continue
			}
			user.unversioned.remove(placeholder)
			if user.addDep(candidate) {
				user.unversioned.add(candidate)
			}
		}
		m.remove(placeholder)
	}
}

func (m *Map) latestVersionOf(identity string) (Key, bool) {
	prefix := identity + "@"
	var best Key
	found := false
	for _, k := range m.order {
		if k.Fragment != "" || !strings.HasPrefix(k.Identity, prefix) {
			continue
		}
		if !found || k.Identity > best.Identity {
			best, found = k, true
		}
	}
	return best, found
}

// weakHosts serve "latest within constraint" URLs next to pinned ones.
var weakHosts = []string{"https://dev.jspm.io/", "https://jspm.dev/"}

var versionlessScope = strings.NewReplacer(":@", "", "/@", "")

// weakPrefix returns the identity prefix that the pinned resolution of a
// weak reference starts with.
func weakPrefix(identity string) string {
	prefix := strings.TrimSuffix(identity+".", "latest.")
	if !strings.Contains(versionlessScope.Replace(prefix), "@") {
		if p, ok := strings.CutSuffix(prefix, "."); ok {
			prefix = p + "@"
		}
	}
	return prefix
}

func isWeakHost(identity string) bool {
	for _, h := range weakHosts {
		if strings.HasPrefix(identity, h) {
			return true
		}
	}
	return false
}

// CollapseWeakVersions merges each weak version node into the pinned node
// it depends on. The pinned node takes over the weak node's files and
// size, and every edge into the weak node is re-pointed. The weak node's
// own outgoing edges are dropped with it.
func (m *Map) CollapseWeakVersions() {
	type collapse struct{ weak, pinned Key }
	var collapses []collapse
	for _, n := range m.Nodes() {
		if n.IsError() || !isWeakHost(n.Key.Identity) {
			continue
		}
		prefix := weakPrefix(n.Key.Identity)
		for _, dep := range n.deps.order {
			if dep.Fragment == "" && strings.HasPrefix(dep.Identity, prefix) {
				collapses = append(collapses, collapse{weak: n.Key, pinned: dep})
				break
			}
		}
	}

	moved := make(map[Key]Key)
	follow := func(k Key) Key {
		for range len(moved) + 1 {
			next, ok := moved[k]
			if !ok {
				break
			}
			k = next
		}
		return k
	}

	for _, c := range collapses {
		weak := m.nodes[c.weak]
		pinned := m.nodes[follow(c.pinned)]
		if weak == nil || pinned == nil || weak == pinned {
			continue
		}

		pinned.Files = append(pinned.Files, weak.Files...)
		pinned.TotalSize += weak.TotalSize

		for _, n := range m.Nodes() {
			if !n.deps.remove(weak.Key) {
				continue
			}
			wasUnversioned := n.unversioned.remove(weak.Key)
			if n.addDep(pinned.Key) && wasUnversioned {
				n.unversioned.add(pinned.Key)
			}
		}
		if m.main != nil && *m.main == weak.Key {
			k := pinned.Key
			m.main = &k
		}
		m.remove(weak.Key)
		moved[weak.Key] = pinned.Key
	}
}
