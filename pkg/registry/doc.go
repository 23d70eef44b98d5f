// Package registry classifies module URLs by the registry or CDN that
// serves them.
//
// Three pure functions make up the classifier:
//
//   - [Identity] maps a URL to the canonical base string shared by every
//     file of the same deployed package version.
//   - [Label] renders the human-readable lines shown inside a graph node.
//   - [AttrsOf] returns presentation attributes (fill color, deep link).
//
// Each supported host is described by a [Kind] and a rule record in a
// dispatch table, so the per-registry logic lives side by side and can be
// tested in isolation. None of the functions return errors: unknown hosts
// and unparseable URLs degrade to the generic fallback (identity is the
// URL itself, the label is that identity, and the color is the "unknown"
// color).
package registry
