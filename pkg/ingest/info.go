package ingest

import (
	"bytes"
	"encoding/json"
)

// Info is the top-level `deno info --json` document.
type Info struct {
	Root      string            `json:"root,omitempty"`
	Roots     []string          `json:"roots,omitempty"`
	Modules   []InfoModule      `json:"modules"`
	Redirects map[string]string `json:"redirects,omitempty"`
}

// InfoModule is one entry of Info.Modules.
type InfoModule struct {
	Specifier       string           `json:"specifier"`
	Dependencies    []InfoDependency `json:"dependencies,omitempty"`
	TypesDependency *TypesDependency `json:"typesDependency,omitempty"`
	Size            int64            `json:"size,omitempty"`
	Error           string           `json:"error,omitempty"`
}

// InfoDependency is one import statement of a module.
type InfoDependency struct {
	Specifier string    `json:"specifier"`
	Code      *Resolved `json:"code,omitempty"`
	Type      *Resolved `json:"type,omitempty"`
	IsDynamic bool      `json:"isDynamic,omitempty"`
}

// TypesDependency is the `X-TypeScript-Types` style companion of a module.
type TypesDependency struct {
	Specifier  string    `json:"specifier"`
	Dependency *Resolved `json:"dependency,omitempty"`
}

// Resolved is where a specifier resolved to. Older reports encode it as a
// bare URL string, newer ones as an object that may carry an error.
type Resolved struct {
	Specifier string `json:"specifier,omitempty"`
	Error     string `json:"error,omitempty"`
}

// UnmarshalJSON accepts both the string and object encodings.
func (r *Resolved) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(data, []byte(`"`)) {
		return json.Unmarshal(data, &r.Specifier)
	}
	type plain Resolved
	return json.Unmarshal(data, (*plain)(r))
}

func (r *Resolved) url() string {
	if r == nil {
		return ""
	}
	return r.Specifier
}

func (r *Resolved) err() string {
	if r == nil {
		return ""
	}
	return r.Error
}

// RootURL returns the entry point of the report.
func (i *Info) RootURL() string {
	if i.Root != "" {
		return i.Root
	}
	if len(i.Roots) > 0 {
		return i.Roots[0]
	}
	return ""
}
