package render

import (
	"encoding/json"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/cloudydeno/module-visualizer/pkg/modmap"
)

// Module is the JSON form of one node.
type Module struct {
	ModuleDeps []string          `json:"moduleDeps"`
	LabelText  []string          `json:"labelText"`
	TotalSize  int64             `json:"totalSize"`
	FileCount  int               `json:"fileCount"`
	Errors     []string          `json:"errors,omitempty"`
	NodeAttrs  map[string]string `json:"nodeAttrs"`
}

// Document is the top-level JSON object. Modules keeps the map's node
// order when marshaled.
type Document struct {
	Modules *orderedmap.OrderedMap[string, Module] `json:"modules"`
}

// NewDocument converts m into its JSON document.
func NewDocument(m *modmap.Map) Document {
	mods := orderedmap.New[string, Module](m.Len())
	for _, n := range m.Nodes() {
		deps := n.DependsOn()
		keys := make([]string, len(deps))
		for i, d := range deps {
			keys[i] = d.String()
		}
		mods.Set(n.Key.String(), Module{
			ModuleDeps: keys,
			LabelText:  m.Label(n),
			TotalSize:  n.TotalSize,
			FileCount:  n.FileCount(),
			Errors:     n.Errors,
			NodeAttrs:  m.Attrs(n).Map(),
		})
	}
	return Document{Modules: mods}
}

// EncodeJSON writes m as a JSON document, indented when opts.Pretty is set.
func EncodeJSON(w io.Writer, m *modmap.Map, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if opts.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(NewDocument(m))
}
