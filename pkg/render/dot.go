package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cloudydeno/module-visualizer/pkg/modmap"
	"github.com/cloudydeno/module-visualizer/pkg/registry"
)

// GraphName is the name of the emitted digraph.
const GraphName = "imported modules"

// EncodeDOT writes m as a Graphviz digraph. Every node statement is
// followed by its outgoing edges and a blank line.
func EncodeDOT(w io.Writer, m *modmap.Map, opts Options) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", quote(GraphName))
	fmt.Fprintf(&buf, "  rankdir=%s;\n\n", quote(opts.rankDir()))

	for _, n := range m.Nodes() {
		key := quote(n.Key.String())
		fmt.Fprintf(&buf, "  %s[%s];\n", key, nodeAttrs(m, n, opts))
		for _, dep := range n.DependsOn() {
			fmt.Fprintf(&buf, "  %s -> %s;\n", key, quote(dep.String()))
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")

	_, err := w.Write(buf.Bytes())
	return err
}

// LabelLines returns the full DOT label of n: the classifier lines
// followed by either the file summary or one bullet per error.
func LabelLines(m *modmap.Map, n *modmap.Node) []string {
	lines := m.Label(n)
	if n.IsError() {
		for _, e := range n.Errors {
			lines = append(lines, registry.Bullet+e)
		}
		return lines
	}
	return append(lines, fmt.Sprintf("%d files, %s", n.FileCount(), HumanSize(n.TotalSize)))
}

// PenWidth grows logarithmically with the number of files in a node.
func PenWidth(files int) float64 {
	return math.Log(math.Max(float64(files)/2, 1)) + 1
}

func nodeAttrs(m *modmap.Map, n *modmap.Node, opts Options) string {
	attrs := m.Attrs(n)
	pairs := [][2]string{
		{"shape", "box"},
		{"label", strings.Join(LabelLines(m, n), "\n") + "\n"},
		{"penwidth", strconv.FormatFloat(PenWidth(n.FileCount()), 'f', -1, 64)},
		{"fontname", opts.font()},
		{"style", "filled"},
		{"tooltip", n.Key.Identity},
		{"fillcolor", attrs.FillColor},
		{"href", attrs.Href},
	}

	var sb strings.Builder
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p[0])
		sb.WriteByte('=')
		// \l left-justifies each line in Graphviz.
		sb.WriteString(strings.ReplaceAll(quote(p[1]), `\n`, `\l`))
	}
	return sb.String()
}

// quote renders s as a JSON string literal, which DOT accepts as an ID.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
