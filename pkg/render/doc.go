// Package render serializes a finished [modmap.Map].
//
// # Encoders
//
// Two text encoders share one [Options] value:
//
//   - [EncodeDOT] writes Graphviz DOT, one box per package with a label,
//     a file-count line and registry colors.
//   - [EncodeJSON] writes {"modules": {...}} keyed by node key, in the
//     map's iteration order.
//
// [Encode] selects between them by format name and rejects anything else
// with an INVALID_FORMAT error before writing a byte.
//
// # Rasterizing
//
// [Rasterize] lays DOT out in-process with go-graphviz and returns SVG,
// PNG or JPEG bytes:
//
//	var dot bytes.Buffer
//	render.EncodeDOT(&dot, m, render.Options{})
//	svg, err := render.Rasterize(ctx, dot.Bytes(), render.FormatSVG)
//
// [modmap.Map]: github.com/cloudydeno/module-visualizer/pkg/modmap.Map
package render
