package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"github.com/goccy/go-graphviz"

	"github.com/cloudydeno/module-visualizer/pkg/errors"
)

var graphvizFormats = map[string]graphviz.Format{
	FormatSVG:  graphviz.SVG,
	FormatPNG:  graphviz.PNG,
	FormatJPEG: graphviz.JPG,
	"jpeg":     graphviz.JPG,
}

// IsImageFormat reports whether format is accepted by [Rasterize].
func IsImageFormat(format string) bool {
	_, ok := graphvizFormats[format]
	return ok
}

// Rasterize lays out dot with the embedded Graphviz engine and renders it
// in the given image format.
func Rasterize(ctx context.Context, dot []byte, format string) ([]byte, error) {
	gvFormat, ok := graphvizFormats[format]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported image format %q (must be one of %v)", format, ImageFormats)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var svgSizeRe = regexp.MustCompile(`<svg width="[^"]+" height="[^"]+"`)

// EmbedSVG trims the XML prolog and doctype from a Graphviz SVG and
// replaces its fixed size with id="graph" so a page stylesheet can size it.
func EmbedSVG(svg []byte) []byte {
	if i := bytes.Index(svg, []byte("<!--")); i > 0 {
		svg = svg[i:]
	} else if i := bytes.Index(svg, []byte("<svg")); i > 0 {
		svg = svg[i:]
	}
	return svgSizeRe.ReplaceAll(svg, []byte(`<svg id="graph"`))
}
