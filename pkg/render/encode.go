package render

import (
	"io"
	"slices"

	"github.com/cloudydeno/module-visualizer/pkg/errors"
	"github.com/cloudydeno/module-visualizer/pkg/modmap"
)

// Text formats produced by the encoders.
const (
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// Image formats produced by [Rasterize].
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJPEG = "jpg"
)

const (
	DefaultRankDir = "TB"
	DefaultFont    = "Arial"
)

// TextFormats lists the formats [Encode] accepts.
var TextFormats = []string{FormatDOT, FormatJSON}

// ImageFormats lists the formats [Rasterize] accepts.
var ImageFormats = []string{FormatSVG, FormatPNG, FormatJPEG}

// Options controls encoder output.
type Options struct {
	// RankDir is the Graphviz rank direction. Empty means "TB".
	RankDir string
	// Font is the DOT node font. Empty means "Arial".
	Font string
	// Pretty indents JSON output.
	Pretty bool
}

func (o Options) rankDir() string {
	if o.RankDir == "" {
		return DefaultRankDir
	}
	return o.RankDir
}

func (o Options) font() string {
	if o.Font == "" {
		return DefaultFont
	}
	return o.Font
}

// CheckFormat returns an INVALID_FORMAT error unless format is a text
// format or empty.
func CheckFormat(format string) error {
	if format == "" || slices.Contains(TextFormats, format) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (must be dot or json)", format)
}

// Encode writes m to w in the named text format. An empty format means DOT.
func Encode(w io.Writer, m *modmap.Map, format string, opts Options) error {
	if err := CheckFormat(format); err != nil {
		return err
	}
	if format == FormatJSON {
		return EncodeJSON(w, m, opts)
	}
	return EncodeDOT(w, m, opts)
}

// ContentType returns the MIME type served for format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJPEG, "jpeg":
		return "image/jpeg"
	default:
		return "text/plain; charset=utf-8"
	}
}
