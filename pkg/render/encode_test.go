package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cloudydeno/module-visualizer/pkg/errors"
)

func TestEncodeFormats(t *testing.T) {
	tests := []struct {
		format string
		prefix string
	}{
		{"", `digraph "imported modules" {`},
		{FormatDOT, `digraph "imported modules" {`},
		{FormatJSON, `{"modules":`},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := Encode(&buf, twoPackages(), tt.format, Options{}); err != nil {
			t.Errorf("Encode(%q) error = %v", tt.format, err)
			continue
		}
		if !strings.HasPrefix(buf.String(), tt.prefix) {
			t.Errorf("Encode(%q) = %q, want prefix %q", tt.format, buf.String(), tt.prefix)
		}
	}
}

func TestEncodeRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, twoPackages(), "bogus", Options{})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("Encode() error = %v, want INVALID_FORMAT", err)
	}
	if !strings.Contains(err.Error(), `"bogus"`) {
		t.Errorf("error %q should name the format", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Encode() wrote %d bytes before failing", buf.Len())
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		FormatJSON: "application/json",
		FormatDOT:  "text/plain; charset=utf-8",
		FormatSVG:  "image/svg+xml",
		FormatPNG:  "image/png",
		FormatJPEG: "image/jpeg",
	}
	for format, want := range tests {
		if got := ContentType(format); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestRasterizeUnknownFormat(t *testing.T) {
	_, err := Rasterize(context.Background(), []byte("digraph {}"), "gif")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Rasterize() error = %v, want INVALID_FORMAT", err)
	}
}

func TestRasterizeSVG(t *testing.T) {
	var dot bytes.Buffer
	if err := EncodeDOT(&dot, twoPackages(), Options{}); err != nil {
		t.Fatal(err)
	}
	svg, err := Rasterize(context.Background(), dot.Bytes(), FormatSVG)
	if err != nil {
		t.Fatalf("Rasterize() error = %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("Rasterize() output is not SVG: %.200s", svg)
	}
	if !bytes.Contains(svg, []byte("/x/a@1.0")) {
		t.Error("SVG should contain node labels")
	}
}

func TestEmbedSVG(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>
<!DOCTYPE svg>
<!-- Generated by graphviz -->
<svg width="120pt" height="80pt" viewBox="0 0 120 80">`)
	got := string(EmbedSVG(in))
	want := `<!-- Generated by graphviz -->
<svg id="graph" viewBox="0 0 120 80">`
	if got != want {
		t.Errorf("EmbedSVG() = %q, want %q", got, want)
	}
}
