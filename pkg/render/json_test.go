package render

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/cloudydeno/module-visualizer/pkg/registry"
)

func TestEncodeJSONRoundTrip(t *testing.T) {
	m := twoPackages()
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, m, Options{}); err != nil {
		t.Fatalf("EncodeJSON() error = %v", err)
	}

	var doc Document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if doc.Modules.Len() != m.Len() {
		t.Fatalf("modules = %d, want %d", doc.Modules.Len(), m.Len())
	}

	for _, n := range m.Nodes() {
		got, ok := doc.Modules.Get(n.Key.String())
		if !ok {
			t.Errorf("module %s missing", n.Key)
			continue
		}
		var deps []string
		for _, d := range n.DependsOn() {
			deps = append(deps, d.String())
		}
		if len(deps) == 0 {
			deps = []string{}
		}
		if !reflect.DeepEqual(got.ModuleDeps, deps) {
			t.Errorf("%s moduleDeps = %v, want %v", n.Key, got.ModuleDeps, deps)
		}
		if !reflect.DeepEqual(got.LabelText, m.Label(n)) {
			t.Errorf("%s labelText = %v, want %v", n.Key, got.LabelText, m.Label(n))
		}
		if got.TotalSize != n.TotalSize || got.FileCount != n.FileCount() {
			t.Errorf("%s size/files = %d/%d, want %d/%d", n.Key, got.TotalSize, got.FileCount, n.TotalSize, n.FileCount())
		}
		if !reflect.DeepEqual(got.NodeAttrs, m.Attrs(n).Map()) {
			t.Errorf("%s nodeAttrs = %v, want %v", n.Key, got.NodeAttrs, m.Attrs(n).Map())
		}
	}
}

func TestEncodeJSONKeepsNodeOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, twoPackages(), Options{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	a := strings.Index(out, `"https://deno.land/x/a@1.0":`)
	b := strings.Index(out, `"https://deno.land/x/b@1.0":`)
	if a < 0 || b < 0 || a > b {
		t.Errorf("root should be emitted first:\n%s", out)
	}
	if !strings.HasPrefix(out, `{"modules":{`) {
		t.Errorf("compact output = %s", out)
	}
}

func TestEncodeJSONPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, twoPackages(), Options{Pretty: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "{\n  \"modules\": {\n    \"https://deno.land/x/a@1.0\": {") {
		t.Errorf("pretty output =\n%s", buf.String())
	}
}

func TestEncodeJSONErrorNode(t *testing.T) {
	var doc Document
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, withBrokenDep(), Options{}); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}

	mod, ok := doc.Modules.Get("https://deno.land/x/b@1.0#error")
	if !ok {
		t.Fatal("error node missing")
	}
	if !reflect.DeepEqual(mod.Errors, []string{"404: not found"}) {
		t.Errorf("errors = %v", mod.Errors)
	}
	if mod.TotalSize != 0 {
		t.Errorf("totalSize = %d, want 0", mod.TotalSize)
	}
	if mod.NodeAttrs["fillcolor"] != registry.ColorError {
		t.Errorf("fillcolor = %q, want %q", mod.NodeAttrs["fillcolor"], registry.ColorError)
	}
	if _, ok := mod.NodeAttrs["href"]; ok {
		t.Error("error node should have no href")
	}
}
