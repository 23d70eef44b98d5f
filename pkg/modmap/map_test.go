package modmap

import (
	"io"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/cloudydeno/module-visualizer/pkg/registry"
)

func quietOptions() Options {
	return Options{Logger: log.New(io.Discard)}
}

func deps(urls ...string) []Dependency {
	out := make([]Dependency, len(urls))
	for i, u := range urls {
		out[i] = Dependency{URL: u}
	}
	return out
}

func identities(keys []Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}

func TestIngestTwoPackages(t *testing.T) {
	m := New(quietOptions())
	root := "https://deno.land/x/a@1.0/mod.ts"
	m.SetMainURL(root)
	m.IngestFile(root, RawFile{Size: 100, Deps: deps("https://deno.land/x/b@1.0/mod.ts")})
	m.IngestFile("https://deno.land/x/b@1.0/mod.ts", RawFile{Size: 50})
	m.Normalize()

	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}
	a := m.Nodes()[0]
	if a.Key.Identity != "https://deno.land/x/a@1.0" {
		t.Errorf("first node = %q, want root package", a.Key.Identity)
	}
	if got := identities(a.DependsOn()); !reflect.DeepEqual(got, []string{"https://deno.land/x/b@1.0"}) {
		t.Errorf("DependsOn() = %v, want [b@1.0]", got)
	}
	if m.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", m.EdgeCount())
	}
	if m.TotalSize() != 150 {
		t.Errorf("TotalSize() = %d, want 150", m.TotalSize())
	}
	if m.Main() != a {
		t.Error("Main() should return the root node")
	}
}

func TestIngestDropsSelfEdges(t *testing.T) {
	m := New(quietOptions())
	m.IngestFile("https://deno.land/x/a@1.0/mod.ts", RawFile{
		Size: 10,
		Deps: deps("https://deno.land/x/a@1.0/util.ts", "https://deno.land/x/a@1.0/mod.ts"),
	})
	m.IngestFile("https://deno.land/x/a@1.0/util.ts", RawFile{Size: 5})

	n := m.Nodes()[0]
	if len(n.DependsOn()) != 0 {
		t.Errorf("DependsOn() = %v, want none", n.DependsOn())
	}
	if n.FileCount() != 2 || n.TotalSize != 15 {
		t.Errorf("files=%d size=%d, want 2 and 15", n.FileCount(), n.TotalSize)
	}
}

func TestIngestDeduplicatesEdges(t *testing.T) {
	m := New(quietOptions())
	m.IngestFile("https://deno.land/x/a@1.0/mod.ts", RawFile{
		Deps: deps("https://deno.land/x/b@1.0/one.ts", "https://deno.land/x/b@1.0/two.ts"),
	})
	m.IngestFile("https://deno.land/x/a@1.0/other.ts", RawFile{
		Deps: deps("https://deno.land/x/b@1.0/three.ts"),
	})
	if got := len(m.Nodes()[0].DependsOn()); got != 1 {
		t.Errorf("len(DependsOn()) = %d, want 1", got)
	}
}

func TestIngestErrorFile(t *testing.T) {
	m := New(quietOptions())
	root := "https://deno.land/x/a@1.0/mod.ts"
	broken := "https://deno.land/x/b@1.0/mod.ts"
	m.SetMainURL(root)
	m.IngestFile(root, RawFile{Size: 10, Deps: deps(broken)})
	m.IngestFile(broken, RawFile{Error: "404: not found"})

	n := m.Get(Key{Identity: "https://deno.land/x/b@1.0", Fragment: registry.FragmentError})
	if n == nil {
		t.Fatal("error node missing")
	}
	if !n.IsError() {
		t.Error("IsError() = false, want true")
	}
	if !reflect.DeepEqual(n.Errors, []string{"404: not found"}) {
		t.Errorf("Errors = %q, want [404: not found]", n.Errors)
	}
	if n.TotalSize != 0 || n.FileCount() != 0 {
		t.Errorf("error node size=%d files=%d, want 0 and 0", n.TotalSize, n.FileCount())
	}
	if got := m.Attrs(n).FillColor; got != registry.ColorError {
		t.Errorf("fillcolor = %q, want %q", got, registry.ColorError)
	}
}

func TestIngestErrorFilesKeepRepeatedMessages(t *testing.T) {
	m := New(quietOptions())
	m.IngestFile("https://deno.land/x/b@1.0/one.ts", RawFile{Error: "404: not found"})
	m.IngestFile("https://deno.land/x/b@1.0/two.ts", RawFile{Error: "404: not found"})

	n := m.Get(Key{Identity: "https://deno.land/x/b@1.0", Fragment: registry.FragmentError})
	if n == nil {
		t.Fatal("error node missing")
	}
	want := []string{"404: not found", "404: not found"}
	if !reflect.DeepEqual(n.Errors, want) {
		t.Errorf("Errors = %q, want %q", n.Errors, want)
	}
}

func TestIngestDependencyErrorRecordedOnce(t *testing.T) {
	m := New(quietOptions())
	gone := Dependency{URL: "https://deno.land/x/gone@1.0/mod.ts", Error: "Module not found"}
	m.IngestFile("https://deno.land/x/a@1.0/mod.ts", RawFile{Deps: []Dependency{gone}})
	m.IngestFile("https://deno.land/x/c@1.0/mod.ts", RawFile{Deps: []Dependency{gone}})

	errKey := Key{Identity: "https://deno.land/x/gone@1.0", Fragment: registry.FragmentError}
	if got := m.Get(errKey).Errors; !reflect.DeepEqual(got, []string{"Module not found"}) {
		t.Errorf("Errors = %q, want one entry", got)
	}
}

func TestIngestDependencyError(t *testing.T) {
	m := New(quietOptions())
	m.IngestFile("https://deno.land/x/a@1.0/mod.ts", RawFile{
		Deps: []Dependency{{URL: "https://deno.land/x/gone@1.0/mod.ts", Error: "Module not found"}},
	})
	errKey := Key{Identity: "https://deno.land/x/gone@1.0", Fragment: registry.FragmentError}
	if !m.Nodes()[0].HasDependency(errKey) {
		t.Errorf("DependsOn() = %v, want edge to error node", m.Nodes()[0].DependsOn())
	}
	if got := m.Get(errKey).Errors; !reflect.DeepEqual(got, []string{"Module not found"}) {
		t.Errorf("Errors = %q", got)
	}
}

func TestGetOrCreateFollowsRedirects(t *testing.T) {
	opts := quietOptions()
	opts.Redirects = map[string]string{
		"https://deno.land/x/q/mod.ts":      "https://deno.land/x/q@1.0.0/mod.ts",
		"https://deno.land/x/loop/mod.ts":   "https://deno.land/x/loop/mod.ts",
		"https://example.com/a.ts":          "https://example.com/b.ts",
		"https://example.com/b.ts":          "https://example.com/a.ts",
	}
	m := New(opts)

	n := m.GetOrCreate("https://deno.land/x/q/mod.ts", "")
	if n.Key.Identity != "https://deno.land/x/q@1.0.0" {
		t.Errorf("identity = %q, want redirect target", n.Key.Identity)
	}
	if got := m.GetOrCreate("https://deno.land/x/loop/mod.ts", "").Key.Identity; got != "https://deno.land/x/loop" {
		t.Errorf("self redirect identity = %q", got)
	}
	// A redirect cycle terminates after a bounded number of hops.
	m.GetOrCreate("https://example.com/a.ts", "")
}

func TestNodeKeysAreUnique(t *testing.T) {
	m := New(quietOptions())
	urls := []string{
		"https://deno.land/std@0.100.0/fs/mod.ts",
		"https://deno.land/std@0.100.0/path/mod.ts",
		"https://esm.sh/react@17.0.2/index.js",
		"https://esm.sh/react@17.0.2/cjs.js",
	}
	for _, u := range urls {
		m.IngestFile(u, RawFile{Deps: deps(urls...)})
	}
	m.IngestFile(urls[0], RawFile{Error: "boom"})

	seen := make(map[Key]bool)
	for _, n := range m.Nodes() {
		if seen[n.Key] {
			t.Errorf("duplicate key %v", n.Key)
		}
		seen[n.Key] = true
		if n.HasDependency(n.Key) {
			t.Errorf("node %v depends on itself", n.Key)
		}
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (std, react, std#error)", m.Len())
	}
}

func TestLabelUsesMainModule(t *testing.T) {
	m := New(quietOptions())
	m.SetMainURL("file:///home/me/proj/main.ts")
	m.IngestFile("file:///home/me/proj/main.ts", RawFile{Deps: deps("file:///home/me/proj/lib/util.ts")})
	m.IngestFile("file:///home/me/proj/lib/util.ts", RawFile{})

	var got [][]string
	for _, n := range m.Nodes() {
		got = append(got, m.Label(n))
	}
	want := [][]string{{"./"}, {"./lib/"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %q, want %q", got, want)
	}
}
