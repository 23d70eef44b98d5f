package render

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeDOT(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeDOT(&buf, twoPackages(), Options{}); err != nil {
		t.Fatalf("EncodeDOT() error = %v", err)
	}

	want := `digraph "imported modules" {
  rankdir="TB";

  "https://deno.land/x/a@1.0"[shape="box",label="/x/a@1.0\l1 files, 100 B\l",penwidth="1",fontname="Arial",style="filled",tooltip="https://deno.land/x/a@1.0",fillcolor="lightskyblue",href="https://deno.land/x/a@1.0"];
  "https://deno.land/x/a@1.0" -> "https://deno.land/x/b@1.0";

  "https://deno.land/x/b@1.0"[shape="box",label="/x/b@1.0\l1 files, 2 KB\l",penwidth="1",fontname="Arial",style="filled",tooltip="https://deno.land/x/b@1.0",fillcolor="lightskyblue",href="https://deno.land/x/b@1.0"];

}
`
	if got := buf.String(); got != want {
		t.Errorf("EncodeDOT() =\n%s\nwant\n%s", got, want)
	}
}

func TestEncodeDOTOptions(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeDOT(&buf, twoPackages(), Options{RankDir: "LR", Font: "Archivo Narrow"}); err != nil {
		t.Fatalf("EncodeDOT() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{`rankdir="LR";`, `fontname="Archivo Narrow"`} {
		if !strings.Contains(out, want) {
			t.Errorf("EncodeDOT() missing %s", want)
		}
	}
}

func TestEncodeDOTErrorNode(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeDOT(&buf, withBrokenDep(), Options{}); err != nil {
		t.Fatalf("EncodeDOT() error = %v", err)
	}

	want := `  "https://deno.land/x/b@1.0#error"[shape="box",label="/x/b@1.0\l    • 404: not found\l",penwidth="1",fontname="Arial",style="filled",tooltip="https://deno.land/x/b@1.0",fillcolor="salmon"];`
	if !strings.Contains(buf.String(), want+"\n") {
		t.Errorf("EncodeDOT() =\n%s\nwant line\n%s", buf.String(), want)
	}
	if !strings.Contains(buf.String(), `"https://deno.land/x/a@1.0" -> "https://deno.land/x/b@1.0#error";`) {
		t.Error("EncodeDOT() missing edge to error node")
	}
}

func TestEncodeDOTDeterministic(t *testing.T) {
	m := twoPackages()
	var a, b bytes.Buffer
	if err := EncodeDOT(&a, m, Options{}); err != nil {
		t.Fatal(err)
	}
	if err := EncodeDOT(&b, m, Options{}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("two encodings of the same map differ")
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{"a<b>&c", `"a<b>&c"`},
		{"two\nlines", `"two\nlines"`},
	}
	for _, tt := range tests {
		if got := quote(tt.in); got != tt.want {
			t.Errorf("quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
