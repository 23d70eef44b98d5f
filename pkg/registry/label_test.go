package registry

import (
	"reflect"
	"testing"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		mod  Module
		opts Options
		want []string
	}{
		{
			name: "deno std lists folders",
			mod: Module{
				Base: "https://deno.land/std@0.100.0",
				Files: []string{
					"https://deno.land/std@0.100.0/fs/mod.ts",
					"https://deno.land/std@0.100.0/path/mod.ts",
					"https://deno.land/std@0.100.0/fs/walk.ts",
				},
			},
			want: []string{"/std@0.100.0", "    • /fs", "    • /path"},
		},
		{
			name: "deno std isolated has no folders",
			mod:  Module{Base: "https://deno.land/std@0.100.0/fs", Files: []string{"https://deno.land/std@0.100.0/fs/mod.ts"}},
			opts: Options{IsolateStd: true},
			want: []string{"/std@0.100.0/fs"},
		},
		{
			name: "deno x",
			mod:  Module{Base: "https://deno.land/x/oak@v10.0.0"},
			want: []string{"/x/oak@v10.0.0"},
		},
		{
			name: "cdn.deno.land std",
			mod: Module{
				Base:  "https://cdn.deno.land/std/versions/0.100.0",
				Files: []string{"https://cdn.deno.land/std/versions/0.100.0/raw/fs/mod.ts"},
			},
			want: []string{"/std@0.100.0", "from cdn.deno.land", "    • /fs"},
		},
		{
			name: "cdn.deno.land x",
			mod:  Module{Base: "https://cdn.deno.land/oak/versions/v10.0.0"},
			want: []string{"/x/oak@v10.0.0", "from cdn.deno.land"},
		},
		{
			name: "crux",
			mod:  Module{Base: "https://crux.land/Fjf2o"},
			want: []string{"crux.land/Fjf2o"},
		},
		{
			name: "esm.sh",
			mod:  Module{Base: "https://esm.sh/react@17.0.2"},
			want: []string{"react@17.0.2", "from esm.sh"},
		},
		{
			name: "cdn.esm.sh",
			mod:  Module{Base: "https://cdn.esm.sh/v58/react@17.0.2"},
			want: []string{"react@17.0.2", "from cdn.esm.sh/v58"},
		},
		{
			name: "raw github short ref",
			mod:  Module{Base: "https://raw.githubusercontent.com/owner/repo/v1.0.0"},
			want: []string{"repo@v1.0.0", "from github.com/owner"},
		},
		{
			name: "raw github commit ref",
			mod:  Module{Base: "https://raw.githubusercontent.com/owner/repo/0123456789abcdef0123456789"},
			want: []string{"repo", "  @ 0123456789abcdef0123456789", "from github.com/owner"},
		},
		{
			name: "gist",
			mod:  Module{Base: "https://gist.githubusercontent.com/danopia/d8b92fdbaa146133dac74a248e62d761/raw/bf5074703f24fee4c2f08577908115f2a6ffff6a"},
			want: []string{"gist: danopia/d8b92fdbaa146133dac74a248e62d761", "  @ bf5074703f24fee4c2f08577908115f2a6ffff6a"},
		},
		{
			name: "skypack",
			mod:  Module{Base: "https://cdn.skypack.dev/-/react@v17.0.1"},
			want: []string{"react@v17.0.1", "from cdn.skypack.dev"},
		},
		{
			name: "jspm drops npm prefix",
			mod:  Module{Base: "https://jspm.dev/npm:react@17.0.2"},
			want: []string{"react@17.0.2", "from jspm.dev"},
		},
		{
			name: "jsdelivr gh",
			mod:  Module{Base: "https://cdn.jsdelivr.net/gh/user/repo@1.0"},
			want: []string{"repo@1.0", "from github.com/user"},
		},
		{
			name: "jsdelivr npm",
			mod:  Module{Base: "https://cdn.jsdelivr.net/npm/lodash@4"},
			want: []string{"lodash@4", "from cdn.jsdelivr.net/npm"},
		},
		{
			name: "unpkg",
			mod:  Module{Base: "https://unpkg.com/lodash-es@4.17.21"},
			want: []string{"lodash-es@4.17.21", "from unpkg.com"},
		},
		{
			name: "aws-api services",
			mod: Module{
				Base: "https://aws-api.deno.dev/v0.2/services",
				Files: []string{
					"https://aws-api.deno.dev/v0.2/services/s3.ts",
					"https://aws-api.deno.dev/v0.2/services/dynamodb.ts",
					"https://aws-api.deno.dev/v0.2/services/s3.ts?actions=GetObject",
				},
			},
			want: []string{"//aws-api.deno.dev/v0.2", "    s3 + 1 others"},
		},
		{
			name: "github pages",
			mod:  Module{Base: "https://denosaurs.github.io/pkg"},
			want: []string{"pkg", "from denosaurs.github.io"},
		},
		{
			name: "unknown host",
			mod:  Module{Base: "https://example.com/a.ts"},
			want: []string{"https://example.com/a.ts"},
		},
		{
			name: "local file below main",
			mod:  Module{Base: "file:///home/me/proj/src/"},
			opts: Options{MainModule: "file:///home/me/proj/main.ts"},
			want: []string{"./src/"},
		},
		{
			name: "local file beside main",
			mod:  Module{Base: "file:///home/me/lib/"},
			opts: Options{MainModule: "file:///home/me/proj/main.ts"},
			want: []string{"../lib/"},
		},
		{
			name: "local file far away",
			mod:  Module{Base: "file:///opt/vendor/"},
			opts: Options{MainModule: "file:///home/me/proj/main.ts"},
			want: []string{"file:///opt/vendor/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Label(tt.mod, tt.opts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Label(%q) = %q, want %q", tt.mod.Base, got, tt.want)
			}
		})
	}
}

func TestLabelGist(t *testing.T) {
	url := "https://gist.githubusercontent.com/danopia/d8b92fdbaa146133dac74a248e62d761/raw/bf5074703f24fee4c2f08577908115f2a6ffff6a/repro.ts"
	base := Identity(url, Options{})
	got := Label(Module{Base: base, Files: []string{url}}, Options{})
	want := []string{
		"gist: danopia/d8b92fdbaa146133dac74a248e62d761",
		"  @ bf5074703f24fee4c2f08577908115f2a6ffff6a",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Label() = %q, want %q", got, want)
	}
}
