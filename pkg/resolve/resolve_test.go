package resolve

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudydeno/module-visualizer/pkg/errors"
	"github.com/cloudydeno/module-visualizer/pkg/integrations"
)

type fakeBranches map[string]string

func (f fakeBranches) DefaultBranch(_ context.Context, owner, repo string, _ bool) (string, error) {
	if b, ok := f[owner+"/"+repo]; ok {
		return b, nil
	}
	if owner == "down" {
		return "", fmt.Errorf("%w: status 503", integrations.ErrNetwork)
	}
	return "", fmt.Errorf("%w: github repo %s/%s", integrations.ErrNotFound, owner, repo)
}

func newResolver() *Resolver {
	return New(fakeBranches{"denoland/deno_std": "main"}, log.New(io.Discard))
}

func TestModuleURL(t *testing.T) {
	tests := []struct {
		slug string
		want string
	}{
		{"x/oak@v12.6.1/mod.ts", "https://deno.land/x/oak@v12.6.1/mod.ts"},
		{"https/deno.land/std@0.200.0/http/server.ts", "https://deno.land/std@0.200.0/http/server.ts"},
		{"https/esm.sh/react@18", "https://esm.sh/react@18"},
		{"gh/denoland/deno_std/fs/mod.ts", "https://raw.githubusercontent.com/denoland/deno_std/main/fs/mod.ts"},
		{"gh/denoland/deno_std", "https://raw.githubusercontent.com/denoland/deno_std/main/deps.ts"},
		{"gh/someone/unknown/mod.ts", "https://raw.githubusercontent.com/someone/unknown/master/mod.ts"},
	}

	r := newResolver()
	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			got, err := r.ModuleURL(context.Background(), tt.slug)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModuleURLErrors(t *testing.T) {
	tests := []struct {
		slug string
		code errors.Code
	}{
		{"npm/react", errors.ErrCodeNotFound},
		{"x/", errors.ErrCodeNotFound},
		{"https", errors.ErrCodeNotFound},
		{"", errors.ErrCodeInvalidInput},
		{"x/../etc/passwd", errors.ErrCodeInvalidInput},
		{"gh/onlyowner", errors.ErrCodeInvalidInput},
		{"gh/down/repo", errors.ErrCodeNetwork},
	}

	r := newResolver()
	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			_, err := r.ModuleURL(context.Background(), tt.slug)
			assert.Equal(t, tt.code, errors.GetCode(err), "error = %v", err)
		})
	}
}

func TestModuleURLWithoutGitHub(t *testing.T) {
	r := New(nil, log.New(io.Discard))
	got, err := r.ModuleURL(context.Background(), "gh/a/b")
	require.NoError(t, err)
	assert.Equal(t, "https://raw.githubusercontent.com/a/b/master/deps.ts", got)
}

func TestSlug(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://deno.land/x/oak@v12.6.1/mod.ts", "x/oak@v12.6.1/mod.ts", false},
		{"https://deno.land/std@0.200.0/fs/mod.ts", "https/deno.land/std@0.200.0/fs/mod.ts", false},
		{"https://esm.sh/react@18", "https/esm.sh/react@18", false},
		{"http://example.com/mod.ts", "", true},
		{"file:///home/me/mod.ts", "", true},
		{"not a url", "", true},
	}

	for _, tt := range tests {
		got, err := Slug(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("Slug(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.url, got, tt.want)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidURL) {
			t.Errorf("Slug(%q) code = %v, want INVALID_URL", tt.url, errors.GetCode(err))
		}
	}
}

func TestSlugRoundTrip(t *testing.T) {
	r := newResolver()
	for _, u := range []string{
		"https://deno.land/x/oak@v12.6.1/mod.ts",
		"https://cdn.skypack.dev/preact",
	} {
		slug, err := Slug(u)
		require.NoError(t, err)
		back, err := r.ModuleURL(context.Background(), slug)
		require.NoError(t, err)
		assert.Equal(t, u, back)
	}
}
