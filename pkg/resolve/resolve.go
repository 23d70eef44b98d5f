// Package resolve maps the short path slugs used in web URLs to module
// URLs and back.
//
// Three slug forms are understood:
//
//	gh/<owner>/<repo>[/<path>]  https://raw.githubusercontent.com/<owner>/<repo>/<default branch>/<path or deps.ts>
//	x/<rest>                    https://deno.land/x/<rest>
//	https/<rest>                https://<rest>
package resolve

import (
	"context"
	stderrors "errors"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/cloudydeno/module-visualizer/pkg/errors"
	"github.com/cloudydeno/module-visualizer/pkg/integrations"
	"github.com/cloudydeno/module-visualizer/pkg/integrations/github"
)

const (
	// FallbackBranch is used when a repository's default branch is unknown.
	FallbackBranch = "master"

	// DefaultEntrypoint is used for gh/ slugs that name no file.
	DefaultEntrypoint = "deps.ts"
)

// BranchLookup finds the default branch of a GitHub repository.
type BranchLookup interface {
	DefaultBranch(ctx context.Context, owner, repo string, refresh bool) (string, error)
}

// Resolver turns slugs into module URLs.
type Resolver struct {
	// GitHub resolves gh/ slugs. Nil always uses FallbackBranch.
	GitHub BranchLookup
	Logger *log.Logger
}

// New creates a Resolver. If logger is nil, log.Default() is used.
func New(gh BranchLookup, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{GitHub: gh, Logger: logger}
}

// ModuleURL resolves slug. Slugs of an unknown form are NOT_FOUND.
func (r *Resolver) ModuleURL(ctx context.Context, slug string) (string, error) {
	if err := errors.ValidateSlug(slug); err != nil {
		return "", err
	}

	kind, rest, _ := strings.Cut(slug, "/")
	switch kind {
	case "gh":
		return r.github(ctx, rest)
	case "x":
		if rest == "" {
			return "", errors.New(errors.ErrCodeNotFound, "slug %q names no module", slug)
		}
		return "https://deno.land/x/" + rest, nil
	case "https":
		if rest == "" {
			return "", errors.New(errors.ErrCodeNotFound, "slug %q names no module", slug)
		}
		return "https://" + rest, nil
	default:
		return "", errors.New(errors.ErrCodeNotFound, "unrecognized module source in %q", slug)
	}
}

func (r *Resolver) github(ctx context.Context, rest string) (string, error) {
	owner, repo, path, err := github.ParseRepoRef(rest)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = DefaultEntrypoint
	}

	branch := FallbackBranch
	if r.GitHub != nil {
		b, err := r.GitHub.DefaultBranch(ctx, owner, repo, false)
		switch {
		case err == nil:
			branch = b
		case stderrors.Is(err, integrations.ErrNotFound):
			r.Logger.Debug("default branch unknown", "repo", owner+"/"+repo, "fallback", FallbackBranch)
		default:
			return "", errors.Wrap(errors.ErrCodeNetwork, err, "looking up %s/%s on GitHub", owner, repo)
		}
	}
	return "https://raw.githubusercontent.com/" + owner + "/" + repo + "/" + branch + "/" + path, nil
}

// Slug returns the slug that resolves to moduleURL. Only https URLs have
// slugs.
func Slug(moduleURL string) (string, error) {
	if err := errors.ValidateModuleURL(moduleURL); err != nil {
		return "", err
	}
	u, err := url.Parse(moduleURL)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidURL, err, "unparseable module URL %q", moduleURL)
	}
	if u.Scheme != "https" {
		return "", errors.New(errors.ErrCodeInvalidURL, "only https modules can be linked, got %s:", u.Scheme)
	}

	rest := strings.TrimPrefix(moduleURL, "https://")
	if after, ok := strings.CutPrefix(rest, "deno.land/x/"); ok && after != "" {
		return "x/" + after, nil
	}
	return "https/" + rest, nil
}
