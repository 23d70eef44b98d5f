// Package github provides an HTTP client for the GitHub API.
//
// # Overview
//
// Slugs of the form gh/<owner>/<repo>/<path> point at files in a GitHub
// repository without naming a branch. This package looks up the
// repository's default branch (https://api.github.com) so the slug can be
// turned into a raw.githubusercontent.com URL.
//
// # Usage
//
//	client := github.NewClient(c, token, 24*time.Hour)
//	branch, err := client.DefaultBranch(ctx, "denoland", "deno_std", false)
//	if errors.Is(err, integrations.ErrNotFound) {
//	    // unknown or private repository
//	}
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits. Without a token, the client is limited to 60 requests/hour.
// With a token, the limit is 5000 requests/hour.
//
// # Caching
//
// Responses are cached in the [cache.Cache] given to [NewClient]. Pass
// refresh=true to bypass the cache.
//
// [cache.Cache]: github.com/cloudydeno/module-visualizer/pkg/cache.Cache
package github
