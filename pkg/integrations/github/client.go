package github

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudydeno/module-visualizer/pkg/cache"
	"github.com/cloudydeno/module-visualizer/pkg/integrations"
)

// DefaultBaseURL is the public GitHub API.
const DefaultBaseURL = "https://api.github.com"

// Client provides access to the GitHub API for repository lookups.
// It handles HTTP requests with caching, automatic retries, and optional authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (lower rate limits).
func NewClient(c cache.Cache, token string, cacheTTL time.Duration) *Client {
	return NewClientWithBaseURL(c, token, cacheTTL, DefaultBaseURL)
}

// NewClientWithBaseURL is [NewClient] against another API root, such as
// GitHub Enterprise or a test server.
func NewClientWithBaseURL(c cache.Cache, token string, cacheTTL time.Duration, baseURL string) *Client {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &Client{
		Client:  integrations.NewClient(c, "github", cacheTTL, headers),
		baseURL: baseURL,
	}
}

// DefaultBranch returns the default branch of owner/repo.
// If refresh is true, cached data is bypassed.
func (c *Client) DefaultBranch(ctx context.Context, owner, repo string, refresh bool) (string, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return "", err
	}

	var data repoResponse
	err := c.Cached(ctx, "repo:"+owner+"/"+repo, refresh, &data, func() error {
		return c.fetchRepo(ctx, owner, repo, &data)
	})
	if err != nil {
		return "", err
	}
	if data.DefaultBranch == "" {
		return "", fmt.Errorf("%w: github repo %s/%s has no default branch", integrations.ErrNotFound, owner, repo)
	}
	return data.DefaultBranch, nil
}

func (c *Client) fetchRepo(ctx context.Context, owner, repo string, data *repoResponse) error {
	url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, integrations.PathEscape(owner), integrations.PathEscape(repo))
	if err := c.Get(ctx, url, data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
		}
		return err
	}
	return nil
}

// Tags returns the tag names of owner/repo as the API lists them, newest
// first. Only the first page is read.
func (c *Client) Tags(ctx context.Context, owner, repo string, refresh bool) ([]string, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}

	var tags []tagResponse
	err := c.Cached(ctx, "tags:"+owner+"/"+repo, refresh, &tags, func() error {
		url := fmt.Sprintf("%s/repos/%s/%s/tags", c.baseURL, integrations.PathEscape(owner), integrations.PathEscape(repo))
		if err := c.Get(ctx, url, &tags); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names, nil
}
