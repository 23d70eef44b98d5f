package denoland

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/cloudydeno/module-visualizer/pkg/cache"
	"github.com/cloudydeno/module-visualizer/pkg/integrations"
)

// DefaultBaseURL is the deno.land/x CDN.
const DefaultBaseURL = "https://cdn.deno.land"

// deno.land/x module names are lowercase with digits and underscores.
var validName = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)

// Versions is the version listing of one module, newest first.
type Versions struct {
	Latest   string   `json:"latest"`
	Versions []string `json:"versions"`
}

// Client fetches module metadata from the CDN.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a CDN client caching listings in c for cacheTTL.
func NewClient(c cache.Cache, cacheTTL time.Duration) *Client {
	return NewClientWithBaseURL(c, cacheTTL, DefaultBaseURL)
}

// NewClientWithBaseURL is [NewClient] against another CDN root.
func NewClientWithBaseURL(c cache.Cache, cacheTTL time.Duration, baseURL string) *Client {
	return &Client{
		Client:  integrations.NewClient(c, "denoland", cacheTTL, nil),
		baseURL: baseURL,
	}
}

// FetchVersions returns the version listing of module name.
// If refresh is true, cached data is bypassed.
func (c *Client) FetchVersions(ctx context.Context, name string, refresh bool) (*Versions, error) {
	if !validName.MatchString(name) {
		return nil, fmt.Errorf("%w: invalid module name %q", integrations.ErrNotFound, name)
	}

	var v Versions
	err := c.Cached(ctx, "versions:"+name, refresh, &v, func() error {
		url := fmt.Sprintf("%s/%s/meta/versions.json", c.baseURL, name)
		if err := c.Get(ctx, url, &v); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: deno.land/x/%s", err, name)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// LatestVersion returns the latest published version of module name.
func (c *Client) LatestVersion(ctx context.Context, name string, refresh bool) (string, error) {
	v, err := c.FetchVersions(ctx, name, refresh)
	if err != nil {
		return "", err
	}
	if v.Latest == "" {
		return "", fmt.Errorf("%w: deno.land/x/%s has no releases", integrations.ErrNotFound, name)
	}
	return v.Latest, nil
}
