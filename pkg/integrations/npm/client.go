package npm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudydeno/module-visualizer/pkg/cache"
	"github.com/cloudydeno/module-visualizer/pkg/integrations"
)

// DefaultBaseURL is the public npm registry.
const DefaultBaseURL = "https://registry.npmjs.org"

// auditPackage names the synthetic project submitted for auditing.
const auditPackage = "deno_module"

// Vulnerabilities counts audit advisories by severity.
type Vulnerabilities struct {
	Info     int `json:"info"`
	Low      int `json:"low"`
	Moderate int `json:"moderate"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

// Worst returns the most severe level worth flagging: "critical",
// "high" or "moderate". Low and info advisories yield "".
func (v Vulnerabilities) Worst() string {
	switch {
	case v.Critical > 0:
		return "critical"
	case v.High > 0:
		return "high"
	case v.Moderate > 0:
		return "moderate"
	}
	return ""
}

// Client talks to the npm registry.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a registry client caching responses in c for cacheTTL.
func NewClient(c cache.Cache, cacheTTL time.Duration) *Client {
	return NewClientWithBaseURL(c, cacheTTL, DefaultBaseURL)
}

// NewClientWithBaseURL is [NewClient] against another registry.
func NewClientWithBaseURL(c cache.Cache, cacheTTL time.Duration, baseURL string) *Client {
	return &Client{
		Client:  integrations.NewClient(c, "npm", cacheTTL, nil),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// DistTags returns the dist-tags of pkg, such as {"latest": "18.2.0"}.
// If refresh is true, cached data is bypassed.
func (c *Client) DistTags(ctx context.Context, pkg string, refresh bool) (map[string]string, error) {
	pkg = strings.ToLower(strings.TrimSpace(pkg))
	if pkg == "" {
		return nil, fmt.Errorf("%w: empty npm package name", integrations.ErrNotFound)
	}

	var tags map[string]string
	err := c.Cached(ctx, "dist-tags:"+pkg, refresh, &tags, func() error {
		url := c.baseURL + "/-/package/" + integrations.PathEscape(pkg) + "/dist-tags"
		if err := c.Get(ctx, url, &tags); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: npm package %s", err, pkg)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// Audit submits packages (name to exact version) to the registry's
// security audit and returns the advisory counts.
func (c *Client) Audit(ctx context.Context, packages map[string]string) (*Vulnerabilities, error) {
	if len(packages) == 0 {
		return &Vulnerabilities{}, nil
	}

	req := auditRequest{
		Name:         auditPackage,
		Version:      "1.0.0",
		Requires:     packages,
		Dependencies: make(map[string]auditDependency, len(packages)),
	}
	for name, version := range packages {
		req.Dependencies[name] = auditDependency{Version: version}
	}

	// Map keys marshal sorted, so the key is stable for a package set.
	body, err := json.Marshal(req.Requires)
	if err != nil {
		return nil, err
	}

	var resp auditResponse
	err = c.Cached(ctx, "audit:"+cache.Hash(body), false, &resp, func() error {
		return c.Post(ctx, c.baseURL+"/-/npm/v1/security/audits", req, &resp)
	})
	if err != nil {
		return nil, err
	}
	return &resp.Metadata.Vulnerabilities, nil
}

type auditRequest struct {
	Name         string                     `json:"name"`
	Version      string                     `json:"version"`
	Requires     map[string]string          `json:"requires"`
	Dependencies map[string]auditDependency `json:"dependencies"`
}

type auditDependency struct {
	Version string `json:"version"`
}

type auditResponse struct {
	Metadata struct {
		Vulnerabilities Vulnerabilities `json:"vulnerabilities"`
	} `json:"metadata"`
}
