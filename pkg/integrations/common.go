package integrations

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cloudydeno/module-visualizer/pkg/cache"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a repository, module or version doesn't exist upstream.
	ErrNotFound = fmt.Errorf("resource %w", cache.ErrNotFound)

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = cache.ErrNetwork
)

// NewHTTPClient creates an HTTP client with a standard timeout for upstream requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// PathEscape percent-encodes a single path segment.
// This is a convenience wrapper around [url.PathEscape].
func PathEscape(s string) string { return url.PathEscape(s) }
