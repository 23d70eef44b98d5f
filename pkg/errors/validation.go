package errors

import (
	"net/url"
	"strings"
	"unicode"
)

const maxURLLength = 2048

// ValidateModuleURL checks that rawURL is something the graph source can
// be asked about: an absolute http, https or file URL without control
// characters.
func ValidateModuleURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "module URL cannot be empty")
	}
	if len(rawURL) > maxURLLength {
		return New(ErrCodeInvalidURL, "module URL too long (max %d characters)", maxURLLength)
	}
	for _, r := range rawURL {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidURL, "module URL contains control characters")
		}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidURL, err, "unparseable module URL %q", rawURL)
	}
	switch u.Scheme {
	case "https", "http":
		if u.Host == "" {
			return New(ErrCodeInvalidURL, "module URL %q has no host", rawURL)
		}
	case "file":
		if u.Path == "" {
			return New(ErrCodeInvalidURL, "module URL %q has no path", rawURL)
		}
	default:
		return New(ErrCodeInvalidURL, "module URL must use https, http or file scheme: %q", rawURL)
	}
	return nil
}

// ValidateSlug checks a path slug taken from a request URL before it is
// resolved to a module URL.
func ValidateSlug(slug string) error {
	if slug == "" {
		return New(ErrCodeInvalidInput, "slug cannot be empty")
	}
	for _, r := range slug {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "slug contains invalid characters")
		}
	}
	if strings.Contains(slug, "\\") {
		return New(ErrCodeInvalidInput, "slug cannot contain backslashes")
	}
	for _, seg := range strings.Split(slug, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidInput, "slug cannot contain path traversal sequences (..)")
		}
	}
	return nil
}
