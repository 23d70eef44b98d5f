package cache

// ScopedKeyer wraps a Keyer with a prefix, so several deployments can
// share one Redis without colliding:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "modviz:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// GraphKey generates a prefixed key for raw graph caching.
func (k *ScopedKeyer) GraphKey(moduleURL string) string {
	return k.prefix + k.inner.GraphKey(moduleURL)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(moduleURL string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(moduleURL, opts)
}
