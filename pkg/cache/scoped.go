package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, so
// several deployments can share one Redis or Mongo cache.
//
// Example usage:
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// ContractionKey generates a prefixed key for contraction results.
func (k *ScopedKeyer) ContractionKey(graphHash string, opts ContractionKeyOpts) string {
	return k.prefix + k.inner.ContractionKey(graphHash, opts)
}

// RenderKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) RenderKey(mappingHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(mappingHash, opts)
}
