package cache

// ScopedKeyer prefixes every key of an inner Keyer. It is configured with
// cache.prefix so that several deployments can share one Redis database:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "flowlayout:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// the DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey returns the inner key behind the prefix.
func (k *ScopedKeyer) LayoutKey(requestHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(requestHash, opts)
}
