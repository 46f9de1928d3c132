package layout

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowlayout/pkg/buildinfo"
	"github.com/matzehuels/flowlayout/pkg/cache"
	"github.com/matzehuels/flowlayout/pkg/observability"
)

// Fingerprinter is implemented by engines whose output depends on settings
// other than the request, such as spacing. The fingerprint becomes part of
// the cache key.
type Fingerprinter interface {
	Fingerprint() string
}

// CachedEngine remembers the results of another engine.
//
// The key is a hash of the request with the root id blanked out, since Build
// picks a fresh root id on every call. Cache failures are logged and treated
// as misses; they never fail a layout.
type CachedEngine struct {
	engine Engine
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger

	hits, misses atomic.Int64
}

// CacheOption configures a CachedEngine.
type CacheOption func(*CachedEngine)

// WithKeyer sets the key generator. The default is cache.NewDefaultKeyer().
func WithKeyer(k cache.Keyer) CacheOption {
	return func(e *CachedEngine) { e.keyer = k }
}

// WithTTL sets how long results are kept. The default is cache.TTLLayout.
func WithTTL(ttl time.Duration) CacheOption {
	return func(e *CachedEngine) { e.ttl = ttl }
}

// WithCacheLogger sets the logger for cache failures.
func WithCacheLogger(l *log.Logger) CacheOption {
	return func(e *CachedEngine) { e.logger = l }
}

// NewCachedEngine wraps engine with c.
func NewCachedEngine(engine Engine, c cache.Cache, opts ...CacheOption) *CachedEngine {
	e := &CachedEngine{
		engine: engine,
		cache:  c,
		keyer:  cache.NewDefaultKeyer(),
		ttl:    cache.TTLLayout,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CacheStats counts lookups since the engine was created.
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Stats returns the hit and miss counts.
func (e *CachedEngine) Stats() CacheStats {
	return CacheStats{Hits: e.hits.Load(), Misses: e.misses.Load()}
}

// Name returns the wrapped engine's name.
func (e *CachedEngine) Name() string { return e.engine.Name() }

// Layout returns a cached result for g if there is one, otherwise runs the
// wrapped engine and stores its result.
func (e *CachedEngine) Layout(ctx context.Context, g *Graph) (*Graph, error) {
	key, err := e.key(g)
	if err != nil {
		e.logger.Warn("layout cache disabled for request", "err", err)
		return e.engine.Layout(ctx, g)
	}

	if result, ok := e.lookup(ctx, key); ok {
		e.hits.Add(1)
		observability.Cache().OnCacheHit(ctx, key)
		result.ID = g.ID
		return result, nil
	}
	e.misses.Add(1)
	observability.Cache().OnCacheMiss(ctx, key)

	result, err := e.engine.Layout(ctx, g)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		e.logger.Warn("layout cache encode failed", "err", err)
		return result, nil
	}
	if err := e.cache.Set(ctx, key, data, e.ttl); err != nil {
		e.logger.Warn("layout cache write failed", "key", key, "err", err)
		return result, nil
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
	return result, nil
}

func (e *CachedEngine) key(g *Graph) (string, error) {
	anon := *g
	anon.ID = ""
	data, err := json.Marshal(&anon)
	if err != nil {
		return "", err
	}
	engine := e.engine.Name()
	if f, ok := e.engine.(Fingerprinter); ok {
		engine += ":" + f.Fingerprint()
	}
	return e.keyer.LayoutKey(cache.Hash(data), cache.LayoutKeyOpts{
		Engine:  engine,
		Version: buildinfo.Version,
	}), nil
}

func (e *CachedEngine) lookup(ctx context.Context, key string) (*Graph, bool) {
	data, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn("layout cache read failed", "key", key, "err", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var result Graph
	if err := json.Unmarshal(data, &result); err != nil {
		e.logger.Debug("discarding corrupt layout cache entry", "key", key, "err", err)
		return nil, false
	}
	return &result, true
}

var _ Engine = (*CachedEngine)(nil)
