package config

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowlayout/pkg/cache"
	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/layout/engine/elk"
	"github.com/matzehuels/flowlayout/pkg/layout/engine/graphviz"
	"github.com/matzehuels/flowlayout/pkg/layout/engine/layered"
)

// NewEngine builds the configured engine without caching.
func NewEngine(c Config) (layout.Engine, error) {
	e := c.Engine
	switch e.Name {
	case EngineLayered:
		return layered.New(layered.Options{NodeSpacing: e.NodeSpacing, LayerSpacing: e.LayerSpacing}), nil
	case EngineELK:
		eng, err := elk.New(elk.Options{
			URL:          e.ELKURL,
			Timeout:      e.Timeout.Duration,
			NodeSpacing:  e.NodeSpacing,
			LayerSpacing: e.LayerSpacing,
		})
		if err != nil {
			return nil, err
		}
		return eng, nil
	case EngineGraphviz, "":
		return graphviz.New(graphviz.Options{NodeSep: e.NodeSpacing, RankSep: e.LayerSpacing}), nil
	}
	return nil, c.Validate()
}

// NewCache opens the configured cache backend.
func NewCache(c Config) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		return cache.NewRedisCache(c.Cache.RedisURL)
	}
	dir, err := c.CacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// NewCachedEngine combines NewEngine and NewCache. With the "none" backend
// the plain engine is returned. The returned close function releases the
// cache.
func NewCachedEngine(c Config, logger *log.Logger) (layout.Engine, func() error, error) {
	eng, err := NewEngine(c)
	if err != nil {
		return nil, nil, err
	}
	if c.Cache.Backend == CacheNone {
		return eng, func() error { return nil }, nil
	}
	store, err := NewCache(c)
	if err != nil {
		return nil, nil, err
	}
	opts := []layout.CacheOption{layout.WithTTL(c.Cache.TTL.Duration)}
	if c.Cache.Prefix != "" {
		opts = append(opts, layout.WithKeyer(cache.NewScopedKeyer(nil, c.Cache.Prefix)))
	}
	if logger != nil {
		opts = append(opts, layout.WithCacheLogger(logger))
	}
	return layout.NewCachedEngine(eng, store, opts...), store.Close, nil
}
