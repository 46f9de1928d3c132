// Package config loads flowlayout settings from TOML.
//
// A configuration file has four sections. Every key is optional; missing
// keys keep the values of [Default]:
//
//	[layout]
//	horizontal = true
//	[layout.padding]
//	top = 40
//	right = 20
//	bottom = 20
//	left = 20
//
//	[engine]
//	name = "graphviz"      # graphviz | layered | elk
//	node_spacing = 20
//	layer_spacing = 40
//	timeout = "30s"
//	elk_url = "http://localhost:8080/layout"
//
//	[cache]
//	backend = "file"       # file | redis | none
//	dir = ""               # defaults to $XDG_CACHE_HOME/flowlayout
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
//	prefix = ""            # namespace for keys in a shared redis
//
//	[server]
//	addr = "127.0.0.1:8750"
//	max_body_bytes = 4194304
//
// Unknown keys are rejected so that typos do not go unnoticed.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	ferrors "github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

// appName names the configuration and cache directories.
const appName = "flowlayout"

// Engine names.
const (
	EngineGraphviz = "graphviz"
	EngineLayered  = "layered"
	EngineELK      = "elk"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Duration is a time.Duration written as a string such as "30s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the complete configuration.
type Config struct {
	Layout layout.Config `toml:"layout"`
	Engine Engine        `toml:"engine"`
	Cache  Cache         `toml:"cache"`
	Server Server        `toml:"server"`
}

// Engine selects and tunes the layout engine.
type Engine struct {
	Name         string   `toml:"name"`
	NodeSpacing  float64  `toml:"node_spacing"`
	LayerSpacing float64  `toml:"layer_spacing"`
	Timeout      Duration `toml:"timeout"`
	ELKURL       string   `toml:"elk_url"`
}

// Cache selects where layout results are kept.
type Cache struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
	Prefix   string   `toml:"prefix"`
}

// Server configures the HTTP service.
type Server struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: layout.DefaultConfig(),
		Engine: Engine{
			Name:         EngineGraphviz,
			NodeSpacing:  20,
			LayerSpacing: 40,
			Timeout:      Duration{30 * time.Second},
			ELKURL:       "http://localhost:8080/layout",
		},
		Cache: Cache{
			Backend:  CacheFile,
			RedisURL: "redis://localhost:6379/0",
			TTL:      Duration{24 * time.Hour},
		},
		Server: Server{
			Addr:         "127.0.0.1:8750",
			MaxBodyBytes: 4 << 20,
		},
	}
}

// Decode reads TOML from r on top of Default and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, ferrors.New(ferrors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the configuration file at path. An empty path loads the
// default file (see DefaultPath) if it exists and Default otherwise.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return Config{}, ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks names, ranges and URLs.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}

	switch c.Engine.Name {
	case EngineGraphviz, EngineLayered:
	case EngineELK:
		if err := ferrors.ValidateURL(c.Engine.ELKURL); err != nil {
			return ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "engine.elk_url")
		}
	default:
		return ferrors.New(ferrors.ErrCodeInvalidEngine, "unknown engine %q (use %s, %s or %s)",
			c.Engine.Name, EngineGraphviz, EngineLayered, EngineELK)
	}
	if c.Engine.NodeSpacing < 0 || c.Engine.LayerSpacing < 0 {
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "engine spacing must not be negative")
	}
	if c.Engine.Timeout.Duration < 0 {
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "engine.timeout must not be negative")
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if !strings.HasPrefix(c.Cache.RedisURL, "redis://") && !strings.HasPrefix(c.Cache.RedisURL, "rediss://") {
			return ferrors.New(ferrors.ErrCodeInvalidConfig, "cache.redis_url must use redis:// or rediss://")
		}
	default:
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "unknown cache backend %q (use %s, %s or %s)",
			c.Cache.Backend, CacheFile, CacheRedis, CacheNone)
	}
	if c.Cache.TTL.Duration < 0 {
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}

	if c.Server.Addr == "" {
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "server.addr cannot be empty")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return ferrors.New(ferrors.ErrCodeInvalidConfig, "server.max_body_bytes must be positive")
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// DefaultPath returns $XDG_CONFIG_HOME/flowlayout/config.toml, falling back
// to ~/.config/flowlayout/config.toml.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DefaultCacheDir returns the cache directory using XDG standard
// (~/.cache/flowlayout/).
func DefaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// CacheDir returns the configured cache directory or the default one.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return DefaultCacheDir()
}
