// Package cache stores computed layout results keyed by a hash of their request.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for the
// HTTP server, and [NullCache] when caching is disabled. Keys are produced by
// a [Keyer] so that deployments can namespace them with [NewScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	// TTLLayout is how long a computed layout stays valid. Layouts are a pure
	// function of the request, so this only bounds storage growth.
	TTLLayout = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey generates a key for a layout result.
	LayoutKey(requestHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts contains the parts of a layout key besides the request hash.
type LayoutKeyOpts struct {
	Engine  string `json:"engine"`
	Version string `json:"version,omitempty"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey generates a key of the form "layout:<sha256>".
func (DefaultKeyer) LayoutKey(requestHash string, opts LayoutKeyOpts) string {
	return namespacedKey("layout", requestHash, opts)
}
