// Package cache stores rendered artifacts so repeated runs over the same
// program skip decoding and rendering.
//
// # Backends
//
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [MemoryCache]: bounded LRU held in process
//   - [TieredCache]: a fast cache in front of a slower one
//   - [NullCache]: stores nothing (caching disabled)
//
// # Keys
//
// A [Keyer] derives keys from the program hash and the options that affect
// the artifact. Use [NewScopedKeyer] to keep entries written by different
// builds apart.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long artifacts stay cached when no TTL is configured.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported with ok == false and
	// a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// ArtifactKeyOpts lists the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Sharing string  `json:"sharing"`
	Mode    string  `json:"mode"`
	RankSep float64 `json:"ranksep"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey identifies an artifact rendered from a program.
	ArtifactKey(programHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(programHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", programHash, opts)
}
