package cache

import "errors"

// Sentinel errors for caching operations.
var (
	// ErrInvalidSize is returned by [NewMemoryCache] for a non-positive size.
	ErrInvalidSize = errors.New("cache size must be positive")

	// ErrClosed is returned when a closed in-memory cache is used.
	ErrClosed = errors.New("cache closed")
)
