package cache

import (
	"context"
	"errors"
	"time"
)

// TieredCache checks a fast front cache before a slower back cache. Hits in
// the back cache are copied to the front.
type TieredCache struct {
	front Cache
	back  Cache
	ttl   time.Duration // used when promoting back hits
}

// NewTieredCache layers front over back. Promoted entries live for ttl in the
// front cache.
func NewTieredCache(front, back Cache, ttl time.Duration) *TieredCache {
	return &TieredCache{front: front, back: back, ttl: ttl}
}

// Get retrieves a value from the front cache, falling back to the back cache.
func (c *TieredCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if data, ok, err := c.front.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}

	data, ok, err := c.back.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = c.front.Set(ctx, key, data, c.ttl)
	return data, true, nil
}

// Set stores a value in both caches.
func (c *TieredCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return errors.Join(
		c.front.Set(ctx, key, data, ttl),
		c.back.Set(ctx, key, data, ttl),
	)
}

// Delete removes a value from both caches.
func (c *TieredCache) Delete(ctx context.Context, key string) error {
	return errors.Join(c.front.Delete(ctx, key), c.back.Delete(ctx, key))
}

// Close closes both caches.
func (c *TieredCache) Close() error {
	return errors.Join(c.front.Close(), c.back.Close())
}

// Ensure TieredCache implements Cache.
var _ Cache = (*TieredCache)(nil)
