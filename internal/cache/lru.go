// Package cache provides caching utilities shared by the generator and the MCP server.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU provides thread-safe least-recently-used caching.
type LRU[K comparable, V any] struct {
	cache *lru.Cache[K, V]
}

// NewLRU creates a new LRU cache with the specified maximum number of items.
func NewLRU[K comparable, V any](maxItems int) (*LRU[K, V], error) {
	c, err := lru.New[K, V](maxItems)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{cache: c}, nil
}

// Get retrieves an item from the cache.
// Returns the item and true if found, the zero value and false otherwise.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	return c.cache.Get(key)
}

// Put adds or updates an item in the cache.
func (c *LRU[K, V]) Put(key K, v V) {
	c.cache.Add(key, v)
}

// GetOrCreate returns the cached item for key, building and caching it on a
// miss. Build errors are not cached.
func (c *LRU[K, V]) GetOrCreate(key K, build func() (V, error)) (V, error) {
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	v, err := build()
	if err != nil {
		var zero V
		return zero, err
	}
	c.cache.Add(key, v)
	return v, nil
}

// Len returns the current number of items in the cache.
func (c *LRU[K, V]) Len() int {
	return c.cache.Len()
}
