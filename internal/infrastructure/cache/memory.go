package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ProductDiscoveryPcCom/serp-price-checker/internal/domain"
)

// cacheItem is a single stored value with its expiration time.
type cacheItem struct {
	value      interface{}
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache with per-key TTL. Values are
// stored as-is; callers get back exactly what they put in, so typed structs
// survive without serialization. Used to memoize LLM title extractions
// across analysis runs.
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

const defaultSweepInterval = 10 * time.Minute

// NewMemoryCache creates a memory cache and starts a background sweep that
// drops expired entries.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{data: make(map[string]cacheItem)}
	go c.sweep(defaultSweepInterval)
	return c
}

// Get retrieves a value, returning domain.ErrCacheMiss for absent or
// expired keys.
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || time.Now().After(item.expiration) {
		return nil, domain.ErrCacheMiss
	}
	return item.value, nil
}

// Set stores a value under key for ttl.
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		value:      value,
		expiration: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists reports whether key is present and unexpired.
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || time.Now().After(item.expiration) {
		return false, nil
	}
	return true, nil
}

// Size returns the current number of stored items, expired or not.
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes every stored item.
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}

func (c *MemoryCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}
