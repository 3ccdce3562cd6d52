package forms

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrymomot/simpleforms/pkg/cache"
	"github.com/dmitrymomot/simpleforms/pkg/file"
)

const registryKey = "registry"

// Cache keeps a loaded Registry for ttl. A zero ttl loads on every call.
// Failed loads are never cached.
type Cache struct {
	storage file.Storage
	opts    []Option
	ttl     time.Duration
	lru     *cache.LRU[string, *Registry]
	mu      sync.Mutex
}

func NewCache(storage file.Storage, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{storage: storage, opts: opts, ttl: ttl}
	if ttl > 0 {
		c.lru = cache.New[string, *Registry](1, ttl)
	}
	return c
}

// Registry returns the cached registry or loads a fresh one.
func (c *Cache) Registry(ctx context.Context) (*Registry, error) {
	if c.lru == nil {
		return Load(ctx, c.storage, c.opts...)
	}
	if reg, ok := c.lru.Get(registryKey); ok {
		return reg, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if reg, ok := c.lru.Get(registryKey); ok {
		return reg, nil
	}
	reg, err := Load(ctx, c.storage, c.opts...)
	if err != nil {
		return nil, err
	}
	c.lru.Put(registryKey, reg)
	return reg, nil
}

// Invalidate drops the cached registry.
func (c *Cache) Invalidate() {
	if c.lru != nil {
		c.lru.Remove(registryKey)
	}
}
