package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/katsuyo/pkg/domain"
)

type item struct {
	surface string
	expires time.Time
}

// Cache implements ports.Cache in memory.
// Safe for concurrent use.
type Cache struct {
	data map[string]item
	mu   sync.RWMutex
	now  func() time.Time
}

// NewCache creates a new in-memory cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]item),
		now:  time.Now,
	}
}

// Get returns the cached form, honouring expiration lazily.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	it, ok := c.data[key]
	c.mu.RUnlock()

	if !ok {
		return "", domain.ErrCacheMiss
	}
	if !it.expires.IsZero() && c.now().After(it.expires) {
		c.mu.Lock()
		delete(c.data, key)
		c.mu.Unlock()
		return "", domain.ErrCacheMiss
	}
	return it.surface, nil
}

// Set stores a form. A zero ttl never expires.
func (c *Cache) Set(ctx context.Context, key, surface string, ttl time.Duration) error {
	it := item{surface: surface}
	if ttl > 0 {
		it.expires = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = it
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
