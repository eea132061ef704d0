package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "equipment-access/pkg/errors"
)

type cacheItem struct {
	value   string
	expires time.Time
}

// Cache implements repositories.CacheRepositoryInterface for a single process.
type Cache struct {
	mu    sync.Mutex
	items map[string]cacheItem
	now   func() time.Time
}

func NewCache() *Cache {
	return &Cache{items: make(map[string]cacheItem), now: time.Now}
}

func (c *Cache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.live(key)
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return item.value, nil
}

func (c *Cache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(key, value, expiration)
	return nil
}

func (c *Cache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *Cache) SetNX(_ context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.live(key); ok {
		return false, nil
	}
	c.put(key, value, expiration)
	return true, nil
}

func (c *Cache) live(key string) (cacheItem, bool) {
	item, ok := c.items[key]
	if !ok {
		return cacheItem{}, false
	}
	if !item.expires.IsZero() && !c.now().Before(item.expires) {
		delete(c.items, key)
		return cacheItem{}, false
	}
	return item, true
}

func (c *Cache) put(key string, value interface{}, expiration time.Duration) {
	item := cacheItem{value: fmt.Sprint(value)}
	if expiration > 0 {
		item.expires = c.now().Add(expiration)
	}
	c.items[key] = item
}
