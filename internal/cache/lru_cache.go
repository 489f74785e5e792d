package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LRUCache is the in-process fallback used when Redis is not configured.
// Entries expire after the TTL given at construction; the per-call ttl of
// SetJSON is ignored. Counters live outside the LRU and are never evicted.
type LRUCache struct {
	lru *expirable.LRU[string, []byte]
	ttl time.Duration

	mu       sync.Mutex
	counters map[string]int64
}

func NewLRUCache(size int, ttl time.Duration) *LRUCache {
	if size <= 0 {
		size = 128
	}
	// expirable treats 0 as "never expire"
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LRUCache{
		lru:      expirable.NewLRU[string, []byte](size, nil, ttl),
		ttl:      ttl,
		counters: map[string]int64{},
	}
}

func (c *LRUCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	b, ok := c.lru.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		c.lru.Remove(key)
		return false, nil
	}
	return true, nil
}

func (c *LRUCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.lru.Add(key, b)
	return nil
}

func (c *LRUCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.lru.Remove(k)
	}
	return nil
}

func (c *LRUCache) Generation(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[key], nil
}

func (c *LRUCache) Bump(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[key]++
	return c.counters[key], nil
}
