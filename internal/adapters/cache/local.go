package cache

import (
	"log"
	"time"

	"github.com/patrickmn/go-cache"
)

// LocalCache is an in-process TTL cache for rendered views.
type LocalCache struct {
	cache *cache.Cache
}

func NewLocalCache(defaultExpiration, cleanupInterval time.Duration) *LocalCache {
	return &LocalCache{
		cache: cache.New(defaultExpiration, cleanupInterval),
	}
}

func (c *LocalCache) Get(key string) (interface{}, bool) {
	return c.cache.Get(key)
}

func (c *LocalCache) Set(key string, value interface{}) {
	c.cache.SetDefault(key, value)
}

func (c *LocalCache) Delete(key string) {
	c.cache.Delete(key)
}

func (c *LocalCache) Flush() {
	if n := c.cache.ItemCount(); n > 0 {
		log.Printf("[CACHE] Invalidating %d entries", n)
	}
	c.cache.Flush()
}
