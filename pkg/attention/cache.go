package attention

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultCacheSize = 2048
	defaultCacheTTL  = 60 * time.Minute
)

// resultCache holds computed attention maps keyed by direction, node id,
// and result bound. Entries age out after the TTL; the engine purges the
// whole cache whenever the graph mutates, so staleness is bounded by
// whichever comes first.
type resultCache struct {
	lru *expirable.LRU[string, map[string]float64]
}

func newResultCache(size int, ttl time.Duration) *resultCache {
	return &resultCache{
		lru: expirable.NewLRU[string, map[string]float64](size, nil, ttl),
	}
}

func (c *resultCache) Get(key string) (map[string]float64, bool) {
	return c.lru.Get(key)
}

func (c *resultCache) Add(key string, value map[string]float64) {
	c.lru.Add(key, value)
}

func (c *resultCache) Purge() {
	c.lru.Purge()
}

func (c *resultCache) Len() int {
	return c.lru.Len()
}
