// Package poolcache caches decoded pool state between fetches.
//
// Staleness policy: entries live for a fixed TTL (default one scan
// generation) and are then re-fetched from chain; there is no invalidation
// signal beyond expiry. Values are copied on both Put and Get so no two
// callers ever share a mutable PoolInfo.
package poolcache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"solana-arb-scanner/internal/domain"
)

// DefaultTTL keeps a pool snapshot for roughly one scan generation.
const DefaultTTL = 2 * time.Second

// Cache is a concurrency-safe pool-address -> PoolInfo store with TTL expiry.
type Cache struct {
	inner *gocache.Cache
}

// New creates a cache with the given TTL. A non-positive TTL falls back to
// DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		inner: gocache.New(ttl, 10*ttl),
	}
}

// Get returns an independently owned copy of the cached pool, if present
// and unexpired.
func (c *Cache) Get(poolAddress string) (*domain.PoolInfo, bool) {
	v, ok := c.inner.Get(poolAddress)
	if !ok {
		return nil, false
	}
	return v.(*domain.PoolInfo).Clone(), true
}

// Put stores a copy of the pool under its address with the default TTL.
func (c *Cache) Put(pool *domain.PoolInfo) {
	c.inner.SetDefault(pool.PoolAddress, pool.Clone())
}

// Flush drops every entry. Used between scans in long-running processes.
func (c *Cache) Flush() {
	c.inner.Flush()
}
