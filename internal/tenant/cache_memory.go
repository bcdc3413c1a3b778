package tenant

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultMaxEntries bounds the in-process cache.
const DefaultMaxEntries = 10000

// negativeShare is the fraction of maxEntries allowed for negative
// entries.  They are keyed by client-supplied hosts and never count
// against the tenant store.
const negativeShare = 4

// MemoryCache is an in-process Cache built on go-cache.  Positive and
// negative entries are kept in separate stores with separate caps.
// Expired entries are swept by go-cache's janitor every cleanup interval.
type MemoryCache struct {
	pos    *gocache.Cache
	neg    *gocache.Cache
	maxPos int
	maxNeg int
}

// NewMemoryCache returns a MemoryCache holding at most maxEntries tenants
// and maxEntries/4 (at least one) negative entries.
func NewMemoryCache(maxEntries int, cleanup time.Duration) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &MemoryCache{
		pos:    gocache.New(DefaultCacheTTL, cleanup),
		neg:    gocache.New(DefaultNegativeCacheTTL, cleanup),
		maxPos: maxEntries,
		maxNeg: max(maxEntries/negativeShare, 1),
	}
}

func (m *MemoryCache) Get(_ context.Context, domain string) (CacheEntry, bool) {
	if v, ok := m.pos.Get(domain); ok {
		return v.(CacheEntry), true
	}
	if _, ok := m.neg.Get(domain); ok {
		return CacheEntry{}, true
	}
	return CacheEntry{}, false
}

// Set stores entry unless its store is full.  Refreshing an existing key is
// always allowed.
func (m *MemoryCache) Set(_ context.Context, domain string, entry CacheEntry, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if entry.Tenant == nil {
		if put(m.neg, m.maxNeg, domain, struct{}{}, ttl) {
			m.pos.Delete(domain)
		}
		return
	}
	if put(m.pos, m.maxPos, domain, entry, ttl) {
		m.neg.Delete(domain)
	}
}

// put writes v under key unless c already holds limit other items.
func put(c *gocache.Cache, limit int, key string, v any, ttl time.Duration) bool {
	if _, exists := c.Get(key); !exists && c.ItemCount() >= limit {
		c.DeleteExpired()
		if c.ItemCount() >= limit {
			return false
		}
	}
	c.Set(key, v, ttl)
	return true
}

func (m *MemoryCache) Delete(_ context.Context, domain string) error {
	m.pos.Delete(domain)
	m.neg.Delete(domain)
	return nil
}

// Len reports the number of stored items, expired ones included until the
// janitor runs.
func (m *MemoryCache) Len() int { return m.pos.ItemCount() + m.neg.ItemCount() }

// NoCache disables caching while keeping CachedLookup's coalescing.
type NoCache struct{}

func (NoCache) Get(context.Context, string) (CacheEntry, bool)         { return CacheEntry{}, false }
func (NoCache) Set(context.Context, string, CacheEntry, time.Duration) {}
func (NoCache) Delete(context.Context, string) error                   { return nil }
