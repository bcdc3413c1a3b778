// internal/tenant/cache.go
//
// Read-through cache in front of a Lookup.
//
// Context
// -------
// Every request resolves its host, so the store would see one query per
// request without a cache.  CachedLookup keeps recent answers, positive
// and negative, in a pluggable Cache and collapses concurrent misses for
// the same domain into one store query with singleflight.
//
// Workflow
// --------
//  1. Cache hit → return the tenant (or ErrNotFound for a negative entry).
//  2. Miss → singleflight.DoChan keyed by domain.  The shared load runs on
//     a context detached from the first caller's cancellation, bounded by
//     loadTimeout, so one impatient client cannot fail the whole flight.
//  3. Each waiter still honours its own ctx and returns ctx.Err() when it
//     gives up first.
//  4. Successful answers are cached; errors never are.
//
// Notes
// -----
//   - Positive entries live for ttl, negative entries for negativeTTL.
//   - Invalidate bumps a generation counter.  A load that started before the
//     bump still answers its waiters but does not write to the cache.
//   - Counters are exported through internal/metrics.
package tenant

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/tenantgate/internal/metrics"
)

// Static defaults.  Override via config (tenant.cache.*).
const (
	DefaultCacheTTL         = 5 * time.Minute
	DefaultNegativeCacheTTL = 30 * time.Second
	DefaultLoadTimeout      = 5 * time.Second
)

// CacheEntry is what a Cache stores per domain.  A nil Tenant marks a
// negative entry: the domain was looked up and no tenant owns it.
type CacheEntry struct {
	Tenant *Tenant `json:"tenant,omitempty"`
}

// Cache is the storage behind CachedLookup.
type Cache interface {
	Get(ctx context.Context, domain string) (CacheEntry, bool)
	Set(ctx context.Context, domain string, entry CacheEntry, ttl time.Duration)
	Delete(ctx context.Context, domain string) error
}

// CachedLookup decorates a Lookup with caching and request coalescing.
type CachedLookup struct {
	next        Lookup
	cache       Cache
	sfg         singleflight.Group
	gen         atomic.Uint64
	ttl         time.Duration
	negativeTTL time.Duration
	loadTimeout time.Duration
}

// CacheOption configures a CachedLookup.
type CacheOption func(*CachedLookup)

// WithTTL sets how long found tenants stay cached.
func WithTTL(d time.Duration) CacheOption {
	return func(c *CachedLookup) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithNegativeTTL sets how long unknown domains stay cached.  Zero or
// negative disables negative caching.
func WithNegativeTTL(d time.Duration) CacheOption {
	return func(c *CachedLookup) { c.negativeTTL = d }
}

// WithLoadTimeout bounds one shared store query.
func WithLoadTimeout(d time.Duration) CacheOption {
	return func(c *CachedLookup) {
		if d > 0 {
			c.loadTimeout = d
		}
	}
}

// NewCachedLookup wraps next with cache.
func NewCachedLookup(next Lookup, cache Cache, opts ...CacheOption) *CachedLookup {
	c := &CachedLookup{
		next:        next,
		cache:       cache,
		ttl:         DefaultCacheTTL,
		negativeTTL: DefaultNegativeCacheTTL,
		loadTimeout: DefaultLoadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ByDomain implements Lookup.
func (c *CachedLookup) ByDomain(ctx context.Context, domain string) (*Tenant, error) {
	if ent, ok := c.cache.Get(ctx, domain); ok {
		if ent.Tenant == nil {
			metrics.CacheRequests.WithLabelValues("negative_hit").Inc()
			return nil, ErrNotFound
		}
		metrics.CacheRequests.WithLabelValues("hit").Inc()
		t := ent.Tenant.clone()
		return &t, nil
	}
	metrics.CacheRequests.WithLabelValues("miss").Inc()

	ch := c.sfg.DoChan(domain, func() (any, error) {
		return c.load(context.WithoutCancel(ctx), domain)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		t := res.Val.(*Tenant).clone()
		return &t, nil
	}
}

// load queries the wrapped Lookup and records the answer.
func (c *CachedLookup) load(ctx context.Context, domain string) (*Tenant, error) {
	// Double-check after the singleflight barrier.
	if ent, ok := c.cache.Get(ctx, domain); ok {
		if ent.Tenant == nil {
			return nil, ErrNotFound
		}
		return ent.Tenant, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()

	gen := c.gen.Load()
	metrics.StoreLoadTotal.Inc()
	t, err := c.next.ByDomain(ctx, domain)
	fresh := c.gen.Load() == gen
	switch {
	case err == nil && t != nil:
		if fresh {
			c.cache.Set(ctx, domain, CacheEntry{Tenant: t}, c.ttl)
		}
		return t, nil
	case err == nil, errors.Is(err, ErrNotFound):
		if fresh && c.negativeTTL > 0 {
			c.cache.Set(ctx, domain, CacheEntry{}, c.negativeTTL)
		}
		return nil, ErrNotFound
	default:
		metrics.StoreLoadErrorsTotal.Inc()
		zap.L().Warn("tenant store load failed",
			zap.String("domain", domain), zap.Error(err))
		return nil, err
	}
}

// Invalidate drops any cached answer for domain.  Use it after admin
// tooling creates, renames, or suspends a tenant.  Loads already in flight
// finish, but their answers are not cached.
func (c *CachedLookup) Invalidate(ctx context.Context, domain string) error {
	key, err := NormalizeHost(domain)
	if err != nil {
		return err
	}
	c.gen.Add(1)
	c.sfg.Forget(key)
	return c.cache.Delete(ctx, key)
}
