package tenant_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/tenantgate/internal/tenant"
)

// Needs a disposable Redis; set TENANTGATE_TEST_REDIS_ADDR=127.0.0.1:6379.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("TENANTGATE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TENANTGATE_TEST_REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	require.NoError(t, rdb.Ping(ctx).Err())

	prefix := "tenantgate:test:" + time.Now().Format("150405.000000") + ":"
	c := tenant.NewRedisCache(rdb, prefix)
	t.Cleanup(func() {
		keys, _ := rdb.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			rdb.Del(ctx, keys...)
		}
	})

	a := tenantA
	c.Set(ctx, "a.example.com", tenant.CacheEntry{Tenant: &a}, time.Minute)
	c.Set(ctx, "x.example.com", tenant.CacheEntry{}, time.Minute)

	ent, ok := c.Get(ctx, "a.example.com")
	require.True(t, ok)
	require.NotNil(t, ent.Tenant)
	assert.Equal(t, tenantA.Domain, ent.Tenant.Domain)

	ent, ok = c.Get(ctx, "x.example.com")
	require.True(t, ok)
	assert.Nil(t, ent.Tenant)

	ttl, err := rdb.TTL(ctx, prefix+"a.example.com").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Delete(ctx, "a.example.com"))
	_, ok = c.Get(ctx, "a.example.com")
	assert.False(t, ok)

	// Corrupt values read as a miss.
	require.NoError(t, rdb.Set(ctx, prefix+"bad.example.com", "{", time.Minute).Err())
	_, ok = c.Get(ctx, "bad.example.com")
	assert.False(t, ok)
}

func TestRedisCache_UnreachableIsMiss(t *testing.T) {
	t.Parallel()

	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	store := newMemStore(tenantA)
	cl := tenant.NewCachedLookup(store, tenant.NewRedisCache(rdb, ""))

	got, err := cl.ByDomain(context.Background(), "a.example.com")
	require.NoError(t, err)
	assert.Equal(t, tenantA.ID, got.ID)
}
