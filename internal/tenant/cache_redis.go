// internal/tenant/cache_redis.go
//
// Redis-backed Cache so several tenantgate instances share one view of
// the tenant table.  Values are JSON-encoded CacheEntry blobs under
// `<prefix><domain>` with a per-key TTL.
//
// Redis trouble never fails a request: read errors count as a miss and
// write errors are logged and dropped, leaving the store as the source of
// truth.
package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultRedisPrefix namespaces cache keys.
const DefaultRedisPrefix = "tenantgate:host:"

// RedisCache implements Cache on a go-redis client.
type RedisCache struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedisCache wraps rdb.  An empty prefix selects DefaultRedisPrefix.
func NewRedisCache(rdb redis.UniversalClient, prefix string) *RedisCache {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisCache{rdb: rdb, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, domain string) (CacheEntry, bool) {
	raw, err := c.rdb.Get(ctx, c.prefix+domain).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Warn("tenant cache read failed",
				zap.String("domain", domain), zap.Error(err))
		}
		return CacheEntry{}, false
	}

	var ent CacheEntry
	if err := json.Unmarshal(raw, &ent); err != nil {
		zap.L().Warn("tenant cache entry corrupt",
			zap.String("domain", domain), zap.Error(err))
		return CacheEntry{}, false
	}
	return ent, true
}

func (c *RedisCache) Set(ctx context.Context, domain string, entry CacheEntry, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.prefix+domain, raw, ttl).Err(); err != nil {
		zap.L().Warn("tenant cache write failed",
			zap.String("domain", domain), zap.Error(err))
	}
}

func (c *RedisCache) Delete(ctx context.Context, domain string) error {
	return c.rdb.Del(ctx, c.prefix+domain).Err()
}
