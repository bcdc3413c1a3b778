// cmd/tenantgate/app.go
//
// Shared bootstrap for all commands: config, optional file logger,
// control-plane DB, and the tenant lookup chain
//
//	Resolver → CachedLookup → meta.Store → *sqlx.DB
package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yanizio/tenantgate/internal/config"
	"github.com/yanizio/tenantgate/internal/database"
	"github.com/yanizio/tenantgate/internal/logger"
	"github.com/yanizio/tenantgate/internal/tenant"
	"github.com/yanizio/tenantgate/internal/tenant/meta"
)

// app holds the collaborators a command needs.  close releases them in
// reverse order.
type app struct {
	cfg      *config.Config
	db       *sqlx.DB
	store    *meta.Store
	cached   *tenant.CachedLookup
	resolver *tenant.Resolver
	closers  []func() error
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			zap.S().Warnw("shutdown step failed", "err", err)
		}
	}
}

// bootstrap loads config and, when fileLog is set, installs the rotating
// file logger.
func bootstrap(ctx context.Context, configPath string, fileLog bool) (*app, error) {
	cfg, err := config.Load(ctx, config.Options{Path: configPath})
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg}

	if fileLog {
		if _, err := logger.New(cfg.Log, cfg.Paths.Root, runningInTTY()); err != nil {
			return nil, fmt.Errorf("start logger: %w", err)
		}
		a.closers = append(a.closers, func() error { _ = zap.L().Sync(); return nil })
	}
	return a, nil
}

// openDB connects to the control-plane database.
func (a *app) openDB(ctx context.Context) error {
	zap.S().Infow("connecting to control-plane DB", "driver", a.cfg.Database.Driver)
	db, err := database.Open(ctx, database.Options{
		Driver:       a.cfg.Database.Driver,
		DSN:          a.cfg.Database.ResolvedDSN(),
		MaxOpenConns: a.cfg.Database.MaxOpenConns,
		MaxIdleConns: a.cfg.Database.MaxIdleConns,
		Retries:      a.cfg.Database.PingRetries,
	})
	if err != nil {
		return fmt.Errorf("connect control-plane DB: %w", err)
	}
	a.db = db
	a.store = meta.NewStore(db)
	a.closers = append(a.closers, db.Close)
	zap.S().Infow("control-plane DB online")
	return nil
}

// buildResolver wires cache and resolver on top of the open store.  A
// redis cache must answer PING before the resolver is built.
func (a *app) buildResolver(ctx context.Context) error {
	cc := a.cfg.Tenant.Cache

	var cache tenant.Cache
	switch cc.Driver {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		a.closers = append(a.closers, rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis %s: %w", a.cfg.Redis.Addr, err)
		}
		cache = tenant.NewRedisCache(rdb, cc.RedisPrefix)
	case "none":
		cache = tenant.NoCache{}
	default:
		cache = tenant.NewMemoryCache(cc.MaxEntries, 0)
	}

	a.cached = tenant.NewCachedLookup(a.store, cache,
		tenant.WithTTL(cc.TTL),
		tenant.WithNegativeTTL(cc.NegativeTTL),
		tenant.WithLoadTimeout(a.cfg.Tenant.LookupTimeout),
	)
	a.resolver = tenant.NewResolver(a.cached,
		tenant.WithAdminDomain(a.cfg.Tenant.AdminDomain),
		tenant.WithLocalhostAlias(a.cfg.Tenant.LocalhostAlias),
		tenant.WithLookupTimeout(a.cfg.Tenant.LookupTimeout),
	)
	zap.S().Infow("resolver ready",
		"admin_domain", a.resolver.AdminDomain(),
		"cache", cc.Driver,
		"ttl", cc.TTL,
		"negative_ttl", cc.NegativeTTL,
	)
	return nil
}
