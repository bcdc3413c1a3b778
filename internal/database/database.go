// Package database centralises sqlx connection helpers.  The default driver
// is go-sql-driver/mysql, which also works with MariaDB.  Setting the driver
// to "pgx" switches to PostgreSQL through jackc/pgx's database/sql adapter.
//
// Public entry points:
//
//	Open(ctx, opts)         – pool with Options, pinged with bounded retries.
//	MigrateUp / MigrateDown – embedded goose migrations for the tenant tables.
//	Version                 – current schema version.
//
// Callers should Close() the returned *sqlx.DB when no longer needed.
package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Supported driver names.
const (
	DriverMySQL = "mysql"
	DriverPgx   = "pgx"
)

// Options tunes one pool.
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Retries         int           // extra Ping attempts after the first
	RetryBackoff    time.Duration // doubled after each failed attempt
}

// withDefaults fills zero fields with conservative pool sizes: 15 open,
// 5 idle, 30-minute lifetime, two retries starting at 500 ms.
func (o Options) withDefaults() Options {
	if o.Driver == "" {
		o.Driver = DriverMySQL
	}
	if o.MaxOpenConns == 0 {
		o.MaxOpenConns = 15
	}
	if o.MaxIdleConns == 0 {
		o.MaxIdleConns = 5
	}
	if o.ConnMaxLifetime == 0 {
		o.ConnMaxLifetime = 30 * time.Minute
	}
	if o.RetryBackoff == 0 {
		o.RetryBackoff = 500 * time.Millisecond
	}
	return o
}

// Open returns a pinged *sqlx.DB.  The Ping is retried opts.Retries times
// so a database that starts alongside the service does not abort boot.
func Open(ctx context.Context, opts Options) (*sqlx.DB, error) {
	opts = opts.withDefaults()
	if opts.Driver != DriverMySQL && opts.Driver != DriverPgx {
		return nil, fmt.Errorf("database: unsupported driver %q", opts.Driver)
	}

	db, err := sqlx.Open(opts.Driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	backoff := opts.RetryBackoff
	for attempt := 0; ; attempt++ {
		err = db.PingContext(ctx)
		if err == nil {
			return db, nil
		}
		if attempt >= opts.Retries {
			break
		}
		zap.S().Warnw("database ping failed, retrying",
			"driver", opts.Driver, "attempt", attempt+1, "backoff", backoff, "err", err)

		t := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			_ = db.Close()
			return nil, ctx.Err()
		case <-t.C:
		}
		backoff *= 2
	}

	_ = db.Close()
	return nil, fmt.Errorf("database: ping: %w", err)
}
