// internal/database/migrate.go
//
// Embedded schema migrations (pressly/goose).
//
// The tenant and tenant_setting tables ship with the binary.  MySQL and
// PostgreSQL keep separate directories because their DDL differs; the
// driver name picks one.  `tenantgate migrate` is the only caller, so the
// package-level goose state is set just before each run.
package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/mysql/*.sql migrations/postgres/*.sql
var migrations embed.FS

// migrationDir maps a driver to its goose dialect and embedded directory.
func migrationDir(driver string) (dialect, dir string, err error) {
	switch driver {
	case DriverMySQL, "":
		return "mysql", "migrations/mysql", nil
	case DriverPgx:
		return "postgres", "migrations/postgres", nil
	default:
		return "", "", fmt.Errorf("database: no migrations for driver %q", driver)
	}
}

func prepare(driver string) (string, error) {
	dialect, dir, err := migrationDir(driver)
	if err != nil {
		return "", err
	}
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("database: goose dialect: %w", err)
	}
	return dir, nil
}

// MigrateUp applies all pending migrations.
func MigrateUp(ctx context.Context, db *sqlx.DB, driver string) error {
	dir, err := prepare(driver)
	if err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db.DB, dir); err != nil {
		return fmt.Errorf("database: migrate up: %w", err)
	}
	return nil
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(ctx context.Context, db *sqlx.DB, driver string) error {
	dir, err := prepare(driver)
	if err != nil {
		return err
	}
	if err := goose.DownContext(ctx, db.DB, dir); err != nil {
		return fmt.Errorf("database: migrate down: %w", err)
	}
	return nil
}

// Version returns the current schema version.
func Version(ctx context.Context, db *sqlx.DB, driver string) (int64, error) {
	if _, err := prepare(driver); err != nil {
		return 0, err
	}
	v, err := goose.GetDBVersionContext(ctx, db.DB)
	if err != nil {
		return 0, fmt.Errorf("database: migrate version: %w", err)
	}
	return v, nil
}
