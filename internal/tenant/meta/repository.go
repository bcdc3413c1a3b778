// internal/tenant/meta/repository.go
//
// Tenant-table query helpers.
//
// Context
// -------
// These functions provide read-only access to the **tenant** table:
//
//   - `ByDomain`  – the resolver's lookup, once per cache miss.  Store
//     adds the tenant's settings to the same result.
//   - `AllActive` – admin listing and the `tenants list` command.
//
// Both helpers exclude suspended or deleted rows at SQL level to keep
// callers simple.
//
// Workflow
// --------
//  1. Callers supply a *sqlx.DB connected to the control-plane database.
//  2. Each helper executes exactly one parameterised SELECT, rebound for
//     the driver in use (`?` for MySQL, `$n` for pgx).
//  3. Rows are scanned into `Record`.
//  4. Errors are wrapped with the helper name so logs show the call site.
//
// Notes
// -----
//   - Column list matches the fields in `Record`; update both together.
//   - ByDomain reads up to two rows so a broken UNIQUE constraint surfaces
//     as tenant.ErrDuplicateDomain instead of an arbitrary pick.
package meta

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/tenantgate/internal/tenant"
)

const selectColumns = `
        SELECT id, domain, name, color, locale,
               suspended_at, deleted_at, created_at, updated_at
        FROM   tenant`

// AllActive returns every tenant that is neither suspended nor deleted,
// ordered by domain.
func AllActive(ctx context.Context, db *sqlx.DB) ([]Record, error) {
	const q = selectColumns + `
        WHERE  suspended_at IS NULL
          AND  deleted_at   IS NULL
        ORDER  BY domain`
	var rows []Record
	if err := db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("meta.AllActive: %w", err)
	}
	return rows, nil
}

// ByDomain fetches the single active row for domain.  It returns
// tenant.ErrNotFound when there is none and tenant.ErrDuplicateDomain when
// there is more than one.
func ByDomain(ctx context.Context, db *sqlx.DB, domain string) (*Record, error) {
	q := db.Rebind(selectColumns + `
        WHERE  domain = ?
          AND  suspended_at IS NULL
          AND  deleted_at   IS NULL
        LIMIT  2`)

	var rows []Record
	if err := db.SelectContext(ctx, &rows, q, domain); err != nil {
		return nil, fmt.Errorf("meta.ByDomain %q: %w", domain, err)
	}

	switch len(rows) {
	case 0:
		return nil, tenant.ErrNotFound
	case 1:
		return &rows[0], nil
	default:
		return nil, fmt.Errorf("meta.ByDomain %q: %w", domain, tenant.ErrDuplicateDomain)
	}
}

// Store adapts the helpers to tenant.Lookup.
type Store struct {
	db *sqlx.DB
}

// NewStore returns a Store reading from db.
func NewStore(db *sqlx.DB) *Store { return &Store{db: db} }

// ByDomain implements tenant.Lookup.  The tenant's settings are loaded
// with the row, so a cached Tenant needs no further queries.  A settings
// failure fails the whole lookup.
func (s *Store) ByDomain(ctx context.Context, domain string) (*tenant.Tenant, error) {
	rec, err := ByDomain(ctx, s.db, domain)
	if err != nil {
		return nil, err
	}
	settings, err := SettingsByTenant(ctx, s.db, rec.ID)
	if err != nil {
		return nil, err
	}
	t := rec.Tenant()
	if len(settings) > 0 {
		t.Settings = settings
	}
	return &t, nil
}

// Active returns all active tenants as request-scoped values.
func (s *Store) Active(ctx context.Context) ([]tenant.Tenant, error) {
	recs, err := AllActive(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]tenant.Tenant, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Tenant())
	}
	return out, nil
}
