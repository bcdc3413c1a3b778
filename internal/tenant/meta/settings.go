// internal/tenant/meta/settings.go
//
// Per-tenant presentation settings.
//
// Context
// -------
// Every tenant can define arbitrary string settings in the
// `tenant_setting` table (brand colour, display name overrides, and so
// on).  Store.ByDomain loads them alongside the tenant row, so they are
// cached with it and internal/brand never queries per request.
//
// Notes
// -----
//   - String keys are case-sensitive and expected to be unique per tenant.
//   - The helper never logs; callers wrap or log errors themselves.
package meta

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SettingsByTenant loads all rows from `tenant_setting` for one tenant_id
// and returns them as a map[key]value.
func SettingsByTenant(ctx context.Context, db *sqlx.DB, tenantID uint64) (map[string]string, error) {
	q := db.Rebind(`
	    SELECT  setting_key, setting_value
	    FROM    tenant_setting
	    WHERE   tenant_id = ?`)

	// Small slice cap avoids reallocations when a tenant uses only a
	// handful of settings.
	rows := make([]struct {
		Key   string `db:"setting_key"`
		Value string `db:"setting_value"`
	}, 0, 8)

	if err := db.SelectContext(ctx, &rows, q, tenantID); err != nil {
		return nil, fmt.Errorf("meta.SettingsByTenant %d: %w", tenantID, err)
	}

	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}
