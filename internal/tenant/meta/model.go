// internal/tenant/meta/model.go
//
// `tenant` table row model.
//
// Context
// -------
// The `Record` struct mirrors one row in the persistent **tenant** table.
// It is scanned by the store and converted to the slimmer tenant.Tenant
// the resolver hands to request handlers.
//
// Schema reference (see internal/database/migrations)
//
//	CREATE TABLE tenant (
//	    id            BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    domain        VARCHAR(253)  NOT NULL UNIQUE,
//	    name          VARCHAR(256)  NOT NULL,
//	    color         VARCHAR(32)   NULL,
//	    locale        VARCHAR(16)   NOT NULL DEFAULT 'en_US',
//	    suspended_at  TIMESTAMP NULL,
//	    deleted_at    TIMESTAMP NULL,
//	    created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
//
// Notes
// -----
//   - Nullable columns are pointers; callers must nil-check before use.
//   - `domain` is stored in normalized form (lower-case, punycode, no port).
package meta

import (
	"time"

	"github.com/yanizio/tenantgate/internal/tenant"
)

// Record mirrors one row in the `tenant` table.
type Record struct {
	ID          uint64     `db:"id"`
	Domain      string     `db:"domain"`
	Name        string     `db:"name"`
	Color       *string    `db:"color"`
	Locale      string     `db:"locale"`
	SuspendedAt *time.Time `db:"suspended_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// Tenant converts the row into the request-scoped value.
func (r Record) Tenant() tenant.Tenant {
	t := tenant.Tenant{
		ID:        r.ID,
		Domain:    r.Domain,
		Name:      r.Name,
		Locale:    r.Locale,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Color != nil {
		t.Color = *r.Color
	}
	return t
}
