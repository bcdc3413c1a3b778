// internal/tenant/tenant.go
//
// Tenant record and the lookup capability the resolver consumes.
//
// Context
// -------
// A Tenant is one customer served under exactly one host.  The resolver
// never writes tenants; it only asks a Lookup for the record whose
// `domain` equals the normalized request host.  The SQL adapter lives in
// internal/tenant/meta, and CachedLookup wraps any Lookup with a cache.
//
// Notes
// -----
//   - Domains are stored normalized (see NormalizeHost).  Lookups compare
//     by exact equality.
//   - Tenant is a plain value.  Resolution carries a copy so downstream
//     handlers cannot mutate shared state.
//   - Settings are loaded with the row and cached with it, so per-request
//     code never queries tenant_setting.
package tenant

import (
	"context"
	"maps"
	"time"
)

// Tenant mirrors the fields of an active row in the `tenant` table that
// request handling needs.
type Tenant struct {
	ID        uint64    `json:"id"`
	Domain    string    `json:"domain"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Locale    string    `json:"locale,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Settings holds the tenant_setting key/value overrides.  May be nil.
	Settings map[string]string `json:"settings,omitempty"`
}

// Setting returns one override, or "" when unset.
func (t Tenant) Setting(key string) string { return t.Settings[key] }

// clone returns a copy that shares no map with t.
func (t Tenant) clone() Tenant {
	t.Settings = maps.Clone(t.Settings)
	return t
}

// Lookup fetches a tenant by exact domain match.
//
// Implementations return ErrNotFound when no active tenant owns domain and
// ErrDuplicateDomain when more than one does.  Any other error is treated
// as an infrastructure failure by the resolver.
type Lookup interface {
	ByDomain(ctx context.Context, domain string) (*Tenant, error)
}

// LookupFunc adapts an ordinary function to the Lookup interface.
type LookupFunc func(ctx context.Context, domain string) (*Tenant, error)

// ByDomain calls f.
func (f LookupFunc) ByDomain(ctx context.Context, domain string) (*Tenant, error) {
	return f(ctx, domain)
}
