// internal/tenant/resolver.go
//
// Host → Resolution.
//
// Workflow
// --------
//  1. Normalize the host.  Unusable hosts resolve to NotFound without a
//     store round-trip.
//  2. Ask the Lookup for the tenant whose domain equals the host.
//  3. Found → Tenant.  Absent and equal to the admin domain → Admin.
//     Absent otherwise → NotFound.
//  4. Any other lookup error becomes a *LookupError, never NotFound, so
//     an outage is not reported to clients as an unknown host.
//
// Notes
// -----
//   - Resolve holds no state between calls and is safe for concurrent use.
//   - No retries here.  Retrying belongs to the Lookup implementation.
package tenant

import (
	"context"
	"errors"
	"time"
)

// Resolve is the functional core.  adminDomain goes through the same
// normalization as host.  When it is empty or invalid no host ever
// resolves to Admin.
func Resolve(ctx context.Context, host string, lookup Lookup, adminDomain string) (Resolution, error) {
	key, err := NormalizeHost(host)
	if err != nil {
		return NotFound(), nil
	}
	admin, _ := NormalizeHost(adminDomain)
	return resolveKey(ctx, key, lookup, admin)
}

func resolveKey(ctx context.Context, key string, lookup Lookup, adminDomain string) (Resolution, error) {
	t, err := lookup.ByDomain(ctx, key)
	switch {
	case err == nil && t != nil:
		return Resolved(*t), nil
	case err == nil, errors.Is(err, ErrNotFound):
		if adminDomain != "" && key == adminDomain {
			return Admin(), nil
		}
		return NotFound(), nil
	default:
		return NotFound(), &LookupError{Host: key, Err: err}
	}
}

// Resolver binds Resolve to a Lookup and the process configuration.
type Resolver struct {
	lookup        Lookup
	adminDomain   string
	localhostTo   string
	lookupTimeout time.Duration
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithAdminDomain sets the administrative host.  Invalid or empty values
// leave the resolver without an admin domain.
func WithAdminDomain(domain string) Option {
	return func(r *Resolver) {
		r.adminDomain, _ = NormalizeHost(domain)
	}
}

// WithLocalhostAlias maps the literal host "localhost" to alias before the
// lookup, so a development instance can masquerade as a real tenant.
func WithLocalhostAlias(alias string) Option {
	return func(r *Resolver) {
		r.localhostTo, _ = NormalizeHost(alias)
	}
}

// WithLookupTimeout bounds each lookup.  Zero means the caller's context
// alone decides.
func WithLookupTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.lookupTimeout = d
	}
}

// NewResolver returns a Resolver that queries lookup.
func NewResolver(lookup Lookup, opts ...Option) *Resolver {
	r := &Resolver{lookup: lookup}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AdminDomain returns the normalized admin domain, or "" when unset.
func (r *Resolver) AdminDomain() string { return r.adminDomain }

// Resolve resolves host.  The returned error is nil or matches
// ErrLookupFailed.
func (r *Resolver) Resolve(ctx context.Context, host string) (Resolution, error) {
	key, err := NormalizeHost(host)
	if err != nil {
		return NotFound(), nil
	}
	if key == "localhost" && r.localhostTo != "" {
		key = r.localhostTo
	}

	if r.lookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.lookupTimeout)
		defer cancel()
	}
	return resolveKey(ctx, key, r.lookup, r.adminDomain)
}
