package tenant

// Kind enumerates the three possible resolution outcomes.
type Kind uint8

const (
	// KindNotFound means the host matched neither a tenant nor the admin
	// domain.  It is the zero value.
	KindNotFound Kind = iota
	// KindTenant means the host belongs to a tenant.
	KindTenant
	// KindAdmin means the host is the configured admin domain.
	KindAdmin
)

// String returns the label used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindTenant:
		return "tenant"
	case KindAdmin:
		return "admin"
	default:
		return "not_found"
	}
}

// Resolution is the immutable outcome of resolving one host.  The zero
// value is a NotFound resolution.
type Resolution struct {
	kind   Kind
	tenant Tenant
}

// Resolved builds a Tenant resolution holding a copy of t.
func Resolved(t Tenant) Resolution { return Resolution{kind: KindTenant, tenant: t.clone()} }

// Admin builds an Admin resolution.
func Admin() Resolution { return Resolution{kind: KindAdmin} }

// NotFound builds a NotFound resolution.
func NotFound() Resolution { return Resolution{} }

// Kind reports which variant r holds.
func (r Resolution) Kind() Kind { return r.kind }

// Tenant returns a copy of the resolved tenant.  ok is false unless the
// resolution is KindTenant.
func (r Resolution) Tenant() (t Tenant, ok bool) {
	if r.kind != KindTenant {
		return Tenant{}, false
	}
	return r.tenant.clone(), true
}

func (r Resolution) IsTenant() bool   { return r.kind == KindTenant }
func (r Resolution) IsAdmin() bool    { return r.kind == KindAdmin }
func (r Resolution) IsNotFound() bool { return r.kind == KindNotFound }
