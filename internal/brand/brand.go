// Package brand derives presentation defaults from a host resolution.
//
// The brand is computed from the request's own tenant.Resolution and
// carried in its context.  Nothing is shared between requests.
package brand

import (
	"context"
	"net/http"

	"github.com/yanizio/tenantgate/internal/tenant"
)

// Setting keys read from tenant_setting.
const (
	SettingColor       = "brand.color"
	SettingDisplayName = "brand.name"
)

// Brand is what views need to dress a page.
type Brand struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Defaults fills gaps for tenants without their own values and for the
// admin domain.
type Defaults struct {
	Color     string
	AdminName string
}

// For computes the brand for res.
//
// Tenant: tenant_setting overrides carried on the Tenant, then the tenant
// row, then Defaults.  Admin: AdminName with the default color.
// NotFound: default color only.
func For(res tenant.Resolution, d Defaults) Brand {
	b := Brand{Color: d.Color}

	switch res.Kind() {
	case tenant.KindTenant:
		t, _ := res.Tenant()
		b.Name = t.Name
		if t.Color != "" {
			b.Color = t.Color
		}
		if v := t.Setting(SettingDisplayName); v != "" {
			b.Name = v
		}
		if v := t.Setting(SettingColor); v != "" {
			b.Color = v
		}
	case tenant.KindAdmin:
		b.Name = d.AdminName
	}
	return b
}

type ctxKey struct{}

// WithBrand returns a copy of ctx carrying b.
func WithBrand(ctx context.Context, b Brand) context.Context {
	return context.WithValue(ctx, ctxKey{}, b)
}

// FromContext returns the brand stored by Middleware.  ok is false when
// the middleware did not run.
func FromContext(ctx context.Context) (Brand, bool) {
	b, ok := ctx.Value(ctxKey{}).(Brand)
	return b, ok
}

// Middleware computes the brand after tenant.Middleware has run.  It only
// reads the request's Resolution and does no I/O.
func Middleware(d Defaults) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req, ok := tenant.FromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			ctx := WithBrand(r.Context(), For(req.Resolution, d))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
