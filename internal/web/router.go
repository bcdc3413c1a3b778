// internal/web/router.go
//
// Root router.
//
// Request life-cycle
// ------------------
//
//  1. chi RequestID / RealIP / Recoverer.
//  2. AccessLog (outermost of ours, so it also sees rejected hosts).
//  3. Security headers.
//  4. tenant.Middleware: resolve host, 404 unknown hosts, 500 on lookup
//     failure.  /healthz and /metrics skip resolution.
//  5. ForceHTTPS (optional) for resolved hosts.
//  6. brand.Middleware: presentation defaults in context.
//  7. Routes:
//
//     • /healthz, /metrics       – any host
//     • /                        – whoami JSON for tenant and admin hosts
//     • /api/whoami              – tenant hosts only
//     • /admin/tenants           – admin domain only
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/tenantgate/internal/brand"
	"github.com/yanizio/tenantgate/internal/middleware"
	"github.com/yanizio/tenantgate/internal/tenant"
)

// TenantLister lists active tenants for the admin endpoint.  *meta.Store
// satisfies it.
type TenantLister interface {
	Active(ctx context.Context) ([]tenant.Tenant, error)
}

// Pinger reports store health.  *sqlx.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators the router wires together.
type Deps struct {
	Resolver   tenant.HostResolver
	Tenants    TenantLister
	DB         Pinger
	Brand      brand.Defaults
	ForceHTTPS bool
	Logger     *zap.Logger
}

// NewRouter builds the service handler.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog(d.Logger))
	r.Use(middleware.Security)
	r.Use(tenant.Middleware(d.Resolver,
		tenant.WithSkipPaths("/healthz", "/metrics"),
		tenant.WithLogger(d.Logger),
	))
	r.Use(middleware.Capture)
	if d.ForceHTTPS {
		r.Use(middleware.ForceHTTPS)
	}
	r.Use(brand.Middleware(d.Brand))

	r.Get("/healthz", healthz(d.DB))
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", whoami)

	r.Group(func(r chi.Router) {
		r.Use(tenant.RequireTenant(nil))
		r.Get("/api/whoami", whoami)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(tenant.RequireAdmin(nil))
		r.Get("/tenants", listTenants(d.Tenants))
	})

	return r
}
