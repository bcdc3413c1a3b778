// internal/web/handlers.go
//
// JSON handlers.  Each one reads the resolution attached by
// tenant.Middleware; none of them queries the tenant by host again.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/tenantgate/internal/brand"
	"github.com/yanizio/tenantgate/internal/tenant"
)

// whoamiResponse is the body of / and /api/whoami.
type whoamiResponse struct {
	Host       string         `json:"host"`
	Resolution string         `json:"resolution"`
	Tenant     *tenant.Tenant `json:"tenant,omitempty"`
	Brand      brand.Brand    `json:"brand"`
}

// whoami echoes what the pipeline resolved for this request.
func whoami(w http.ResponseWriter, r *http.Request) {
	req := tenant.MustFromContext(r.Context())
	b, _ := brand.FromContext(r.Context())

	out := whoamiResponse{
		Host:       req.Host,
		Resolution: req.Resolution.Kind().String(),
		Brand:      b,
	}
	if t, ok := req.Resolution.Tenant(); ok {
		out.Tenant = &t
	}
	writeJSON(w, http.StatusOK, out)
}

// listTenants serves GET /admin/tenants.
func listTenants(src TenantLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, err := src.Active(r.Context())
		if err != nil {
			zap.L().Error("list tenants", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"tenants": ts, "count": len(ts)})
	}
}

// healthz pings the store with a short deadline.
func healthz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			zap.L().Warn("healthz: store unreachable", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
