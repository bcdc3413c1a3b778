// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"

	"github.com/yanizio/tenantgate/internal/tenant"
)

// ForceHTTPS issues a 308 Permanent Redirect to the HTTPS version of the
// URL for plain-HTTP requests whose host resolved to a tenant or the admin
// domain.  It must run after tenant.Middleware.  TLS requests, localhost,
// and unresolved hosts pass through unchanged.
func ForceHTTPS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			next.ServeHTTP(w, r)
			return
		}

		req, ok := tenant.FromContext(r.Context())
		if !ok || req.Host == "localhost" || req.Resolution.IsNotFound() {
			next.ServeHTTP(w, r)
			return
		}

		target := "https://" + r.Host + r.URL.RequestURI()
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
	})
}
