package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yanizio/tenantgate/internal/tenant"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func withResolution(r *http.Request, host string, res tenant.Resolution) *http.Request {
	return r.WithContext(tenant.WithRequest(r.Context(), tenant.Request{Host: host, Resolution: res}))
}

func TestForceHTTPS(t *testing.T) {
	acme := tenant.Resolved(tenant.Tenant{ID: 1, Domain: "acme.example.com"})

	t.Run("redirects resolved plain http", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://acme.example.com/a?b=1", nil)
		req = withResolution(req, "acme.example.com", acme)
		rec := httptest.NewRecorder()
		ForceHTTPS(okHandler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusPermanentRedirect, rec.Code)
		assert.Equal(t, "https://acme.example.com/a?b=1", rec.Header().Get("Location"))
	})

	t.Run("admin host redirects too", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://admin.example.com/", nil)
		req = withResolution(req, "admin.example.com", tenant.Admin())
		rec := httptest.NewRecorder()
		ForceHTTPS(okHandler).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusPermanentRedirect, rec.Code)
	})

	passes := map[string]*http.Request{
		"tls": func() *http.Request {
			r := httptest.NewRequest(http.MethodGet, "https://acme.example.com/", nil)
			r.TLS = &tls.ConnectionState{}
			return withResolution(r, "acme.example.com", acme)
		}(),
		"proxied https": func() *http.Request {
			r := httptest.NewRequest(http.MethodGet, "http://acme.example.com/", nil)
			r.Header.Set("X-Forwarded-Proto", "https")
			return withResolution(r, "acme.example.com", acme)
		}(),
		"localhost": withResolution(
			httptest.NewRequest(http.MethodGet, "http://localhost/", nil), "localhost", acme),
		"not found": withResolution(
			httptest.NewRequest(http.MethodGet, "http://nope.example.com/", nil), "nope.example.com", tenant.NotFound()),
		"no resolution": httptest.NewRequest(http.MethodGet, "http://acme.example.com/", nil),
	}
	for name, req := range passes {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ForceHTTPS(okHandler).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestSecurity(t *testing.T) {
	rec := httptest.NewRecorder()
	Security(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://a.example.com/", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "http://a.example.com/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = httptest.NewRecorder()
	Security(okHandler).ServeHTTP(rec, req)
	assert.Contains(t, rec.Header().Get("Strict-Transport-Security"), "max-age=")
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	resolve := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, withResolution(r, "acme.example.com",
				tenant.Resolved(tenant.Tenant{ID: 42, Domain: "acme.example.com"})))
		})
	}
	h := AccessLog(log)(resolve(Capture(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hi"))
	}))))

	req := httptest.NewRequest(http.MethodPost, "http://acme.example.com/things", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/things", fields["path"])
	assert.EqualValues(t, http.StatusCreated, fields["status"])
	assert.EqualValues(t, 2, fields["bytes"])
	assert.EqualValues(t, 42, fields["tenant_id"])
	assert.Equal(t, "tenant", fields["resolution"])
	assert.Equal(t, true, fields["bot"])
}

func TestAccessLog_RejectedHost(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	h := AccessLog(zap.New(core))(http.NotFoundHandler())
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://nope.example.com/", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.EqualValues(t, http.StatusNotFound, fields["status"])
	assert.Equal(t, "nope.example.com", fields["host"])
	assert.NotContains(t, fields, "tenant_id")
}
