package tenant_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/tenantgate/internal/tenant"
)

// recordRequest is a terminal handler that captures the Request the
// middleware attached.
func recordRequest(got *tenant.Request, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		*got, _ = tenant.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func newTestResolver(store tenant.Lookup) *tenant.Resolver {
	return tenant.NewResolver(store, tenant.WithAdminDomain("admin.example.com"))
}

func TestMiddleware_AttachesResolution(t *testing.T) {
	t.Parallel()

	mw := tenant.Middleware(newTestResolver(newMemStore(tenantA, tenantB)))

	cases := []struct {
		host string
		kind tenant.Kind
		norm string
	}{
		{"a.example.com", tenant.KindTenant, "a.example.com"},
		{"B.EXAMPLE.com:8080", tenant.KindTenant, "b.example.com"},
		{"admin.example.com", tenant.KindAdmin, "admin.example.com"},
	}
	for _, tc := range cases {
		var got tenant.Request
		var called bool
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = tc.host
		rec := httptest.NewRecorder()

		mw(recordRequest(&got, &called)).ServeHTTP(rec, req)

		require.True(t, called, tc.host)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, tc.kind, got.Resolution.Kind(), tc.host)
		assert.Equal(t, tc.norm, got.Host)
	}
}

func TestMiddleware_UnknownHostIs404(t *testing.T) {
	t.Parallel()

	var called bool
	var got tenant.Request
	mw := tenant.Middleware(newTestResolver(newMemStore(tenantA)))

	req := httptest.NewRequest(http.MethodGet, "http://c.example.com/", nil)
	rec := httptest.NewRecorder()
	mw(recordRequest(&got, &called)).ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMiddleware_AllowNotFound(t *testing.T) {
	t.Parallel()

	var called bool
	var got tenant.Request
	mw := tenant.Middleware(newTestResolver(newMemStore()), tenant.WithAllowNotFound(true))

	req := httptest.NewRequest(http.MethodGet, "http://c.example.com/", nil)
	rec := httptest.NewRecorder()
	mw(recordRequest(&got, &called)).ServeHTTP(rec, req)

	require.True(t, called)
	assert.True(t, got.Resolution.IsNotFound())
	assert.Equal(t, "c.example.com", got.Host)
}

func TestMiddleware_LookupFailureIs500(t *testing.T) {
	t.Parallel()

	store := newMemStore(tenantA)
	store.setErr(errors.New("db down"))

	var called bool
	var got tenant.Request
	mw := tenant.Middleware(newTestResolver(store))

	req := httptest.NewRequest(http.MethodGet, "http://a.example.com/", nil)
	rec := httptest.NewRecorder()
	mw(recordRequest(&got, &called)).ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMiddleware_CustomErrorHandler(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	var seen []error
	handler := func(w http.ResponseWriter, _ *http.Request, err error) {
		seen = append(seen, err)
		w.WriteHeader(http.StatusTeapot)
	}
	mw := tenant.Middleware(newTestResolver(store), tenant.WithErrorHandler(handler))
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { t.Fatal("next called") })

	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://nope.example.com/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	store.setErr(errors.New("db down"))
	rec = httptest.NewRecorder()
	mw(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://a.example.com/", nil))

	require.Len(t, seen, 2)
	assert.ErrorIs(t, seen[0], tenant.ErrNotFound)
	assert.ErrorIs(t, seen[1], tenant.ErrLookupFailed)
	assert.NotErrorIs(t, seen[1], tenant.ErrNotFound)
}

func TestMiddleware_SkipPaths(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	var called bool
	var got tenant.Request
	mw := tenant.Middleware(newTestResolver(store), tenant.WithSkipPaths("/healthz"))

	req := httptest.NewRequest(http.MethodGet, "http://unknown.example.com/healthz", nil)
	rec := httptest.NewRecorder()
	mw(recordRequest(&got, &called)).ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Zero(t, store.queries.Load())
	_, ok := tenant.FromContext(req.Context())
	assert.False(t, ok)
}

func TestMiddleware_SkipPathsMatchWholeSegments(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		skip bool
	}{
		{"/healthz", true},
		{"/healthz/live", true},
		{"/metrics", true},
		{"/healthzX", false},
		{"/metricsX", false},
		{"/metrics-admin/export", false},
	}
	for _, tc := range cases {
		store := newMemStore()
		var called bool
		var got tenant.Request
		mw := tenant.Middleware(newTestResolver(store), tenant.WithSkipPaths("/healthz", "/metrics/"))

		req := httptest.NewRequest(http.MethodGet, "http://unknown.example.com"+tc.path, nil)
		rec := httptest.NewRecorder()
		mw(recordRequest(&got, &called)).ServeHTTP(rec, req)

		if tc.skip {
			assert.True(t, called, tc.path)
			assert.Zero(t, store.queries.Load(), tc.path)
		} else {
			assert.False(t, called, tc.path)
			assert.Equal(t, http.StatusNotFound, rec.Code, tc.path)
			assert.EqualValues(t, 1, store.queries.Load(), tc.path)
		}
	}
}

func TestMiddleware_ClientGoneWritesNothing(t *testing.T) {
	t.Parallel()

	store := newMemStore(tenantA)
	store.gate = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "http://a.example.com/", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	handled := false
	mw := tenant.Middleware(newTestResolver(store), tenant.WithErrorHandler(
		func(http.ResponseWriter, *http.Request, error) { handled = true }))

	cancel()
	mw(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.False(t, handled)
	assert.False(t, rec.Flushed)
	assert.Empty(t, rec.Body.String())
}

func TestRequireKind(t *testing.T) {
	t.Parallel()

	chain := func(guard func(http.Handler) http.Handler) http.Handler {
		ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
		return tenant.Middleware(newTestResolver(newMemStore(tenantA)))(guard(ok))
	}

	cases := []struct {
		name  string
		guard func(http.Handler) http.Handler
		host  string
		want  int
	}{
		{"tenant on tenant host", tenant.RequireTenant(nil), "a.example.com", http.StatusOK},
		{"tenant on admin host", tenant.RequireTenant(nil), "admin.example.com", http.StatusNotFound},
		{"admin on admin host", tenant.RequireAdmin(nil), "admin.example.com", http.StatusOK},
		{"admin on tenant host", tenant.RequireAdmin(nil), "a.example.com", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tc.host
			rec := httptest.NewRecorder()
			chain(tc.guard).ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}

	t.Run("without middleware", func(t *testing.T) {
		rec := httptest.NewRecorder()
		tenant.RequireTenant(nil)(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
