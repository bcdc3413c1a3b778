// internal/tenant/middleware.go
//
// HTTP middleware that resolves r.Host and attaches a Request to the
// request context.
//
// Context
// -------
// This handler sits after request-ID / real-IP handling and before any
// tenant-aware route.  For every request it:
//
//  1. Skips configured paths (health checks, metrics).
//  2. Resolves the host through the Resolver.
//  3. Hands LookupFailed to the ErrorHandler (500 by default).  When the
//     client has already gone away nothing is written.
//  4. Hands NotFound to the ErrorHandler (404 by default) unless
//     WithAllowNotFound is set.
//  5. Stores tenant.Request in the context and calls next.
//
// Notes
// -----
//   - Outcomes and latency are exported through internal/metrics.
//   - RequireTenant and RequireAdmin guard route groups after Middleware.
package tenant

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/tenantgate/internal/metrics"
)

// HostResolver is the part of *Resolver the middleware depends on.
type HostResolver interface {
	Resolve(ctx context.Context, host string) (Resolution, error)
}

// ErrorHandler writes the response for a rejected request.  err is either
// ErrNotFound or an error matching ErrLookupFailed.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type middlewareConfig struct {
	errorHandler  ErrorHandler
	skipPaths     []string
	allowNotFound bool
	logger        *zap.Logger
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

// WithErrorHandler replaces the default 404/500 responses.
func WithErrorHandler(h ErrorHandler) MiddlewareOption {
	return func(c *middlewareConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithSkipPaths lists paths that bypass resolution entirely.  "/healthz"
// matches "/healthz" and "/healthz/live" but not "/healthzX".
func WithSkipPaths(prefixes ...string) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.skipPaths = append(c.skipPaths, prefixes...)
	}
}

// WithAllowNotFound passes NotFound resolutions to next instead of
// rejecting them.
func WithAllowNotFound(allow bool) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.allowNotFound = allow
	}
}

// WithLogger sets the middleware logger.  Defaults to zap.L() at build time.
func WithLogger(l *zap.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Middleware returns the resolution middleware.
func Middleware(resolver HostResolver, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		errorHandler: DefaultErrorHandler,
		logger:       zap.L(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipped(r.URL.Path, cfg.skipPaths) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			res, err := resolver.Resolve(r.Context(), r.Host)
			metrics.ResolveDuration.Observe(time.Since(start).Seconds())

			if err != nil {
				metrics.Resolutions.WithLabelValues("error").Inc()
				if r.Context().Err() != nil {
					cfg.logger.Debug("tenant resolve abandoned by client",
						zap.String("host", r.Host), zap.Error(err))
					return
				}
				cfg.logger.Error("tenant resolve failed",
					zap.String("host", r.Host), zap.Error(err))
				cfg.errorHandler(w, r, err)
				return
			}
			metrics.Resolutions.WithLabelValues(res.Kind().String()).Inc()

			if res.IsNotFound() && !cfg.allowNotFound {
				cfg.logger.Debug("unknown host", zap.String("host", r.Host))
				cfg.errorHandler(w, r, ErrNotFound)
				return
			}

			host, herr := NormalizeHost(r.Host)
			if herr != nil {
				host = strings.TrimSpace(r.Host)
			}
			ctx := WithRequest(r.Context(), Request{Host: host, Resolution: res})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// skipped reports whether path equals one of prefixes or lies below it.
func skipped(path string, prefixes []string) bool {
	for _, p := range prefixes {
		p = strings.TrimSuffix(p, "/")
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// RequireTenant rejects requests whose resolution is not a tenant.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	return requireKind(KindTenant, errorHandler)
}

// RequireAdmin rejects requests that did not arrive on the admin domain.
func RequireAdmin(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	return requireKind(KindAdmin, errorHandler)
}

func requireKind(want Kind, errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = DefaultErrorHandler
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req, ok := FromContext(r.Context())
			if !ok || req.Resolution.Kind() != want {
				errorHandler(w, r, ErrNotFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// DefaultErrorHandler maps NotFound to 404 and everything else to 500.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	default:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
