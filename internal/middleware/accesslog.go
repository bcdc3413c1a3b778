// internal/middleware/accesslog.go
//
// One structured log line per request.
//
// The line carries the resolution (host, kind, tenant id) next to the usual
// method, path, status, and latency, plus a coarse User-Agent
// classification.  It wraps tenant.Middleware from the outside, so it also
// logs the 404s and 500s that middleware writes; in that case the
// resolution fields are absent.

package middleware

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/tenantgate/internal/tenant"
	"github.com/yanizio/tenantgate/internal/ua"
)

// requestCapture lets the inner handler report its final context back to
// the access logger, which sits outside tenant.Middleware.
type requestCapture struct {
	req *http.Request
}

type captureKey struct{}

func withCapture(ctx context.Context, c *requestCapture) context.Context {
	return context.WithValue(ctx, captureKey{}, c)
}

// AccessLog logs every request through log (zap.L() when nil).
func AccessLog(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := log
			if l == nil {
				l = zap.L()
			}

			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			capture := &requestCapture{req: r}

			next.ServeHTTP(ww, r.WithContext(withCapture(r.Context(), capture)))

			agent := ua.Parse(r.UserAgent())
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("latency", time.Since(start)),
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("remote", r.RemoteAddr),
				zap.String("browser", agent.Browser),
				zap.String("device", agent.Device),
				zap.Bool("bot", agent.IsBot),
			}
			if tf := tenant.LogFields(capture.req.Context()); tf != nil {
				fields = append(fields, tf...)
			} else {
				fields = append(fields, zap.String("host", r.Host))
			}
			l.Info("request", fields...)
		})
	}
}

// Capture records the request context seen by the innermost handlers.  Mount
// it after tenant.Middleware so AccessLog can report the resolution.
func Capture(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, ok := r.Context().Value(captureKey{}).(*requestCapture); ok {
			c.req = r
		}
		next.ServeHTTP(w, r)
	})
}
