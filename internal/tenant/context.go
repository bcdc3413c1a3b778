// internal/tenant/context.go
//
// Per-request resolution carried in context.Context.
//
// The middleware stores one Request value per inbound request.  It is
// never mutated afterwards; handlers, brand helpers, and logging read it
// through FromContext.
package tenant

import (
	"context"

	"go.uber.org/zap"
)

// Request pairs the normalized host with its resolution.
type Request struct {
	Host       string
	Resolution Resolution
}

// ctxKey is unexported to avoid context-key collisions.
type ctxKey struct{}

// WithRequest returns a copy of ctx carrying req.
func WithRequest(ctx context.Context, req Request) context.Context {
	return context.WithValue(ctx, ctxKey{}, req)
}

// FromContext returns the Request stored by Middleware.
func FromContext(ctx context.Context) (Request, bool) {
	req, ok := ctx.Value(ctxKey{}).(Request)
	return req, ok
}

// MustFromContext is FromContext for handlers mounted behind Middleware.
// It panics when the middleware did not run.
func MustFromContext(ctx context.Context) Request {
	req, ok := FromContext(ctx)
	if !ok {
		panic(ErrNoRequest)
	}
	return req
}

// TenantFromContext returns the resolved tenant, if any.
func TenantFromContext(ctx context.Context) (Tenant, bool) {
	req, ok := FromContext(ctx)
	if !ok {
		return Tenant{}, false
	}
	return req.Resolution.Tenant()
}

// LogFields returns zap fields describing the resolution in ctx.
func LogFields(ctx context.Context) []zap.Field {
	req, ok := FromContext(ctx)
	if !ok {
		return nil
	}
	fields := []zap.Field{
		zap.String("host", req.Host),
		zap.Stringer("resolution", req.Resolution.Kind()),
	}
	if t, ok := req.Resolution.Tenant(); ok {
		fields = append(fields, zap.Uint64("tenant_id", t.ID))
	}
	return fields
}
