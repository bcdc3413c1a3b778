package tenant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/tenantgate/internal/tenant"
)

func TestContext_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := tenant.WithRequest(context.Background(), tenant.Request{
		Host:       "a.example.com",
		Resolution: tenant.Resolved(tenantA),
	})

	req, ok := tenant.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "a.example.com", req.Host)

	got, ok := tenant.TenantFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, tenantA, got)

	// Copies handed out do not alias the stored value.
	got.Name = "changed"
	again, _ := tenant.TenantFromContext(ctx)
	assert.Equal(t, "Alpha", again.Name)
}

func TestContext_Missing(t *testing.T) {
	t.Parallel()

	_, ok := tenant.FromContext(context.Background())
	assert.False(t, ok)

	_, ok = tenant.TenantFromContext(context.Background())
	assert.False(t, ok)

	assert.Nil(t, tenant.LogFields(context.Background()))
	assert.PanicsWithValue(t, tenant.ErrNoRequest, func() {
		tenant.MustFromContext(context.Background())
	})
}

func TestLogFields(t *testing.T) {
	t.Parallel()

	ctx := tenant.WithRequest(context.Background(), tenant.Request{
		Host: "a.example.com", Resolution: tenant.Resolved(tenantA),
	})
	fields := tenant.LogFields(ctx)
	require.Len(t, fields, 3)
	assert.Equal(t, "host", fields[0].Key)
	assert.Equal(t, "resolution", fields[1].Key)
	assert.Equal(t, "tenant_id", fields[2].Key)
	assert.EqualValues(t, tenantA.ID, fields[2].Integer)

	ctx = tenant.WithRequest(context.Background(), tenant.Request{
		Host: "admin.example.com", Resolution: tenant.Admin(),
	})
	assert.Len(t, tenant.LogFields(ctx), 2)
}
