package tenant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapillar/tenantsql/pkg/tenant"
)

func TestWithTenant(t *testing.T) {
	t.Parallel()

	t.Run("adds tenant to context", func(t *testing.T) {
		t.Parallel()

		testTenant := createTestTenant("acme", true)
		ctx := tenant.WithTenant(context.Background(), testTenant)

		retrieved, ok := tenant.FromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, testTenant, retrieved)
	})

	t.Run("overwrites existing tenant in context", func(t *testing.T) {
		t.Parallel()

		tenant1 := createTestTenant("acme", true)
		tenant2 := createTestTenant("globex", true)

		ctx := tenant.WithTenant(context.Background(), tenant1)
		ctx = tenant.WithTenant(ctx, tenant2)

		retrieved, ok := tenant.FromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, tenant2, retrieved)
	})
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	t.Run("returns nil and false for empty context", func(t *testing.T) {
		t.Parallel()

		retrieved, ok := tenant.FromContext(context.Background())
		assert.False(t, ok)
		assert.Nil(t, retrieved)
	})
}

func TestIDFromContext(t *testing.T) {
	t.Parallel()

	t.Run("returns scoping id when present", func(t *testing.T) {
		t.Parallel()

		testTenant := createTestTenant("acme", true)
		ctx := tenant.WithTenant(context.Background(), testTenant)

		id, ok := tenant.IDFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, testTenant.ID, id)
	})

	t.Run("returns zero and false for empty context", func(t *testing.T) {
		t.Parallel()

		id, ok := tenant.IDFromContext(context.Background())
		assert.False(t, ok)
		assert.Zero(t, id)
	})

	t.Run("invalid id is reported as present", func(t *testing.T) {
		t.Parallel()

		// Presence and validity are separate questions: the consumer must
		// see the bad id and fail, not mistake it for an unscoped request.
		ctx := tenant.WithTenant(context.Background(), &tenant.Tenant{ID: -1})

		id, ok := tenant.IDFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, int64(-1), id)
	})
}

func TestMustFromContext(t *testing.T) {
	t.Parallel()

	t.Run("returns tenant when present", func(t *testing.T) {
		t.Parallel()

		testTenant := createTestTenant("acme", true)
		ctx := tenant.WithTenant(context.Background(), testTenant)

		assert.Equal(t, testTenant, tenant.MustFromContext(ctx))
	})

	t.Run("panics when absent", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			tenant.MustFromContext(context.Background())
		})
	})
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	t.Run("extracts tenant id attr", func(t *testing.T) {
		t.Parallel()

		testTenant := createTestTenant("acme", true)
		ctx := tenant.WithTenant(context.Background(), testTenant)

		attr, ok := tenant.LoggerExtractor()(ctx)
		require.True(t, ok)
		assert.Equal(t, "tenant_id", attr.Key)
		assert.Equal(t, testTenant.ID, attr.Value.Int64())
	})

	t.Run("no attr without tenant", func(t *testing.T) {
		t.Parallel()

		_, ok := tenant.LoggerExtractor()(context.Background())
		assert.False(t, ok)
	})
}
