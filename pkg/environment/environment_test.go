package environment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datapillar/tenantsql/pkg/environment"
)

func TestContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		ctx := environment.WithContext(context.Background(), "production")
		assert.Equal(t, "production", environment.FromContext(ctx))
	})

	t.Run("empty without value", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, environment.FromContext(context.Background()))
	})

	t.Run("nil context is safe", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, environment.FromContext(nil)) //nolint:staticcheck
	})
}

func TestChecks(t *testing.T) {
	t.Parallel()

	cases := []struct {
		env  string
		prod bool
		dev  bool
		stg  bool
	}{
		{"production", true, false, false},
		{"prod", true, false, false},
		{"development", false, true, false},
		{"dev", false, true, false},
		{"staging", false, false, true},
		{"stage", false, false, true},
		{"", false, false, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run("env="+tc.env, func(t *testing.T) {
			t.Parallel()

			ctx := environment.WithContext(context.Background(), tc.env)
			assert.Equal(t, tc.prod, environment.IsProduction(ctx))
			assert.Equal(t, tc.dev, environment.IsDevelopment(ctx))
			assert.Equal(t, tc.stg, environment.IsStaging(ctx))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	handler := environment.Middleware(environment.Staging)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, environment.IsStaging(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
