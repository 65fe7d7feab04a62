package tenant_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapillar/tenantsql/pkg/tenant"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("adds tenant to context when found", func(t *testing.T) {
		t.Parallel()

		provider := newMockProvider()
		testTenant := createTestTenant("acme", true)
		provider.addTenant(testTenant)

		middleware := tenant.Middleware(tenant.NewHeaderResolver("X-Tenant-ID"), provider)
		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			retrieved, ok := tenant.FromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, testTenant, retrieved)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Tenant-ID", "acme")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("continues without tenant when no identifier", func(t *testing.T) {
		t.Parallel()

		middleware := tenant.Middleware(tenant.NewHeaderResolver("X-Tenant-ID"), newMockProvider())
		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := tenant.FromContext(r.Context())
			assert.False(t, ok)
			w.WriteHeader(http.StatusOK)
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown tenant maps to 404", func(t *testing.T) {
		t.Parallel()

		middleware := tenant.Middleware(tenant.NewHeaderResolver("X-Tenant-ID"), newMockProvider())
		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Tenant-ID", "ghost")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("inactive tenant maps to 403", func(t *testing.T) {
		t.Parallel()

		provider := newMockProvider()
		provider.addTenant(createTestTenant("dormant", false))

		middleware := tenant.Middleware(tenant.NewHeaderResolver("X-Tenant-ID"), provider)
		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Tenant-ID", "dormant")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("tenant with invalid scoping id is rejected", func(t *testing.T) {
		t.Parallel()

		provider := newMockProvider()
		provider.addTenant(&tenant.Tenant{ID: 0, Subdomain: "broken", Name: "Broken", Active: true})

		middleware := tenant.Middleware(tenant.NewHeaderResolver("X-Tenant-ID"), provider)
		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Tenant-ID", "broken")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("skip paths bypass resolution", func(t *testing.T) {
		t.Parallel()

		provider := newMockProvider()
		middleware := tenant.Middleware(tenant.NewHeaderResolver("X-Tenant-ID"), provider,
			tenant.WithSkipPaths([]string{"/health"}))
		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set("X-Tenant-ID", "ghost")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, provider.callCount())
	})

	t.Run("second request is served from cache", func(t *testing.T) {
		t.Parallel()

		provider := newMockProvider()
		provider.addTenant(createTestTenant("acme", true))

		middleware := tenant.Middleware(tenant.NewHeaderResolver("X-Tenant-ID"), provider,
			tenant.WithCacheTTL(time.Minute))
		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("X-Tenant-ID", "acme")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code)
		}

		assert.Equal(t, 1, provider.callCount())
	})

	t.Run("custom error handler is used", func(t *testing.T) {
		t.Parallel()

		middleware := tenant.Middleware(tenant.NewHeaderResolver("X-Tenant-ID"), newMockProvider(),
			tenant.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
				w.WriteHeader(http.StatusTeapot)
			}))
		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Tenant-ID", "ghost")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTeapot, w.Code)
	})
}

func TestRequireTenant(t *testing.T) {
	t.Parallel()

	t.Run("passes scoped requests", func(t *testing.T) {
		t.Parallel()

		handler := tenant.RequireTenant(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/", nil)
		req = req.WithContext(tenant.WithTenant(req.Context(), createTestTenant("acme", true)))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects unscoped requests", func(t *testing.T) {
		t.Parallel()

		handler := tenant.RequireTenant(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
