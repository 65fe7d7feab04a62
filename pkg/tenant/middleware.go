package tenant

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Middleware creates HTTP middleware that resolves the tenant for each
// request and installs it in the request context. This is the producer side
// of tenant scoping: everything below the handler, down to SQL statement
// preparation, reads the tenant from the context this middleware populated.
//
// A tenant that resolves with an invalid scoping id is rejected here,
// before any handler runs — such a tenant could never be scoped correctly
// at the data layer.
func Middleware(resolver Resolver, provider Provider, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		cache:         NewInMemoryCache(),
		cacheTTL:      5 * time.Minute,
		errorHandler:  defaultErrorHandler,
		requireActive: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	admit := func(w http.ResponseWriter, r *http.Request, next http.Handler, t *Tenant) {
		if !t.Valid() {
			if cfg.logger != nil {
				cfg.logger.ErrorContext(r.Context(), "resolved tenant has invalid scoping id",
					slog.Int64("tenant_id", t.ID), slog.String("subdomain", t.Subdomain))
			}
			cfg.errorHandler(w, r, ErrInvalidTenantID)
			return
		}
		if cfg.requireActive && !t.Active {
			cfg.errorHandler(w, r, ErrInactiveTenant)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), t)))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			identifier, err := resolver.Resolve(r)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}
			if identifier == "" {
				// No identifier means no tenant scope; handlers that need
				// one gate on RequireTenant.
				next.ServeHTTP(w, r)
				return
			}

			if cached, ok := cfg.cache.Get(r.Context(), identifier); ok {
				admit(w, r, next, cached)
				return
			}

			t, err := provider.GetByIdentifier(r.Context(), identifier)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}

			cfg.cache.Set(r.Context(), identifier, t, cfg.cacheTTL)
			admit(w, r, next, t)
		})
	}
}

// RequireTenant creates middleware that ensures a tenant is present in the
// context, for routes that cannot run unscoped.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t, ok := FromContext(r.Context())
			if !ok || t == nil {
				errorHandler(w, r, ErrNoTenantInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
