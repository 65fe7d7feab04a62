package tenant

import (
	"context"
	"log/slog"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithTenant adds a tenant to the context. The tenant travels with the
// request's context through every layer down to statement preparation, and
// is dropped automatically when the request scope unwinds — there is no
// global slot to forget to clear.
func WithTenant(ctx context.Context, tenant *Tenant) context.Context {
	return context.WithValue(ctx, contextKey{}, tenant)
}

// FromContext retrieves the tenant from the context.
// Returns nil, false if no tenant is found. Absence is not an error here;
// whether a missing tenant is fatal is the caller's call.
func FromContext(ctx context.Context) (*Tenant, bool) {
	tenant, ok := ctx.Value(contextKey{}).(*Tenant)
	return tenant, ok
}

// IDFromContext retrieves just the scoping id from the context.
// Returns 0 and false if no tenant is found. A present tenant with a
// non-positive id is returned as-is: validity is judged where the id is
// consumed, so an invalid id fails the operation instead of being masked
// as absence.
func IDFromContext(ctx context.Context) (int64, bool) {
	tenant, ok := FromContext(ctx)
	if !ok || tenant == nil {
		return 0, false
	}
	return tenant.ID, true
}

// MustFromContext retrieves the tenant from the context.
// Panics if no tenant is found. Use this only in handlers
// that absolutely require a tenant to function.
func MustFromContext(ctx context.Context) *Tenant {
	tenant, ok := FromContext(ctx)
	if !ok || tenant == nil {
		panic("tenant: no tenant in context")
	}
	return tenant
}

// LoggerExtractor returns a ContextExtractor for the logger that extracts
// the tenant scoping id from context.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := IDFromContext(ctx); ok {
			return slog.Int64("tenant_id", id), true
		}
		return slog.Attr{}, false
	}
}
