// Package tenant identifies which tenant a request acts for and carries
// that identity through the request context.
//
// The package is the producer half of tenant scoping: middleware resolves
// the tenant from the incoming request and installs it in the context;
// the data layer (pkg/intercept, pkg/pg) consumes it when preparing SQL
// statements and refuses to run without it.
//
// # Architecture
//
// Three pieces cooperate:
//
//  1. Resolvers extract a tenant identifier from the request (header,
//     subdomain, path segment, or a composite of those).
//  2. A Provider loads the full tenant record for that identifier.
//  3. Middleware orchestrates resolution, caching and context propagation.
//
// # Usage
//
//	resolver := tenant.NewSubdomainResolver(".app.com")
//	provider := &myTenantProvider{}
//
//	mw := tenant.Middleware(resolver, provider,
//		tenant.WithCacheTTL(10*time.Minute),
//		tenant.WithSkipPaths([]string{"/health"}),
//	)
//	router.Use(mw)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		t, ok := tenant.FromContext(r.Context())
//		if !ok {
//			// unscoped request
//		}
//		_ = t
//	}
//
// # Scoping id validity
//
// Tenant.ID is the value injected into SQL tenant predicates, valid only
// when positive. The middleware rejects tenants with invalid ids at the
// door, and the data layer independently re-checks before every statement:
// an unscoped query is a cross-tenant data leak, so both layers fail closed.
//
// # Caching
//
// Resolution results are cached per identifier, in-process by default or in
// Redis (NewRedisCache) when multiple replicas should share lookups. The
// provider stays authoritative: any cache miss or cache failure falls
// through to it.
package tenant
