package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Tenant is the request-scoped identity of the organization whose data the
// current unit of work may touch.
//
// ID is the internal scoping id, the value injected into every SQL
// statement's tenant predicate. It is valid only when positive; rows never
// carry an id of zero or below, so an invalid id can never silently match
// real data. UUID is the stable external identifier exposed in APIs and
// tokens.
type Tenant struct {
	ID        int64     `json:"id"`
	UUID      uuid.UUID `json:"uuid"`
	Subdomain string    `json:"subdomain"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Valid reports whether the tenant can be used for data scoping.
func (t *Tenant) Valid() bool {
	return t != nil && t.ID > 0
}

// Provider loads tenant information from a data source.
// Implementations should handle whatever identifier formats the
// application's resolvers emit (UUID, subdomain, etc.).
type Provider interface {
	// GetByIdentifier retrieves a tenant using any unique identifier.
	// Returns ErrTenantNotFound if no tenant matches.
	GetByIdentifier(ctx context.Context, identifier string) (*Tenant, error)
}
