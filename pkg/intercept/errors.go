package intercept

import "errors"

var (
	// ErrNoTenantContext is returned when a statement with bound SQL is
	// prepared without a tenant in the context. This is a defect in the
	// calling code (scope never established), not a transient condition;
	// it is never retried and never downgraded to an unscoped execution.
	ErrNoTenantContext = errors.New("missing tenant context for relational rewrite")

	// ErrInvalidTenantID is returned when the context carries a tenant
	// with a non-positive scoping id. Treated exactly like an absent
	// tenant: fatal for the statement.
	ErrInvalidTenantID = errors.New("invalid tenant id for relational rewrite")
)
