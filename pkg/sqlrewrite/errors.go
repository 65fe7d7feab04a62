package sqlrewrite

import "errors"

var (
	// ErrInvalidTenantID is returned when the rewriter is handed a
	// non-positive tenant id. Scoping to an invalid tenant must fail the
	// statement, never fall through to unscoped SQL.
	ErrInvalidTenantID = errors.New("tenant id must be positive for sql rewrite")

	// ErrUnregisteredComplexSQL is returned for statements with shapes the
	// generic rule cannot safely scope (unions, CTEs, derived tables,
	// subqueries) that have no patch registered.
	ErrUnregisteredComplexSQL = errors.New("complex sql has no registered patch")

	// ErrUnsupportedSQL is returned when no valid injection point exists
	// for the scoping predicate in the statement's SQL.
	ErrUnsupportedSQL = errors.New("unsupported sql shape for tenant rewrite")

	// ErrMalformedPatch is returned when a patch cannot be applied as written.
	ErrMalformedPatch = errors.New("malformed sql patch")

	// ErrDuplicatePatch is returned when a statement id is registered twice.
	ErrDuplicatePatch = errors.New("sql patch already registered")

	// ErrRegistryFrozen is returned when registering into a frozen registry.
	ErrRegistryFrozen = errors.New("sql patch registry is frozen")

	// ErrEmptyStatementID is returned when registering with an empty id.
	ErrEmptyStatementID = errors.New("empty statement id")

	// ErrFailedToParsePatchFile is returned when a patch catalog file
	// cannot be decoded.
	ErrFailedToParsePatchFile = errors.New("failed to parse sql patch file")
)
