package pg

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/datapillar/tenantsql/pkg/intercept"
)

// Querier is the query surface of *pgxpool.Pool the scoped executor wraps.
// Transactions and single connections from the same pool satisfy it too.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ScopedExecutor is the execution pipeline stage that makes the
// before-execute hook unavoidable: every statement is offered to the hook
// exactly once, and only the SQL the hook hands back reaches the database.
// With intercept.NewTenantRewriter as the hook, nothing can run an
// unscoped query through this executor.
type ScopedExecutor struct {
	db   Querier
	hook intercept.Hook
}

// Scoped wraps a querier with the given hook. Repositories take the
// executor instead of the pool, naming each statement so the patch registry
// can key on it:
//
//	exec := pg.Scoped(pool, intercept.NewTenantRewriter(registry))
//	rows, err := exec.Query(ctx, "listUsers", "SELECT id, name FROM users")
func Scoped(db Querier, hook intercept.Hook) *ScopedExecutor {
	return &ScopedExecutor{db: db, hook: hook}
}

// Exec runs a named statement after the hook has prepared it.
func (e *ScopedExecutor) Exec(ctx context.Context, statementID, sql string, args ...any) (pgconn.CommandTag, error) {
	stmt, err := e.prepare(ctx, statementID, sql)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return e.db.Exec(ctx, stmt.SQL, args...)
}

// Query runs a named query after the hook has prepared it.
func (e *ScopedExecutor) Query(ctx context.Context, statementID, sql string, args ...any) (pgx.Rows, error) {
	stmt, err := e.prepare(ctx, statementID, sql)
	if err != nil {
		return nil, err
	}
	return e.db.Query(ctx, stmt.SQL, args...)
}

// QueryRow runs a named single-row query after the hook has prepared it.
// Hook failures surface from the returned row's Scan, matching pgx's
// deferred-error convention for QueryRow.
func (e *ScopedExecutor) QueryRow(ctx context.Context, statementID, sql string, args ...any) pgx.Row {
	stmt, err := e.prepare(ctx, statementID, sql)
	if err != nil {
		return errRow{err: err}
	}
	return e.db.QueryRow(ctx, stmt.SQL, args...)
}

func (e *ScopedExecutor) prepare(ctx context.Context, statementID, sql string) (intercept.Statement, error) {
	if e.hook == nil {
		return intercept.Statement{ID: statementID, SQL: sql}, nil
	}
	return e.hook.Prepare(ctx, intercept.Statement{ID: statementID, SQL: sql})
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}
