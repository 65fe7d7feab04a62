package intercept

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/datapillar/tenantsql/pkg/sqlrewrite"
	"github.com/datapillar/tenantsql/pkg/tenant"
)

// Statement describes one SQL statement about to execute: the stable id of
// its parameterized template and the bound SQL text. Statements are
// transient, created per execution and discarded after it.
type Statement struct {
	ID  string
	SQL string
}

// Hook runs once per statement preparation, before the SQL reaches the
// database. It returns the statement to execute, possibly with modified
// SQL, or an error that aborts the execution.
type Hook interface {
	Prepare(ctx context.Context, stmt Statement) (Statement, error)
}

// HookFunc adapts a function to the Hook interface.
type HookFunc func(ctx context.Context, stmt Statement) (Statement, error)

func (f HookFunc) Prepare(ctx context.Context, stmt Statement) (Statement, error) {
	return f(ctx, stmt)
}

// TenantRewriter is the hook enforcing tenant scoping. It resolves the
// acting tenant from the context and rewrites the statement's SQL to carry
// the tenant predicate.
//
// The safety invariant: no statement leaves Prepare unscoped. A statement
// either has a resolved, valid tenant and scoped SQL, or is one that
// legitimately needs no rewrite (DDL, already-scoped SQL, no bound SQL at
// all) — everything else is an error that stops execution.
type TenantRewriter struct {
	registry *sqlrewrite.Registry
	log      *slog.Logger
}

// Option configures a TenantRewriter.
type Option func(*TenantRewriter)

// WithLogger enables debug logging of applied rewrites.
func WithLogger(log *slog.Logger) Option {
	return func(r *TenantRewriter) {
		r.log = log
	}
}

// NewTenantRewriter creates the tenant scoping hook backed by the given
// patch registry. A nil registry is valid when no statement needs a patch.
func NewTenantRewriter(registry *sqlrewrite.Registry, opts ...Option) *TenantRewriter {
	r := &TenantRewriter{registry: registry}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Prepare implements Hook.
//
// Statements without bound SQL pass through untouched: some pipeline stages
// legitimately prepare without text, and that is not an error. A missing or
// invalid tenant, by contrast, is fatal and non-retryable — it means the
// request layer failed to establish scope, and running the statement would
// return another tenant's rows.
func (r *TenantRewriter) Prepare(ctx context.Context, stmt Statement) (Statement, error) {
	if stmt.SQL == "" {
		return stmt, nil
	}

	tenantID, ok := tenant.IDFromContext(ctx)
	if !ok {
		return Statement{}, fmt.Errorf("%w: statement %q", ErrNoTenantContext, stmt.ID)
	}
	if tenantID <= 0 {
		return Statement{}, fmt.Errorf("%w: tenant %d, statement %q", ErrInvalidTenantID, tenantID, stmt.ID)
	}

	rewritten, err := sqlrewrite.Rewrite(stmt.ID, stmt.SQL, tenantID, r.registry)
	if err != nil {
		return Statement{}, fmt.Errorf("statement %q: %w", stmt.ID, err)
	}

	if rewritten != stmt.SQL {
		if r.log != nil {
			r.log.DebugContext(ctx, "tenant predicate injected",
				slog.String("statement", stmt.ID),
				slog.Int64("tenant_id", tenantID))
		}
		stmt.SQL = rewritten
	}
	return stmt, nil
}

// Chain composes hooks; each statement passes through every hook in order,
// each exactly once. The first error stops the chain.
type Chain []Hook

func (c Chain) Prepare(ctx context.Context, stmt Statement) (Statement, error) {
	var err error
	for _, h := range c {
		stmt, err = h.Prepare(ctx, stmt)
		if err != nil {
			return Statement{}, err
		}
	}
	return stmt, nil
}
