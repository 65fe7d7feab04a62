// Package intercept defines the before-execute hook point of the data
// access pipeline and the tenant-scoping hook that makes multi-tenant
// isolation mandatory.
//
// Every SQL statement a pipeline executes is first offered to a Hook as a
// Statement (template id plus bound SQL text). The hook returns the
// statement to run — possibly with rewritten SQL — or an error that aborts
// the execution. pkg/pg's scoped executor calls the hook once per
// statement; any other execution pipeline can do the same.
//
// TenantRewriter is the hook this package exists for. It resolves the
// acting tenant from the context (put there by pkg/tenant middleware) and
// delegates to pkg/sqlrewrite to inject the tenant predicate. Its failure
// semantics are deliberately harsh: a statement with bound SQL and no valid
// tenant in context fails immediately. Missing tenant context is a
// programming error in the request layer, and masking it would turn a bug
// into a cross-tenant data leak.
//
//	reg := sqlrewrite.NewRegistry()
//	hook := intercept.NewTenantRewriter(reg.Freeze())
//
//	stmt, err := hook.Prepare(ctx, intercept.Statement{
//		ID:  "listUsers",
//		SQL: "SELECT id, name FROM users",
//	})
//	// stmt.SQL == "SELECT id, name FROM users WHERE (users.tenant_id = 42)"
package intercept
