// Package sqlrewrite injects mandatory tenant-scoping predicates into SQL
// statements before they execute.
//
// Multi-tenant schemas in this toolkit share tables, with every tenant-owned
// row carrying a tenant_id column. Application queries are supposed to filter
// on it, but "supposed to" is not an isolation guarantee: a single missed
// predicate leaks one tenant's rows into another tenant's response. This
// package is the enforcement layer — every statement passes through Rewrite,
// which guarantees the SQL that reaches the database is scoped to exactly one
// tenant or does not run at all.
//
// # Rewrite rules
//
// Rewrite works on the statement text with a quote- and parenthesis-aware
// scanner, so keywords inside string literals or subexpressions are never
// mistaken for clause boundaries:
//
//   - SELECT / UPDATE / DELETE: the table qualifiers referenced by the
//     statement are collected, a conjunction of per-qualifier tenant
//     predicates (plus cross-table tenant equalities for joins) is built,
//     and it is ANDed into the WHERE clause, or a WHERE clause is opened
//     before GROUP BY / HAVING / ORDER BY / LIMIT / RETURNING.
//   - INSERT ... VALUES: the tenant column is appended to the column list
//     and the tenant literal to every value tuple.
//   - Statements already scoped to the tenant come back unchanged, so the
//     rewrite is idempotent and callers can skip the no-op replacement.
//
// # Complex statements and patches
//
// Unions, CTEs, derived tables and correlated subqueries have no single safe
// injection point, so the generic rules refuse them: rewriting such a
// statement without a registered Patch is an error, not a best-effort skip.
// A Registry maps statement ids to patches describing how each irregular
// statement is scoped. The registry is populated at startup, either in code:
//
//	reg := sqlrewrite.NewRegistry()
//	reg.MustRegister("listTablesWithOwners", sqlrewrite.Patch{
//		Qualifiers: []string{"t", "o"},
//	})
//	reg.Freeze()
//
// or from a YAML catalog via LoadRegistry, and is read-only afterwards.
//
// # Failure semantics
//
// Every error here means a gap in tenant isolation coverage: a non-positive
// tenant id, a complex statement missing its patch, or SQL with no valid
// injection point. None of these are recoverable at the call site — they
// propagate so the statement fails loudly instead of running unscoped.
package sqlrewrite
