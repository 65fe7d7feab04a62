// Package pg is the PostgreSQL layer of the toolkit: pgx/v5 connection
// pooling, goose migrations, health checks, error classification helpers,
// and the scoped executor that wires tenant SQL rewriting into statement
// execution.
//
// # Building blocks
//
//   - Config — env-tagged struct (github.com/caarlos0/env) controlling pool
//     limits, retry cadence, migration paths, and the optional sql patch
//     catalog location.
//   - Connect — opens a *pgxpool.Pool from Config, retrying until the
//     database is reachable.
//   - Migrate — applies goose migrations before the service starts serving.
//   - Scoped — wraps the pool (or a transaction) so every named statement
//     passes through a before-execute hook; with the tenant rewriter hook,
//     this is the chokepoint guaranteeing scoped SQL.
//
// # Usage
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//		return err
//	}
//
//	registry, err := sqlrewrite.LoadRegistryFile(cfg.PatchCatalogPath)
//	if err != nil {
//		return err
//	}
//	exec := pg.Scoped(pool, intercept.NewTenantRewriter(registry))
//
//	// repositories depend on exec, not on the pool
//	rows, err := exec.Query(ctx, "listMetrics", "SELECT id, name FROM metrics")
//
// # Error handling
//
// Helpers such as IsNotFoundError, IsDuplicateKeyError and
// IsForeignKeyViolationError classify pgx and *pgconn.PgError values so
// business logic can match on conditions instead of SQLSTATE strings.
package pg
