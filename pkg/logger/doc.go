// Package logger provides a slog factory with environment presets and
// context-aware attribute extraction.
//
// Loggers are built with functional options and default to JSON output at
// info level:
//
//	log := logger.New(
//		logger.WithProduction("billing"),
//		logger.WithContextExtractors(
//			tenant.LoggerExtractor(),
//			environment.LoggerExtractor(),
//		),
//	)
//
// Context extractors run on every record, so a handler that stores the
// tenant in the request context gets tenant_id on each log line for free:
//
//	log.InfoContext(ctx, "report generated", logger.Duration(elapsed))
//
// Static attributes, custom outputs, and raw slog.HandlerOptions are
// available for setups the presets do not cover.
package logger
