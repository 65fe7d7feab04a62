package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapillar/tenantsql/pkg/logger"
	"github.com/datapillar/tenantsql/pkg/tenant"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults to json at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf))

		log.Debug("hidden")
		assert.Empty(t, buf.String())

		log.Info("visible")
		entry := logLine(t, &buf)
		assert.Equal(t, "visible", entry["msg"])
		assert.Equal(t, "INFO", entry["level"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatText))

		log.Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			logger.New(logger.WithFormat(logger.Format("xml")))
		})
	})

	t.Run("level option", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelDebug))

		log.Debug("now visible")
		entry := logLine(t, &buf)
		assert.Equal(t, "now visible", entry["msg"])
	})

	t.Run("static attrs on every record", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithAttr(slog.String("service", "rewriter")),
		)

		log.Info("event")
		entry := logLine(t, &buf)
		assert.Equal(t, "rewriter", entry["service"])
	})

	t.Run("development preset", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithDevelopment("billing"), logger.WithOutput(&buf))

		log.Debug("dev logs at debug")
		out := buf.String()
		assert.Contains(t, out, "service=billing")
		assert.Contains(t, out, "env=development")
	})

	t.Run("production preset", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithProduction("billing"), logger.WithOutput(&buf))

		log.Info("prod event")
		entry := logLine(t, &buf)
		assert.Equal(t, "billing", entry["service"])
		assert.Equal(t, "production", entry["env"])
	})
}

func TestContextExtractors(t *testing.T) {
	t.Parallel()

	t.Run("tenant id from context", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithContextExtractors(tenant.LoggerExtractor()),
		)

		ctx := tenant.WithTenant(context.Background(), &tenant.Tenant{ID: 42})
		log.InfoContext(ctx, "scoped event")

		entry := logLine(t, &buf)
		assert.EqualValues(t, 42, entry["tenant_id"])
	})

	t.Run("no tenant adds nothing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithContextExtractors(tenant.LoggerExtractor()),
		)

		log.InfoContext(context.Background(), "unscoped")
		entry := logLine(t, &buf)
		assert.NotContains(t, entry, "tenant_id")
	})

	t.Run("extractors survive WithGroup and With", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithContextExtractors(tenant.LoggerExtractor()),
		)

		ctx := tenant.WithTenant(context.Background(), &tenant.Tenant{ID: 7})
		log.With(slog.String("component", "pg")).InfoContext(ctx, "query")

		entry := logLine(t, &buf)
		assert.EqualValues(t, 7, entry["tenant_id"])
		assert.Equal(t, "pg", entry["component"])
	})
}

func TestAttrHelpers(t *testing.T) {
	t.Parallel()

	t.Run("error attr", func(t *testing.T) {
		t.Parallel()

		attr := logger.Error(errors.New("boom"))
		assert.Equal(t, "error", attr.Key)
		assert.Equal(t, "boom", attr.Value.String())

		assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	})

	t.Run("errors attr skips nils", func(t *testing.T) {
		t.Parallel()

		attr := logger.Errors(errors.New("one"), nil, errors.New("two"))
		assert.Equal(t, "errors", attr.Key)
		assert.Equal(t, []string{"one", "two"}, attr.Value.Any())
	})

	t.Run("domain attrs", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "statement", logger.Statement("orders.list").Key)
		assert.Equal(t, "tenant_id", logger.TenantID(3).Key)
		assert.EqualValues(t, 1500, logger.Duration(1500*time.Millisecond).Value.Int64())
	})
}
