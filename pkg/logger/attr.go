package logger

import (
	"log/slog"
	"time"
)

// Error returns an attribute for a single error; nil errors produce an
// empty attribute which slog drops from output.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

// Errors returns an attribute holding multiple error messages.
func Errors(errs ...error) slog.Attr {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	if len(msgs) == 0 {
		return slog.Attr{}
	}
	return slog.Any("errors", msgs)
}

// Component labels the subsystem emitting the record.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Statement labels a record with the logical statement identifier that
// keys SQL patch lookups.
func Statement(id string) slog.Attr {
	return slog.String("statement", id)
}

// TenantID labels a record with the scoping tenant.
func TenantID(id int64) slog.Attr {
	return slog.Int64("tenant_id", id)
}

// Duration records elapsed time in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Int64("duration_ms", d.Milliseconds())
}

// Group nests attributes under a common key.
func Group(key string, attrs ...slog.Attr) slog.Attr {
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return slog.Group(key, args...)
}
