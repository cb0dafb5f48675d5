package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation = "operation"
	KeyService   = "service"
	KeyFileID    = "file_id"
	KeyParentID  = "parent_id"
	KeyPath      = "path"
	KeyDuration  = "duration"
	KeyStatus    = "status"
	KeyError     = "error"
	KeyTraceID   = "trace_id"
)

// Status values for consistent logging.
// Note: These are intentionally duplicated from the instrumentation package
// so logging stays free of otel imports.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ParseLevel converts a level name (debug, info, warn, warning, error) to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// New builds a slog.Logger writing to w with the given level and format
// ("text" or "json").
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	return slog.New(handler), nil
}

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithService returns a logger with the service attribute set.
func WithService(logger *slog.Logger, service string) *slog.Logger {
	return logger.With(slog.String(KeyService, service))
}

// FileID returns a slog attribute for a Drive file or folder identifier.
func FileID(id string) slog.Attr {
	return slog.String(KeyFileID, id)
}

// ParentID returns a slog attribute for a Drive parent folder identifier.
func ParentID(id string) slog.Attr {
	return slog.String(KeyParentID, id)
}

// Path returns a slog attribute for a local filesystem path.
func Path(path string) slog.Attr {
	return slog.String(KeyPath, path)
}

// TraceID returns a slog attribute for a trace identifier.
// An empty id yields an empty Group attribute that is omitted from output.
func TraceID(id string) slog.Attr {
	if id == "" {
		return slog.Group("")
	}
	return slog.String(KeyTraceID, id)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}
