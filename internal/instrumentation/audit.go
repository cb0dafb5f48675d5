package instrumentation

import (
	"context"
	"log/slog"
	"time"
)

// Audited actions.
const (
	ActionUpload       = "upload"
	ActionCreateFolder = "create_folder"
	ActionUpdate       = "update"
	ActionDelete       = "delete"
)

// DriveAction captures a change made to the remote Drive tree for audit
// logging. Read-only operations are not audited.
type DriveAction struct {
	Action   string
	FileID   string
	ParentID string

	// Name and LocalPath are only logged when IncludeNames is set.
	Name      string
	LocalPath string

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	TraceID string
}

// NewDriveAction creates a DriveAction with timing started.
func NewDriveAction(action string) *DriveAction {
	return &DriveAction{
		Action:    action,
		StartTime: time.Now(),
	}
}

// WithTarget sets the remote identifiers and the human-readable names.
func (a *DriveAction) WithTarget(fileID, parentID, name, localPath string) *DriveAction {
	a.FileID = fileID
	a.ParentID = parentID
	a.Name = name
	a.LocalPath = localPath
	return a
}

// WithSpanContext extracts the trace ID from the current span.
func (a *DriveAction) WithSpanContext(ctx context.Context) *DriveAction {
	a.TraceID = GetTraceID(ctx)
	return a
}

// Complete marks the action as finished. A nil err means success.
func (a *DriveAction) Complete(err error) *DriveAction {
	a.Duration = time.Since(a.StartTime)
	a.Success = err == nil
	if err != nil {
		a.Error = err.Error()
	}
	return a
}

// Status returns "success" or "error" based on the Success field.
func (a *DriveAction) Status() string {
	if a.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes for the action. Names and local paths
// are included only when includeNames is true.
func (a *DriveAction) LogAttrs(includeNames bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("action", a.Action),
		slog.Duration("duration", a.Duration),
		slog.Bool("success", a.Success),
	}

	if a.FileID != "" {
		attrs = append(attrs, slog.String("file_id", a.FileID))
	}
	if a.ParentID != "" {
		attrs = append(attrs, slog.String("parent_id", a.ParentID))
	}
	if includeNames {
		if a.Name != "" {
			attrs = append(attrs, slog.String("name", a.Name))
		}
		if a.LocalPath != "" {
			attrs = append(attrs, slog.String("local_path", a.LocalPath))
		}
	}
	if a.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", a.TraceID))
	}
	if a.Error != "" {
		attrs = append(attrs, slog.String("error", a.Error))
	}

	return attrs
}

// AuditLogger writes DriveActions to a slog.Logger.
type AuditLogger struct {
	logger       *slog.Logger
	includeNames bool
	enabled      bool
}

// NewAuditLogger creates an enabled AuditLogger that logs identifiers only.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true})
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
// If logger is nil, slog.Default() is used at log time.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	return &AuditLogger{
		logger:       logger,
		includeNames: config.IncludeNames,
		enabled:      config.Enabled,
	}
}

// SetLogger replaces the destination logger.
func (al *AuditLogger) SetLogger(logger *slog.Logger) {
	al.logger = logger
}

// LogAction writes the action at info level on success and warn on failure.
// A nil AuditLogger is a no-op.
func (al *AuditLogger) LogAction(ctx context.Context, a *DriveAction) {
	if al == nil || !al.enabled || a == nil {
		return
	}

	logger := al.logger
	if logger == nil {
		logger = slog.Default()
	}

	msg := "drive_action"
	if !a.Success {
		msg = "drive_action_failed"
	}
	logger.LogAttrs(ctx, slog.LevelInfo, msg, a.LogAttrs(al.includeNames)...)
}
