package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrService   = "service"
	attrOperation = "operation"
	attrStatus    = "status"
	attrResult    = "result"
	attrAction    = "action"
	attrDirection = "direction"
)

// Metrics provides methods for recording observability metrics.
// The zero value records nothing, which is what a disabled Provider hands out.
type Metrics struct {
	// Google Drive metrics
	driveOperationsTotal   metric.Int64Counter
	driveOperationDuration metric.Float64Histogram
	transferBytesTotal     metric.Int64Counter

	// OAuth metrics
	oauthTokenRefreshTotal metric.Int64Counter

	// Menu metrics
	menuActionsTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.driveOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operations_total counter: %w", err)
	}

	m.driveOperationDuration, err = meter.Float64Histogram(
		"google_api_operation_duration_seconds",
		metric.WithDescription("Google API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 120.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operation_duration_seconds histogram: %w", err)
	}

	m.transferBytesTotal, err = meter.Int64Counter(
		"drive_transfer_bytes_total",
		metric.WithDescription("Total number of bytes transferred to or from Google Drive"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive_transfer_bytes_total counter: %w", err)
	}

	m.oauthTokenRefreshTotal, err = meter.Int64Counter(
		"oauth_token_refresh_total",
		metric.WithDescription("Total number of OAuth token refresh attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_token_refresh_total counter: %w", err)
	}

	m.menuActionsTotal, err = meter.Int64Counter(
		"menu_actions_total",
		metric.WithDescription("Total number of menu commands handled"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create menu_actions_total counter: %w", err)
	}

	return m, nil
}

// RecordDriveOperation records a Drive API call with operation, status and duration.
//
// Parameters:
//   - operation: list, create, mkdir, download, update, delete
//   - status: "success" or "error"
//   - duration: Time taken for the call
func (m *Metrics) RecordDriveOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m == nil || m.driveOperationsTotal == nil || m.driveOperationDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, ServiceDrive),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.driveOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.driveOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordTransferBytes records bytes moved in the given direction ("upload" or "download").
func (m *Metrics) RecordTransferBytes(ctx context.Context, direction string, n int64) {
	if m == nil || m.transferBytesTotal == nil || n <= 0 {
		return
	}

	m.transferBytesTotal.Add(ctx, n, metric.WithAttributes(attribute.String(attrDirection, direction)))
}

// RecordOAuthTokenRefresh records an OAuth token refresh attempt.
// Result should be one of: "success", "failure"
func (m *Metrics) RecordOAuthTokenRefresh(ctx context.Context, result string) {
	if m == nil || m.oauthTokenRefreshTotal == nil {
		return
	}

	m.oauthTokenRefreshTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordMenuAction records a menu command such as "upload", "back" or "invalid".
func (m *Metrics) RecordMenuAction(ctx context.Context, action, status string) {
	if m == nil || m.menuActionsTotal == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrAction, action),
		attribute.String(attrStatus, status),
	}
	m.menuActionsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}
