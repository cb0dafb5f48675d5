// Package instrumentation provides optional OpenTelemetry instrumentation for
// drivemenu.
//
// Instrumentation is disabled by default because drivemenu is an interactive,
// single-user program. When enabled it records:
//
// Google Drive Metrics:
//   - google_api_operations_total: Counter of Drive operations by operation and status
//   - google_api_operation_duration_seconds: Histogram of Drive operation durations
//   - drive_transfer_bytes_total: Counter of bytes uploaded and downloaded
//
// OAuth Metrics:
//   - oauth_token_refresh_total: Counter of token refresh attempts by result
//
// Menu Metrics:
//   - menu_actions_total: Counter of menu commands by action and status
//
// Every Drive call runs inside a span named google.drive.<operation>.
// Destructive actions (delete, upload, update) are written to the audit log.
//
// # Configuration
//
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: false)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 1.0)
//   - OTEL_SERVICE_NAME: Service name (default: drivemenu)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordDriveOperation(ctx, instrumentation.OperationList, instrumentation.StatusSuccess, time.Since(start))
package instrumentation
