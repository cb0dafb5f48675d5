package instrumentation

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *metric.ManualReader) {
	t.Helper()

	reader := metric.NewManualReader()
	mp := metric.NewMeterProvider(metric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	return m, reader
}

func collectSum(t *testing.T, reader *metric.ManualReader, name string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric %s is %T, want Sum[int64]", name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestMetrics_RecordDriveOperation(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordDriveOperation(ctx, OperationList, StatusSuccess, 200*time.Millisecond)
	m.RecordDriveOperation(ctx, OperationCreate, StatusError, 500*time.Millisecond)
	m.RecordDriveOperation(ctx, OperationDelete, StatusSuccess, 100*time.Millisecond)

	if got := collectSum(t, reader, "google_api_operations_total"); got != 3 {
		t.Errorf("google_api_operations_total = %d, want 3", got)
	}
}

func TestMetrics_RecordTransferBytes(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordTransferBytes(ctx, DirectionUpload, 1024)
	m.RecordTransferBytes(ctx, DirectionDownload, 512)
	m.RecordTransferBytes(ctx, DirectionDownload, 0)
	m.RecordTransferBytes(ctx, DirectionDownload, -5)

	if got := collectSum(t, reader, "drive_transfer_bytes_total"); got != 1536 {
		t.Errorf("drive_transfer_bytes_total = %d, want 1536", got)
	}
}

func TestMetrics_RecordOAuthTokenRefresh(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordOAuthTokenRefresh(ctx, OAuthResultSuccess)
	m.RecordOAuthTokenRefresh(ctx, OAuthResultFailure)

	if got := collectSum(t, reader, "oauth_token_refresh_total"); got != 2 {
		t.Errorf("oauth_token_refresh_total = %d, want 2", got)
	}
}

func TestMetrics_RecordMenuAction(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordMenuAction(ctx, "upload", StatusSuccess)
	m.RecordMenuAction(ctx, "invalid", StatusError)

	if got := collectSum(t, reader, "menu_actions_total"); got != 2 {
		t.Errorf("menu_actions_total = %d, want 2", got)
	}
}

func TestMetrics_ZeroValueIsNoOp(t *testing.T) {
	ctx := context.Background()

	// Neither the zero value nor a nil pointer should panic.
	for _, m := range []*Metrics{{}, nil} {
		m.RecordDriveOperation(ctx, OperationList, StatusSuccess, time.Second)
		m.RecordTransferBytes(ctx, DirectionUpload, 10)
		m.RecordOAuthTokenRefresh(ctx, OAuthResultSuccess)
		m.RecordMenuAction(ctx, "quit", StatusSuccess)
	}
}
