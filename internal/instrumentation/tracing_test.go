package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithFileID("file123").
		WithParentID("root").
		Build()

	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}

	attrMap := make(map[string]interface{})
	for _, attr := range attrs {
		attrMap[string(attr.Key)] = attr.Value.AsInterface()
	}
	if attrMap[SpanAttrFileID] != "file123" {
		t.Errorf("expected file id 'file123', got %v", attrMap[SpanAttrFileID])
	}
	if attrMap[SpanAttrParentID] != "root" {
		t.Errorf("expected parent id 'root', got %v", attrMap[SpanAttrParentID])
	}
}

func TestSpanAttributeBuilder_EmptyValues(t *testing.T) {
	attrs := NewSpanAttributeBuilder().WithFileID("").WithParentID("").Build()
	if len(attrs) != 0 {
		t.Errorf("expected no attributes, got %d", len(attrs))
	}
}

func TestStartDriveSpan(t *testing.T) {
	recorder := useRecorder(t)

	ctx, span := StartDriveSpan(context.Background(), OperationList,
		NewSpanAttributeBuilder().WithParentID("root").Build()...)
	if GetTraceID(ctx) == "" {
		t.Error("expected a trace ID inside the span")
	}
	SetSpanSuccess(span)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(ended))
	}
	if ended[0].Name() != "google.drive.list" {
		t.Errorf("span name = %q, want %q", ended[0].Name(), "google.drive.list")
	}
	if ended[0].Status().Code != codes.Ok {
		t.Errorf("span status = %v, want Ok", ended[0].Status().Code)
	}
}

func TestSetSpanError(t *testing.T) {
	recorder := useRecorder(t)

	_, span := StartDriveSpan(context.Background(), OperationDelete)
	SetSpanError(span, errors.New("not found"))
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(ended))
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("span status = %v, want Error", ended[0].Status().Code)
	}
	if ended[0].Status().Description != "not found" {
		t.Errorf("span description = %q, want %q", ended[0].Status().Description, "not found")
	}
}

func TestSetSpanError_Nil(t *testing.T) {
	recorder := useRecorder(t)

	_, span := StartDriveSpan(context.Background(), OperationDelete)
	SetSpanError(span, nil)
	span.End()

	if got := recorder.Ended()[0].Status().Code; got != codes.Unset {
		t.Errorf("span status = %v, want Unset", got)
	}
}

func TestGetTraceID_NoSpan(t *testing.T) {
	if id := GetTraceID(context.Background()); id != "" {
		t.Errorf("expected empty trace ID, got %q", id)
	}
}
