package instrumentation

import (
	"context"
	"testing"
	"time"
)

func TestMetrics_RecordAPIRequest(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	metrics := provider.Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Should not panic
	metrics.RecordAPIRequest(ctx, OperationCreateTask, StatusSuccess, 201, 100*time.Millisecond)
	metrics.RecordAPIRequest(ctx, OperationListLists, StatusError, 0, 50*time.Millisecond)
}

func TestMetrics_RecordInvocation(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	// Should not panic
	provider.Metrics().RecordInvocation(ctx, "query", StatusSuccess, time.Millisecond)
	provider.Metrics().RecordInvocation(ctx, "unknown_method", StatusError, time.Millisecond)
}

func TestMetrics_NoOpRecorder(t *testing.T) {
	ctx := context.Background()

	// Zero value and nil pointer must both be safe to use.
	zero := &Metrics{}
	zero.RecordAPIRequest(ctx, OperationCreateTask, StatusSuccess, 201, time.Second)
	zero.RecordInvocation(ctx, "query", StatusSuccess, time.Second)

	var nilMetrics *Metrics
	nilMetrics.RecordAPIRequest(ctx, OperationCreateTask, StatusSuccess, 201, time.Second)
	nilMetrics.RecordInvocation(ctx, "query", StatusSuccess, time.Second)
}

func TestStatusCodeClass(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "none"},
		{-1, "none"},
		{200, "2xx"},
		{201, "2xx"},
		{404, "4xx"},
		{503, "5xx"},
		{999, "999"},
	}

	for _, tt := range tests {
		if got := StatusCodeClass(tt.code); got != tt.want {
			t.Errorf("StatusCodeClass(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
