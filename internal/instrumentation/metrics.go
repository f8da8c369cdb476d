package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrMethod     = "method"
	attrStatus     = "status"
	attrStatusCode = "status_code"
	attrOperation  = "operation"
)

// Metrics provides methods for recording observability metrics.
// The zero value (and a nil *Metrics) is a valid no-op recorder.
type Metrics struct {
	// Vikunja API metrics
	apiRequestsTotal   metric.Int64Counter
	apiRequestDuration metric.Float64Histogram

	// Launcher invocation metrics
	invocationsTotal   metric.Int64Counter
	invocationDuration metric.Float64Histogram
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.apiRequestsTotal, err = meter.Int64Counter(
		"vikunja_api_requests_total",
		metric.WithDescription("Total number of Vikunja API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create vikunja_api_requests_total counter: %w", err)
	}

	m.apiRequestDuration, err = meter.Float64Histogram(
		"vikunja_api_request_duration_seconds",
		metric.WithDescription("Vikunja API request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create vikunja_api_request_duration_seconds histogram: %w", err)
	}

	m.invocationsTotal, err = meter.Int64Counter(
		"plugin_invocations_total",
		metric.WithDescription("Total number of launcher invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create plugin_invocations_total counter: %w", err)
	}

	m.invocationDuration, err = meter.Float64Histogram(
		"plugin_invocation_duration_seconds",
		metric.WithDescription("Launcher invocation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create plugin_invocation_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordAPIRequest records a Vikunja API request.
//
// Parameters:
//   - operation: API operation (see Operation* constants)
//   - status: Result status ("success" or "error")
//   - statusCode: HTTP status code, 0 when no response was received
//   - duration: Time taken for the request
func (m *Metrics) RecordAPIRequest(ctx context.Context, operation, status string, statusCode int, duration time.Duration) {
	if m == nil || m.apiRequestsTotal == nil || m.apiRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
		attribute.String(attrStatusCode, StatusCodeClass(statusCode)),
	}

	m.apiRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.apiRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordInvocation records one launcher invocation (query or callback).
func (m *Metrics) RecordInvocation(ctx context.Context, method, status string, duration time.Duration) {
	if m == nil || m.invocationsTotal == nil || m.invocationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, NormalizeMethod(method)),
		attribute.String(attrStatus, status),
	}

	m.invocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.invocationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// StatusCodeClass reduces an HTTP status code to its class ("2xx", "4xx", ...).
// Zero means no response and maps to "none".
func StatusCodeClass(code int) string {
	if code <= 0 {
		return "none"
	}
	if code < 100 || code > 599 {
		return strconv.Itoa(code)
	}
	return strconv.Itoa(code/100) + "xx"
}
