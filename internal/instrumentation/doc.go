// Package instrumentation provides OpenTelemetry instrumentation for the
// flow-vikunja launcher plugin.
//
// Every launcher invocation is a separate, short-lived process. Telemetry is
// therefore opt-in and shaped around that lifetime:
//   - spans are exported synchronously so nothing is lost when the process exits
//   - prometheus metrics live in a private registry and are pushed to a
//     Pushgateway from Provider.Shutdown instead of being scraped
//   - the stdout exporters write to stderr because stdout carries the
//     launcher response
//
// # Metrics
//
// Vikunja API Metrics:
//   - vikunja_api_requests_total: Counter of API requests by operation, status and status code class
//   - vikunja_api_request_duration_seconds: Histogram of API request durations
//
// Invocation Metrics:
//   - plugin_invocations_total: Counter of launcher invocations by method and status
//   - plugin_invocation_duration_seconds: Histogram of invocation durations
//
// Method labels are passed through NormalizeMethod so unknown launcher methods
// collapse into a single "other" series.
//
// # Tracing
//
// Spans are created for:
//   - launcher invocations (plugin.<method>)
//   - Vikunja API calls (vikunja.<operation>)
//
// # Configuration
//
// Instrumentation is configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: false)
//   - METRICS_EXPORTER: prometheus, otlp, stdout, none (default: none)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 1.0)
//   - OTEL_SERVICE_NAME: Service name (default: flow-vikunja)
//   - PROMETHEUS_PUSHGATEWAY_URL: Pushgateway to push to on shutdown
//   - PROMETHEUS_PUSH_JOB: Pushgateway job label (default: flow-vikunja)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	ctx, span := instrumentation.StartInvocationSpan(ctx, "query", invocationID)
//	defer span.End()
//
//	provider.Metrics().RecordInvocation(ctx, "query", instrumentation.StatusSuccess, time.Since(start))
package instrumentation
