// Package instrumentation provides comprehensive OpenTelemetry instrumentation
// for the mcp-registry server.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests, tool calls, and registry requests
//   - Distributed tracing for request flows and upstream registry calls
//   - Prometheus metrics export via /metrics endpoint
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// MCP Tool Metrics:
//   - mcp_tool_calls_total: Counter of tool invocations by tool and status
//   - mcp_tool_call_duration_seconds: Histogram of tool invocation durations
//
// Registry API Metrics:
//   - registry_requests_total: Counter of upstream registry requests by operation and status
//   - registry_request_duration_seconds: Histogram of upstream registry request durations
//
// Truncation Metrics:
//   - response_truncations_total: Counter of truncations applied to responses by tool and kind
//   - response_expansions_total: Counter of expand_fields entries supplied by clients
//
// # Cardinality Considerations
//
// IMPORTANT: The registry holds thousands of server entries, so server names
// are never used as metric labels directly. When detailed labels are enabled,
// names are reduced to a publisher classification (github, gitlab,
// custom_domain) via ClassifyPublisher. Use distributed tracing for
// per-server debugging instead.
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - HTTP request handling
//   - MCP tool invocations
//   - Upstream registry API calls
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: false)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: mcp-registry)
//
// # Example Usage
//
//	// Initialize instrumentation
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "mcp-registry",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	// Get metrics recorder
//	recorder := provider.Metrics()
//
//	// Record an HTTP request
//	recorder.RecordHTTPRequest(ctx, "POST", "/mcp", 200, time.Since(start))
//
//	// Record a tool invocation
//	recorder.RecordToolCall(ctx, "get_server", "io.github.example/weather", "success", time.Since(start))
package instrumentation
