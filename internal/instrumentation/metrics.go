package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	// Common attributes (reused across metrics)
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrTool      = "tool"
	attrPublisher = "publisher"
	attrKind      = "kind"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// MCP tool metrics
	toolCallsTotal   metric.Int64Counter
	toolCallDuration metric.Float64Histogram

	// Registry API metrics
	registryRequestsTotal   metric.Int64Counter
	registryRequestDuration metric.Float64Histogram

	// Truncation metrics
	truncationsTotal metric.Int64Counter
	expansionsTotal  metric.Int64Counter

	// Configuration
	// detailedLabels controls whether high-cardinality labels (publisher)
	// are included in tool call metrics
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// HTTP Metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	// MCP Tool Metrics
	m.toolCallsTotal, err = meter.Int64Counter(
		"mcp_tool_calls_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_calls_total counter: %w", err)
	}

	m.toolCallDuration, err = meter.Float64Histogram(
		"mcp_tool_call_duration_seconds",
		metric.WithDescription("MCP tool invocation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_call_duration_seconds histogram: %w", err)
	}

	// Registry API Metrics
	m.registryRequestsTotal, err = meter.Int64Counter(
		"registry_requests_total",
		metric.WithDescription("Total number of upstream registry API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry_requests_total counter: %w", err)
	}

	m.registryRequestDuration, err = meter.Float64Histogram(
		"registry_request_duration_seconds",
		metric.WithDescription("Upstream registry API request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry_request_duration_seconds histogram: %w", err)
	}

	// Truncation Metrics
	m.truncationsTotal, err = meter.Int64Counter(
		"response_truncations_total",
		metric.WithDescription("Total number of truncations applied to tool responses"),
		metric.WithUnit("{truncation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create response_truncations_total counter: %w", err)
	}

	m.expansionsTotal, err = meter.Int64Counter(
		"response_expansions_total",
		metric.WithDescription("Total number of expand_fields entries supplied by clients"),
		metric.WithUnit("{field}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create response_expansions_total counter: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolCall records an MCP tool invocation with tool name, the server name
// it targeted (may be empty for list-style tools), status, and duration.
//
// CARDINALITY NOTE: When detailedLabels is false (default), only tool and status
// labels are recorded to avoid cardinality explosion across thousands of
// registry entries. When detailedLabels is true, a publisher label derived
// from the server name is also included.
func (m *Metrics) RecordToolCall(ctx context.Context, tool, serverName, status string, duration time.Duration) {
	if m.toolCallsTotal == nil || m.toolCallDuration == nil {
		return // Instrumentation not initialized
	}

	// Always include tool and status (low cardinality)
	attrs := []attribute.KeyValue{
		attribute.String(attrTool, tool),
		attribute.String(attrStatus, status),
	}

	// Only add high-cardinality labels if explicitly enabled
	if m.detailedLabels {
		attrs = append(attrs,
			attribute.String(attrPublisher, ClassifyPublisher(serverName)),
		)
	}

	m.toolCallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolCallDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordRegistryRequest records an upstream registry API request with the
// operation type (list, get, versions), status, and duration.
func (m *Metrics) RecordRegistryRequest(ctx context.Context, operation, status string, duration time.Duration) {
	if m.registryRequestsTotal == nil || m.registryRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.registryRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.registryRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordTruncation records truncations applied to a tool response.
// Kind should be one of: "string", "deep", "items".
func (m *Metrics) RecordTruncation(ctx context.Context, tool, kind string, count int64) {
	if m.truncationsTotal == nil || count <= 0 {
		return // Instrumentation not initialized or nothing to record
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, tool),
		attribute.String(attrKind, kind),
	}

	m.truncationsTotal.Add(ctx, count, metric.WithAttributes(attrs...))
}

// RecordExpansions records the number of expand_fields entries a client
// supplied on a tool call.
func (m *Metrics) RecordExpansions(ctx context.Context, tool string, count int64) {
	if m.expansionsTotal == nil || count <= 0 {
		return // Instrumentation not initialized or nothing to record
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, tool),
	}

	m.expansionsTotal.Add(ctx, count, metric.WithAttributes(attrs...))
}
