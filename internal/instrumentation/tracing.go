package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the mcp-registry package.
const TracerName = "github.com/giantswarm/mcp-registry"

// Span attribute keys for registry operations.
const (
	// SpanAttrTool is the MCP tool name.
	SpanAttrTool = "mcp.tool"

	// SpanAttrServerName is the registry server name.
	SpanAttrServerName = "registry.server_name"

	// SpanAttrPublisher is the classified publisher type (lower cardinality).
	SpanAttrPublisher = "registry.publisher"

	// SpanAttrVersion is the requested server version.
	SpanAttrVersion = "registry.version"

	// SpanAttrOperation is the registry operation type (list, get, versions).
	SpanAttrOperation = "registry.operation"

	// SpanAttrCursor indicates whether a pagination cursor was supplied.
	SpanAttrCursor = "registry.cursor_set"

	// SpanAttrExpandCount is the number of expand_fields entries supplied.
	SpanAttrExpandCount = "mcp.expand_count"

	// SpanAttrTruncated indicates whether the response was truncated.
	SpanAttrTruncated = "mcp.truncated"
)

// SpanAttributeBuilder helps construct OpenTelemetry span attributes
// with consistent naming and cardinality controls.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates a new SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 10),
	}
}

// WithTool adds the MCP tool name attribute.
func (b *SpanAttributeBuilder) WithTool(tool string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrTool, tool))
	return b
}

// WithServerName adds server name attributes with cardinality control.
// Adds both the full server name and classified publisher type.
func (b *SpanAttributeBuilder) WithServerName(serverName string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs,
		attribute.String(SpanAttrServerName, serverName),
		attribute.String(SpanAttrPublisher, ClassifyPublisher(serverName)),
	)
	return b
}

// WithPublisher adds only the classified publisher type (for lower cardinality).
func (b *SpanAttributeBuilder) WithPublisher(serverName string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs,
		attribute.String(SpanAttrPublisher, ClassifyPublisher(serverName)),
	)
	return b
}

// WithVersion adds the requested server version attribute.
func (b *SpanAttributeBuilder) WithVersion(version string) *SpanAttributeBuilder {
	if version != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrVersion, version))
	}
	return b
}

// WithOperation adds the operation type attribute.
func (b *SpanAttributeBuilder) WithOperation(operation string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrOperation, operation))
	return b
}

// WithCursor adds the pagination cursor indicator attribute.
func (b *SpanAttributeBuilder) WithCursor(cursorSet bool) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.Bool(SpanAttrCursor, cursorSet))
	return b
}

// WithExpandCount adds the expand_fields count attribute.
func (b *SpanAttributeBuilder) WithExpandCount(count int) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.Int(SpanAttrExpandCount, count))
	return b
}

// WithTruncated adds the truncation indicator attribute.
func (b *SpanAttributeBuilder) WithTruncated(truncated bool) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.Bool(SpanAttrTruncated, truncated))
	return b
}

// Build returns the constructed attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

// StartSpan starts a new span with the given name and attributes.
// Returns the context with the span and the span itself.
// The caller is responsible for ending the span with defer span.End().
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartToolSpan starts a span for an MCP tool invocation.
// Automatically adds tool name and sets appropriate span kind.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attribute.String(SpanAttrTool, toolName))
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "tool."+toolName,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartRegistrySpan starts a span for upstream registry API operations.
// Includes operation and server name attributes.
func StartRegistrySpan(ctx context.Context, operation, serverName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+3)
	allAttrs = append(allAttrs, attribute.String(SpanAttrOperation, operation))
	if serverName != "" {
		allAttrs = append(allAttrs,
			attribute.String(SpanAttrServerName, serverName),
			attribute.String(SpanAttrPublisher, ClassifyPublisher(serverName)),
		)
	}
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "registry."+operation,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetSpanError records an error on the span and sets the status to error.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// AddSpanEvent adds an event to the span with optional attributes.
func AddSpanEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// GetTraceID returns the trace ID from the current span in context.
// Returns empty string if no valid span is present.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}

// GetSpanID returns the span ID from the current span in context.
// Returns empty string if no valid span is present.
func GetSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().SpanID().String()
	}
	return ""
}

// SpanContextString returns a human-readable trace context string.
// Format: "trace_id=X span_id=Y" or empty string if no valid context.
func SpanContextString(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return ""
	}
	return "trace_id=" + span.SpanContext().TraceID().String() +
		" span_id=" + span.SpanContext().SpanID().String()
}
