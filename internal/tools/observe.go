package tools

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-registry/internal/instrumentation"
	"github.com/giantswarm/mcp-registry/internal/server"
)

// ToolHandler is the signature for MCP tool handler functions that take ServerContext.
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error)

// WrapWithObservability wraps a tool handler with tracing, metrics and the
// server's operational counters. The wrapper automatically captures:
//   - Tool invocation timing
//   - Server name from request arguments (cardinality-controlled for metrics)
//   - Success/error status from the handler result
//   - An OpenTelemetry span covering the invocation
//
// If no instrumentation provider is available, only the counters are updated.
func WrapWithObservability(
	toolName string,
	handler ToolHandler,
	sc *server.ServerContext,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sc.Metrics().IncrementToolCalls()

		provider := sc.InstrumentationProvider()
		if provider == nil || !provider.Enabled() {
			return handler(ctx, request, sc)
		}

		serverName := ParseString(request, "name")
		expandFields := ParseExpandFields(request)

		attrs := instrumentation.NewSpanAttributeBuilder().
			WithTool(toolName).
			WithServerName(serverName).
			WithExpandCount(len(expandFields)).
			Build()

		ctx, span := instrumentation.StartToolSpan(ctx, toolName, attrs...)
		defer span.End()

		start := time.Now()
		result, err := handler(ctx, request, sc)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			// MCP tool errors are returned in the result, not as Go errors
			status = instrumentation.StatusError
			if len(result.Content) > 0 {
				if textContent, ok := result.Content[0].(mcp.TextContent); ok {
					instrumentation.SetSpanError(span, errors.New(textContent.Text))
				}
			}
		default:
			instrumentation.SetSpanSuccess(span)
		}

		if metrics := provider.Metrics(); metrics != nil {
			metrics.RecordToolCall(ctx, toolName, serverName, status, duration)
		}

		return result, err
	}
}
