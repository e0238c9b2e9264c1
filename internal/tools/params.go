// Package tools provides shared utilities and types for MCP tool implementations.
package tools

import (
	"strings"

	mcp "github.com/mark3labs/mcp-go/mcp"
)

// AddOutputShapingParams returns tool options for the response shaping
// parameters shared by every tool that returns registry records.
//
// Usage in tool registration:
//
//	opts := []mcp.ToolOption{
//	    mcp.WithDescription("..."),
//	}
//	opts = append(opts, tools.AddOutputShapingParams()...)
//	opts = append(opts, /* tool-specific params */...)
//	tool := mcp.NewTool("tool_name", opts...)
func AddOutputShapingParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithArray("expand_fields",
			mcp.Description("Field paths to return in full instead of truncated, as shown in truncation placeholders (e.g., ['description', 'packages[0].readme'])"),
		),
	}
}

// ParseExpandFields extracts the expand_fields argument from a tool request.
// Non-string entries and blank entries are dropped. Returns nil when the
// argument is absent or empty.
func ParseExpandFields(request mcp.CallToolRequest) []string {
	args := request.GetArguments()

	raw, ok := args["expand_fields"]
	if !ok || raw == nil {
		return nil
	}

	slice, ok := raw.([]interface{})
	if !ok {
		return nil
	}

	var fields []string
	for _, item := range slice {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				fields = append(fields, s)
			}
		}
	}
	return fields
}

// ParseLimit extracts a numeric limit argument from a tool request.
// JSON numbers arrive as float64. Returns fallback when the argument is
// absent or not a number.
func ParseLimit(request mcp.CallToolRequest, key string, fallback int) int {
	args := request.GetArguments()

	raw, ok := args[key]
	if !ok {
		return fallback
	}
	if f, ok := raw.(float64); ok {
		return int(f)
	}
	return fallback
}

// ParseString extracts a string argument from a tool request, returning
// the empty string when absent.
func ParseString(request mcp.CallToolRequest, key string) string {
	args := request.GetArguments()
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}
