// Package servers implements the MCP tools for exploring the server registry.
package servers

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-registry/internal/server"
	"github.com/giantswarm/mcp-registry/internal/tools"
)

// RegisterServerTools registers all registry exploration tools with the MCP server
func RegisterServerTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	shapingParams := tools.AddOutputShapingParams()

	// search_servers tool
	searchOpts := []mcp.ToolOption{
		mcp.WithDescription("Search the MCP registry for servers by name or description. Long fields are truncated; pass the paths from truncation placeholders in expand_fields to see them in full."),
		mcp.WithString("query",
			mcp.Description("Substring to match against server names (optional, case-insensitive)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of servers to return (optional, default: 30, max: 100)"),
		),
		mcp.WithString("cursor",
			mcp.Description("Pagination cursor from a previous response (optional)"),
		),
		mcp.WithString("updated_since",
			mcp.Description("Only return servers updated after this RFC 3339 timestamp (optional)"),
		),
	}
	searchOpts = append(searchOpts, shapingParams...)
	searchTool := mcp.NewTool("search_servers", searchOpts...)

	s.AddTool(searchTool, tools.WrapWithObservability("search_servers", handleSearchServers, sc))

	// get_server tool
	getOpts := []mcp.ToolOption{
		mcp.WithDescription("Get the full record for one registry server, including its version index"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Server name in reverse-DNS form (e.g., 'io.github.example/weather')"),
		),
		mcp.WithString("version",
			mcp.Description("Specific version to fetch (optional, default: latest)"),
		),
	}
	getOpts = append(getOpts, shapingParams...)
	getTool := mcp.NewTool("get_server", getOpts...)

	s.AddTool(getTool, tools.WrapWithObservability("get_server", handleGetServer, sc))

	// list_server_versions tool
	versionsOpts := []mcp.ToolOption{
		mcp.WithDescription("List every published version record for a registry server"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Server name in reverse-DNS form (e.g., 'io.github.example/weather')"),
		),
	}
	versionsOpts = append(versionsOpts, shapingParams...)
	versionsTool := mcp.NewTool("list_server_versions", versionsOpts...)

	s.AddTool(versionsTool, tools.WrapWithObservability("list_server_versions", handleListServerVersions, sc))

	return nil
}
