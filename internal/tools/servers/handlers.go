package servers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/giantswarm/mcp-registry/internal/instrumentation"
	"github.com/giantswarm/mcp-registry/internal/logging"
	"github.com/giantswarm/mcp-registry/internal/registry"
	"github.com/giantswarm/mcp-registry/internal/server"
	"github.com/giantswarm/mcp-registry/internal/tools"
	"github.com/giantswarm/mcp-registry/internal/tools/output"
)

// handleSearchServers handles registry list/search operations
func handleSearchServers(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	query := tools.ParseString(request, "query")
	cursor := tools.ParseString(request, "cursor")
	updatedSince := tools.ParseString(request, "updated_since")
	limit := tools.ParseLimit(request, "limit", 0)
	expandFields := tools.ParseExpandFields(request)

	// Request a page sized to what the response can actually carry.
	pageSize := output.EffectiveLimit(limit, sc.Config().Output.MaxItems)

	var result *registry.ListResult
	err := observeRegistryCall(ctx, sc, instrumentation.OperationList, "", func(ctx context.Context) error {
		var err error
		result, err = sc.RegistryClient().ListServers(ctx, registry.ListOptions{
			Search:       query,
			Cursor:       cursor,
			Limit:        pageSize,
			UpdatedSince: updatedSince,
		})
		return err
	})
	if err != nil {
		sc.Logger().Error("search_servers failed",
			logging.Tool("search_servers"), logging.SanitizedErr(err))
		return mcp.NewToolResultError(tools.FormatRegistryError(err)), nil
	}

	shaped, warning := sc.Processor().ShapeList(result.Servers, expandFields, limit)
	recordShapingMetrics(ctx, sc, "search_servers", shaped, warning, expandFields)

	response := map[string]interface{}{
		"servers": shaped,
		"count":   len(shaped),
	}
	if result.NextCursor != "" {
		response["next_cursor"] = result.NextCursor
	}
	if warning != nil {
		response["truncation_warning"] = warning
	}

	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal server list: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleGetServer handles single-record fetches. The record and its version
// index come from separate registry endpoints, so both are fetched
// concurrently.
func handleGetServer(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	name := tools.ParseString(request, "name")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	version := tools.ParseString(request, "version")
	if version == "" {
		version = registry.VersionLatest
	}
	expandFields := tools.ParseExpandFields(request)

	var (
		record   map[string]interface{}
		versions *registry.ListResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return observeRegistryCall(gctx, sc, instrumentation.OperationGet, name, func(ctx context.Context) error {
			var err error
			record, err = sc.RegistryClient().GetServer(ctx, name, version)
			return err
		})
	})
	g.Go(func() error {
		return observeRegistryCall(gctx, sc, instrumentation.OperationVersions, name, func(ctx context.Context) error {
			var err error
			versions, err = sc.RegistryClient().ListVersions(ctx, name)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		sc.Logger().Error("get_server failed",
			logging.Tool("get_server"), logging.ServerName(name),
			logging.Version(version), logging.SanitizedErr(err))
		return mcp.NewToolResultError(tools.FormatRegistryError(err)), nil
	}

	shaped := sc.Processor().ShapeRecord(record, expandFields)
	recordShapingMetrics(ctx, sc, "get_server", shaped, nil, expandFields)

	response := map[string]interface{}{
		"server":             shaped,
		"available_versions": versionStrings(versions.Servers),
	}

	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal server record: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleListServerVersions handles version history fetches
func handleListServerVersions(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	name := tools.ParseString(request, "name")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	expandFields := tools.ParseExpandFields(request)

	var result *registry.ListResult
	err := observeRegistryCall(ctx, sc, instrumentation.OperationVersions, name, func(ctx context.Context) error {
		var err error
		result, err = sc.RegistryClient().ListVersions(ctx, name)
		return err
	})
	if err != nil {
		sc.Logger().Error("list_server_versions failed",
			logging.Tool("list_server_versions"), logging.ServerName(name),
			logging.SanitizedErr(err))
		return mcp.NewToolResultError(tools.FormatRegistryError(err)), nil
	}

	shaped, warning := sc.Processor().ShapeList(result.Servers, expandFields, 0)
	recordShapingMetrics(ctx, sc, "list_server_versions", shaped, warning, expandFields)

	response := map[string]interface{}{
		"name":     name,
		"versions": shaped,
		"count":    len(shaped),
	}
	if warning != nil {
		response["truncation_warning"] = warning
	}

	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal version list: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// observeRegistryCall wraps a registry client call in a client span and
// records request metrics and the registry error counter.
func observeRegistryCall(ctx context.Context, sc *server.ServerContext, operation, serverName string, call func(context.Context) error) error {
	regCtx, span := instrumentation.StartRegistrySpan(ctx, operation, serverName)
	defer span.End()

	start := time.Now()
	err := call(regCtx)
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
		sc.Metrics().IncrementRegistryErrors()
	} else {
		instrumentation.SetSpanSuccess(span)
	}

	sc.Logger().Debug("registry request",
		logging.Operation(operation), logging.Status(status),
		slog.Duration(logging.KeyDuration, duration))

	if provider := sc.InstrumentationProvider(); provider != nil && provider.Enabled() {
		if m := provider.Metrics(); m != nil {
			m.RecordRegistryRequest(regCtx, operation, status, duration)
		}
	}

	return err
}

// recordShapingMetrics counts truncation placeholders in shaped output and
// feeds the truncation and expansion metrics.
func recordShapingMetrics(ctx context.Context, sc *server.ServerContext, tool string, shaped interface{}, warning *output.TruncationWarning, expandFields []string) {
	stringCount, deepCount := output.TruncationCounts(shaped)
	if stringCount+deepCount > 0 || warning != nil {
		sc.Metrics().IncrementTruncations()
	}
	if warning != nil {
		sc.Logger().Debug("list truncated",
			logging.Tool(tool),
			slog.Int(logging.KeyShown, warning.Shown),
			slog.Int(logging.KeyTotal, warning.Total))
	}

	provider := sc.InstrumentationProvider()
	if provider == nil || !provider.Enabled() {
		return
	}
	m := provider.Metrics()
	if m == nil {
		return
	}

	m.RecordTruncation(ctx, tool, instrumentation.TruncationKindString, stringCount)
	m.RecordTruncation(ctx, tool, instrumentation.TruncationKindDeep, deepCount)
	if warning != nil {
		m.RecordTruncation(ctx, tool, instrumentation.TruncationKindItems, int64(warning.Total-warning.Shown))
	}
	m.RecordExpansions(ctx, tool, int64(len(expandFields)))
}

// versionStrings extracts the version field from raw version records.
func versionStrings(records []map[string]interface{}) []string {
	versions := make([]string, 0, len(records))
	for _, record := range records {
		if v, ok := record["version"].(string); ok && v != "" {
			versions = append(versions, v)
		}
	}
	return versions
}
