package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-registry/internal/instrumentation"
	"github.com/giantswarm/mcp-registry/internal/logging"
	"github.com/giantswarm/mcp-registry/internal/server"
	"github.com/giantswarm/mcp-registry/internal/server/middleware"
)

// maxRequestBodyBytes caps incoming MCP request bodies. Tool calls are
// small JSON-RPC payloads, so 4 MiB leaves generous headroom.
const maxRequestBodyBytes = 4 << 20

// runStreamableHTTPServer runs the server with Streamable HTTP transport
func runStreamableHTTPServer(mcpSrv *mcpserver.MCPServer, config ServeConfig, ctx context.Context, provider *instrumentation.Provider, sc *server.ServerContext) error {
	mux := http.NewServeMux()

	// Create Streamable HTTP handler
	mcpHandler := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath(config.HTTPEndpoint),
	)

	// Add MCP endpoint
	mux.Handle(config.HTTPEndpoint, mcpHandler)

	// Note: Metrics are served on a separate metrics server for security
	// See startMetricsServer() for the dedicated /metrics endpoint

	// Add health check endpoints
	healthChecker := server.NewHealthChecker(sc)
	healthChecker.RegisterHealthEndpoints(mux)

	slog.Info("streamable HTTP server starting",
		"addr", config.HTTPAddr,
		"endpoint", config.HTTPEndpoint,
		"health_endpoints", []string{"/healthz", "/readyz"},
		logging.RegistryHost(config.RegistryURL))

	// Apply HTTP metrics middleware to record request metrics
	var handler http.Handler = mux
	handler = middleware.HTTPMetrics(provider)(handler)
	handler = middleware.MaxRequestSize(maxRequestBodyBytes)(handler)
	if len(config.AllowedOrigins) > 0 {
		handler = middleware.CORS(config.AllowedOrigins)(handler)
		slog.Info("CORS enabled", "allowed_origins", config.AllowedOrigins)
	}
	handler = middleware.SecurityHeaders(middleware.SecurityHeadersConfig{})(handler)

	// Start metrics server if enabled
	var metricsServer *server.MetricsServer
	if config.Metrics.Enabled && provider != nil && provider.Enabled() {
		var err error
		metricsServer, err = startMetricsServer(config.Metrics, provider)
		if err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
	}

	// Create HTTP server with security timeouts
	httpServer := &http.Server{
		Addr:              config.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start server in goroutine
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	// Wait for either shutdown signal or server completion
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()

		// Shutdown metrics server first
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error shutting down metrics server", logging.Err(err))
			}
		}

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		slog.Info("HTTP server stopped normally")
	}

	slog.Info("HTTP server gracefully stopped")
	return nil
}

// startMetricsServer starts the dedicated metrics server on a separate port.
// This isolates Prometheus metrics from the main application traffic for security.
func startMetricsServer(config MetricsServeConfig, provider *instrumentation.Provider) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    config.Addr,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Start metrics server in background
	go func() {
		if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", logging.Err(err))
		}
	}()

	slog.Info("metrics server started", "addr", metricsServer.Addr(), "endpoint", "/metrics")
	return metricsServer, nil
}
