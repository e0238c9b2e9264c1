package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-registry/internal/instrumentation"
	"github.com/giantswarm/mcp-registry/internal/server"
	"github.com/giantswarm/mcp-registry/internal/server/middleware"
)

// runSSEServer runs the server with SSE transport
func runSSEServer(mcpSrv *mcpserver.MCPServer, config ServeConfig, ctx context.Context, provider *instrumentation.Provider) error {
	if config.DebugMode {
		log.Printf("[DEBUG] Initializing SSE server with configuration:")
		log.Printf("[DEBUG]   Address: %s", config.HTTPAddr)
		log.Printf("[DEBUG]   SSE Endpoint: %s", config.SSEEndpoint)
		log.Printf("[DEBUG]   Message Endpoint: %s", config.MessageEndpoint)
	}

	// Create SSE server with custom endpoints
	sseServer := mcpserver.NewSSEServer(mcpSrv,
		mcpserver.WithSSEEndpoint(config.SSEEndpoint),
		mcpserver.WithMessageEndpoint(config.MessageEndpoint),
	)

	if config.DebugMode {
		log.Printf("[DEBUG] SSE server instance created successfully")
	}

	fmt.Printf("SSE server starting on %s\n", config.HTTPAddr)
	fmt.Printf("  SSE endpoint: %s\n", config.SSEEndpoint)
	fmt.Printf("  Message endpoint: %s\n", config.MessageEndpoint)

	// Optional Prometheus metrics server alongside the SSE listener
	var metricsServer *server.MetricsServer
	if config.Metrics.Enabled && provider != nil && provider.Enabled() {
		var err error
		metricsServer, err = startMetricsServer(config.Metrics, provider)
		if err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
	}

	// When CORS origins are configured the SSE handler runs behind our own
	// HTTP server so the middleware can wrap it; otherwise the SSE server
	// manages its listener itself.
	start := func() error { return sseServer.Start(config.HTTPAddr) }
	shutdown := sseServer.Shutdown
	if len(config.AllowedOrigins) > 0 {
		corsServer := &http.Server{
			Addr:              config.HTTPAddr,
			Handler:           middleware.CORS(config.AllowedOrigins)(sseServer),
			ReadHeaderTimeout: 10 * time.Second,
		}
		start = corsServer.ListenAndServe
		shutdown = corsServer.Shutdown
		fmt.Printf("  CORS origins: %s\n", strings.Join(config.AllowedOrigins, ", "))
	}

	// Start server in goroutine
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if config.DebugMode {
			log.Printf("[DEBUG] Starting SSE server listener on %s", config.HTTPAddr)
		}
		if err := start(); err != nil && err != http.ErrServerClosed {
			if config.DebugMode {
				log.Printf("[DEBUG] SSE server start failed: %v", err)
			}
			serverDone <- err
		} else {
			if config.DebugMode {
				log.Printf("[DEBUG] SSE server listener stopped cleanly")
			}
		}
	}()

	if config.DebugMode {
		log.Printf("[DEBUG] SSE server goroutine started, waiting for shutdown signal or server completion")
	}

	// Wait for either shutdown signal or server completion
	select {
	case <-ctx.Done():
		if config.DebugMode {
			log.Printf("[DEBUG] Shutdown signal received, initiating SSE server shutdown")
		}
		fmt.Println("Shutdown signal received, stopping SSE server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error shutting down metrics server: %v", err)
			}
		}
		if config.DebugMode {
			log.Printf("[DEBUG] Starting graceful shutdown with %s timeout", server.DefaultShutdownTimeout)
		}
		if err := shutdown(shutdownCtx); err != nil {
			if config.DebugMode {
				log.Printf("[DEBUG] Error during SSE server shutdown: %v", err)
			}
			return fmt.Errorf("error shutting down SSE server: %w", err)
		}
		if config.DebugMode {
			log.Printf("[DEBUG] SSE server shutdown completed successfully")
		}
	case err := <-serverDone:
		if err != nil {
			if config.DebugMode {
				log.Printf("[DEBUG] SSE server stopped with error: %v", err)
			}
			return fmt.Errorf("SSE server stopped with error: %w", err)
		} else {
			if config.DebugMode {
				log.Printf("[DEBUG] SSE server stopped normally")
			}
			fmt.Println("SSE server stopped normally")
		}
	}

	fmt.Println("SSE server gracefully stopped")
	if config.DebugMode {
		log.Printf("[DEBUG] SSE server shutdown sequence completed")
	}
	return nil
}
