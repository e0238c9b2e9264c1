package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-registry/internal/instrumentation"
	"github.com/giantswarm/mcp-registry/internal/registry"
	"github.com/giantswarm/mcp-registry/internal/server"
	"github.com/giantswarm/mcp-registry/internal/server/middleware"
	"github.com/giantswarm/mcp-registry/internal/tools/output"
	"github.com/giantswarm/mcp-registry/internal/tools/servers"
)

// Transport type constants for the MCP server.
const (
	transportStdio          = "stdio"
	transportSSE            = "sse"
	transportStreamableHTTP = "streamable-http"
)

// newServeCmd creates the Cobra command for starting the MCP server.
func newServeCmd() *cobra.Command {
	var (
		debugMode bool

		// Transport options
		transport       string
		httpAddr        string
		sseEndpoint     string
		messageEndpoint string
		httpEndpoint    string
		allowedOrigins  string

		// Registry options
		registryURL    string
		requestTimeout time.Duration

		// Output shaping options
		maxItems               int
		truncateStringLimit    int
		truncateDepthThreshold int
		truncateDeepLimit      int

		// Metrics options
		enableMetrics bool
		metricsAddr   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP registry server",
		Long: `Start the MCP registry server to provide tools for exploring the
Model Context Protocol server registry.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - sse: Server-Sent Events over HTTP
  - streamable-http: Streamable HTTP transport

Server records are returned with long fields and deep structures truncated
to keep responses compact. Each truncation placeholder names the field path
to pass in expand_fields for the full content. The truncation thresholds
are tunable with the --truncate-* flags.

The upstream registry defaults to the public community registry and can be
pointed elsewhere with --registry-url or the MCP_REGISTRY_URL environment
variable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Env fallback only when the flag was not explicitly set
			if !cmd.Flags().Changed("registry-url") {
				loadEnvIfEmpty(&registryURL, "MCP_REGISTRY_URL")
				if registryURL == "" {
					registryURL = registry.DefaultBaseURL
				}
			}
			loadEnvIfEmpty(&allowedOrigins, "MCP_REGISTRY_ALLOWED_ORIGINS")

			origins, err := middleware.ValidateAllowedOrigins(allowedOrigins)
			if err != nil {
				return fmt.Errorf("invalid allowed origins: %w", err)
			}

			config := ServeConfig{
				Transport:              transport,
				HTTPAddr:               httpAddr,
				SSEEndpoint:            sseEndpoint,
				MessageEndpoint:        messageEndpoint,
				HTTPEndpoint:           httpEndpoint,
				AllowedOrigins:         origins,
				RegistryURL:            registryURL,
				RequestTimeout:         requestTimeout,
				MaxItems:               maxItems,
				TruncateStringLimit:    truncateStringLimit,
				TruncateDepthThreshold: truncateDepthThreshold,
				TruncateDeepLimit:      truncateDeepLimit,
				DebugMode:              debugMode,
				Metrics: MetricsServeConfig{
					Enabled: enableMetrics,
					Addr:    metricsAddr,
				},
			}
			return runServe(config)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging (default: false)")

	// Transport flags
	cmd.Flags().StringVar(&transport, "transport", transportStdio, "Transport type: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for sse and streamable-http transports)")
	cmd.Flags().StringVar(&sseEndpoint, "sse-endpoint", "/sse", "SSE endpoint path (for sse transport)")
	cmd.Flags().StringVar(&messageEndpoint, "message-endpoint", "/message", "Message endpoint path (for sse transport)")
	cmd.Flags().StringVar(&httpEndpoint, "http-endpoint", "/mcp", "HTTP endpoint path (for streamable-http transport)")
	cmd.Flags().StringVar(&allowedOrigins, "allowed-origins", "", "Comma-separated CORS origins for browser-based MCP clients (for sse and streamable-http transports, can also be set via MCP_REGISTRY_ALLOWED_ORIGINS env var)")

	// Registry flags
	cmd.Flags().StringVar(&registryURL, "registry-url", registry.DefaultBaseURL, "Upstream MCP registry URL (can also be set via MCP_REGISTRY_URL env var)")
	cmd.Flags().DurationVar(&requestTimeout, "request-timeout", 30*time.Second, "Timeout for registry API requests")

	// Output shaping flags
	cmd.Flags().IntVar(&maxItems, "max-items", output.DefaultMaxItems, "Maximum number of servers returned per list response")
	cmd.Flags().IntVar(&truncateStringLimit, "truncate-string-limit", output.DefaultStringLimit, "Character limit before string fields are truncated")
	cmd.Flags().IntVar(&truncateDepthThreshold, "truncate-depth-threshold", output.DefaultDepthThreshold, "Nesting depth at which large objects are truncated")
	cmd.Flags().IntVar(&truncateDeepLimit, "truncate-deep-limit", output.DefaultDeepLimit, "Serialized size limit for objects beyond the depth threshold")

	// Metrics flags
	cmd.Flags().BoolVar(&enableMetrics, "enable-metrics", false, "Serve Prometheus metrics on a dedicated port (requires instrumentation to be enabled)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Listen address for the dedicated metrics server")

	return cmd
}

// runServe contains the main server logic with support for multiple transports
func runServe(config ServeConfig) error {
	if err := validateRegistryURL(config.RegistryURL); err != nil {
		return err
	}

	// Create registry client
	registryClient, err := registry.NewClient(registry.ClientConfig{
		BaseURL:   config.RegistryURL,
		Timeout:   config.RequestTimeout,
		UserAgent: "mcp-registry/" + rootCmd.Version,
	})
	if err != nil {
		return fmt.Errorf("failed to create registry client: %w", err)
	}

	// Setup graceful shutdown - listen for both SIGINT and SIGTERM
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize OpenTelemetry instrumentation provider
	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	instrumentationProvider, err := instrumentation.NewProvider(shutdownCtx, instrumentationConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if shutdownErr := instrumentationProvider.Shutdown(context.Background()); shutdownErr != nil {
			if config.Transport != transportStdio {
				log.Printf("Error during instrumentation shutdown: %v", shutdownErr)
			}
		}
	}()

	if instrumentationProvider.Enabled() && config.Transport != transportStdio {
		log.Printf("OpenTelemetry instrumentation enabled (metrics: %s, tracing: %s)",
			instrumentationConfig.MetricsExporter, instrumentationConfig.TracingExporter)
	}

	outputConfig := output.Config{
		StringLimit:    config.TruncateStringLimit,
		DepthThreshold: config.TruncateDepthThreshold,
		DeepLimit:      config.TruncateDeepLimit,
		MaxItems:       config.MaxItems,
	}

	logLevel := "info"
	if config.DebugMode {
		logLevel = "debug"
	}

	serverContext, err := server.NewServerContext(shutdownCtx,
		server.WithRegistryClient(registryClient),
		server.WithTransport(config.Transport),
		server.WithRegistryURL(config.RegistryURL),
		server.WithOutputConfig(outputConfig),
		server.WithLogLevel(logLevel),
		server.WithInstrumentationProvider(instrumentationProvider),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			// Only log shutdown errors for non-stdio transports to avoid output interference
			if config.Transport != transportStdio {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("mcp-registry", rootCmd.Version,
		mcpserver.WithToolCapabilities(true),
	)

	// Register registry exploration tools
	if err := servers.RegisterServerTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register server tools: %w", err)
	}

	// Start the appropriate server based on transport type
	switch config.Transport {
	case transportStdio:
		// Don't print startup message for stdio mode as it interferes with MCP communication
		return runStdioServer(mcpSrv)
	case transportSSE:
		fmt.Printf("Starting MCP registry server with %s transport...\n", config.Transport)
		return runSSEServer(mcpSrv, config, shutdownCtx, instrumentationProvider)
	case transportStreamableHTTP:
		fmt.Printf("Starting MCP registry server with %s transport...\n", config.Transport)
		return runStreamableHTTPServer(mcpSrv, config, shutdownCtx, instrumentationProvider, serverContext)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", config.Transport)
	}
}
