// Package server provides the ServerContext pattern and related infrastructure
// for the MCP registry server.
//
// This package implements the core server architecture patterns including:
//
//   - ServerContext: Encapsulates all server dependencies and lifecycle management
//   - Functional Options: Clean dependency injection and configuration
//   - Logger Interface: Abstraction for logging operations
//   - Configuration Management: Centralized server configuration
//   - Health Endpoints: Liveness, readiness and detailed health handlers
//   - MetricsServer: Dedicated HTTP server exposing Prometheus metrics
//
// The ServerContext Pattern:
//
// The ServerContext struct follows the context pattern commonly used in Go
// applications to encapsulate dependencies and provide clean separation of
// concerns. It includes:
//
//   - Registry client interface
//   - Output processor for response shaping
//   - Logger interface
//   - Configuration settings
//   - Context for cancellation and timeouts
//   - Lifecycle management (shutdown, cleanup)
//
// All dependencies are injected using functional options, making the code
// highly testable and modular. The pattern enables:
//
//   - Easy mocking for unit tests
//   - Runtime configuration flexibility
//   - Clean dependency management
//   - Graceful shutdown handling
//
// Example usage:
//
//	// Create a server context with custom configuration
//	ctx := context.Background()
//	serverCtx, err := NewServerContext(ctx,
//		WithRegistryClient(registryClient),
//		WithLogger(customLogger),
//		WithRegistryURL("https://registry.modelcontextprotocol.io"),
//		WithLogLevel("debug"),
//	)
//	if err != nil {
//		return err
//	}
//	defer serverCtx.Shutdown()
//
//	// Use the context in MCP tools
//	client := serverCtx.RegistryClient()
//	processor := serverCtx.Processor()
//	logger := serverCtx.Logger()
//
//	// Check if server is shutting down
//	if serverCtx.IsShutdown() {
//		return ErrServerShutdown
//	}
//
// Configuration Management:
//
// The Config struct provides centralized configuration with sensible defaults
// and support for:
//
//   - Server identity (name, version)
//   - Transport selection (stdio, sse, streamable-http)
//   - Upstream registry endpoint
//   - Output shaping limits (string, depth and list truncation)
//   - Logging configuration (level, format)
//
// The configuration supports cloning to prevent accidental mutations and
// follows immutable patterns where possible.
//
// Functional Options Pattern:
//
// The package uses functional options for flexible and extensible configuration:
//
//   - WithRegistryClient: Inject the registry client
//   - WithLogger: Inject custom logger
//   - WithConfig: Provide complete configuration
//   - WithServerName: Set server name
//   - WithTransport: Select the serving transport
//   - WithRegistryURL: Point at an alternative registry
//   - WithOutputConfig: Tune response shaping limits
//   - WithLogLevel: Set logging level
//   - WithInstrumentationProvider: Attach OpenTelemetry instrumentation
//
// This pattern allows for clean composition and makes the API forward-compatible
// as new options can be added without breaking existing code.
package server
