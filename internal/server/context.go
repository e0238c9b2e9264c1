package server

import (
	"context"
	"sync"

	"github.com/giantswarm/mcp-registry/internal/instrumentation"
	"github.com/giantswarm/mcp-registry/internal/logging"
	"github.com/giantswarm/mcp-registry/internal/registry"
	"github.com/giantswarm/mcp-registry/internal/tools/output"
)

// ServerContext encapsulates all dependencies needed by the MCP server
// and provides a clean abstraction for dependency injection and lifecycle management.
type ServerContext struct {
	// Core dependencies
	registryClient registry.Client
	logger         Logger
	config         *Config

	// Response shaping
	processor *output.Processor

	// Observability
	instrumentationProvider *instrumentation.Provider

	// Operational counters
	metrics *Metrics

	// Context management
	ctx    context.Context
	cancel context.CancelFunc

	// Lifecycle management
	mu       sync.RWMutex
	shutdown bool
}

// Metrics tracks lightweight operational counters for monitoring. These are
// always available, independent of whether OpenTelemetry instrumentation is
// enabled.
type Metrics struct {
	ToolCalls      int64 // Total tool invocations handled
	RegistryErrors int64 // Failed upstream registry requests
	Truncations    int64 // Responses that had at least one truncation applied

	mu sync.RWMutex
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{}
}

// IncrementToolCalls increments the tool call counter
func (m *Metrics) IncrementToolCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ToolCalls++
}

// IncrementRegistryErrors increments the upstream error counter
func (m *Metrics) IncrementRegistryErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RegistryErrors++
}

// IncrementTruncations increments the truncated-response counter
func (m *Metrics) IncrementTruncations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Truncations++
}

// GetMetrics returns a snapshot of current metrics
func (m *Metrics) GetMetrics() (toolCalls, registryErrors, truncations int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ToolCalls, m.RegistryErrors, m.Truncations
}

// NewServerContext creates a new ServerContext with default values.
// Use the provided functional options to customize the context.
func NewServerContext(ctx context.Context, opts ...Option) (*ServerContext, error) {
	// Create a cancellable context
	serverCtx, cancel := context.WithCancel(ctx)

	// Initialize with defaults
	sc := &ServerContext{
		ctx:     serverCtx,
		cancel:  cancel,
		config:  NewDefaultConfig(),
		logger:  NewDefaultLogger(),
		metrics: NewMetrics(),
	}

	// Apply functional options
	for _, opt := range opts {
		if err := opt(sc); err != nil {
			cancel()
			return nil, err
		}
	}

	// The processor derives from the configured output limits unless one was
	// injected explicitly.
	if sc.processor == nil {
		sc.processor = output.NewProcessor(sc.config.Output)
	}

	// Validate required dependencies
	if err := sc.validate(); err != nil {
		cancel()
		return nil, err
	}

	return sc, nil
}

// Context returns the server context for cancellation and deadlines.
func (sc *ServerContext) Context() context.Context {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.ctx
}

// RegistryClient returns the upstream MCP registry client.
func (sc *ServerContext) RegistryClient() registry.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.registryClient
}

// Processor returns the response shaping processor.
func (sc *ServerContext) Processor() *output.Processor {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.processor
}

// InstrumentationProvider returns the OpenTelemetry instrumentation provider.
// May be nil when instrumentation is not configured.
func (sc *ServerContext) InstrumentationProvider() *instrumentation.Provider {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.instrumentationProvider
}

// Metrics returns the operational counters.
func (sc *ServerContext) Metrics() *Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// Logger returns the logger interface.
func (sc *ServerContext) Logger() Logger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.logger
}

// Config returns the server configuration.
func (sc *ServerContext) Config() *Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.config
}

// Shutdown gracefully shuts down the server context.
// This cancels the context and releases any resources.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.logger.Info("Shutting down server context")

	// Cancel the context
	if sc.cancel != nil {
		sc.cancel()
	}

	// Mark as shutdown
	sc.shutdown = true

	sc.logger.Info("Server context shutdown complete")
	return nil
}

// IsShutdown returns true if the server context has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// validate ensures all required dependencies are set.
func (sc *ServerContext) validate() error {
	if sc.registryClient == nil {
		return ErrMissingRegistryClient
	}
	if sc.logger == nil {
		return ErrMissingLogger
	}
	if sc.config == nil {
		return ErrMissingConfig
	}
	return nil
}

// Logger is the logging interface used throughout the server. It is the
// shared leveled interface from internal/logging, so the slog-backed adapter
// and its attribute helpers flow through every component.
type Logger = logging.Logger

// Config holds the server configuration.
type Config struct {
	// Server settings
	ServerName string `json:"serverName"`
	Version    string `json:"version"`

	// Transport identifies how the server is exposed (stdio, sse, streamable-http).
	Transport string `json:"transport"`

	// Registry settings
	RegistryURL string `json:"registryUrl"`

	// Output shaping limits
	Output output.Config `json:"output"`

	// Logging settings
	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"`
}

// NewDefaultConfig creates a configuration with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		ServerName:  "mcp-registry",
		Version:     "0.1.0",
		Transport:   "stdio",
		RegistryURL: registry.DefaultBaseURL,
		Output:      output.DefaultConfig(),
		LogLevel:    "info",
		LogFormat:   "json",
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	return &clone
}
