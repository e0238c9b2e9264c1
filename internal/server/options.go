package server

import (
	"errors"

	"github.com/giantswarm/mcp-registry/internal/instrumentation"
	"github.com/giantswarm/mcp-registry/internal/logging"
	"github.com/giantswarm/mcp-registry/internal/registry"
	"github.com/giantswarm/mcp-registry/internal/tools/output"
)

// Option is a functional option for configuring ServerContext.
type Option func(*ServerContext) error

// WithRegistryClient sets the upstream registry client for the ServerContext.
func WithRegistryClient(client registry.Client) Option {
	return func(sc *ServerContext) error {
		if client == nil {
			return ErrMissingRegistryClient
		}
		sc.registryClient = client
		return nil
	}
}

// WithLogger sets the logger for the ServerContext.
func WithLogger(logger Logger) Option {
	return func(sc *ServerContext) error {
		if logger == nil {
			return ErrMissingLogger
		}
		sc.logger = logger
		return nil
	}
}

// WithConfig sets the configuration for the ServerContext.
func WithConfig(config *Config) Option {
	return func(sc *ServerContext) error {
		if config == nil {
			return ErrMissingConfig
		}
		sc.config = config.Clone()
		return nil
	}
}

// WithServerName sets the server name in the configuration.
func WithServerName(name string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.ServerName = name
		return nil
	}
}

// WithTransport records the transport the server is exposed on.
func WithTransport(transport string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.Transport = transport
		return nil
	}
}

// WithRegistryURL sets the upstream registry base URL in the configuration.
func WithRegistryURL(url string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		if url != "" {
			sc.config.RegistryURL = url
		}
		return nil
	}
}

// WithOutputConfig sets the response shaping limits and rebuilds the
// processor from them.
func WithOutputConfig(cfg output.Config) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.Output = cfg.Validate()
		sc.processor = output.NewProcessor(sc.config.Output)
		return nil
	}
}

// WithLogLevel sets the logging level.
func WithLogLevel(level string) Option {
	return func(sc *ServerContext) error {
		if sc.config == nil {
			sc.config = NewDefaultConfig()
		}
		sc.config.LogLevel = level
		return nil
	}
}

// WithInstrumentationProvider sets the OpenTelemetry instrumentation provider.
// This enables production-grade observability including metrics and tracing.
func WithInstrumentationProvider(provider *instrumentation.Provider) Option {
	return func(sc *ServerContext) error {
		sc.instrumentationProvider = provider
		return nil
	}
}

// Error definitions for ServerContext validation and operations.
var (
	ErrMissingRegistryClient = errors.New("registry client is required")
	ErrMissingLogger         = errors.New("logger is required")
	ErrMissingConfig         = errors.New("configuration is required")
	ErrServerShutdown        = errors.New("server context has been shutdown")
)

// NewDefaultLogger returns the standard slog-backed logger used when no
// logger option is supplied.
func NewDefaultLogger() Logger {
	return logging.DefaultLogger()
}
