package cmd

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

// ServeConfig holds all configuration for the serve command.
type ServeConfig struct {
	// Transport settings
	Transport string
	HTTPAddr  string

	// Endpoint paths
	SSEEndpoint     string
	MessageEndpoint string
	HTTPEndpoint    string

	// AllowedOrigins are the validated CORS origins for browser-based MCP
	// clients. Empty means no CORS headers are served.
	AllowedOrigins []string

	// Registry client settings
	RegistryURL    string
	RequestTimeout time.Duration

	// Output shaping settings
	MaxItems               int
	TruncateStringLimit    int
	TruncateDepthThreshold int
	TruncateDeepLimit      int

	DebugMode bool

	// Metrics server configuration
	Metrics MetricsServeConfig
}

// MetricsServeConfig holds configuration for the dedicated metrics server.
type MetricsServeConfig struct {
	// Enabled starts the metrics server alongside the main transport.
	Enabled bool

	// Addr is the listen address for the metrics server.
	Addr string
}

// loadEnvIfEmpty loads an environment variable into a string pointer if it's empty.
func loadEnvIfEmpty(target *string, envKey string) {
	if *target == "" {
		*target = os.Getenv(envKey)
	}
}

// validateRegistryURL validates that a registry URL is well formed with an
// http or https scheme and a hostname. Plain HTTP stays allowed: local and
// in-cluster registries are served without TLS.
func validateRegistryURL(urlStr string) error {
	if urlStr == "" {
		return fmt.Errorf("registry URL must be a valid URL: empty URL provided")
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("registry URL must be a valid URL: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		if parsedURL.Scheme == "" {
			return fmt.Errorf("registry URL must include a scheme (e.g., https://registry.modelcontextprotocol.io)")
		}
		return fmt.Errorf("registry URL must use http or https (got: %s)", parsedURL.Scheme)
	}

	if parsedURL.Hostname() == "" {
		return fmt.Errorf("registry URL must have a valid hostname")
	}

	return nil
}
