// Package logging provides structured logging utilities for the mcp-registry application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Host/URL sanitization for security
//   - Consistent attribute naming across the codebase
//   - A transport-agnostic Logger interface backed by slog
//
// # Usage Patterns
//
// Create a logger carrying standard attributes:
//
//	logger := logging.DefaultLogger().With(logging.Tool("search_servers"))
//	logger.Info("listing servers",
//	    logging.Operation("registry.list"),
//	    logging.RegistryHost(baseURL))
//
// Sanitize sensitive data before logging:
//
//	logger.Error("registry request failed",
//	    logging.SanitizedErr(err))
//
// # Security Considerations
//
// This package is designed with security in mind:
//   - Registry endpoint URLs have IP addresses redacted to prevent topology leakage
//   - Credentials and tokens are never logged directly
package logging
