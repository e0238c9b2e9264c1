package logging

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation    = "operation"
	KeyTool         = "tool"
	KeyServerName   = "server_name"
	KeyVersion      = "version"
	KeyRegistryHost = "registry_host"
	KeyDuration     = "duration"
	KeyStatus       = "status"
	KeyError        = "error"
	KeyShown        = "shown"
	KeyTotal        = "total"
)

// ipv4Regex matches IPv4 addresses for sanitization.
var ipv4Regex = regexp.MustCompile(`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)

// ipv6Regex matches IPv6 addresses for sanitization.
// This regex matches common IPv6 formats including:
// - Full form: 2001:0db8:85a3:0000:0000:8a2e:0370:7334
// - Compressed form: 2001:db8:85a3::8a2e:370:7334
// - Bracketed form (used in URLs): [2001:db8::1]
var ipv6Regex = regexp.MustCompile(`\[?([0-9a-fA-F]{0,4}:){2,7}[0-9a-fA-F]{0,4}\]?`)

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Tool returns a slog attribute for the MCP tool name.
func Tool(name string) slog.Attr {
	return slog.String(KeyTool, name)
}

// ServerName returns a slog attribute for a registry server name.
func ServerName(name string) slog.Attr {
	return slog.String(KeyServerName, name)
}

// Version returns a slog attribute for a registry server version.
func Version(v string) slog.Attr {
	return slog.String(KeyVersion, v)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizedErr returns a slog attribute for an error with IP addresses redacted.
// This should be used when logging errors that may contain hostnames or IP
// addresses from registry responses, which could leak network topology
// information.
func SanitizedErr(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	sanitized := SanitizeHost(err.Error())
	return slog.String(KeyError, sanitized)
}

// RegistryHost returns a slog attribute for a registry endpoint with IP
// addresses sanitized.
func RegistryHost(host string) slog.Attr {
	return slog.String(KeyRegistryHost, SanitizeHost(host))
}

// SanitizeHost returns a sanitized version of the host for logging purposes.
// This function redacts IP addresses (both IPv4 and IPv6) to prevent sensitive
// network topology information from appearing in logs, while preserving enough
// context for debugging.
//
// Examples:
//   - "https://192.168.1.100:8080" -> "https://<redacted-ip>:8080"
//   - "https://registry.modelcontextprotocol.io" -> unchanged
//   - "192.168.1.100" -> "<redacted-ip>"
//   - "https://[2001:db8::1]:8080" -> "https://<redacted-ip>:8080"
//   - "" -> "<empty>"
func SanitizeHost(host string) string {
	if host == "" {
		return "<empty>"
	}

	// Helper to redact both IPv4 and IPv6
	redactIPs := func(s string) string {
		result := ipv4Regex.ReplaceAllString(s, "<redacted-ip>")
		result = ipv6Regex.ReplaceAllString(result, "<redacted-ip>")
		return result
	}

	// Check if host has a scheme (is a URL) - if not, it's just a host/IP
	if !strings.Contains(host, "://") {
		return redactIPs(host)
	}

	// Parse as URL to properly handle host extraction. Error strings that
	// merely embed a URL parse without a host; redact them as plain text.
	parsed, err := url.Parse(host)
	if err != nil || parsed.Host == "" {
		return redactIPs(host)
	}

	// For valid URLs, redact IP addresses in the host portion
	if ipv4Regex.MatchString(parsed.Host) || ipv6Regex.MatchString(parsed.Host) {
		sanitizedHost := redactIPs(parsed.Host)
		parsed.Host = sanitizedHost
		return parsed.String()
	}

	return host
}
