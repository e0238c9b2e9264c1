package instrumentation

import "strings"

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Always use these helpers when recording metrics with registry server names.

// PublisherType represents a classification of registry server names for metrics.
type PublisherType string

// Publisher type classifications for metrics cardinality control.
const (
	// PublisherTypeGitHub represents servers published under io.github.*.
	PublisherTypeGitHub PublisherType = "github"

	// PublisherTypeGitLab represents servers published under io.gitlab.*.
	PublisherTypeGitLab PublisherType = "gitlab"

	// PublisherTypeCustomDomain represents servers published under a
	// verified custom domain (com.*, io.*, dev.*, ...).
	PublisherTypeCustomDomain PublisherType = "custom_domain"

	// PublisherTypeUnknown represents empty or malformed server names.
	PublisherTypeUnknown PublisherType = "unknown"
)

// ClassifyPublisher classifies a registry server name into a publisher type
// for metrics. Registry server names follow reverse-DNS naming such as
// "io.github.example/weather-server". Grouping by publisher type prevents
// cardinality explosion across thousands of registry entries.
//
// # Examples
//
//	ClassifyPublisher("")                                // "unknown"
//	ClassifyPublisher("io.github.example/weather")       // "github"
//	ClassifyPublisher("io.gitlab.example/filesystem")    // "gitlab"
//	ClassifyPublisher("com.example/server")              // "custom_domain"
//	ClassifyPublisher("not-a-namespaced-name")           // "unknown"
func ClassifyPublisher(serverName string) string {
	ns := ExtractServerNamespace(serverName)
	if ns == "" {
		return string(PublisherTypeUnknown)
	}

	nsLower := strings.ToLower(ns)

	if strings.HasPrefix(nsLower, "io.github.") || nsLower == "io.github" {
		return string(PublisherTypeGitHub)
	}
	if strings.HasPrefix(nsLower, "io.gitlab.") || nsLower == "io.gitlab" {
		return string(PublisherTypeGitLab)
	}

	// Reverse-DNS namespaces always contain at least one dot.
	if strings.Contains(nsLower, ".") {
		return string(PublisherTypeCustomDomain)
	}

	return string(PublisherTypeUnknown)
}

// ExtractServerNamespace extracts the reverse-DNS namespace from a registry
// server name. Server names have the form "<namespace>/<name>".
//
// Example:
//
//	ExtractServerNamespace("io.github.example/weather")  // "io.github.example"
//	ExtractServerNamespace("io.github.example")          // "io.github.example"
//	ExtractServerNamespace("")                           // ""
func ExtractServerNamespace(serverName string) string {
	if serverName == "" {
		return ""
	}

	if idx := strings.Index(serverName, "/"); idx >= 0 {
		return serverName[:idx]
	}

	return serverName
}
