package tools

import (
	"errors"

	"github.com/giantswarm/mcp-registry/internal/registry"
)

// IsNotFoundError returns true if the error indicates the requested server
// or version does not exist in the registry.
func IsNotFoundError(err error) bool {
	return errors.Is(err, registry.ErrNotFound)
}

// IsRegistryUnavailableError returns true if the error indicates the
// upstream registry failed or could not be reached.
func IsRegistryUnavailableError(err error) bool {
	return errors.Is(err, registry.ErrRegistryUnavailable)
}

// FormatRegistryError returns a user-friendly error message for registry
// errors. Tool handlers return this text in the MCP error result instead of
// surfacing raw transport errors to the model.
func FormatRegistryError(err error) string {
	if err == nil {
		return ""
	}
	if IsNotFoundError(err) {
		return "not found: the requested server or version does not exist in the registry"
	}
	if IsRegistryUnavailableError(err) {
		return "registry unavailable: the upstream registry failed to respond, try again later"
	}
	return "registry error: " + err.Error()
}
