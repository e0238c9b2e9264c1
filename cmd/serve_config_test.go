package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestValidateRegistryURL tests registry URL validation
func TestValidateRegistryURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid HTTPS URL",
			url:     "https://registry.modelcontextprotocol.io",
			wantErr: false,
		},
		{
			name:    "valid HTTP URL",
			url:     "http://localhost:8080",
			wantErr: false,
		},
		{
			name:    "URL with path",
			url:     "https://registry.example.com/v0",
			wantErr: false,
		},
		{
			name:    "empty URL",
			url:     "",
			wantErr: true,
			errMsg:  "must be a valid URL",
		},
		{
			name:    "URL without scheme",
			url:     "registry.example.com",
			wantErr: true,
			errMsg:  "must include a scheme",
		},
		{
			name:    "unsupported scheme",
			url:     "ftp://registry.example.com",
			wantErr: true,
			errMsg:  "must use http or https",
		},
		{
			name:    "scheme without hostname",
			url:     "https://",
			wantErr: true,
			errMsg:  "must have a valid hostname",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRegistryURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestLoadEnvIfEmpty tests environment fallback for flag values
func TestLoadEnvIfEmpty(t *testing.T) {
	t.Run("loads from environment when empty", func(t *testing.T) {
		t.Setenv("MCP_REGISTRY_TEST_VAR", "from-env")

		value := ""
		loadEnvIfEmpty(&value, "MCP_REGISTRY_TEST_VAR")
		assert.Equal(t, "from-env", value)
	})

	t.Run("keeps existing value", func(t *testing.T) {
		t.Setenv("MCP_REGISTRY_TEST_VAR", "from-env")

		value := "explicit"
		loadEnvIfEmpty(&value, "MCP_REGISTRY_TEST_VAR")
		assert.Equal(t, "explicit", value)
	})

	t.Run("stays empty when environment unset", func(t *testing.T) {
		value := ""
		loadEnvIfEmpty(&value, "MCP_REGISTRY_UNSET_VAR")
		assert.Equal(t, "", value)
	})
}
