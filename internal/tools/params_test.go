package tools

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"

	"github.com/giantswarm/mcp-registry/internal/registry"
)

func requestWithArgs(args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	return request
}

func TestParseExpandFields(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want []string
	}{
		{
			name: "absent",
			args: map[string]interface{}{},
			want: nil,
		},
		{
			name: "nil value",
			args: map[string]interface{}{"expand_fields": nil},
			want: nil,
		},
		{
			name: "single field",
			args: map[string]interface{}{
				"expand_fields": []interface{}{"description"},
			},
			want: []string{"description"},
		},
		{
			name: "multiple fields",
			args: map[string]interface{}{
				"expand_fields": []interface{}{"description", "packages[0].readme"},
			},
			want: []string{"description", "packages[0].readme"},
		},
		{
			name: "non-string entries dropped",
			args: map[string]interface{}{
				"expand_fields": []interface{}{"description", float64(3), nil},
			},
			want: []string{"description"},
		},
		{
			name: "blank entries dropped",
			args: map[string]interface{}{
				"expand_fields": []interface{}{"  ", "description"},
			},
			want: []string{"description"},
		},
		{
			name: "wrong type",
			args: map[string]interface{}{"expand_fields": "description"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseExpandFields(requestWithArgs(tt.args))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want int
	}{
		{
			name: "absent uses fallback",
			args: map[string]interface{}{},
			want: 30,
		},
		{
			name: "JSON number",
			args: map[string]interface{}{"limit": float64(10)},
			want: 10,
		},
		{
			name: "wrong type uses fallback",
			args: map[string]interface{}{"limit": "10"},
			want: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLimit(requestWithArgs(tt.args), "limit", 30)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseString(t *testing.T) {
	request := requestWithArgs(map[string]interface{}{
		"name":    "  io.github.example/weather  ",
		"version": float64(1),
	})

	assert.Equal(t, "io.github.example/weather", ParseString(request, "name"))
	assert.Equal(t, "", ParseString(request, "version"))
	assert.Equal(t, "", ParseString(request, "missing"))
}

func TestFormatRegistryError(t *testing.T) {
	assert.Equal(t, "", FormatRegistryError(nil))

	wrapped := fmt.Errorf("get server: %w", registry.ErrNotFound)
	assert.True(t, IsNotFoundError(wrapped))
	assert.Contains(t, FormatRegistryError(wrapped), "not found")

	unavailable := fmt.Errorf("list servers: %w", registry.ErrRegistryUnavailable)
	assert.True(t, IsRegistryUnavailableError(unavailable))
	assert.Contains(t, FormatRegistryError(unavailable), "registry unavailable")

	assert.Contains(t, FormatRegistryError(errors.New("boom")), "registry error: boom")
}
