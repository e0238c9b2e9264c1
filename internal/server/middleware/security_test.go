package middleware

import (
	"bytes"
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSecurityHeaders tests that security headers are properly set
func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name        string
		config      SecurityHeadersConfig
		hasTLS      bool
		wantHSTS    bool
		wantCrossOr bool
	}{
		{
			name:     "defaults without TLS",
			config:   SecurityHeadersConfig{},
			hasTLS:   false,
			wantHSTS: false,
		},
		{
			name:     "HSTS from TLS connection",
			config:   SecurityHeadersConfig{},
			hasTLS:   true,
			wantHSTS: true,
		},
		{
			name:     "HSTS forced for reverse proxy",
			config:   SecurityHeadersConfig{EnableHSTS: true},
			hasTLS:   false,
			wantHSTS: true,
		},
		{
			name:        "cross-origin isolation enabled",
			config:      SecurityHeadersConfig{EnableCrossOriginIsolation: true},
			hasTLS:      false,
			wantHSTS:    false,
			wantCrossOr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := SecurityHeaders(tt.config)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("GET", "/mcp", nil)
			if tt.hasTLS {
				req.TLS = &tls.ConnectionState{}
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			// Headers set unconditionally
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
			assert.Equal(t, "1; mode=block", rec.Header().Get("X-XSS-Protection"))
			assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
			assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'self'")
			assert.Contains(t, rec.Header().Get("Permissions-Policy"), "geolocation=()")

			if tt.wantHSTS {
				assert.Contains(t, rec.Header().Get("Strict-Transport-Security"), "max-age=31536000")
			} else {
				assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
			}

			if tt.wantCrossOr {
				assert.Equal(t, "same-origin", rec.Header().Get("Cross-Origin-Opener-Policy"))
				assert.Equal(t, "require-corp", rec.Header().Get("Cross-Origin-Embedder-Policy"))
				assert.Equal(t, "same-origin", rec.Header().Get("Cross-Origin-Resource-Policy"))
			} else {
				assert.Empty(t, rec.Header().Get("Cross-Origin-Opener-Policy"))
				assert.Empty(t, rec.Header().Get("Cross-Origin-Embedder-Policy"))
				assert.Empty(t, rec.Header().Get("Cross-Origin-Resource-Policy"))
			}
		})
	}
}

// TestCORS tests CORS headers for browser-based MCP clients
func TestCORS(t *testing.T) {
	tests := []struct {
		name            string
		allowedOrigins  []string
		requestOrigin   string
		method          string
		wantAllowOrigin string
		wantStatus      int
	}{
		{
			name:            "allowed origin",
			allowedOrigins:  []string{"https://inspector.example.com"},
			requestOrigin:   "https://inspector.example.com",
			method:          "POST",
			wantAllowOrigin: "https://inspector.example.com",
			wantStatus:      http.StatusOK,
		},
		{
			name:            "disallowed origin",
			allowedOrigins:  []string{"https://inspector.example.com"},
			requestOrigin:   "https://evil.example.com",
			method:          "POST",
			wantAllowOrigin: "",
			wantStatus:      http.StatusOK,
		},
		{
			name:            "no origin header",
			allowedOrigins:  []string{"https://inspector.example.com"},
			requestOrigin:   "",
			method:          "GET",
			wantAllowOrigin: "",
			wantStatus:      http.StatusOK,
		},
		{
			name:            "empty allowed origins",
			allowedOrigins:  nil,
			requestOrigin:   "https://inspector.example.com",
			method:          "GET",
			wantAllowOrigin: "",
			wantStatus:      http.StatusOK,
		},
		{
			name:            "preflight request",
			allowedOrigins:  []string{"http://localhost:5173"},
			requestOrigin:   "http://localhost:5173",
			method:          "OPTIONS",
			wantAllowOrigin: "http://localhost:5173",
			wantStatus:      http.StatusNoContent,
		},
		{
			name:            "second of multiple origins",
			allowedOrigins:  []string{"https://inspector.example.com", "http://localhost:5173"},
			requestOrigin:   "http://localhost:5173",
			method:          "POST",
			wantAllowOrigin: "http://localhost:5173",
			wantStatus:      http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CORS(tt.allowedOrigins)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, "/mcp", nil)
			if tt.requestOrigin != "" {
				req.Header.Set("Origin", tt.requestOrigin)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantAllowOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Authorization, Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
			assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))

			if tt.wantAllowOrigin != "" {
				assert.Equal(t, "Origin", rec.Header().Get("Vary"))
			}
		})
	}
}

// TestMaxRequestSize tests the request body size limit
func TestMaxRequestSize(t *testing.T) {
	const limit = 64

	handler := MaxRequestSize(limit)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("body within limit", func(t *testing.T) {
		body := bytes.Repeat([]byte("a"), limit)
		req := httptest.NewRequest("POST", "/mcp", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("body exceeds limit", func(t *testing.T) {
		body := bytes.Repeat([]byte("a"), limit+1)
		req := httptest.NewRequest("POST", "/mcp", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("zero limit disables check", func(t *testing.T) {
		disabled := MaxRequestSize(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			w.WriteHeader(http.StatusOK)
		}))

		body := strings.Repeat("a", limit*4)
		req := httptest.NewRequest("POST", "/mcp", strings.NewReader(body))
		rec := httptest.NewRecorder()

		disabled.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

// TestValidateAllowedOrigins tests origin validation and normalization
func TestValidateAllowedOrigins(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr string
	}{
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "single origin",
			input: "https://inspector.example.com",
			want:  []string{"https://inspector.example.com"},
		},
		{
			name:  "multiple origins with whitespace",
			input: "https://inspector.example.com, http://localhost:5173",
			want:  []string{"https://inspector.example.com", "http://localhost:5173"},
		},
		{
			name:  "trailing slash normalized",
			input: "https://inspector.example.com/",
			want:  []string{"https://inspector.example.com"},
		},
		{
			name:  "origin with port",
			input: "http://localhost:5173",
			want:  []string{"http://localhost:5173"},
		},
		{
			name:  "empty entries skipped",
			input: "https://inspector.example.com,,",
			want:  []string{"https://inspector.example.com"},
		},
		{
			name:    "missing scheme",
			input:   "inspector.example.com",
			wantErr: "must include scheme and host",
		},
		{
			name:    "unsupported scheme",
			input:   "ftp://inspector.example.com",
			wantErr: "must use http or https scheme",
		},
		{
			name:    "origin with path",
			input:   "https://inspector.example.com/mcp",
			wantErr: "should not include path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateAllowedOrigins(tt.input)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
