package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"golang.org/x/text/cases"
)

// Sentinel errors for registry API failures.
var (
	// ErrNotFound indicates the named server or version does not exist.
	ErrNotFound = errors.New("server not found in registry")

	// ErrRegistryUnavailable indicates the registry responded with a
	// server-side error after retries were exhausted.
	ErrRegistryUnavailable = errors.New("registry unavailable")
)

// Client is the read-only interface to the MCP server registry.
type Client interface {
	// ListServers returns one page of servers, optionally filtered.
	ListServers(ctx context.Context, opts ListOptions) (*ListResult, error)

	// GetServer returns the record for a single server version. An empty
	// version resolves to the latest published version.
	GetServer(ctx context.Context, name, version string) (map[string]interface{}, error)

	// ListVersions returns every published version record for a server.
	ListVersions(ctx context.Context, name string) (*ListResult, error)

	// BaseURL returns the registry endpoint this client talks to.
	BaseURL() string
}

// ClientConfig holds configuration for the registry client.
type ClientConfig struct {
	// BaseURL is the registry endpoint. Default: DefaultBaseURL.
	BaseURL string

	// Timeout bounds each HTTP request. Default: 30s.
	Timeout time.Duration

	// RetryMax is the number of retries for transient failures. Default: 3.
	RetryMax int

	// UserAgent is sent on every request.
	UserAgent string
}

// httpClient implements Client against the registry v0 REST API.
type httpClient struct {
	base *url.URL
	http *retryablehttp.Client
	ua   string
}

// NewClient creates a registry client. Transient failures (connection
// resets, 429s, 5xx) are retried with exponential backoff by the underlying
// retryable HTTP client.
func NewClient(config ClientConfig) (Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid registry URL %q: %w", baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid registry URL %q: scheme must be http or https", baseURL)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retryMax := config.RetryMax
	if retryMax <= 0 {
		retryMax = 3
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = retryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = timeout
	// The retryable client's own logger is chatty line-oriented output;
	// request outcomes are logged by the callers instead.
	rc.Logger = nil

	ua := config.UserAgent
	if ua == "" {
		ua = "mcp-registry"
	}

	return &httpClient{
		base: base,
		http: rc,
		ua:   ua,
	}, nil
}

func (c *httpClient) BaseURL() string {
	return c.base.String()
}

func (c *httpClient) ListServers(ctx context.Context, opts ListOptions) (*ListResult, error) {
	query := url.Values{}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Search != "" {
		query.Set("search", opts.Search)
	}
	if opts.UpdatedSince != "" {
		query.Set("updated_since", opts.UpdatedSince)
	}
	// Only the latest version of each server belongs in list results;
	// historic versions are queried per server.
	query.Set("version", VersionLatest)

	var envelope listResponse
	if err := c.getJSON(ctx, "/v0/servers", query, &envelope); err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}

	servers := envelope.Servers
	if opts.Search != "" {
		servers = filterServers(servers, opts.Search)
	}

	return &ListResult{
		Servers:    servers,
		NextCursor: envelope.Metadata.NextCursor,
		Count:      len(servers),
	}, nil
}

func (c *httpClient) GetServer(ctx context.Context, name, version string) (map[string]interface{}, error) {
	if name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if version == "" {
		version = VersionLatest
	}

	path := "/v0/servers/" + url.PathEscape(name)
	query := url.Values{"version": {version}}

	var record map[string]interface{}
	if err := c.getJSON(ctx, path, query, &record); err != nil {
		return nil, fmt.Errorf("failed to get server %q: %w", name, err)
	}
	return record, nil
}

func (c *httpClient) ListVersions(ctx context.Context, name string) (*ListResult, error) {
	if name == "" {
		return nil, fmt.Errorf("server name is required")
	}

	path := "/v0/servers/" + url.PathEscape(name) + "/versions"

	var envelope listResponse
	if err := c.getJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("failed to list versions of %q: %w", name, err)
	}

	return &ListResult{
		Servers:    envelope.Servers,
		NextCursor: envelope.Metadata.NextCursor,
		Count:      len(envelope.Servers),
	}, nil
}

// getJSON performs a GET against the registry and decodes the response body.
func (c *httpClient) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	// The path is pre-escaped (server names contain "/"), so the URL is
	// assembled as a string; round-tripping through url.URL.Path would
	// re-escape the escapes.
	endpoint := strings.TrimSuffix(c.base.String(), "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.ua)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrRegistryUnavailable, resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// filterServers narrows a page to servers whose name or description
// contains the query, compared under Unicode case folding. The registry's
// own search is prefix-biased; folding locally keeps matching predictable
// for clients regardless of record casing.
func filterServers(servers []map[string]interface{}, search string) []map[string]interface{} {
	folder := cases.Fold()
	needle := folder.String(search)

	filtered := make([]map[string]interface{}, 0, len(servers))
	for _, s := range servers {
		if strings.Contains(folder.String(serverField(s, "name")), needle) ||
			strings.Contains(folder.String(serverField(s, "description")), needle) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// serverField reads a top-level string field from a record, descending into
// the "server" envelope used by list responses when present.
func serverField(record map[string]interface{}, field string) string {
	if inner, ok := record["server"].(map[string]interface{}); ok {
		record = inner
	}
	v, _ := record[field].(string)
	return v
}
