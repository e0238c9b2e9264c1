package registry

// DefaultBaseURL is the public community MCP registry endpoint.
const DefaultBaseURL = "https://registry.modelcontextprotocol.io"

// VersionLatest selects the latest published version of a server.
const VersionLatest = "latest"

// ListOptions controls a ListServers call.
type ListOptions struct {
	// Cursor is the opaque pagination cursor from a previous response.
	Cursor string

	// Limit is the page size requested from the registry. Zero uses the
	// registry default.
	Limit int

	// Search is a substring filter on server names, applied both at the
	// registry and case-folded client side.
	Search string

	// UpdatedSince filters to servers updated after the given RFC 3339
	// timestamp.
	UpdatedSince string
}

// ListResult is one page of servers from the registry.
type ListResult struct {
	// Servers holds the raw server records as decoded JSON objects. Records
	// are kept generic: the registry schema evolves and the output shaping
	// engine operates on the full document regardless of its fields.
	Servers []map[string]interface{} `json:"servers"`

	// NextCursor is the cursor for the next page, empty on the last page.
	NextCursor string `json:"next_cursor,omitempty"`

	// Count is the number of servers in this page.
	Count int `json:"count"`
}

// listResponse mirrors the registry v0 list envelope.
type listResponse struct {
	Servers  []map[string]interface{} `json:"servers"`
	Metadata struct {
		NextCursor string `json:"next_cursor"`
		Count      int    `json:"count"`
	} `json:"metadata"`
}
