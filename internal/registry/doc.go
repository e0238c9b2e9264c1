// Package registry provides a read-only client for the community MCP
// server registry v0 API.
//
// Server records are returned as generic decoded JSON objects rather than
// typed structs: the registry schema evolves independently of this server,
// and the output shaping layer operates on whole documents regardless of
// their fields. The client handles cursor pagination, retries transient
// failures with backoff, and maps HTTP status codes to sentinel errors
// ([ErrNotFound], [ErrRegistryUnavailable]) that tool handlers translate
// into user-facing messages.
package registry
