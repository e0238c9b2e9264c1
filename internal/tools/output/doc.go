// Package output bounds the size of MCP tool responses built from nested
// registry records.
//
// Registry server.json documents are arbitrarily deep and arbitrarily large;
// returning them whole can overwhelm an LLM context window, while naive
// top-level truncation destroys the ability to inspect specific nested
// fields. This package implements a structural truncation transform with
// selective expansion:
//
//   - String leaves longer than a configured limit are replaced by a
//     placeholder message.
//   - Objects and arrays at or beyond a configured depth whose serialized
//     form exceeds a size limit are collapsed to a single placeholder.
//     Shallow structure is never collapsed, so the navigational top of a
//     record stays visible regardless of its size.
//   - Callers opt specific paths out of truncation via expand_fields,
//     naming a field exactly, naming a subtree root, or using "[]" to
//     cover every element of an array ("servers[].packages[].readme").
//
// Placeholder messages embed the normalized path of the truncated location,
// so a follow-up call can request exactly that path:
//
//	[TRUNCATED - use expand_fields: ["servers[].packages[].readme"] to see full content]
//	[DEEP OBJECT TRUNCATED - use expand_fields: ["servers[].packages"] to see full content]
//
// The transform is a pure function over decoded JSON values: it never
// mutates its input, performs no I/O, and the same (record, expandFields)
// pair always yields the same output. Limits are carried in an explicit
// [Config] value rather than package state:
//
//	cfg := output.DefaultConfig()
//	cfg.StringLimit = 400
//	shaped := output.ShapeWithConfig(record, expandFields, cfg)
//
// List responses are additionally capped by item count, with a
// [TruncationWarning] describing what was cut. [Processor] bundles both
// behaviors for use by tool handlers.
//
// The input record must be acyclic; records decoded from a wire payload
// are acyclic by construction, and the walker additionally enforces an
// absolute recursion ceiling as a hardening measure.
package output
