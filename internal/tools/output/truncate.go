package output

import (
	"encoding/json"
	"fmt"
)

// StringPlaceholder returns the message substituted for an over-length
// string leaf. The embedded path is the normalized path of the leaf, so a
// caller can pass it back via expand_fields on a follow-up call.
func StringPlaceholder(normalizedPath string) string {
	return fmt.Sprintf(`[TRUNCATED - use expand_fields: [%q] to see full content]`, normalizedPath)
}

// DeepPlaceholder returns the message substituted for a collapsed deep
// object or array.
func DeepPlaceholder(normalizedPath string) string {
	return fmt.Sprintf(`[DEEP OBJECT TRUNCATED - use expand_fields: [%q] to see full content]`, normalizedPath)
}

// Shape bounds the serialized size of a deserialized record using the
// default limits. See ShapeWithConfig.
func Shape(record interface{}, expandFields []string) interface{} {
	return ShapeWithConfig(record, expandFields, DefaultConfig())
}

// ShapeWithConfig returns a copy of record in which string leaves longer
// than cfg.StringLimit and objects/arrays at depth >= cfg.DepthThreshold
// whose serialized form exceeds cfg.DeepLimit are replaced by placeholder
// messages. Subtrees addressed by expandFields entries (exact, ancestor,
// or with array indices wildcarded as "[]") are copied through untouched.
//
// The input is never mutated and the same inputs always yield the same
// output. The record must be acyclic; records decoded from a wire payload
// are acyclic by construction.
func ShapeWithConfig(record interface{}, expandFields []string, cfg Config) interface{} {
	cfg = cfg.Validate()
	return shapeValue(record, Path{}, expandFields, false, cfg)
}

// shapeValue is the pre-order walker. expanded is inherited downward once
// an ancestor matched an expand entry; policy is never re-evaluated below
// that point.
func shapeValue(v interface{}, path Path, expandFields []string, expanded bool, cfg Config) interface{} {
	// Absolute ceiling, applied before anything else so that expansion
	// cannot be used to blow the stack on adversarially deep inputs.
	if path.Depth() >= cfg.MaxRecursionDepth {
		if isContainer(v) {
			return DeepPlaceholder(path.Normalized())
		}
	}

	if !expanded && IsExpanded(path, expandFields) {
		expanded = true
	}

	if !expanded {
		if s, ok := v.(string); ok && len(s) > cfg.StringLimit {
			return StringPlaceholder(path.Normalized())
		}
		if isContainer(v) && path.Depth() >= cfg.DepthThreshold && serializedLen(v) > cfg.DeepLimit {
			// Terminal collapse: descendants of this node do not appear
			// in the output.
			return DeepPlaceholder(path.Normalized())
		}
	}

	switch val := v.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(val))
		for key, child := range val {
			result[key] = shapeValue(child, path.Child(key), expandFields, expanded, cfg)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(val))
		for i, child := range val {
			result[i] = shapeValue(child, path.Element(i), expandFields, expanded, cfg)
		}
		return result
	default:
		// Scalars (string, number, bool, nil) that survived the checks
		// pass through unchanged.
		return v
	}
}

func isContainer(v interface{}) bool {
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return true
	default:
		return false
	}
}

// serializedLen measures a node in its canonical JSON form, the same form
// the handlers emit. Values that cannot be serialized are treated as
// oversized so they collapse rather than break the output.
func serializedLen(v interface{}) int {
	data, err := json.Marshal(v)
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return len(data)
}
