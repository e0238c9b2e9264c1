package output

import "strings"

// IsExpanded reports whether the node at path is exempt from truncation
// because of a caller-supplied expand entry. Matching is purely syntactic:
// an entry matches the path exactly, names an ancestor of the path (subtree
// expansion), or does either of those against the wildcard-normalized form
// of the path, where concrete array indices are blanked to "[]".
//
// The empty expand set and the root path never match.
func IsExpanded(path Path, expandFields []string) bool {
	if len(expandFields) == 0 || len(path) == 0 {
		return false
	}

	concrete := path.String()
	normalized := path.Normalized()

	for _, entry := range expandFields {
		if entry == "" {
			continue
		}
		if matchesEntry(concrete, entry) || matchesEntry(normalized, entry) {
			return true
		}
	}
	return false
}

// matchesEntry reports whether path is the entry itself or lies strictly
// inside the subtree rooted at it. Subtree containment is detected by the
// next character after the prefix: a descent is always "." or "[".
func matchesEntry(path, entry string) bool {
	if path == entry {
		return true
	}
	return strings.HasPrefix(path, entry+".") || strings.HasPrefix(path, entry+"[")
}
