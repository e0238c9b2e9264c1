package output

import "strings"

const (
	stringPlaceholderPrefix = "[TRUNCATED - "
	deepPlaceholderPrefix   = "[DEEP OBJECT TRUNCATED - "
)

// TruncationCounts walks a shaped value and counts the truncation
// placeholders it contains. The counts feed truncation metrics so
// operators can see how often responses are being cut down.
func TruncationCounts(v interface{}) (stringCount, deepCount int64) {
	switch val := v.(type) {
	case string:
		if strings.HasPrefix(val, deepPlaceholderPrefix) {
			deepCount++
		} else if strings.HasPrefix(val, stringPlaceholderPrefix) {
			stringCount++
		}
	case map[string]interface{}:
		for _, child := range val {
			s, d := TruncationCounts(child)
			stringCount += s
			deepCount += d
		}
	case []interface{}:
		for _, child := range val {
			s, d := TruncationCounts(child)
			stringCount += s
			deepCount += d
		}
	}
	return stringCount, deepCount
}
