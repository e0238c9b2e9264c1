package output

import (
	"fmt"
)

// TruncateServerList truncates a list of server records to the configured
// maximum. Returns the truncated slice and a warning if truncation occurred.
func TruncateServerList(items []map[string]interface{}, maxItems int) ([]map[string]interface{}, *TruncationWarning) {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	// Cap at absolute maximum
	if maxItems > AbsoluteMaxItems {
		maxItems = AbsoluteMaxItems
	}

	total := len(items)
	if total <= maxItems {
		return items, nil
	}

	truncated := items[:maxItems]
	warning := &TruncationWarning{
		Shown:   maxItems,
		Total:   total,
		Message: fmt.Sprintf("Output truncated. Showing %d of %d servers. Refine your search query or page with the cursor for complete results.", maxItems, total),
		SuggestFilters: []string{
			"Use query to narrow results by name or description",
			"Use cursor from the previous response to fetch the next page",
			"Lower limit and page through results incrementally",
		},
	}

	return truncated, warning
}

// EffectiveLimit calculates the effective item limit considering the
// per-request and configured limits. Absolute bounds are always applied.
func EffectiveLimit(requestLimit, configLimit int) int {
	// If no request limit specified, use config limit
	if requestLimit <= 0 {
		if configLimit <= 0 {
			return DefaultMaxItems
		}
		return min(configLimit, AbsoluteMaxItems)
	}

	// Take the minimum of request and config limits
	effective := requestLimit
	if configLimit > 0 && configLimit < effective {
		effective = configLimit
	}

	// Apply absolute maximum
	return min(effective, AbsoluteMaxItems)
}
