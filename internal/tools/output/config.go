package output

// Default limits for output shaping.
// These are tuned for typical LLM context windows and registry record sizes.
const (
	// DefaultStringLimit is the maximum length of a string leaf before it is
	// replaced with a truncation placeholder.
	DefaultStringLimit = 200

	// DefaultDepthThreshold is the nesting depth at which large subtrees
	// become eligible for wholesale collapse. Structure above this depth is
	// always kept visible so callers can navigate it.
	DefaultDepthThreshold = 5

	// DefaultDeepLimit is the serialized-size limit (in characters) applied
	// to objects and arrays at or beyond the depth threshold.
	DefaultDeepLimit = 500

	// DefaultMaxRecursionDepth is the absolute ceiling on traversal depth.
	// Records nested beyond this are collapsed unconditionally so that
	// pathologically deep inputs cannot exhaust the stack.
	DefaultMaxRecursionDepth = 100

	// DefaultMaxItems is the default maximum number of servers returned per
	// list query.
	DefaultMaxItems = 30

	// AbsoluteMaxItems is the absolute maximum items that can be requested.
	// This prevents context exhaustion even when clients request higher limits.
	AbsoluteMaxItems = 100
)

// Config holds the limits applied during output shaping. It is passed
// explicitly into the transform so the engine carries no hidden global
// state and alternate thresholds are trivially testable.
type Config struct {
	// StringLimit is the maximum character length of a string leaf.
	// Default: 200
	StringLimit int `json:"stringLimit"`

	// DepthThreshold is the depth at or beyond which oversized subtrees
	// are collapsed. Default: 5
	DepthThreshold int `json:"depthThreshold"`

	// DeepLimit is the serialized-size limit for subtrees at or beyond
	// DepthThreshold. Default: 500
	DeepLimit int `json:"deepLimit"`

	// MaxRecursionDepth is the absolute traversal ceiling. Default: 100
	MaxRecursionDepth int `json:"maxRecursionDepth"`

	// MaxItems limits the number of servers returned per list query.
	// Default: 30, Absolute max: 100
	MaxItems int `json:"maxItems"`
}

// DefaultConfig returns a Config with the standard limits.
func DefaultConfig() Config {
	return Config{
		StringLimit:       DefaultStringLimit,
		DepthThreshold:    DefaultDepthThreshold,
		DeepLimit:         DefaultDeepLimit,
		MaxRecursionDepth: DefaultMaxRecursionDepth,
		MaxItems:          DefaultMaxItems,
	}
}

// Validate returns a copy of the configuration with out-of-range values
// replaced by defaults and absolute maxima applied.
func (c Config) Validate() Config {
	validated := c

	if validated.StringLimit <= 0 {
		validated.StringLimit = DefaultStringLimit
	}
	if validated.DepthThreshold <= 0 {
		validated.DepthThreshold = DefaultDepthThreshold
	}
	if validated.DeepLimit <= 0 {
		validated.DeepLimit = DefaultDeepLimit
	}
	if validated.MaxRecursionDepth <= 0 {
		validated.MaxRecursionDepth = DefaultMaxRecursionDepth
	}
	if validated.MaxItems <= 0 {
		validated.MaxItems = DefaultMaxItems
	}
	if validated.MaxItems > AbsoluteMaxItems {
		validated.MaxItems = AbsoluteMaxItems
	}

	return validated
}

// TruncationWarning describes list-level truncation of a response.
type TruncationWarning struct {
	// Shown is the number of items returned
	Shown int `json:"shown"`

	// Total is the total number of items before truncation
	Total int `json:"total"`

	// Message is a human-readable warning message
	Message string `json:"message"`

	// SuggestFilters suggests query refinements to reduce results
	SuggestFilters []string `json:"suggestFilters,omitempty"`
}
