package output

// Processor applies output shaping based on configuration. It is the single
// entry point used by tool handlers: list responses are capped and every
// record is passed through the structural truncation transform.
type Processor struct {
	config Config
}

// NewProcessor creates a new output processor with the given configuration.
func NewProcessor(config Config) *Processor {
	return &Processor{
		config: config.Validate(),
	}
}

// ShapeRecord applies structural truncation to a single record, honoring
// the caller's expand_fields.
func (p *Processor) ShapeRecord(record interface{}, expandFields []string) interface{} {
	return ShapeWithConfig(record, expandFields, p.config)
}

// ShapeList shapes each record in a list and caps the list length. The
// limit is the per-request limit; zero means the configured default. A
// non-nil warning is returned when the list was cut.
func (p *Processor) ShapeList(items []map[string]interface{}, expandFields []string, limit int) ([]interface{}, *TruncationWarning) {
	capped, warning := TruncateServerList(items, EffectiveLimit(limit, p.config.MaxItems))

	shaped := make([]interface{}, len(capped))
	for i, item := range capped {
		shaped[i] = ShapeWithConfig(item, expandFields, p.config)
	}

	return shaped, warning
}

// Config returns the processor's configuration.
func (p *Processor) Config() Config {
	return p.config
}
