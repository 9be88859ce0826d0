package reportcfg

// Settings is the structured, flat widget settings surface supplied by the
// hosting environment at initialization. Every field is a pointer so the
// resolver can tell "explicitly set by the user" apart from "left at the
// form's zero value": only explicitly provided fields override defaults.
type Settings struct {
	Filename *string `json:"filename,omitempty" mapstructure:"filename"`

	// AddTimestamp appends a generation timestamp to the filename.
	AddTimestamp *bool `json:"addTimestamp,omitempty" mapstructure:"add_timestamp"`

	// WeekStart is "Sunday" or "Monday" for the weekly rollup sheet.
	WeekStart *string `json:"weekStart,omitempty" mapstructure:"week_start"`

	// PartialPeriods includes incomplete calendar periods in rollups.
	PartialPeriods *bool `json:"partialPeriods,omitempty" mapstructure:"partial_periods"`

	// DefaultAgg is the rollup aggregation function for keys without an
	// explicit agg_map entry: mean, sum, min, max, first or last.
	DefaultAgg *string `json:"defaultAgg,omitempty" mapstructure:"default_agg"`

	NumberFormat *string `json:"numberFormat,omitempty" mapstructure:"number_format"`
}

// apply overlays the explicitly provided settings fields onto cfg.
func (s Settings) apply(cfg *Config) {
	if s.Filename != nil {
		cfg.Filename = *s.Filename
	}
	if s.AddTimestamp != nil {
		cfg.FilenameTimestamp = *s.AddTimestamp
	}
	if s.WeekStart != nil {
		cfg.Sheets.WeekStart = *s.WeekStart
	}
	if s.PartialPeriods != nil {
		cfg.Sheets.PartialPeriod = *s.PartialPeriods
	}
	if s.DefaultAgg != nil {
		cfg.AggMap["default"] = *s.DefaultAgg
	}
	if s.NumberFormat != nil {
		cfg.Formatting.NumberFormat = *s.NumberFormat
	}
}
