package timerange

// Preset names a reporting time range the user can pick from the range
// dropdown. Custom presets take their length from a separate user value.
type Preset string

const (
	Last24h     Preset = "last_24h"
	Last7d      Preset = "last_7d"
	Last30d     Preset = "last_30d"
	Last60d     Preset = "last_60d"
	ThisYear    Preset = "this_year"
	LastYear    Preset = "last_year"
	LastMonth   Preset = "last_month"
	Last3Months Preset = "last_3_months"
	CustomDays  Preset = "custom_days"
	CustomMonths Preset = "custom_months"
)

// Clamp bounds for the custom presets.
const (
	MinCustomDays   = 1
	MaxCustomDays   = 365
	MinCustomMonths = 1
	MaxCustomMonths = 24
)

// Known reports whether p is a recognized preset. Resolve treats an unknown
// preset as Last60d rather than failing.
func Known(p Preset) bool {
	switch p {
	case Last24h, Last7d, Last30d, Last60d,
		ThisYear, LastYear, LastMonth, Last3Months,
		CustomDays, CustomMonths:
		return true
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
