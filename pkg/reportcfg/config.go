// Package reportcfg resolves the report-generation configuration from three
// layers: built-in defaults, structured widget settings, and a free-form
// JSON override string. Later layers dominate earlier ones per section.
package reportcfg

import "encoding/json"

// Config mirrors the report engine's reportConfig payload exactly. Every
// key present in the defaults is present in every resolved Config; layers
// may override values but never delete keys.
type Config struct {
	Filename          string            `json:"filename"`
	FilenameTimestamp bool              `json:"filename_timestamp"`
	ColumnMap         ColumnMap         `json:"column_map"`
	AggMap            map[string]string `json:"agg_map"`
	Sheets            Sheets            `json:"sheets"`
	Formatting        Formatting        `json:"formatting"`
}

// Sheets controls the calendar-rollup sheets.
type Sheets struct {
	// WeekStart is "Sunday" or "Monday".
	WeekStart string `json:"week_start"`
	// PartialPeriod includes periods whose data does not fully cover the
	// period boundaries. False keeps only complete periods.
	PartialPeriod bool `json:"partial_period"`
}

// Formatting holds the engine's visual formatting knobs: sheet names,
// header styling, cell styling, column widths and freeze panes.
type Formatting struct {
	SheetRaw     string `json:"sheet_raw"`
	SheetPivot   string `json:"sheet_pivot"`
	SheetDaily   string `json:"sheet_daily"`
	SheetWeekly  string `json:"sheet_weekly"`
	SheetMonthly string `json:"sheet_monthly"`
	SheetYearly  string `json:"sheet_yearly"`

	HeaderFillColors []string `json:"header_fill_colors"`
	HeaderFontBold   bool     `json:"header_font_bold"`
	HeaderFontSize   int      `json:"header_font_size"`
	HeaderAlignment  string   `json:"header_alignment"`

	BorderStyle    string `json:"border_style"`
	NumberFormat   string `json:"number_format"`
	DatetimeFormat string `json:"datetime_format"`
	DateFormat     string `json:"date_format"`

	MaxColWidth int `json:"max_col_width"`
	MinColWidth int `json:"min_col_width"`

	// Freeze panes as [rows, cols].
	FreezeRaw     []int `json:"freeze_raw"`
	FreezePivot   []int `json:"freeze_pivot"`
	FreezeDaily   []int `json:"freeze_daily"`
	FreezeWeekly  []int `json:"freeze_weekly"`
	FreezeMonthly []int `json:"freeze_monthly"`
	FreezeYearly  []int `json:"freeze_yearly"`
}

// Defaults returns the built-in baseline configuration. A fresh copy every
// call: resolved configs must never share maps or slices with each other.
func Defaults() Config {
	return Config{
		Filename:          "tb_pivot_export.xlsx",
		FilenameTimestamp: true,
		ColumnMap:         ColumnMap{},
		AggMap: map[string]string{
			"default": "mean",
		},
		Sheets: Sheets{
			WeekStart:     "Sunday",
			PartialPeriod: false,
		},
		Formatting: Formatting{
			SheetRaw:     "Raw Data",
			SheetPivot:   "Pivot",
			SheetDaily:   "Daily",
			SheetWeekly:  "Weekly",
			SheetMonthly: "Monthly",
			SheetYearly:  "Yearly",

			HeaderFillColors: []string{"B8CCE4", "D9E1F2", "EEF2FA"},
			HeaderFontBold:   true,
			HeaderFontSize:   11,
			HeaderAlignment:  "center",

			BorderStyle:    "thin",
			NumberFormat:   "#,##0.00",
			DatetimeFormat: "yyyy-mm-dd hh:mm:ss",
			DateFormat:     "yyyy-mm-dd",

			MaxColWidth: 60,
			MinColWidth: 18,

			FreezeRaw:     []int{1, 0},
			FreezePivot:   []int{1, 1},
			FreezeDaily:   []int{1, 1},
			FreezeWeekly:  []int{1, 1},
			FreezeMonthly: []int{1, 1},
			FreezeYearly:  []int{1, 1},
		},
	}
}

// clone deep-copies the config so later mutation of one resolved config
// cannot leak into another.
func (c Config) clone() Config {
	out := c
	out.ColumnMap = c.ColumnMap.clone()
	out.AggMap = make(map[string]string, len(c.AggMap))
	for k, v := range c.AggMap {
		out.AggMap[k] = v
	}
	out.Formatting.HeaderFillColors = append([]string(nil), c.Formatting.HeaderFillColors...)
	out.Formatting.FreezeRaw = append([]int(nil), c.Formatting.FreezeRaw...)
	out.Formatting.FreezePivot = append([]int(nil), c.Formatting.FreezePivot...)
	out.Formatting.FreezeDaily = append([]int(nil), c.Formatting.FreezeDaily...)
	out.Formatting.FreezeWeekly = append([]int(nil), c.Formatting.FreezeWeekly...)
	out.Formatting.FreezeMonthly = append([]int(nil), c.Formatting.FreezeMonthly...)
	out.Formatting.FreezeYearly = append([]int(nil), c.Formatting.FreezeYearly...)
	return out
}

// MarshalJSON keeps an empty column map encoding as {} rather than null so
// the engine always sees the key.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	if a.ColumnMap == nil {
		a.ColumnMap = ColumnMap{}
	}
	return json.Marshal(a)
}
