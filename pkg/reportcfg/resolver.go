package reportcfg

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/diyip/tb-pivot-excel/pkg/planner"
)

// Override is a parsed free-form JSON override. Nil / zero-length fields
// mean "section absent"; present sections are applied with a per-section
// policy (see Resolve).
type Override struct {
	Filename          *string           `json:"filename"`
	FilenameTimestamp *bool             `json:"filename_timestamp"`
	ColumnMap         *ColumnMap        `json:"column_map"`
	AggMap            map[string]string `json:"agg_map"`

	// Sheets and Formatting stay raw so they can be decoded onto the
	// running section, overriding only the keys they actually provide.
	Sheets     json.RawMessage `json:"sheets"`
	Formatting json.RawMessage `json:"formatting"`

	// Query bypasses the adaptive planner entirely when present.
	Query *planner.QueryOverride `json:"query"`
}

// ParseOverride decodes the free-form override text. Empty or
// whitespace-only text is a valid "no override". A malformed override is
// returned as an error for the caller to report on the debug surface; the
// resolver itself treats it as absent.
func ParseOverride(text string) (*Override, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}
	var o Override
	if err := json.Unmarshal([]byte(trimmed), &o); err != nil {
		return nil, fmt.Errorf("parsing config override: %w", err)
	}
	return &o, nil
}

// Resolved is the outcome of a config resolution.
type Resolved struct {
	Config Config

	// Query is the raw query override extracted from the JSON layer, nil
	// when the planner should estimate.
	Query *planner.QueryOverride

	// OverrideErr records a malformed JSON override that was ignored.
	// Never fatal: the export proceeds on defaults + settings.
	OverrideErr error
}

// Resolve merges the three configuration layers: built-in defaults, then
// explicitly provided widget settings, then the JSON override. Per-section
// override policy:
//
//   - agg_map, sheets: shallow merge, provided keys win and the rest keep
//     their current value
//   - column_map: full replace, key order preserved
//   - filename, filename_timestamp, formatting: replace when present
//   - query: extracted for the planner, not part of the report config
//
// A malformed override never fails the resolution (fail-open); the result
// is then defaults + settings, with the parse error recorded.
func Resolve(settings Settings, overrideText string) Resolved {
	cfg := Defaults().clone()
	settings.apply(&cfg)

	override, err := ParseOverride(overrideText)
	if err != nil {
		return Resolved{Config: cfg, OverrideErr: err}
	}
	if override == nil {
		return Resolved{Config: cfg}
	}

	if override.Filename != nil {
		cfg.Filename = *override.Filename
	}
	if override.FilenameTimestamp != nil {
		cfg.FilenameTimestamp = *override.FilenameTimestamp
	}
	if override.ColumnMap != nil {
		cfg.ColumnMap = override.ColumnMap.clone()
	}
	for k, v := range override.AggMap {
		cfg.AggMap[k] = v
	}
	if len(override.Sheets) > 0 && !isJSONNull(override.Sheets) {
		// Decoding onto the current struct overlays only provided keys.
		_ = json.Unmarshal(override.Sheets, &cfg.Sheets)
	}
	if len(override.Formatting) > 0 && !isJSONNull(override.Formatting) {
		_ = json.Unmarshal(override.Formatting, &cfg.Formatting)
	}

	return Resolved{Config: cfg, Query: override.Query}
}

func isJSONNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}
