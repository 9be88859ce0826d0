package reportcfg

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestResolveDefaultsOnly(t *testing.T) {
	got := Resolve(Settings{}, "")

	if got.OverrideErr != nil {
		t.Fatalf("unexpected override error: %v", got.OverrideErr)
	}
	if got.Query != nil {
		t.Fatalf("unexpected query override: %+v", got.Query)
	}
	if !reflect.DeepEqual(got.Config, Defaults()) {
		t.Errorf("resolved config differs from defaults:\n got %+v\nwant %+v", got.Config, Defaults())
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	s := Settings{Filename: strPtr("report.xlsx"), WeekStart: strPtr("Monday")}
	a := Resolve(s, "")
	b := Resolve(s, "")
	if !reflect.DeepEqual(a.Config, b.Config) {
		t.Errorf("two resolutions differ:\n a %+v\n b %+v", a.Config, b.Config)
	}
}

func TestSettingsOnlyExplicitFieldsApply(t *testing.T) {
	got := Resolve(Settings{
		Filename:       strPtr("monthly_pm.xlsx"),
		AddTimestamp:   boolPtr(false),
		PartialPeriods: boolPtr(true),
		DefaultAgg:     strPtr("max"),
	}, "").Config

	if got.Filename != "monthly_pm.xlsx" {
		t.Errorf("filename = %q", got.Filename)
	}
	if got.FilenameTimestamp {
		t.Error("filename_timestamp should be overridden to false")
	}
	if !got.Sheets.PartialPeriod {
		t.Error("partial_period should be overridden to true")
	}
	if got.AggMap["default"] != "max" {
		t.Errorf("agg_map default = %q, want max", got.AggMap["default"])
	}
	// Fields the user did not touch keep their defaults.
	if got.Sheets.WeekStart != "Sunday" {
		t.Errorf("week_start = %q, want the default Sunday", got.Sheets.WeekStart)
	}
	if got.Formatting.NumberFormat != "#,##0.00" {
		t.Errorf("number_format = %q, want the default", got.Formatting.NumberFormat)
	}
}

func TestExplicitEmptyStringStillOverrides(t *testing.T) {
	// Explicitly provided but empty is a real override; only absence keeps
	// the default.
	got := Resolve(Settings{Filename: strPtr("")}, "").Config
	if got.Filename != "" {
		t.Errorf("filename = %q, want explicit empty", got.Filename)
	}
}

func TestAggMapShallowMerge(t *testing.T) {
	got := Resolve(Settings{}, `{"agg_map": {"pmIn1HrAvg": "max"}}`).Config

	want := map[string]string{"default": "mean", "pmIn1HrAvg": "max"}
	if !reflect.DeepEqual(got.AggMap, want) {
		t.Errorf("agg_map = %v, want %v", got.AggMap, want)
	}
}

func TestSheetsShallowMerge(t *testing.T) {
	got := Resolve(Settings{}, `{"sheets": {"week_start": "Monday"}}`).Config

	if got.Sheets.WeekStart != "Monday" {
		t.Errorf("week_start = %q, want Monday", got.Sheets.WeekStart)
	}
	if got.Sheets.PartialPeriod {
		t.Error("partial_period should keep its default false")
	}
}

func TestColumnMapFullReplace(t *testing.T) {
	// Seed a non-empty column map through a first override layer baseline.
	text := `{"column_map": {"A key1": ["H1"]}}`
	got := Resolve(Settings{}, text).Config

	if len(got.ColumnMap) != 1 {
		t.Fatalf("column_map has %d entries, want exactly 1 (full replace)", len(got.ColumnMap))
	}
	labels, ok := got.ColumnMap.Get("A key1")
	if !ok || !reflect.DeepEqual(labels, []string{"H1"}) {
		t.Errorf("column_map[A key1] = %v, want [H1]", labels)
	}
}

func TestColumnMapPreservesInsertionOrder(t *testing.T) {
	text := `{"column_map": {"Unit B pmOut": ["B", "Out"], "Unit A pmIn": ["A", "In"], "Unit C temp": ["C"]}}`
	got := Resolve(Settings{}, text).Config

	want := []string{"Unit B pmOut", "Unit A pmIn", "Unit C temp"}
	if !reflect.DeepEqual(got.ColumnMap.Columns(), want) {
		t.Errorf("column order = %v, want %v", got.ColumnMap.Columns(), want)
	}
}

func TestFormattingOverrideKeepsUnspecifiedKeys(t *testing.T) {
	got := Resolve(Settings{}, `{"formatting": {"number_format": "0.000", "sheet_pivot": "Data"}}`).Config

	if got.Formatting.NumberFormat != "0.000" {
		t.Errorf("number_format = %q", got.Formatting.NumberFormat)
	}
	if got.Formatting.SheetPivot != "Data" {
		t.Errorf("sheet_pivot = %q", got.Formatting.SheetPivot)
	}
	// The invariant: no default key is ever deleted.
	if got.Formatting.SheetRaw != "Raw Data" || got.Formatting.MinColWidth != 18 {
		t.Errorf("untouched formatting keys lost: %+v", got.Formatting)
	}
}

func TestMalformedOverrideFailsOpen(t *testing.T) {
	got := Resolve(Settings{}, `{not json`)

	if got.OverrideErr == nil {
		t.Fatal("expected a recorded parse error")
	}
	clean := Resolve(Settings{}, "")
	if !reflect.DeepEqual(got.Config, clean.Config) {
		t.Errorf("malformed override changed the config:\n got %+v\nwant %+v", got.Config, clean.Config)
	}
}

func TestOverrideDominatesSettings(t *testing.T) {
	got := Resolve(
		Settings{Filename: strPtr("from_settings.xlsx")},
		`{"filename": "from_override.xlsx"}`,
	).Config

	if got.Filename != "from_override.xlsx" {
		t.Errorf("filename = %q, want the JSON override to win", got.Filename)
	}
}

func TestQueryOverrideExtracted(t *testing.T) {
	got := Resolve(Settings{}, `{"query": {"agg": "AVG", "interval": 60000, "order": "DESC"}}`)

	if got.Query == nil {
		t.Fatal("expected a query override")
	}
	if got.Query.Interval != 60000 || got.Query.Order != "DESC" {
		t.Errorf("query override = %+v", got.Query)
	}
}

func TestParseOverrideEmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		o, err := ParseOverride(text)
		if o != nil || err != nil {
			t.Errorf("ParseOverride(%q) = %v, %v; want nil, nil", text, o, err)
		}
	}
}

func TestResolvedConfigsDoNotAlias(t *testing.T) {
	a := Resolve(Settings{}, "")
	b := Resolve(Settings{}, "")
	a.Config.AggMap["extra"] = "sum"
	if _, ok := b.Config.AggMap["extra"]; ok {
		t.Error("two resolved configs share the same agg_map")
	}
}
