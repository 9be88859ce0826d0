package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/diyip/tb-pivot-excel/pkg/density"
	"github.com/diyip/tb-pivot-excel/pkg/planner"
	"github.com/diyip/tb-pivot-excel/pkg/reportcfg"
	"github.com/diyip/tb-pivot-excel/pkg/timerange"
	"github.com/diyip/tb-pivot-excel/pkg/widget"
)

func sampleReport() *widget.DebugReport {
	obs := density.Observation{SeriesCount: 3, PointsPerSeriesPerHr: 60}
	return &widget.DebugReport{
		Range: timerange.TimeRange{Label: "Last 7 days", StartTs: 1_000_000, EndTs: 605_800_000},
		Plan: planner.QueryPlan{
			Agg:             planner.AggAvg,
			IntervalMs:      3_600_000,
			SnappedStartTs:  900_000,
			OriginalStartTs: 1_000_000,
			Source:          planner.SourceObserved,
			Limit:           50000,
			Order:           planner.OrderAsc,
			Estimates:       planner.Estimates{Raw: 90000, Hourly: 1500, Daily: 63},
		},
		Config:      reportcfg.Defaults(),
		Density:     &obs,
		EntityCount: 2,
		KeyCount:    3,
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextFormatter{}).Format(&buf, sampleReport()); err != nil {
		t.Fatalf("Format: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Last 7 days",
		"agg=AVG",
		"interval=1h0m0s",
		"source=observed",
		"2 entities, 3 keys",
		"tb_pivot_export.xlsx",
		"Ready:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTextFormatterBlocked(t *testing.T) {
	report := sampleReport()
	report.PreconditionError = "no entities resolved for export"

	var buf bytes.Buffer
	if err := (&TextFormatter{}).Format(&buf, report); err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(buf.String(), "Blocked:") {
		t.Errorf("blocked report not flagged:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "Ready:") {
		t.Errorf("blocked report marked ready:\n%s", buf.String())
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{Indent: true}).Format(&buf, sampleReport()); err != nil {
		t.Fatalf("Format: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if _, ok := decoded["plan"]; !ok {
		t.Errorf("JSON output missing plan: %v", decoded)
	}
	if _, ok := decoded["reportConfig"]; !ok {
		t.Errorf("JSON output missing reportConfig: %v", decoded)
	}
}
