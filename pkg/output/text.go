package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/diyip/tb-pivot-excel/pkg/widget"
)

// TextFormatter renders a human-readable debug report.
type TextFormatter struct{}

func (f *TextFormatter) Format(w io.Writer, report *widget.DebugReport) error {
	fmt.Fprintf(w, "Range:     %s\n", report.Range.Label)
	fmt.Fprintf(w, "           %s → %s\n",
		fmtTs(report.Range.StartTs, report.Range.Location()),
		fmtTs(report.Range.EndTs, report.Range.Location()))
	fmt.Fprintln(w, strings.Repeat("─", 70))

	plan := report.Plan
	fmt.Fprintf(w, "Plan:      agg=%s", plan.Agg)
	if plan.IntervalMs > 0 {
		fmt.Fprintf(w, "  interval=%s", time.Duration(plan.IntervalMs)*time.Millisecond)
	}
	fmt.Fprintf(w, "  limit=%d  order=%s\n", plan.Limit, plan.Order)
	fmt.Fprintf(w, "Density:   source=%s", plan.Source)
	if report.Density != nil {
		fmt.Fprintf(w, "  %.2f pts/series/hr over %d series",
			report.Density.PointsPerSeriesPerHr, report.Density.SeriesCount)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Estimates: raw=%.0f  hourly=%.0f  daily=%.0f\n",
		plan.Estimates.Raw, plan.Estimates.Hourly, plan.Estimates.Daily)
	if plan.SnappedStartTs != plan.OriginalStartTs {
		fmt.Fprintf(w, "Snapped:   start moved back %s to %s\n",
			time.Duration(plan.OriginalStartTs-plan.SnappedStartTs)*time.Millisecond,
			fmtTs(plan.SnappedStartTs, report.Range.Location()))
	}

	fmt.Fprintf(w, "Selection: %d entit%s, %d key%s\n",
		report.EntityCount, plural(report.EntityCount, "y", "ies"),
		report.KeyCount, plural(report.KeyCount, "", "s"))

	cfg := report.Config
	fmt.Fprintf(w, "Report:    %s (timestamped: %v, week start: %s, partial periods: %v)\n",
		cfg.Filename, cfg.FilenameTimestamp, cfg.Sheets.WeekStart, cfg.Sheets.PartialPeriod)
	if len(cfg.ColumnMap) > 0 {
		fmt.Fprintf(w, "Columns:   %s\n", strings.Join(cfg.ColumnMap.Columns(), ", "))
	}

	if report.OverrideError != "" {
		fmt.Fprintf(w, "Warning:   config override ignored: %s\n", report.OverrideError)
	}
	if report.PreconditionError != "" {
		fmt.Fprintf(w, "Blocked:   %s\n", report.PreconditionError)
	} else {
		fmt.Fprintln(w, "Ready:     export preconditions satisfied")
	}
	return nil
}

func fmtTs(ts int64, loc *time.Location) string {
	return time.UnixMilli(ts).In(loc).Format("2006-01-02 15:04:05 MST")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
