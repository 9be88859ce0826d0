package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diyip/tb-pivot-excel/pkg/output"
	"github.com/diyip/tb-pivot-excel/pkg/telemetry"
	"github.com/diyip/tb-pivot-excel/pkg/timerange"
	"github.com/diyip/tb-pivot-excel/pkg/widget"
)

// batchFile is the JSON shape `plan --batch` and `export --batch` accept:
// one entity plus its telemetry series, the same shape `demo` emits.
type batchFile struct {
	Entity telemetry.Entity `json:"entity"`
	Batch  telemetry.Batch  `json:"batch"`
}

func newPlanCmd() *cobra.Command {
	var (
		preset     string
		days       int
		months     int
		batchPaths []string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Resolve the range, plan the query and print the diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			w, _, err := buildWidget(log)
			if err != nil {
				return err
			}
			w.SelectRange(timerange.Preset(preset), days, months)
			if err := feedBatches(w, batchPaths); err != nil {
				return err
			}

			var formatter output.Formatter
			switch format {
			case "json":
				formatter = &output.JSONFormatter{Indent: true}
			case "text":
				formatter = &output.TextFormatter{}
			default:
				return fmt.Errorf("unknown format %q (want text or json)", format)
			}
			return formatter.Format(os.Stdout, w.Debug())
		},
	}

	cmd.Flags().StringVar(&preset, "preset", string(timerange.Last30d), "Range preset")
	cmd.Flags().IntVar(&days, "days", 0, "Day count for preset custom_days")
	cmd.Flags().IntVar(&months, "months", 0, "Month count for preset custom_months")
	cmd.Flags().StringArrayVar(&batchPaths, "batch", nil, "Telemetry batch JSON file to observe first (repeatable)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")
	return cmd
}

func feedBatches(w *widget.Instance, paths []string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading batch file: %w", err)
		}
		var bf batchFile
		if err := json.Unmarshal(data, &bf); err != nil {
			return fmt.Errorf("parsing batch file %s: %w", path, err)
		}
		w.OnTelemetryBatch(bf.Entity, bf.Batch)
	}
	return nil
}
