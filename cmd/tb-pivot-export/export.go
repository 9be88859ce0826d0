package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/diyip/tb-pivot-excel/pkg/timerange"
)

func newExportCmd() *cobra.Command {
	var (
		preset     string
		days       int
		months     int
		batchPaths []string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Run one export against the configured report engine",
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

			result, err := w.OnExportRequested(cmd.Context())
			if err != nil {
				return err
			}
			defer result.Body.Close()

			name := outPath
			if name == "" {
				name = result.Filename
			}
			f, err := os.Create(name)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()

			n, err := io.Copy(f, result.Body)
			if err != nil {
				return fmt.Errorf("writing %s: %w", name, err)
			}
			fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", name, n)
			return nil
		},
	}

	cmd.Flags().StringVar(&preset, "preset", string(timerange.Last30d), "Range preset")
	cmd.Flags().IntVar(&days, "days", 0, "Day count for preset custom_days")
	cmd.Flags().IntVar(&months, "months", 0, "Month count for preset custom_months")
	cmd.Flags().StringArrayVar(&batchPaths, "batch", nil, "Telemetry batch JSON file to observe first (repeatable)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output path (default: engine-suggested filename)")
	return cmd
}
