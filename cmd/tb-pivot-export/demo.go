package main

import (
	"encoding/json"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/diyip/tb-pivot-excel/pkg/telemetry"
)

// newDemoCmd emits a synthetic telemetry batch for exercising `plan
// --batch` and `export --batch` without a live ThingsBoard.
func newDemoCmd() *cobra.Command {
	var (
		keys     string
		hours    float64
		interval time.Duration
		entityID string
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Emit a synthetic telemetry batch JSON on stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			rng := rand.New(rand.NewSource(seed))
			end := time.Now()
			start := end.Add(-time.Duration(hours * float64(time.Hour)))

			batch := telemetry.Batch{}
			for i, key := range strings.Split(keys, ",") {
				key = strings.TrimSpace(key)
				if key == "" {
					continue
				}
				var points []telemetry.DataPoint
				// Daily sine with per-key phase plus noise, roughly what
				// air-quality telemetry looks like.
				for t := start; !t.After(end); t = t.Add(interval) {
					hour := float64(t.Unix()) / 3600
					value := 35 + 15*math.Sin(2*math.Pi*hour/24+float64(i)) + rng.Float64()*5
					points = append(points, telemetry.DataPoint{
						Ts:    t.UnixMilli(),
						Value: math.Round(value*100) / 100,
					})
				}
				batch[key] = points
			}

			out := batchFile{
				Entity: telemetry.Entity{Type: "ASSET", ID: entityID, Name: "Demo Unit A"},
				Batch:  batch,
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVar(&keys, "keys", "pmIn1HrAvg,pmOut1HrAvg,tempIn", "Comma-separated telemetry keys")
	cmd.Flags().Float64Var(&hours, "hours", 48, "Span of the generated batch in hours")
	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "Sample interval")
	cmd.Flags().StringVar(&entityID, "entity", "demo-asset-001", "Entity id")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed")
	return cmd
}
