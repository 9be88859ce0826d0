// Package density estimates telemetry point density from batches the widget
// has already seen, so the planner can size queries without a pre-flight
// count round trip.
package density

import (
	"sync"

	"github.com/diyip/tb-pivot-excel/pkg/telemetry"
)

// minSpanHours rejects degenerate batches: a near-zero span would blow up
// the points-per-hour division.
const minSpanHours = 0.1

// Observation is a density estimate derived from one telemetry batch.
// It lives only as long as the widget instance; absence ("not yet
// observed") is a distinct state from a zero estimate.
type Observation struct {
	SeriesCount          int     `json:"seriesCount"`
	PointsPerSeriesPerHr float64 `json:"pointsPerSeriesPerHour"`
}

// Estimator keeps the most recent usable density observation. Updates and
// reads are last-write-wins; the mutex only makes that safe when the
// hosting environment delivers refreshes off the widget's event loop.
type Estimator struct {
	mu      sync.Mutex
	current *Observation
}

// Observe derives a density estimate from a telemetry batch and replaces
// the previous one. Empty batches and batches spanning less than 0.1 hour
// are ignored; the prior estimate survives them unchanged.
func (e *Estimator) Observe(batch telemetry.Batch) {
	series := telemetry.SeriesCount(batch)
	if series == 0 {
		return
	}
	spanHours := float64(telemetry.SpanMs(batch)) / (60 * 60 * 1000)
	if spanHours < minSpanHours {
		return
	}
	points := telemetry.PointCount(batch)
	obs := &Observation{
		SeriesCount:          series,
		PointsPerSeriesPerHr: (float64(points) / float64(series)) / spanHours,
	}

	e.mu.Lock()
	e.current = obs
	e.mu.Unlock()
}

// Current returns the latest observation, or ok=false when no usable batch
// has been seen yet.
func (e *Estimator) Current() (Observation, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return Observation{}, false
	}
	return *e.current, true
}

// Reset forgets the current observation. Used by tests and by hosts that
// rebind the widget to a different set of datasources.
func (e *Estimator) Reset() {
	e.mu.Lock()
	e.current = nil
	e.mu.Unlock()
}
