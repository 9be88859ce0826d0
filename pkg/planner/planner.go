// Package planner selects a query granularity for a resolved time range so
// the number of points the backend returns stays under a safety ceiling.
//
// The backend has no streaming or partial-result protocol, so a single
// aggregation tier must be chosen before querying. The planner estimates
// volume from cheap signals (previously observed point density) instead of
// issuing a count query, and escalates raw → hourly → daily until the
// estimate fits.
package planner

import (
	"time"

	"github.com/diyip/tb-pivot-excel/pkg/density"
	"github.com/diyip/tb-pivot-excel/pkg/timerange"
)

// AggMode is the backend aggregation parameter for the chosen tier.
type AggMode string

const (
	AggNone AggMode = "NONE"
	AggAvg  AggMode = "AVG"
)

// DensitySource records where the plan's density figure came from.
type DensitySource string

const (
	SourceObserved DensitySource = "observed"
	SourceFallback DensitySource = "fallback"
	SourceOverride DensitySource = "override"
)

// Order values accepted by the backend.
const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

const (
	hourMs = int64(time.Hour / time.Millisecond)
	dayMs  = 24 * hourMs

	// defaultLimit is the per-key-per-entity row ceiling requested from the
	// backend. The server clamps it further; see the engine-side caps.
	defaultLimit = 50000
)

// QueryOverride carries raw backend query parameters pasted by a power
// user. Supplying one bypasses all estimation.
type QueryOverride struct {
	Agg      AggMode `json:"agg,omitempty"`
	Interval int64   `json:"interval,omitempty"`
	Limit    int     `json:"limit,omitempty"`
	Order    string  `json:"order,omitempty"`
}

// Estimates holds the candidate point-count estimates for one range.
type Estimates struct {
	Raw    float64 `json:"raw"`
	Hourly float64 `json:"hourly"`
	Daily  float64 `json:"daily"`
}

// QueryPlan is the planner's decision for one export attempt. Produced
// once, read-only afterward.
type QueryPlan struct {
	Agg             AggMode       `json:"agg"`
	IntervalMs      int64         `json:"intervalMs,omitempty"` // 0 = no interval
	SnappedStartTs  int64         `json:"snappedStartTs"`
	OriginalStartTs int64         `json:"originalStartTs"`
	Estimates       Estimates     `json:"estimatedPointCounts"`
	Source          DensitySource `json:"densitySource"`
	Limit           int           `json:"limit"`
	Order           string        `json:"order"`
}

// Planner holds the tuning knobs for tier selection. The zero value uses
// the built-in defaults, so `planner.Planner{}` is ready to use.
type Planner struct {
	// SafetyLimit is the maximum estimated point count a tier may produce
	// before the planner escalates to the next coarser one. Defaults to
	// 40000 if zero.
	SafetyLimit float64

	// FallbackDensity is the points-per-series-per-hour figure used when no
	// observation exists. Defaults to 60 (one point a minute) if zero.
	FallbackDensity float64
}

func (p *Planner) safetyLimit() float64 {
	if p.SafetyLimit > 0 {
		return p.SafetyLimit
	}
	return 40000
}

func (p *Planner) fallbackDensity() float64 {
	if p.FallbackDensity > 0 {
		return p.FallbackDensity
	}
	return 60
}

// Plan chooses a query tier for the range. series is the number of
// entity×key combinations the export will request (floored at 1 when
// discovery has not run yet). obs may be nil; override may be nil.
// Plan never fails: an unmeasurable range still yields a valid plan from
// the fallback density.
func (p *Planner) Plan(r timerange.TimeRange, series int, obs *density.Observation, override *QueryOverride) QueryPlan {
	if override != nil {
		return planFromOverride(r, override)
	}

	if series < 1 {
		series = 1
	}
	dens := p.fallbackDensity()
	source := SourceFallback
	if obs != nil {
		dens = obs.PointsPerSeriesPerHr
		source = SourceObserved
	}

	spanHours := r.SpanHours()
	est := Estimates{
		Raw:    float64(series) * spanHours * dens,
		Hourly: float64(series) * spanHours,
		Daily:  float64(series) * r.SpanDays(),
	}

	plan := QueryPlan{
		OriginalStartTs: r.StartTs,
		Estimates:       est,
		Source:          source,
		Limit:           defaultLimit,
		Order:           OrderAsc,
	}

	// Escalation ladder, finest tier first. Daily is the last resort even
	// when its estimate exceeds the limit; the backend row caps catch the
	// remainder.
	limit := p.safetyLimit()
	switch {
	case est.Raw <= limit:
		plan.Agg = AggNone
		plan.SnappedStartTs = r.StartTs
	case est.Hourly <= limit:
		plan.Agg = AggAvg
		plan.IntervalMs = hourMs
		plan.SnappedStartTs = snapToHour(r.StartTs, r.Location())
	default:
		plan.Agg = AggAvg
		plan.IntervalMs = dayMs
		plan.SnappedStartTs = snapToDay(r.StartTs, r.Location())
	}
	return plan
}

// planFromOverride takes the pasted parameters verbatim, merged onto the
// defaults {limit: 50000, order: ASC}. No snapping and no estimation.
func planFromOverride(r timerange.TimeRange, o *QueryOverride) QueryPlan {
	plan := QueryPlan{
		Agg:             AggNone,
		OriginalStartTs: r.StartTs,
		SnappedStartTs:  r.StartTs,
		Source:          SourceOverride,
		Limit:           defaultLimit,
		Order:           OrderAsc,
	}
	if o.Agg != "" {
		plan.Agg = o.Agg
	}
	if o.Interval > 0 {
		plan.IntervalMs = o.Interval
	}
	if o.Limit > 0 {
		plan.Limit = o.Limit
	}
	if o.Order != "" {
		plan.Order = o.Order
	}
	return plan
}

// snapToHour rounds ts down to the top of its containing hour. Snapping
// only ever moves the start earlier, so the requested range stays fully
// covered.
func snapToHour(ts int64, loc *time.Location) int64 {
	t := time.UnixMilli(ts).In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc).UnixMilli()
}

// snapToDay rounds ts down to local midnight of its containing day.
func snapToDay(ts int64, loc *time.Location) int64 {
	t := time.UnixMilli(ts).In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc).UnixMilli()
}
