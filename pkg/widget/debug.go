package widget

import (
	"github.com/diyip/tb-pivot-excel/pkg/density"
	"github.com/diyip/tb-pivot-excel/pkg/payload"
	"github.com/diyip/tb-pivot-excel/pkg/planner"
	"github.com/diyip/tb-pivot-excel/pkg/reportcfg"
	"github.com/diyip/tb-pivot-excel/pkg/timerange"
)

// DebugReport is the on-demand diagnostic surface: the fully resolved
// request plus every intermediate the pipeline produced. User-facing error
// messages stay short; this is where the detail lives.
type DebugReport struct {
	Range  timerange.TimeRange  `json:"range"`
	Plan   planner.QueryPlan    `json:"plan"`
	Config reportcfg.Config     `json:"reportConfig"`

	Density *density.Observation `json:"density,omitempty"` // nil until observed

	EntityCount int `json:"entityCount"`
	KeyCount    int `json:"keyCount"`

	// Request is the payload an export would send right now. Nil when a
	// precondition fails; PreconditionError then says which one.
	Request           *payload.Request `json:"request,omitempty"`
	PreconditionError string           `json:"preconditionError,omitempty"`

	// OverrideError reports a malformed JSON override that resolution
	// ignored.
	OverrideError string `json:"overrideError,omitempty"`
}

// Debug runs the planning pipeline without touching the network and
// returns the full diagnostic picture.
func (i *Instance) Debug() *DebugReport {
	req, resolved, plan, r, err := i.prepare()

	i.mu.Lock()
	entityCount, keyCount := len(i.entities), len(i.keys)
	i.mu.Unlock()

	report := &DebugReport{
		Range:       r,
		Plan:        plan,
		Config:      resolved.Config,
		EntityCount: entityCount,
		KeyCount:    keyCount,
		Request:     req,
	}
	if cur, ok := i.estimator.Current(); ok {
		report.Density = &cur
	}
	if err != nil {
		report.PreconditionError = err.Error()
	}
	if resolved.OverrideErr != nil {
		report.OverrideError = resolved.OverrideErr.Error()
	}
	return report
}
