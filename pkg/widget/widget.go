// Package widget ties the planning pipeline together behind the lifecycle
// the hosting environment drives: initialize, telemetry refreshes, export
// clicks. Each widget instance on a dashboard owns its own independent
// state; nothing here is process-wide.
package widget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/diyip/tb-pivot-excel/pkg/density"
	"github.com/diyip/tb-pivot-excel/pkg/engine"
	"github.com/diyip/tb-pivot-excel/pkg/payload"
	"github.com/diyip/tb-pivot-excel/pkg/planner"
	"github.com/diyip/tb-pivot-excel/pkg/reportcfg"
	"github.com/diyip/tb-pivot-excel/pkg/telemetry"
	"github.com/diyip/tb-pivot-excel/pkg/timerange"
)

// ErrExportInFlight rejects a re-entrant export while one is outstanding.
// Concurrent exports are indistinguishable to the user and waste engine
// resources, so the second request is refused, not queued.
var ErrExportInFlight = errors.New("an export is already in progress")

// Lifecycle is the host-environment callback surface. The HTTP server and
// the CLI both drive an Instance through it.
type Lifecycle interface {
	OnTelemetryBatch(entity telemetry.Entity, batch telemetry.Batch)
	OnExportRequested(ctx context.Context) (*ExportResult, error)
}

// InitConfig is everything the hosting environment supplies at widget
// initialization. It is immutable for the lifetime of the instance.
type InitConfig struct {
	TenantID string
	Timezone string // IANA name; empty means Asia/Bangkok

	// SafetyLimit and FallbackDensity tune the planner; zero keeps the
	// planner's own defaults.
	SafetyLimit     float64
	FallbackDensity float64

	Settings     reportcfg.Settings
	OverrideText string

	Engine *engine.Client
	Logger *zap.Logger

	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Instance is one widget's session state plus the pieces of the pipeline.
type Instance struct {
	tenantID string
	timezone string
	loc      *time.Location

	settings     reportcfg.Settings
	overrideText string

	engine  *engine.Client
	planner planner.Planner
	log     *zap.Logger
	now     func() time.Time

	// mu guards the range selection and discovery state below.
	mu           sync.Mutex
	preset       timerange.Preset
	customDays   int
	customMonths int
	entities     []telemetry.Entity
	keys         []string

	estimator density.Estimator
	exporting atomic.Bool
}

// New builds a widget instance from its init config. An unknown timezone
// falls back to UTC with a warning rather than failing initialization.
func New(cfg InitConfig) *Instance {
	tz := cfg.Timezone
	if tz == "" {
		tz = "Asia/Bangkok"
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Warn("unknown timezone, using UTC", zap.String("timezone", tz))
		loc = time.UTC
		tz = "UTC"
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Instance{
		tenantID:     cfg.TenantID,
		timezone:     tz,
		loc:          loc,
		settings:     cfg.Settings,
		overrideText: cfg.OverrideText,
		engine:       cfg.Engine,
		planner: planner.Planner{
			SafetyLimit:     cfg.SafetyLimit,
			FallbackDensity: cfg.FallbackDensity,
		},
		log:    log,
		now:    now,
		preset: timerange.Last30d,
	}
}

// SelectRange records the user's range choice. The range itself is
// recomputed from this selection on every planning cycle.
func (i *Instance) SelectRange(preset timerange.Preset, customDays, customMonths int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.preset = preset
	i.customDays = customDays
	i.customMonths = customMonths
}

// OnTelemetryBatch handles one data-refresh callback: it feeds the density
// estimator and folds the batch's entity and keys into discovery state.
func (i *Instance) OnTelemetryBatch(entity telemetry.Entity, batch telemetry.Batch) {
	i.estimator.Observe(batch)

	keys := make([]string, 0, len(batch))
	for k := range batch {
		keys = append(keys, k)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if entity.ID != "" {
		i.entities = telemetry.DedupEntities(append(i.entities, entity))
	}
	i.keys = telemetry.DedupKeys(append(i.keys, keys...))
}

// ExportResult is a completed export: the spreadsheet stream plus the
// request that produced it.
type ExportResult struct {
	Body     io.ReadCloser
	Filename string
	Request  *payload.Request
}

// OnExportRequested runs one export: resolve range → plan → resolve config
// → build request → call the engine. While one export is outstanding any
// further request fails with ErrExportInFlight. A failed call clears the
// gate and surfaces the error; there is no retry.
func (i *Instance) OnExportRequested(ctx context.Context) (*ExportResult, error) {
	if !i.exporting.CompareAndSwap(false, true) {
		return nil, ErrExportInFlight
	}
	defer i.exporting.Store(false)

	req, resolved, plan, r, err := i.prepare()
	if err != nil {
		return nil, err
	}

	i.log.Info("exporting report",
		zap.String("range", r.Label),
		zap.String("agg", string(plan.Agg)),
		zap.Int64("intervalMs", plan.IntervalMs),
		zap.String("densitySource", string(plan.Source)),
		zap.Int("entities", len(req.Entities)),
		zap.Int("keys", len(req.Keys)),
	)
	if resolved.OverrideErr != nil {
		i.log.Warn("config override ignored", zap.Error(resolved.OverrideErr))
	}

	result, err := i.engine.Generate(ctx, req)
	if err != nil {
		i.log.Error("report generation failed", zap.Error(err))
		return nil, fmt.Errorf("report generation failed: %w", err)
	}

	filename := result.Filename
	if filename == "" {
		filename = resolved.Config.Filename
	}
	return &ExportResult{Body: result.Body, Filename: filename, Request: req}, nil
}

// prepare runs the pure part of the export pipeline and returns the
// assembled request. Precondition failures (no entities, no keys, no
// tenant) come back as the builder's sentinel errors.
func (i *Instance) prepare() (*payload.Request, reportcfg.Resolved, planner.QueryPlan, timerange.TimeRange, error) {
	i.mu.Lock()
	preset, days, months := i.preset, i.customDays, i.customMonths
	entities := append([]telemetry.Entity(nil), i.entities...)
	keys := append([]string(nil), i.keys...)
	i.mu.Unlock()

	r := timerange.Resolve(preset, days, months, i.now().In(i.loc))
	resolved := reportcfg.Resolve(i.settings, i.overrideText)

	series := len(entities) * len(keys)
	var obs *density.Observation
	if cur, ok := i.estimator.Current(); ok {
		obs = &cur
	}
	plan := i.planner.Plan(r, series, obs, resolved.Query)

	req, err := payload.Build(r, plan, resolved.Config, entities, keys, i.tenantID, i.timezone)
	if err != nil {
		return nil, resolved, plan, r, err
	}
	return req, resolved, plan, r, nil
}
