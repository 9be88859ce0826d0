// Package payload assembles the outbound report-generation request from the
// resolved range, plan and config plus the discovered entities and keys.
// Pure assembly: every decision has already been made upstream.
package payload

import (
	"errors"
	"strings"

	"github.com/diyip/tb-pivot-excel/pkg/planner"
	"github.com/diyip/tb-pivot-excel/pkg/reportcfg"
	"github.com/diyip/tb-pivot-excel/pkg/telemetry"
	"github.com/diyip/tb-pivot-excel/pkg/timerange"
)

// Precondition failures. These must block the network call and surface to
// the user, unlike the config resolver's fail-open behavior.
var (
	ErrNoEntities = errors.New("no entities resolved for export")
	ErrNoKeys     = errors.New("no telemetry keys resolved for export")
	ErrNoTenant   = errors.New("tenant id is not resolved")
)

// Server-enforced hard caps, mirrored client-side so oversized selections
// are trimmed before they leave the widget.
const (
	MaxEntities = 500
	MaxKeys     = 100
)

// TimeEpoch is the wire form of the resolved range.
type TimeEpoch struct {
	StartTsMs int64 `json:"startTs_ms"`
	EndTsMs   int64 `json:"endTs_ms"`
}

// Query is the wire form of the chosen query plan.
type Query struct {
	Agg      planner.AggMode `json:"agg"`
	Interval int64           `json:"interval,omitempty"`
	Limit    int             `json:"limit"`
	Order    string          `json:"order"`
}

// Request is the POST body sent to the report engine.
type Request struct {
	TenantID     string             `json:"tenant_id"`
	Timezone     string             `json:"timezone"`
	TimeEpoch    TimeEpoch          `json:"timeEpoch"`
	Entities     []telemetry.Entity `json:"entities"`
	Keys         []string           `json:"keys"`
	Query        Query              `json:"query"`
	ReportConfig reportcfg.Config   `json:"reportConfig"`
}

// Build assembles the request. It fails with a sentinel error when
// entities, keys or the tenant are missing; those are caller-visible
// precondition failures, never silently swallowed.
func Build(r timerange.TimeRange, plan planner.QueryPlan, cfg reportcfg.Config,
	entities []telemetry.Entity, keys []string, tenantID, tz string) (*Request, error) {

	if strings.TrimSpace(tenantID) == "" {
		return nil, ErrNoTenant
	}

	normEntities := normalizeEntities(entities)
	if len(normEntities) == 0 {
		return nil, ErrNoEntities
	}
	normKeys := telemetry.DedupKeys(keys)
	if len(normKeys) == 0 {
		return nil, ErrNoKeys
	}

	if len(normEntities) > MaxEntities {
		normEntities = normEntities[:MaxEntities]
	}
	if len(normKeys) > MaxKeys {
		normKeys = normKeys[:MaxKeys]
	}

	return &Request{
		TenantID: tenantID,
		Timezone: tz,
		TimeEpoch: TimeEpoch{
			StartTsMs: plan.SnappedStartTs,
			EndTsMs:   r.EndTs,
		},
		Entities: normEntities,
		Keys:     normKeys,
		Query: Query{
			Agg:      plan.Agg,
			Interval: plan.IntervalMs,
			Limit:    plan.Limit,
			Order:    plan.Order,
		},
		ReportConfig: cfg,
	}, nil
}

// normalizeEntities uppercases types (empty type means ASSET), drops
// entities without an id, fills missing names from the id, and dedups by
// (type, id).
func normalizeEntities(entities []telemetry.Entity) []telemetry.Entity {
	var norm []telemetry.Entity
	for _, e := range entities {
		if strings.TrimSpace(e.ID) == "" {
			continue
		}
		et := strings.ToUpper(strings.TrimSpace(e.Type))
		if et == "" {
			et = "ASSET"
		}
		name := e.Name
		if name == "" {
			name = e.ID
		}
		norm = append(norm, telemetry.Entity{Type: et, ID: e.ID, Name: name})
	}
	return telemetry.DedupEntities(norm)
}
