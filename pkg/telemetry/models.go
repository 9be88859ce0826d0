package telemetry

// DataPoint is a single telemetry sample as returned by the ThingsBoard
// timeseries API: a millisecond timestamp and an untyped value.
type DataPoint struct {
	Ts    int64 `json:"ts"`
	Value any   `json:"value"`
}

// Batch is one telemetry refresh: telemetry key → points, the shape the
// hosting environment delivers on every data update.
type Batch map[string][]DataPoint

// Entity identifies one ThingsBoard entity (asset, device, ...).
type Entity struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`
}
