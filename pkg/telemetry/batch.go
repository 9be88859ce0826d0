package telemetry

// SeriesCount returns the number of non-empty series in the batch.
func SeriesCount(b Batch) int {
	n := 0
	for _, points := range b {
		if len(points) > 0 {
			n++
		}
	}
	return n
}

// PointCount returns the total number of points across all series.
func PointCount(b Batch) int {
	n := 0
	for _, points := range b {
		n += len(points)
	}
	return n
}

// SpanMs returns the time span covered by the batch: max timestamp minus
// min timestamp across every point of every series. Returns 0 for an empty
// batch or a batch with a single distinct timestamp.
func SpanMs(b Batch) int64 {
	first := true
	var minTs, maxTs int64
	for _, points := range b {
		for _, p := range points {
			if first {
				minTs, maxTs = p.Ts, p.Ts
				first = false
				continue
			}
			if p.Ts < minTs {
				minTs = p.Ts
			}
			if p.Ts > maxTs {
				maxTs = p.Ts
			}
		}
	}
	if first {
		return 0
	}
	return maxTs - minTs
}

// DedupEntities returns entities deduplicated by (type, id), preserving
// first-seen order.
func DedupEntities(entities []Entity) []Entity {
	type key struct{ t, id string }
	seen := make(map[key]bool, len(entities))
	var out []Entity
	for _, e := range entities {
		k := key{e.Type, e.ID}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}

// DedupKeys returns telemetry key names deduplicated by name, preserving
// first-seen order. Blank names are dropped.
func DedupKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	var out []string
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
