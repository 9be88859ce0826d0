// Package timerange maps a user-selected range preset to absolute
// millisecond timestamps using calendar-aware arithmetic in the location of
// the reference time.
package timerange

import (
	"fmt"
	"time"
)

// TimeRange is a resolved reporting window. StartTs <= EndTs always holds.
// Values are immutable; every planning cycle recomputes a fresh one.
type TimeRange struct {
	Label   string `json:"label"`
	StartTs int64  `json:"startTs"`
	EndTs   int64  `json:"endTs"`

	// loc is the zone the range was resolved in, carried so the planner
	// can snap to calendar boundaries in the same zone. Not part of the
	// wire form.
	loc *time.Location
}

// Location returns the time zone the range was resolved in.
func (r TimeRange) Location() *time.Location {
	if r.loc == nil {
		return time.UTC
	}
	return r.loc
}

// SpanHours returns the range length in hours.
func (r TimeRange) SpanHours() float64 {
	return float64(r.EndTs-r.StartTs) / float64(time.Hour/time.Millisecond)
}

// SpanDays returns the range length in days.
func (r TimeRange) SpanDays() float64 {
	return r.SpanHours() / 24
}

// Resolve maps a preset plus the custom day/month values to an absolute
// range ending at (or just before) now. It is a pure function of its
// inputs: same preset, values and now always produce the same range.
// An unknown preset resolves as Last60d; Resolve never fails.
func Resolve(preset Preset, customDays, customMonths int, now time.Time) TimeRange {
	loc := now.Location()

	switch preset {
	case Last24h:
		return lastNDays(now, 1, "Last 24 hours")
	case Last7d:
		return lastNDays(now, 7, "Last 7 days")
	case Last30d:
		return lastNDays(now, 30, "Last 30 days")
	case Last60d:
		return lastNDays(now, 60, "Last 60 days")
	case ThisYear:
		start := yearStart(now, 0)
		return newRange("This year", start.UnixMilli(), now.UnixMilli(), loc)
	case LastYear:
		// Closes one millisecond before the current year starts, so the
		// two year ranges can never overlap.
		start := yearStart(now, -1)
		end := yearStart(now, 0).UnixMilli() - 1
		return newRange("Last year", start.UnixMilli(), end, loc)
	case LastMonth:
		return lastNMonths(now, 1, "Last month")
	case Last3Months:
		return lastNMonths(now, 3, "Last 3 months")
	case CustomDays:
		d := clampInt(customDays, MinCustomDays, MaxCustomDays)
		return lastNDays(now, d, fmt.Sprintf("Last %d days", d))
	case CustomMonths:
		m := clampInt(customMonths, MinCustomMonths, MaxCustomMonths)
		return lastNMonths(now, m, fmt.Sprintf("Last %d months", m))
	default:
		return lastNDays(now, 60, "Last 60 days")
	}
}

func newRange(label string, startTs, endTs int64, loc *time.Location) TimeRange {
	return TimeRange{Label: label, StartTs: startTs, EndTs: endTs, loc: loc}
}

func lastNDays(now time.Time, days int, label string) TimeRange {
	end := now.UnixMilli()
	start := end - int64(days)*24*int64(time.Hour/time.Millisecond)
	return newRange(label, start, end, now.Location())
}

// lastNMonths resolves to [first instant of the month n months back,
// one millisecond before the start of the current month].
func lastNMonths(now time.Time, n int, label string) TimeRange {
	start := monthStart(now, -n)
	end := monthStart(now, 0).UnixMilli() - 1
	return newRange(label, start.UnixMilli(), end, now.Location())
}

// monthStart returns the first instant of the month `offset` months away
// from now's month. Negative offsets underflow across year boundaries by
// repeated decrement-and-wrap rather than time.AddDate, whose day-overflow
// normalization is unwanted here.
func monthStart(now time.Time, offset int) time.Time {
	year, month := now.Year(), int(now.Month())
	for offset < 0 {
		month--
		if month < 1 {
			month = 12
			year--
		}
		offset++
	}
	for offset > 0 {
		month++
		if month > 12 {
			month = 1
			year++
		}
		offset--
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, now.Location())
}

// yearStart returns the first instant of now's year plus offset years.
func yearStart(now time.Time, offset int) time.Time {
	return time.Date(now.Year()+offset, time.January, 1, 0, 0, 0, 0, now.Location())
}
