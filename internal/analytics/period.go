// Package analytics is the transaction aggregation engine: it turns a
// snapshot of dated, typed, categorized transactions into period summaries
// with period-over-period deltas, per-day and per-category extrema, and
// gap-filled chart series.
//
// Every function is a pure function of its inputs plus an injected reference
// time. Nothing here blocks, retains state, or mutates its input; concurrent
// calls need no coordination. Given the same snapshot and reference time the
// output is reproducible byte for byte.
package analytics

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"

	"ledger/internal/core"
)

// Timeframe selects the aggregation window.
type Timeframe string

const (
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
)

// ParseTimeframe validates a user-supplied timeframe selector. Unlike
// ResolvePeriods it is strict: callers that must not fall back (the series
// builders, HTTP handlers) use this.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case TimeframeWeek, TimeframeMonth, TimeframeYear:
		return Timeframe(s), nil
	default:
		return "", fmt.Errorf("%w: unknown timeframe %q", ErrInvalidArgument, s)
	}
}

// Period is a half-open date range [Start, End) at day granularity.
// Start and End are always UTC midnights.
type Period struct {
	Start time.Time
	End   time.Time
}

// Days returns the period length in calendar days.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours() / 24)
}

// Contains reports whether the date falls inside the period:
// inclusive start, exclusive end.
func (p Period) Contains(d core.Date) bool {
	return !d.Before(p.Start) && d.Before(p.End)
}

// ResolvePeriods computes the current window for the timeframe and the
// immediately preceding comparison window. The two are contiguous and of
// equal length: the comparison window ends the day before the current one
// starts.
//
//	week:  trailing 7 days ending on the reference date
//	month: first of month through the reference date
//	year:  first of year through the reference date
//
// The comparison window tracks the selected timeframe (week-over-week when
// timeframe is week, and so on). An unrecognized timeframe resolves as
// month; the resolver is total and never fails. Callers that need strict
// validation use ParseTimeframe first.
func ResolvePeriods(tf Timeframe, ref time.Time) (current, previous Period) {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	end := day.AddDate(0, 0, 1) // include the reference date itself

	var start time.Time
	switch tf {
	case TimeframeWeek:
		start = day.AddDate(0, 0, -6)
	case TimeframeYear:
		start = now.New(day).BeginningOfYear()
	default:
		start = now.New(day).BeginningOfMonth()
	}

	current = Period{Start: start, End: end}
	previous = Period{Start: start.AddDate(0, 0, -current.Days()), End: start}
	return current, previous
}
