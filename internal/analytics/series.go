package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

// Mode selects which transaction types a chart series carries.
type Mode string

const (
	ModeCredit Mode = "credit"
	ModeDebit  Mode = "debit"
	ModeHybrid Mode = "hybrid"
)

// ParseMode validates a user-supplied chart mode selector.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCredit, ModeDebit, ModeHybrid:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidArgument, s)
	}
}

// granularity is the bucket width of a trend series.
type granularity int

const (
	byDay granularity = iota
	byMonth
)

// granularityFor fixes the timeframe-to-bucket mapping: week and month
// timeframes bucket by day, a year timeframe buckets by month. Total over
// the supported timeframes.
func granularityFor(tf Timeframe) granularity {
	if tf == TimeframeYear {
		return byMonth
	}
	return byDay
}

// TrendDataset is one aligned value series of a trend chart.
type TrendDataset struct {
	Label  string            `json:"label"`
	Type   core.Type         `json:"type"`
	Values []decimal.Decimal `json:"values"`
}

// TrendSeries is a time-bucketed chart series. Labels and every dataset's
// values are index-aligned; buckets with no transactions are present with
// value zero so chart axes stay stable.
type TrendSeries struct {
	Labels   []string       `json:"labels"`
	Datasets []TrendDataset `json:"datasets"`
}

// CategoryDataset carries the values and slice colors of a category chart.
type CategoryDataset struct {
	Values []decimal.Decimal `json:"values"`
	Colors []string          `json:"colors"`
}

// CategorySeries is a category-bucketed chart series, ordered by descending
// total. Only categories with activity in the period appear.
type CategorySeries struct {
	Labels   []string          `json:"labels"`
	Datasets []CategoryDataset `json:"datasets"`
}

const (
	monthLabelLayout = "2006-01"
	creditLabel      = "Credits"
	debitLabel       = "Debits"
)

// bucketLabels enumerates every bucket label of the period, in order and
// with no gaps.
func bucketLabels(p Period, g granularity) []string {
	var labels []string
	switch g {
	case byMonth:
		for t := time.Date(p.Start.Year(), p.Start.Month(), 1, 0, 0, 0, 0, time.UTC); t.Before(p.End); t = t.AddDate(0, 1, 0) {
			labels = append(labels, t.Format(monthLabelLayout))
		}
	default:
		for t := p.Start; t.Before(p.End); t = t.AddDate(0, 0, 1) {
			labels = append(labels, core.DateOf(t).ISO())
		}
	}
	return labels
}

// bucketValues re-keys a per-day aggregation map onto the given labels,
// summing days into month buckets when needed. Missing buckets get zero.
func bucketValues(byDayMap map[string]decimal.Decimal, labels []string, g granularity) []decimal.Decimal {
	sums := make(map[string]decimal.Decimal, len(labels))
	for day, v := range byDayMap {
		key := day
		if g == byMonth {
			key = day[:len(monthLabelLayout)]
		}
		sums[key] = sums[key].Add(v)
	}

	values := make([]decimal.Decimal, len(labels))
	for i, label := range labels {
		values[i] = sums[label].Round(2)
	}
	return values
}

// BuildTrendSeries produces the time-bucketed totals for the timeframe's
// current period. Hybrid mode carries two datasets (credits first, then
// debits) aligned to the same labels, for stacked rendering.
//
// Unlike the period resolver this is strict: an unrecognized timeframe or
// mode is ErrInvalidArgument, never a silent default.
func BuildTrendSeries(txs []core.Transaction, tf Timeframe, mode Mode, ref time.Time) (TrendSeries, error) {
	if _, err := ParseTimeframe(string(tf)); err != nil {
		return TrendSeries{}, err
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return TrendSeries{}, err
	}

	current, _ := ResolvePeriods(tf, ref)
	agg, err := Aggregate(txs, current)
	if err != nil {
		return TrendSeries{}, err
	}

	g := granularityFor(tf)
	labels := bucketLabels(current, g)

	series := TrendSeries{Labels: labels}
	if mode == ModeCredit || mode == ModeHybrid {
		series.Datasets = append(series.Datasets, TrendDataset{
			Label:  creditLabel,
			Type:   core.Credit,
			Values: bucketValues(agg.CreditByDay, labels, g),
		})
	}
	if mode == ModeDebit || mode == ModeHybrid {
		series.Datasets = append(series.Datasets, TrendDataset{
			Label:  debitLabel,
			Type:   core.Debit,
			Values: bucketValues(agg.DebitByDay, labels, g),
		})
	}
	return series, nil
}

// BuildCategorySeries reduces the timeframe's current period to one bucket
// per category with activity, sorted by descending total with ties broken
// by name so legend order and colors stay stable across renders.
func BuildCategorySeries(txs []core.Transaction, tf Timeframe, mode Mode, ref time.Time) (CategorySeries, error) {
	if _, err := ParseTimeframe(string(tf)); err != nil {
		return CategorySeries{}, err
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return CategorySeries{}, err
	}

	current, _ := ResolvePeriods(tf, ref)
	agg, err := Aggregate(txs, current)
	if err != nil {
		return CategorySeries{}, err
	}

	type bucket struct {
		name   string
		total  decimal.Decimal
		credit bool
	}
	var buckets []bucket
	if mode == ModeDebit || mode == ModeHybrid {
		for name, total := range agg.DebitByCategory {
			buckets = append(buckets, bucket{name: name, total: total})
		}
	}
	if mode == ModeCredit || mode == ModeHybrid {
		for name, total := range agg.CreditByCategory {
			buckets = append(buckets, bucket{name: name, total: total, credit: true})
		}
	}

	sort.Slice(buckets, func(i, j int) bool {
		if !buckets[i].total.Equal(buckets[j].total) {
			return buckets[i].total.GreaterThan(buckets[j].total)
		}
		return buckets[i].name < buckets[j].name
	})

	ds := CategoryDataset{
		Values: make([]decimal.Decimal, 0, len(buckets)),
		Colors: make([]string, 0, len(buckets)),
	}
	labels := make([]string, 0, len(buckets))
	for _, b := range buckets {
		labels = append(labels, b.name)
		ds.Values = append(ds.Values, b.total.Round(2))
		ds.Colors = append(ds.Colors, categoryColor(b.name, b.credit))
	}

	return CategorySeries{Labels: labels, Datasets: []CategoryDataset{ds}}, nil
}
