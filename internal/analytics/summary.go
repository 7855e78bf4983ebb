package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

// Summary is the full dashboard summary for one timeframe: current-period
// totals, the period-over-period percentage deltas, and the four "highest"
// facts. Field names are the wire contract consumed by the UI.
type Summary struct {
	TotalCredits decimal.Decimal `json:"total_credits"`
	TotalDebits  decimal.Decimal `json:"total_debits"`
	NetBalance   decimal.Decimal `json:"net_balance"`
	DailyAverage decimal.Decimal `json:"daily_average"`

	PercentChangeCredits decimal.Decimal `json:"percent_change_credits"`
	PercentChangeDebits  decimal.Decimal `json:"percent_change_debits"`
	PercentChangeBalance decimal.Decimal `json:"percent_change_balance"`
	PercentChangeDaily   decimal.Decimal `json:"percent_change_daily"`

	HighestDebitDay       *Extremum `json:"highest_debit_day,omitempty"`
	HighestCreditDay      *Extremum `json:"highest_credit_day,omitempty"`
	HighestDebitCategory  *Extremum `json:"highest_debit_category,omitempty"`
	HighestCreditCategory *Extremum `json:"highest_credit_category,omitempty"`
}

var hundred = decimal.NewFromInt(100)

// percentChange computes (cur-prev)/prev*100, rounded to one decimal place.
// A zero baseline is defined, not a division error: zero to zero is 0,
// zero to anything else counts as a full 100% increase.
func percentChange(cur, prev decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		if cur.IsZero() {
			return decimal.Zero
		}
		return hundred
	}
	return cur.Sub(prev).Div(prev).Mul(hundred).Round(1)
}

// BuildSummary aggregates the snapshot over the current and comparison
// windows for the timeframe and assembles the summary. Pure function of its
// inputs and the injected reference time.
func BuildSummary(txs []core.Transaction, tf Timeframe, ref time.Time) (Summary, error) {
	current, previous := ResolvePeriods(tf, ref)

	cur, err := Aggregate(txs, current)
	if err != nil {
		return Summary{}, err
	}
	prev, err := Aggregate(txs, previous)
	if err != nil {
		return Summary{}, err
	}

	curCredits := sumValues(cur.CreditByDay)
	curDebits := sumValues(cur.DebitByDay)
	prevCredits := sumValues(prev.CreditByDay)
	prevDebits := sumValues(prev.DebitByDay)

	curBalance := curCredits.Sub(curDebits)
	prevBalance := prevCredits.Sub(prevDebits)

	curDays := decimal.NewFromInt(int64(max(1, current.Days())))
	prevDays := decimal.NewFromInt(int64(max(1, previous.Days())))
	curDaily := curDebits.Div(curDays).Round(2)
	prevDaily := prevDebits.Div(prevDays).Round(2)

	s := Summary{
		TotalCredits: curCredits.Round(2),
		TotalDebits:  curDebits.Round(2),
		NetBalance:   curBalance.Round(2),
		DailyAverage: curDaily,

		PercentChangeCredits: percentChange(curCredits, prevCredits),
		PercentChangeDebits:  percentChange(curDebits, prevDebits),
		PercentChangeBalance: percentChange(curBalance, prevBalance),
		PercentChangeDaily:   percentChange(curDaily, prevDaily),
	}

	if e, ok := FindMax(cur.DebitByDay); ok {
		s.HighestDebitDay = &e
	}
	if e, ok := FindMax(cur.CreditByDay); ok {
		s.HighestCreditDay = &e
	}
	if e, ok := FindMax(cur.DebitByCategory); ok {
		s.HighestDebitCategory = &e
	}
	if e, ok := FindMax(cur.CreditByCategory); ok {
		s.HighestCreditCategory = &e
	}

	return s, nil
}
