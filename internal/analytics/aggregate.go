package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

// Aggregation holds the per-day and per-category running sums for one
// period, separated by type. Day keys are ISO dates (2006-01-02), so their
// lexical order is chronological. Built fresh per call and never shared.
type Aggregation struct {
	DebitByDay       map[string]decimal.Decimal
	CreditByDay      map[string]decimal.Decimal
	DebitByCategory  map[string]decimal.Decimal
	CreditByCategory map[string]decimal.Decimal
}

// Aggregate filters the snapshot to the period (inclusive start, exclusive
// end), partitions by type, and accumulates amounts keyed by date and,
// separately, by category.
//
// A non-positive amount is a contract violation upstream should have caught;
// it surfaces as ErrInvalidArgument rather than corrupting the totals.
func Aggregate(txs []core.Transaction, p Period) (Aggregation, error) {
	agg := Aggregation{
		DebitByDay:       make(map[string]decimal.Decimal),
		CreditByDay:      make(map[string]decimal.Decimal),
		DebitByCategory:  make(map[string]decimal.Decimal),
		CreditByCategory: make(map[string]decimal.Decimal),
	}

	for _, tx := range txs {
		if !p.Contains(tx.Date) {
			continue
		}
		if tx.Amount.Sign() <= 0 {
			return Aggregation{}, fmt.Errorf("%w: transaction %s has non-positive amount %s",
				ErrInvalidArgument, tx.ID, tx.Amount)
		}

		day := tx.Date.ISO()
		switch tx.Type {
		case core.Credit:
			agg.CreditByDay[day] = agg.CreditByDay[day].Add(tx.Amount)
			agg.CreditByCategory[tx.Category] = agg.CreditByCategory[tx.Category].Add(tx.Amount)
		default:
			agg.DebitByDay[day] = agg.DebitByDay[day].Add(tx.Amount)
			agg.DebitByCategory[tx.Category] = agg.DebitByCategory[tx.Category].Add(tx.Amount)
		}
	}

	return agg, nil
}

// sumValues totals all bucket values of one aggregation map.
func sumValues(m map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range m {
		total = total.Add(v)
	}
	return total
}
