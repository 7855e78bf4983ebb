package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Extremum is the maximum-valued bucket of an aggregation map.
type Extremum struct {
	Key    string          `json:"key"`
	Amount decimal.Decimal `json:"amount"`
}

// FindMax returns the entry with the strictly greatest value. The second
// return is false for an empty map. Ties break to the first key in
// ascending lexical order, independent of map iteration order.
func FindMax(m map[string]decimal.Decimal) (Extremum, bool) {
	if len(m) == 0 {
		return Extremum{}, false
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := Extremum{Key: keys[0], Amount: m[keys[0]]}
	for _, k := range keys[1:] {
		if m[k].GreaterThan(best.Amount) {
			best = Extremum{Key: k, Amount: m[k]}
		}
	}
	best.Amount = best.Amount.Round(2)
	return best, true
}
