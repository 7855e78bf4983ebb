// Package core defines the ledger's domain types: transactions, calendar
// dates, the fixed category taxonomy, and amount parsing.
//
// Amounts are decimal values, never floats. Parsing accepts both dot
// (12.34) and comma (12,34) separators and rounds half-up past the
// second decimal place.
package core

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-supplied decimal string to a positive amount.
//
// Returns ErrInvalidAmount for malformed input, negative values, or zero.
// Sign prefixes are rejected outright: direction belongs to the transaction
// type, not the amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, fmt.Errorf("%w: signed amount %q", ErrInvalidAmount, s)
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d = d.Round(2)
	if d.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	return d, nil
}
