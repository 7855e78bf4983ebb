package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Type is the direction of a transaction. Amounts are always positive;
// direction is carried here, never by a negative amount.
type Type string

const (
	Credit Type = "credit"
	Debit  Type = "debit"
)

// Category sets are fixed. Membership determines the valid type pairing:
// credit categories pair with Credit, debit categories with Debit.
var (
	DebitCategories = []string{
		"Food & Dining",
		"Transport",
		"Shopping",
		"Bills & Utilities",
		"Education / Learning",
		"Household and Transfers",
		"Entertainment",
		"Health",
		"Miscellaneous",
	}

	CreditCategories = []string{
		"Salary",
		"Freelance",
		"Refunds/Cashbacks",
		"Other Income",
	}
)

var (
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidType          = errors.New("invalid transaction type")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrCategoryTypeMismatch = errors.New("category does not match transaction type")
)

// Date is a calendar date with no time-of-day component, normalized to UTC
// midnight. Its ISO string form sorts lexically in chronological order.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date in UTC.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), int(u.Month()), u.Day())
}

// ParseDate parses an ISO calendar date (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t.UTC()}, nil
}

// ISO returns the date formatted as 2006-01-02.
func (d Date) ISO() string {
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.ISO())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateRange is a half-open calendar window [From, To).
type DateRange struct {
	From Date
	To   Date
}

// Transaction is an immutable dated monetary movement.
type Transaction struct {
	ID       string          `json:"id"`
	Date     Date            `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Type     Type            `json:"type"`
}

func (t Type) Validate() error {
	switch t {
	case Credit, Debit:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidType, string(t))
	}
}

// CategoriesFor returns the category set paired with the given type.
func CategoriesFor(t Type) []string {
	if t == Credit {
		return CreditCategories
	}
	return DebitCategories
}

func containsCategory(set []string, name string) bool {
	for _, c := range set {
		if c == name {
			return true
		}
	}
	return false
}

func (tx Transaction) Validate() error {
	if err := tx.Date.Validate(); err != nil {
		return err
	}
	if tx.Amount.Sign() <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, tx.Amount)
	}
	if err := tx.Type.Validate(); err != nil {
		return err
	}
	if !containsCategory(DebitCategories, tx.Category) && !containsCategory(CreditCategories, tx.Category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, tx.Category)
	}
	if !containsCategory(CategoriesFor(tx.Type), tx.Category) {
		return fmt.Errorf("%w: %q is not a %s category", ErrCategoryTypeMismatch, tx.Category, tx.Type)
	}
	return nil
}
