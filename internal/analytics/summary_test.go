package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name string
		cur  string
		prev string
		want string
	}{
		{name: "zero to zero", cur: "0", prev: "0", want: "0"},
		{name: "zero baseline counts as full increase", cur: "50", prev: "0", want: "100"},
		{name: "regular increase", cur: "50", prev: "40", want: "25"},
		{name: "regular decrease", cur: "30", prev: "40", want: "-25"},
		{name: "rounded to one decimal", cur: "100", prev: "30", want: "233.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := percentChange(decimal.RequireFromString(tt.cur), decimal.RequireFromString(tt.prev))
			if got.String() != tt.want {
				t.Errorf("percentChange(%s, %s) = %s, want %s", tt.cur, tt.prev, got, tt.want)
			}
		})
	}
}

func TestBuildSummary_BasicMonth(t *testing.T) {
	txs := []core.Transaction{
		tx("2024-01-01", "100", "Salary", core.Credit),
		tx("2024-01-02", "40", "Food & Dining", core.Debit),
	}
	ref := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	s, err := BuildSummary(txs, TimeframeMonth, ref)
	if err != nil {
		t.Fatalf("BuildSummary: %v", err)
	}

	if s.TotalCredits.String() != "100" {
		t.Errorf("total_credits = %s, want 100", s.TotalCredits)
	}
	if s.TotalDebits.String() != "40" {
		t.Errorf("total_debits = %s, want 40", s.TotalDebits)
	}
	if s.NetBalance.String() != "60" {
		t.Errorf("net_balance = %s, want 60", s.NetBalance)
	}
	// 40 spent over a 15-day month-to-date window.
	if s.DailyAverage.String() != "2.67" {
		t.Errorf("daily_average = %s, want 2.67", s.DailyAverage)
	}

	if s.HighestCreditDay == nil || s.HighestCreditDay.Key != "2024-01-01" || s.HighestCreditDay.Amount.String() != "100" {
		t.Errorf("highest_credit_day = %+v, want {2024-01-01 100}", s.HighestCreditDay)
	}
	if s.HighestDebitCategory == nil || s.HighestDebitCategory.Key != "Food & Dining" || s.HighestDebitCategory.Amount.String() != "40" {
		t.Errorf("highest_debit_category = %+v, want {Food & Dining 40}", s.HighestDebitCategory)
	}

	// Previous period had no activity at all: every delta is a full increase.
	if s.PercentChangeCredits.String() != "100" {
		t.Errorf("percent_change_credits = %s, want 100", s.PercentChangeCredits)
	}
	if s.PercentChangeDebits.String() != "100" {
		t.Errorf("percent_change_debits = %s, want 100", s.PercentChangeDebits)
	}
}

func TestBuildSummary_EmptySnapshot(t *testing.T) {
	ref := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	s, err := BuildSummary(nil, TimeframeMonth, ref)
	if err != nil {
		t.Fatalf("BuildSummary: %v", err)
	}

	for name, v := range map[string]decimal.Decimal{
		"total_credits":  s.TotalCredits,
		"total_debits":   s.TotalDebits,
		"net_balance":    s.NetBalance,
		"daily_average":  s.DailyAverage,
		"percent_change": s.PercentChangeBalance,
	} {
		if !v.IsZero() {
			t.Errorf("%s = %s, want 0", name, v)
		}
	}
	if s.HighestDebitDay != nil || s.HighestCreditDay != nil ||
		s.HighestDebitCategory != nil || s.HighestCreditCategory != nil {
		t.Error("highest_* fields should be absent for an empty snapshot")
	}
}

func TestBuildSummary_PeriodOverPeriodDelta(t *testing.T) {
	// Previous window (Dec 17 - Dec 31) has 40 of spend, current has 50.
	txs := []core.Transaction{
		tx("2023-12-20", "40", "Transport", core.Debit),
		tx("2024-01-10", "50", "Transport", core.Debit),
	}
	ref := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	s, err := BuildSummary(txs, TimeframeMonth, ref)
	if err != nil {
		t.Fatalf("BuildSummary: %v", err)
	}

	if s.TotalDebits.String() != "50" {
		t.Errorf("total_debits = %s, want 50", s.TotalDebits)
	}
	if s.PercentChangeDebits.String() != "25" {
		t.Errorf("percent_change_debits = %s, want 25", s.PercentChangeDebits)
	}
}

func TestBuildSummary_BalanceIdentity(t *testing.T) {
	txs := []core.Transaction{
		tx("2024-01-03", "123.45", "Salary", core.Credit),
		tx("2024-01-04", "67.89", "Shopping", core.Debit),
		tx("2024-01-04", "0.11", "Health", core.Debit),
	}
	ref := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	s, err := BuildSummary(txs, TimeframeMonth, ref)
	if err != nil {
		t.Fatalf("BuildSummary: %v", err)
	}

	if !s.NetBalance.Equal(s.TotalCredits.Sub(s.TotalDebits)) {
		t.Errorf("net_balance %s != total_credits %s - total_debits %s",
			s.NetBalance, s.TotalCredits, s.TotalDebits)
	}
	if s.TotalCredits.Sign() < 0 || s.TotalDebits.Sign() < 0 || s.DailyAverage.Sign() < 0 {
		t.Error("totals and daily average must never be negative")
	}
}

func TestBuildSummary_Deterministic(t *testing.T) {
	txs := []core.Transaction{
		tx("2024-01-01", "100", "Salary", core.Credit),
		tx("2024-01-02", "40", "Food & Dining", core.Debit),
		tx("2024-01-02", "12.50", "Transport", core.Debit),
		tx("2023-12-28", "99.99", "Freelance", core.Credit),
	}
	ref := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	first, err := BuildSummary(txs, TimeframeMonth, ref)
	if err != nil {
		t.Fatalf("BuildSummary: %v", err)
	}
	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	for i := 0; i < 10; i++ {
		again, err := BuildSummary(txs, TimeframeMonth, ref)
		if err != nil {
			t.Fatalf("BuildSummary: %v", err)
		}
		b, err := json.Marshal(again)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if string(a) != string(b) {
			t.Fatalf("summary not reproducible:\n%s\n%s", a, b)
		}
	}
}

func TestBuildSummary_JSONFieldNames(t *testing.T) {
	txs := []core.Transaction{
		tx("2024-01-02", "40", "Food & Dining", core.Debit),
	}
	ref := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	s, err := BuildSummary(txs, TimeframeMonth, ref)
	if err != nil {
		t.Fatalf("BuildSummary: %v", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, field := range []string{
		"total_credits", "total_debits", "net_balance", "daily_average",
		"percent_change_credits", "percent_change_debits",
		"percent_change_balance", "percent_change_daily",
		"highest_debit_day", "highest_debit_category",
	} {
		if _, ok := decoded[field]; !ok {
			t.Errorf("summary JSON missing field %q", field)
		}
	}
	if _, ok := decoded["highest_credit_day"]; ok {
		t.Error("highest_credit_day should be omitted when there are no credits")
	}
}
