package core

import "testing"

func TestNewMonthlySummarySavings(t *testing.T) {
	cases := []struct {
		income, expense, savings int64
	}{
		{0, 0, 0},
		{100000, 25050, 74950},
		{0, 1000, -1000},
		{5000, 0, 5000},
	}
	for _, tc := range cases {
		s := NewMonthlySummary(1, "2025-01", Money{Cents: tc.income}, Money{Cents: tc.expense})
		if s.Savings.Cents != tc.savings {
			t.Fatalf("income %d expense %d: savings %d, want %d", tc.income, tc.expense, s.Savings.Cents, tc.savings)
		}
	}
}

func TestBudgetCheckExceeded(t *testing.T) {
	cases := []struct {
		name  string
		check BudgetCheck
		want  bool
	}{
		{"no budget", BudgetCheck{Spent: Money{Cents: 500}}, false},
		{"under", BudgetCheck{Found: true, Limit: Money{Cents: 1000}, Spent: Money{Cents: 999}}, false},
		{"equal", BudgetCheck{Found: true, Limit: Money{Cents: 1000}, Spent: Money{Cents: 1000}}, false},
		{"over", BudgetCheck{Found: true, Limit: Money{Cents: 1000}, Spent: Money{Cents: 1001}}, true},
	}
	for _, tc := range cases {
		if got := tc.check.Exceeded(); got != tc.want {
			t.Fatalf("%s: Exceeded() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestBudgetCheckAlertMessage(t *testing.T) {
	b := BudgetCheck{Category: "Food", Found: true, Limit: Money{Cents: 10000}, Spent: Money{Cents: 12050}}
	want := "Alert! You exceeded budget for Food. Limit: 100.00, Spent: 120.50"
	if got := b.AlertMessage(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
