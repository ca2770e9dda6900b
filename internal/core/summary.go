package core

import "fmt"

// CategoryTotal represents an amount aggregated by category name.
type CategoryTotal struct {
	Category string
	Total    Money
}

// MonthlySummary is the income/expense balance of one user for one month.
type MonthlySummary struct {
	UserID  int64
	Month   string
	Income  Money
	Expense Money
	Savings Money
}

// NewMonthlySummary derives savings from the two sums. Savings may be negative.
func NewMonthlySummary(userID int64, month string, income, expense Money) MonthlySummary {
	return MonthlySummary{
		UserID:  userID,
		Month:   month,
		Income:  income,
		Expense: expense,
		Savings: income.Sub(expense),
	}
}

// BudgetCheck is the outcome of comparing a month's spend with its budget.
// Found is false when no budget row matches; Limit and Spent are then zero.
type BudgetCheck struct {
	UserID   int64
	Category string
	Month    string
	Found    bool
	Limit    Money
	Spent    Money
}

// Exceeded reports whether spend is strictly above the limit.
func (b BudgetCheck) Exceeded() bool {
	return b.Found && b.Spent.GreaterThan(b.Limit)
}

// AlertMessage is the warning shown when a budget is exceeded.
func (b BudgetCheck) AlertMessage() string {
	return fmt.Sprintf("Alert! You exceeded budget for %s. Limit: %s, Spent: %s", b.Category, b.Limit, b.Spent)
}
