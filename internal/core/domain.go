package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO day format used for expense and income dates.
const DateLayout = "2006-01-02"

type (
	User struct {
		ID    int64
		Name  string
		Email string
	}

	Money struct {
		Cents int64
	}

	Expense struct {
		ID          int64
		UserID      int64
		Category    string
		Amount      Money
		Date        string // YYYY-MM-DD
		Description string
	}

	// ExpenseView is an expense joined with the owning user's name.
	ExpenseView struct {
		Expense
		UserName string
	}

	Budget struct {
		ID           int64
		UserID       int64
		Category     string
		MonthlyLimit Money
		Month        string // YYYY-MM
	}

	BudgetView struct {
		Budget
		UserName string
	}

	Income struct {
		ID     int64
		UserID int64
		Amount Money
		Date   string
		Source string
	}

	IncomeView struct {
		Income
		UserName string
	}

	// SearchFilter narrows a user's expenses. Empty fields impose no constraint.
	SearchFilter struct {
		UserID    int64
		Category  string
		StartDate string
		EndDate   string
	}
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidID      = errors.New("invalid id")
	ErrDuplicateEmail = errors.New("email already registered")
)

// ParseID coerces user input into a row id.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}

// DefaultDate returns date unchanged, or today's date when it is blank.
func DefaultDate(date string, now time.Time) string {
	if strings.TrimSpace(date) == "" {
		return now.Format(DateLayout)
	}
	return date
}

// MonthOf returns the YYYY-MM month key of an ISO date. Shorter strings are
// returned whole.
func MonthOf(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}
