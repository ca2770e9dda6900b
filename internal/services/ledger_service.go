package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ledger/internal/core"
	"ledger/internal/log"
)

// Store is the persistence the ledger needs. storage.SQLiteRepository implements it.
type Store interface {
	CreateUser(ctx context.Context, name, email string) (core.User, error)
	ListUsers(ctx context.Context) ([]core.User, error)

	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	ListExpenses(ctx context.Context) ([]core.ExpenseView, error)
	UpdateExpense(ctx context.Context, e core.Expense) (int64, error)
	DeleteExpense(ctx context.Context, id int64) (int64, error)

	CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	ListBudgets(ctx context.Context) ([]core.BudgetView, error)

	CreateIncome(ctx context.Context, in core.Income) (core.Income, error)
	ListIncome(ctx context.Context) ([]core.IncomeView, error)

	CategoryTotals(ctx context.Context, userID int64, month string) ([]core.CategoryTotal, error)
	MonthTotals(ctx context.Context, userID int64, month string) (income, expense core.Money, err error)
	BudgetLimit(ctx context.Context, userID int64, category, month string) (core.Money, bool, error)
	CategorySpend(ctx context.Context, userID int64, category, month string) (core.Money, error)
	SearchExpenses(ctx context.Context, f core.SearchFilter) ([]core.Expense, error)
}

// AlertPublisher receives budget checks that exceeded their limit.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, check core.BudgetCheck) error
}

type (
	AddUserRequest struct {
		Name  string
		Email string
	}

	AddExpenseRequest struct {
		UserID      int64
		Category    string
		Amount      core.Money
		Date        string // blank means today
		Description string
	}

	UpdateExpenseRequest struct {
		ID          int64
		Category    string
		Amount      core.Money
		Date        string // blank means today
		Description string
	}

	AddBudgetRequest struct {
		UserID       int64
		Category     string
		MonthlyLimit core.Money
		Month        string
	}

	AddIncomeRequest struct {
		UserID int64
		Amount core.Money
		Date   string // blank means today
		Source string
	}
)

// LedgerService runs record operations and reports against a Store
type LedgerService struct {
	store  Store
	alerts AlertPublisher
	now    func() time.Time
}

type Option func(*LedgerService)

// WithAlertPublisher forwards exceeded budget checks to p
func WithAlertPublisher(p AlertPublisher) Option {
	return func(s *LedgerService) { s.alerts = p }
}

// WithClock overrides the clock used to fill blank dates
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

func NewLedgerService(store Store, opts ...Option) *LedgerService {
	s := &LedgerService{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LedgerService) AddUser(ctx context.Context, req AddUserRequest) (core.User, error) {
	u, err := s.store.CreateUser(ctx, req.Name, req.Email)
	if err != nil {
		return core.User{}, fmt.Errorf("add user: %w", err)
	}
	return u, nil
}

func (s *LedgerService) ListUsers(ctx context.Context) ([]core.User, error) {
	return s.store.ListUsers(ctx)
}

// AddExpense stores the expense and then evaluates the budget for its
// category and month. The returned check has Found=false when no budget is
// configured. A failed check does not undo the insert.
func (s *LedgerService) AddExpense(ctx context.Context, req AddExpenseRequest) (core.Expense, core.BudgetCheck, error) {
	e, err := s.store.CreateExpense(ctx, core.Expense{
		UserID:      req.UserID,
		Category:    req.Category,
		Amount:      req.Amount,
		Date:        core.DefaultDate(req.Date, s.now()),
		Description: req.Description,
	})
	if err != nil {
		return core.Expense{}, core.BudgetCheck{}, fmt.Errorf("add expense: %w", err)
	}

	check, err := s.CheckBudget(ctx, e.UserID, e.Category, core.MonthOf(e.Date))
	if err != nil {
		return e, core.BudgetCheck{}, fmt.Errorf("check budget after expense %d: %w", e.ID, err)
	}
	return e, check, nil
}

func (s *LedgerService) ListExpenses(ctx context.Context) ([]core.ExpenseView, error) {
	return s.store.ListExpenses(ctx)
}

// UpdateExpense returns the number of rows changed; 0 means no such id.
func (s *LedgerService) UpdateExpense(ctx context.Context, req UpdateExpenseRequest) (int64, error) {
	n, err := s.store.UpdateExpense(ctx, core.Expense{
		ID:          req.ID,
		Category:    req.Category,
		Amount:      req.Amount,
		Date:        core.DefaultDate(req.Date, s.now()),
		Description: req.Description,
	})
	if err != nil {
		return 0, fmt.Errorf("update expense: %w", err)
	}
	return n, nil
}

// DeleteExpense returns the number of rows removed; 0 means no such id.
func (s *LedgerService) DeleteExpense(ctx context.Context, id int64) (int64, error) {
	n, err := s.store.DeleteExpense(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete expense: %w", err)
	}
	return n, nil
}

func (s *LedgerService) AddBudget(ctx context.Context, req AddBudgetRequest) (core.Budget, error) {
	b, err := s.store.CreateBudget(ctx, core.Budget{
		UserID:       req.UserID,
		Category:     req.Category,
		MonthlyLimit: req.MonthlyLimit,
		Month:        req.Month,
	})
	if err != nil {
		return core.Budget{}, fmt.Errorf("add budget: %w", err)
	}
	return b, nil
}

func (s *LedgerService) ListBudgets(ctx context.Context) ([]core.BudgetView, error) {
	return s.store.ListBudgets(ctx)
}

func (s *LedgerService) AddIncome(ctx context.Context, req AddIncomeRequest) (core.Income, error) {
	in, err := s.store.CreateIncome(ctx, core.Income{
		UserID: req.UserID,
		Amount: req.Amount,
		Date:   core.DefaultDate(req.Date, s.now()),
		Source: req.Source,
	})
	if err != nil {
		return core.Income{}, fmt.Errorf("add income: %w", err)
	}
	return in, nil
}

func (s *LedgerService) ListIncome(ctx context.Context) ([]core.IncomeView, error) {
	return s.store.ListIncome(ctx)
}

// CategoryReport sums the user's expenses per category for month (YYYY-MM).
func (s *LedgerService) CategoryReport(ctx context.Context, userID int64, month string) ([]core.CategoryTotal, error) {
	totals, err := s.store.CategoryTotals(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("category report: %w", err)
	}
	return totals, nil
}

func (s *LedgerService) MonthlySummary(ctx context.Context, userID int64, month string) (core.MonthlySummary, error) {
	income, expense, err := s.store.MonthTotals(ctx, userID, month)
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("monthly summary: %w", err)
	}
	return core.NewMonthlySummary(userID, month, income, expense), nil
}

// CheckBudget compares the month's spend in category with the budget for
// the exact (user, category, month). Without a budget it returns
// Found=false and does nothing else. An exceeded budget is published when
// a publisher is configured; publish failures are only logged.
func (s *LedgerService) CheckBudget(ctx context.Context, userID int64, category, month string) (core.BudgetCheck, error) {
	check := core.BudgetCheck{UserID: userID, Category: category, Month: month}

	limit, found, err := s.store.BudgetLimit(ctx, userID, category, month)
	if err != nil {
		return check, fmt.Errorf("check budget: %w", err)
	}
	if !found {
		return check, nil
	}

	spent, err := s.store.CategorySpend(ctx, userID, category, month)
	if err != nil {
		return check, fmt.Errorf("check budget: %w", err)
	}
	check.Found = true
	check.Limit = limit
	check.Spent = spent

	if check.Exceeded() {
		fields := log.NewFields().
			WithComponent(log.ComponentLedger).
			WithOperation(log.OpAlert).
			WithBudget(userID, category, month, limit.Cents, spent.Cents)
		slog.WarnContext(ctx, "Budget exceeded", fields.ToSlice()...)

		if s.alerts != nil {
			if err := s.alerts.PublishBudgetAlert(ctx, check); err != nil {
				slog.ErrorContext(ctx, "Failed to publish budget alert",
					log.FieldUserID, userID, log.FieldCategory, category, log.FieldError, err)
			}
		}
	}

	return check, nil
}

func (s *LedgerService) Search(ctx context.Context, f core.SearchFilter) ([]core.Expense, error) {
	out, err := s.store.SearchExpenses(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return out, nil
}

// ExpensesByUser returns all of a user's expenses in store order.
func (s *LedgerService) ExpensesByUser(ctx context.Context, userID int64) ([]core.Expense, error) {
	return s.Search(ctx, core.SearchFilter{UserID: userID})
}
