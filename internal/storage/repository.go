package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ledger/internal/core"
	"ledger/internal/log"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer, one file: a single connection keeps statements strictly ordered.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser inserts a user. A blank email is stored as NULL so it does not
// collide with other users that left it empty.
func (r *SQLiteRepository) CreateUser(ctx context.Context, name, email string) (core.User, error) {
	u, err := r.queries.CreateUser(ctx, CreateUserParams{
		Name:  name,
		Email: sql.NullString{String: email, Valid: email != ""},
	})
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, fmt.Errorf("create user %q: %w", email, core.ErrDuplicateEmail)
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User saved to SQLite",
		log.FieldComponent, log.ComponentStorage,
		log.FieldOperation, log.OpCreate,
		log.FieldUserID, u.ID,
		"name", u.Name)
	return toCoreUser(u), nil
}

func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.queries.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]core.User, len(rows))
	for i, u := range rows {
		users[i] = toCoreUser(u)
	}
	return users, nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	row, err := r.queries.CreateExpense(ctx, CreateExpenseParams{
		UserID:      e.UserID,
		Category:    e.Category,
		AmountCents: e.Amount.Cents,
		Date:        e.Date,
		Description: e.Description,
	})
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		log.FieldComponent, log.ComponentStorage,
		log.FieldOperation, log.OpCreate,
		"id", row.ID,
		log.FieldUserID, row.UserID,
		log.FieldCategory, row.Category,
		log.FieldAmountCents, row.AmountCents,
		log.FieldDate, row.Date)

	return toCoreExpense(row), nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.ExpenseView, error) {
	rows, err := r.queries.ListExpensesWithUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	out := make([]core.ExpenseView, len(rows))
	for i, row := range rows {
		out[i] = core.ExpenseView{Expense: toCoreExpense(row.Expense), UserName: row.UserName}
	}
	return out, nil
}

// UpdateExpense replaces the mutable fields of an expense and returns the
// number of rows affected (0 when the id does not exist).
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) (int64, error) {
	n, err := r.queries.UpdateExpense(ctx, UpdateExpenseParams{
		Category:    e.Category,
		AmountCents: e.Amount.Cents,
		Date:        e.Date,
		Description: e.Description,
		ID:          e.ID,
	})
	if err != nil {
		return 0, fmt.Errorf("update expense %d: %w", e.ID, err)
	}
	if n == 0 {
		slog.WarnContext(ctx, "Expense update matched no rows",
			log.FieldComponent, log.ComponentStorage, log.FieldOperation, log.OpUpdate, "id", e.ID)
	}
	return n, nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) (int64, error) {
	n, err := r.queries.DeleteExpense(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete expense %d: %w", id, err)
	}
	if n == 0 {
		slog.WarnContext(ctx, "Expense delete matched no rows",
			log.FieldComponent, log.ComponentStorage, log.FieldOperation, log.OpDelete, "id", id)
	}
	return n, nil
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	row, err := r.queries.CreateBudget(ctx, CreateBudgetParams{
		UserID:            b.UserID,
		Category:          b.Category,
		MonthlyLimitCents: b.MonthlyLimit.Cents,
		Month:             b.Month,
	})
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved to SQLite",
		log.FieldComponent, log.ComponentStorage,
		log.FieldOperation, log.OpCreate,
		"id", row.ID,
		log.FieldUserID, row.UserID,
		log.FieldCategory, row.Category,
		log.FieldMonth, row.Month,
		log.FieldAmountCents, row.MonthlyLimitCents)

	return toCoreBudget(row), nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.BudgetView, error) {
	rows, err := r.queries.ListBudgetsWithUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	out := make([]core.BudgetView, len(rows))
	for i, row := range rows {
		out[i] = core.BudgetView{Budget: toCoreBudget(row.Budget), UserName: row.UserName}
	}
	return out, nil
}

func (r *SQLiteRepository) CreateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	row, err := r.queries.CreateIncome(ctx, CreateIncomeParams{
		UserID:      in.UserID,
		AmountCents: in.Amount.Cents,
		Date:        in.Date,
		Source:      in.Source,
	})
	if err != nil {
		return core.Income{}, fmt.Errorf("create income: %w", err)
	}

	slog.InfoContext(ctx, "Income saved to SQLite",
		log.FieldComponent, log.ComponentStorage,
		log.FieldOperation, log.OpCreate,
		"id", row.ID,
		log.FieldUserID, row.UserID,
		log.FieldAmountCents, row.AmountCents,
		log.FieldDate, row.Date)

	return toCoreIncome(row), nil
}

func (r *SQLiteRepository) ListIncome(ctx context.Context) ([]core.IncomeView, error) {
	rows, err := r.queries.ListIncomeWithUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("list income: %w", err)
	}
	out := make([]core.IncomeView, len(rows))
	for i, row := range rows {
		out[i] = core.IncomeView{Income: toCoreIncome(row.Income), UserName: row.UserName}
	}
	return out, nil
}

// CategoryTotals sums a user's expenses per category for one month. Categories
// without expenses in that month are absent.
func (r *SQLiteRepository) CategoryTotals(ctx context.Context, userID int64, month string) ([]core.CategoryTotal, error) {
	sums, err := r.queries.GetCategorySums(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("get category sums: %w", err)
	}
	out := make([]core.CategoryTotal, 0, len(sums))
	for _, cs := range sums {
		out = append(out, core.CategoryTotal{
			Category: cs.Category,
			Total:    core.Money{Cents: cs.TotalAmount},
		})
	}
	return out, nil
}

// MonthTotals returns the income and expense sums for a user and month,
// each zero when there are no rows.
func (r *SQLiteRepository) MonthTotals(ctx context.Context, userID int64, month string) (income, expense core.Money, err error) {
	in, err := r.queries.GetMonthIncomeTotal(ctx, userID, month)
	if err != nil {
		return core.Money{}, core.Money{}, fmt.Errorf("get month income total: %w", err)
	}
	ex, err := r.queries.GetMonthExpenseTotal(ctx, userID, month)
	if err != nil {
		return core.Money{}, core.Money{}, fmt.Errorf("get month expense total: %w", err)
	}
	return core.Money{Cents: in}, core.Money{Cents: ex}, nil
}

// BudgetLimit looks up the budget for an exact (user, category, month).
// found is false when no budget is configured.
func (r *SQLiteRepository) BudgetLimit(ctx context.Context, userID int64, category, month string) (limit core.Money, found bool, err error) {
	cents, err := r.queries.GetBudgetLimit(ctx, GetBudgetLimitParams{
		UserID:   userID,
		Category: category,
		Month:    month,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return core.Money{}, false, nil
	}
	if err != nil {
		return core.Money{}, false, fmt.Errorf("get budget limit: %w", err)
	}
	return core.Money{Cents: cents}, true, nil
}

func (r *SQLiteRepository) CategorySpend(ctx context.Context, userID int64, category, month string) (core.Money, error) {
	cents, err := r.queries.GetCategorySpend(ctx, GetBudgetLimitParams{
		UserID:   userID,
		Category: category,
		Month:    month,
	})
	if err != nil {
		return core.Money{}, fmt.Errorf("get category spend: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

func (r *SQLiteRepository) SearchExpenses(ctx context.Context, f core.SearchFilter) ([]core.Expense, error) {
	rows, err := r.queries.SearchExpenses(ctx, SearchExpensesParams{
		UserID:    f.UserID,
		Category:  f.Category,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
	})
	if err != nil {
		return nil, fmt.Errorf("search expenses: %w", err)
	}
	out := make([]core.Expense, len(rows))
	for i, row := range rows {
		out[i] = toCoreExpense(row)
	}
	return out, nil
}

// ExpensesByUser returns every expense of a user in store order.
func (r *SQLiteRepository) ExpensesByUser(ctx context.Context, userID int64) ([]core.Expense, error) {
	return r.SearchExpenses(ctx, core.SearchFilter{UserID: userID})
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			(se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE"))
	}
	return false
}

func toCoreUser(u User) core.User {
	return core.User{ID: u.ID, Name: u.Name, Email: u.Email.String}
}

func toCoreExpense(e Expense) core.Expense {
	return core.Expense{
		ID:          e.ID,
		UserID:      e.UserID,
		Category:    e.Category,
		Amount:      core.Money{Cents: e.AmountCents},
		Date:        e.Date,
		Description: e.Description,
	}
}

func toCoreBudget(b Budget) core.Budget {
	return core.Budget{
		ID:           b.ID,
		UserID:       b.UserID,
		Category:     b.Category,
		MonthlyLimit: core.Money{Cents: b.MonthlyLimitCents},
		Month:        b.Month,
	}
}

func toCoreIncome(in Income) core.Income {
	return core.Income{
		ID:     in.ID,
		UserID: in.UserID,
		Amount: core.Money{Cents: in.AmountCents},
		Date:   in.Date,
		Source: in.Source,
	}
}
