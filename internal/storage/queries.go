package storage

import (
	"context"
	"database/sql"
	"strings"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type User struct {
	ID    int64
	Name  string
	Email sql.NullString
}

type Expense struct {
	ID          int64
	UserID      int64
	Category    string
	AmountCents int64
	Date        string
	Description string
}

type Budget struct {
	ID                int64
	UserID            int64
	Category          string
	MonthlyLimitCents int64
	Month             string
}

type Income struct {
	ID          int64
	UserID      int64
	AmountCents int64
	Date        string
	Source      string
}

const createUser = `INSERT INTO users (name, email) VALUES (?, ?)
RETURNING id, name, email`

type CreateUserParams struct {
	Name  string
	Email sql.NullString
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser, arg.Name, arg.Email)
	var i User
	err := row.Scan(&i.ID, &i.Name, &i.Email)
	return i, err
}

const listUsers = `SELECT id, name, email FROM users ORDER BY id`

func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []User
	for rows.Next() {
		var i User
		if err := rows.Scan(&i.ID, &i.Name, &i.Email); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createExpense = `INSERT INTO expenses (user_id, category, amount_cents, date, description)
VALUES (?, ?, ?, ?, ?)
RETURNING id, user_id, category, amount_cents, date, description`

type CreateExpenseParams struct {
	UserID      int64
	Category    string
	AmountCents int64
	Date        string
	Description string
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (Expense, error) {
	row := q.db.QueryRowContext(ctx, createExpense,
		arg.UserID, arg.Category, arg.AmountCents, arg.Date, arg.Description)
	var i Expense
	err := row.Scan(&i.ID, &i.UserID, &i.Category, &i.AmountCents, &i.Date, &i.Description)
	return i, err
}

const listExpensesWithUser = `SELECT e.id, e.user_id, e.category, e.amount_cents, e.date, e.description, u.name
FROM expenses e
JOIN users u ON e.user_id = u.id
ORDER BY e.id`

type ListExpensesWithUserRow struct {
	Expense
	UserName string
}

func (q *Queries) ListExpensesWithUser(ctx context.Context) ([]ListExpensesWithUserRow, error) {
	rows, err := q.db.QueryContext(ctx, listExpensesWithUser)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListExpensesWithUserRow
	for rows.Next() {
		var i ListExpensesWithUserRow
		if err := rows.Scan(&i.ID, &i.UserID, &i.Category, &i.AmountCents, &i.Date, &i.Description, &i.UserName); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updateExpense = `UPDATE expenses SET category = ?, amount_cents = ?, date = ?, description = ?
WHERE id = ?`

type UpdateExpenseParams struct {
	Category    string
	AmountCents int64
	Date        string
	Description string
	ID          int64
}

func (q *Queries) UpdateExpense(ctx context.Context, arg UpdateExpenseParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateExpense,
		arg.Category, arg.AmountCents, arg.Date, arg.Description, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteExpense = `DELETE FROM expenses WHERE id = ?`

func (q *Queries) DeleteExpense(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteExpense, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createBudget = `INSERT INTO budgets (user_id, category, monthly_limit_cents, month)
VALUES (?, ?, ?, ?)
RETURNING id, user_id, category, monthly_limit_cents, month`

type CreateBudgetParams struct {
	UserID            int64
	Category          string
	MonthlyLimitCents int64
	Month             string
}

func (q *Queries) CreateBudget(ctx context.Context, arg CreateBudgetParams) (Budget, error) {
	row := q.db.QueryRowContext(ctx, createBudget,
		arg.UserID, arg.Category, arg.MonthlyLimitCents, arg.Month)
	var i Budget
	err := row.Scan(&i.ID, &i.UserID, &i.Category, &i.MonthlyLimitCents, &i.Month)
	return i, err
}

const listBudgetsWithUser = `SELECT b.id, b.user_id, b.category, b.monthly_limit_cents, b.month, u.name
FROM budgets b
JOIN users u ON b.user_id = u.id
ORDER BY b.id`

type ListBudgetsWithUserRow struct {
	Budget
	UserName string
}

func (q *Queries) ListBudgetsWithUser(ctx context.Context) ([]ListBudgetsWithUserRow, error) {
	rows, err := q.db.QueryContext(ctx, listBudgetsWithUser)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListBudgetsWithUserRow
	for rows.Next() {
		var i ListBudgetsWithUserRow
		if err := rows.Scan(&i.ID, &i.UserID, &i.Category, &i.MonthlyLimitCents, &i.Month, &i.UserName); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createIncome = `INSERT INTO income (user_id, amount_cents, date, source)
VALUES (?, ?, ?, ?)
RETURNING id, user_id, amount_cents, date, source`

type CreateIncomeParams struct {
	UserID      int64
	AmountCents int64
	Date        string
	Source      string
}

func (q *Queries) CreateIncome(ctx context.Context, arg CreateIncomeParams) (Income, error) {
	row := q.db.QueryRowContext(ctx, createIncome, arg.UserID, arg.AmountCents, arg.Date, arg.Source)
	var i Income
	err := row.Scan(&i.ID, &i.UserID, &i.AmountCents, &i.Date, &i.Source)
	return i, err
}

const listIncomeWithUser = `SELECT i.id, i.user_id, i.amount_cents, i.date, i.source, u.name
FROM income i
JOIN users u ON i.user_id = u.id
ORDER BY i.id`

type ListIncomeWithUserRow struct {
	Income
	UserName string
}

func (q *Queries) ListIncomeWithUser(ctx context.Context) ([]ListIncomeWithUserRow, error) {
	rows, err := q.db.QueryContext(ctx, listIncomeWithUser)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListIncomeWithUserRow
	for rows.Next() {
		var i ListIncomeWithUserRow
		if err := rows.Scan(&i.ID, &i.UserID, &i.AmountCents, &i.Date, &i.Source, &i.UserName); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getCategorySums = `SELECT category, SUM(amount_cents) AS total_amount
FROM expenses
WHERE user_id = ? AND substr(date, 1, 7) = ?
GROUP BY category
HAVING SUM(amount_cents) != 0
ORDER BY category`

type GetCategorySumsRow struct {
	Category    string
	TotalAmount int64
}

func (q *Queries) GetCategorySums(ctx context.Context, userID int64, month string) ([]GetCategorySumsRow, error) {
	rows, err := q.db.QueryContext(ctx, getCategorySums, userID, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetCategorySumsRow
	for rows.Next() {
		var i GetCategorySumsRow
		if err := rows.Scan(&i.Category, &i.TotalAmount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getMonthExpenseTotal = `SELECT COALESCE(SUM(amount_cents), 0)
FROM expenses
WHERE user_id = ? AND substr(date, 1, 7) = ?`

func (q *Queries) GetMonthExpenseTotal(ctx context.Context, userID int64, month string) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx, getMonthExpenseTotal, userID, month).Scan(&total)
	return total, err
}

const getMonthIncomeTotal = `SELECT COALESCE(SUM(amount_cents), 0)
FROM income
WHERE user_id = ? AND substr(date, 1, 7) = ?`

func (q *Queries) GetMonthIncomeTotal(ctx context.Context, userID int64, month string) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx, getMonthIncomeTotal, userID, month).Scan(&total)
	return total, err
}

const getBudgetLimit = `SELECT monthly_limit_cents
FROM budgets
WHERE user_id = ? AND category = ? AND month = ?
ORDER BY id
LIMIT 1`

type GetBudgetLimitParams struct {
	UserID   int64
	Category string
	Month    string
}

// GetBudgetLimit returns sql.ErrNoRows when no budget matches.
func (q *Queries) GetBudgetLimit(ctx context.Context, arg GetBudgetLimitParams) (int64, error) {
	var limit int64
	err := q.db.QueryRowContext(ctx, getBudgetLimit, arg.UserID, arg.Category, arg.Month).Scan(&limit)
	return limit, err
}

const getCategorySpend = `SELECT COALESCE(SUM(amount_cents), 0)
FROM expenses
WHERE user_id = ? AND category = ? AND substr(date, 1, 7) = ?`

func (q *Queries) GetCategorySpend(ctx context.Context, arg GetBudgetLimitParams) (int64, error) {
	var spent int64
	err := q.db.QueryRowContext(ctx, getCategorySpend, arg.UserID, arg.Category, arg.Month).Scan(&spent)
	return spent, err
}

const searchExpensesBase = `SELECT id, user_id, category, amount_cents, date, description
FROM expenses
WHERE user_id = ?`

type SearchExpensesParams struct {
	UserID    int64
	Category  string
	StartDate string
	EndDate   string
}

// SearchExpenses appends one predicate per non-empty filter. Dates compare
// lexicographically, which matches chronological order for zero-padded ISO dates.
func (q *Queries) SearchExpenses(ctx context.Context, arg SearchExpensesParams) ([]Expense, error) {
	var b strings.Builder
	b.WriteString(searchExpensesBase)
	args := []interface{}{arg.UserID}
	if arg.Category != "" {
		b.WriteString(" AND category = ?")
		args = append(args, arg.Category)
	}
	if arg.StartDate != "" {
		b.WriteString(" AND date >= ?")
		args = append(args, arg.StartDate)
	}
	if arg.EndDate != "" {
		b.WriteString(" AND date <= ?")
		args = append(args, arg.EndDate)
	}
	b.WriteString(" ORDER BY id")

	rows, err := q.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Expense
	for rows.Next() {
		var i Expense
		if err := rows.Scan(&i.ID, &i.UserID, &i.Category, &i.AmountCents, &i.Date, &i.Description); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
