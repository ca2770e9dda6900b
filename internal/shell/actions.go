package shell

import (
	"context"
	"fmt"
	"strconv"

	"ledger/internal/core"
	"ledger/internal/services"
)

func id(v int64) string { return strconv.FormatInt(v, 10) }

func (s *Shell) addUser(ctx context.Context) error {
	answers, err := s.askAll("Enter Name: ", "Enter Email: ")
	if err != nil {
		return err
	}
	if _, err := s.ledger.AddUser(ctx, services.AddUserRequest{Name: answers[0], Email: answers[1]}); err != nil {
		return err
	}
	s.success("User added")
	return nil
}

func (s *Shell) viewUsers(ctx context.Context) error {
	users, err := s.ledger.ListUsers(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, len(users))
	for i, u := range users {
		rows[i] = []string{id(u.ID), u.Name, u.Email}
	}
	s.renderTable([]string{"User ID", "Name", "Email"}, rows)
	return nil
}

func (s *Shell) addExpense(ctx context.Context) error {
	if err := s.viewUsers(ctx); err != nil {
		return err
	}
	userID, err := s.askID("Enter User ID: ")
	if err != nil {
		return err
	}
	category, err := s.ask("Category (Food, Travel, Bills, etc.): ")
	if err != nil {
		return err
	}
	amount, err := s.askAmount("Amount: ")
	if err != nil {
		return err
	}
	answers, err := s.askAll("Date (YYYY-MM-DD) or leave blank for today: ", "Description: ")
	if err != nil {
		return err
	}

	e, check, err := s.ledger.AddExpense(ctx, services.AddExpenseRequest{
		UserID:      userID,
		Category:    category,
		Amount:      amount,
		Date:        answers[0],
		Description: answers[1],
	})
	// The row may be stored even when the budget check after it failed.
	if e.ID != 0 {
		s.success("Expense added")
	}
	if err != nil {
		return err
	}
	if check.Exceeded() {
		s.println(s.st.warning.Render("⚠️ " + check.AlertMessage()))
	}
	return nil
}

func (s *Shell) viewExpenses(ctx context.Context) error {
	views, err := s.ledger.ListExpenses(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, len(views))
	for i, v := range views {
		rows[i] = []string{id(v.ID), v.UserName, v.Category, v.Amount.String(), v.Date, v.Description}
	}
	s.renderTable([]string{"Expense ID", "User", "Category", "Amount", "Date", "Description"}, rows)
	return nil
}

func (s *Shell) updateExpense(ctx context.Context) error {
	if err := s.viewExpenses(ctx); err != nil {
		return err
	}
	expenseID, err := s.askID("Enter Expense ID to update: ")
	if err != nil {
		return err
	}
	category, err := s.ask("New Category: ")
	if err != nil {
		return err
	}
	amount, err := s.askAmount("New Amount: ")
	if err != nil {
		return err
	}
	answers, err := s.askAll("New Date (YYYY-MM-DD) or leave blank for today: ", "New Description: ")
	if err != nil {
		return err
	}

	n, err := s.ledger.UpdateExpense(ctx, services.UpdateExpenseRequest{
		ID:          expenseID,
		Category:    category,
		Amount:      amount,
		Date:        answers[0],
		Description: answers[1],
	})
	if err != nil {
		return err
	}
	if n == 0 {
		s.println(s.st.muted.Render(fmt.Sprintf("No expense with ID %d", expenseID)))
		return nil
	}
	s.success("Expense updated")
	return nil
}

func (s *Shell) deleteExpense(ctx context.Context) error {
	if err := s.viewExpenses(ctx); err != nil {
		return err
	}
	expenseID, err := s.askID("Enter Expense ID to delete: ")
	if err != nil {
		return err
	}
	n, err := s.ledger.DeleteExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if n == 0 {
		s.println(s.st.muted.Render(fmt.Sprintf("No expense with ID %d", expenseID)))
		return nil
	}
	s.success("Expense deleted")
	return nil
}

func (s *Shell) addBudget(ctx context.Context) error {
	if err := s.viewUsers(ctx); err != nil {
		return err
	}
	userID, err := s.askID("Enter User ID: ")
	if err != nil {
		return err
	}
	category, err := s.ask("Category: ")
	if err != nil {
		return err
	}
	limit, err := s.askAmount("Monthly Limit: ")
	if err != nil {
		return err
	}
	month, err := s.ask("Month (YYYY-MM): ")
	if err != nil {
		return err
	}

	if _, err := s.ledger.AddBudget(ctx, services.AddBudgetRequest{
		UserID:       userID,
		Category:     category,
		MonthlyLimit: limit,
		Month:        month,
	}); err != nil {
		return err
	}
	s.success("Budget added")
	return nil
}

func (s *Shell) viewBudgets(ctx context.Context) error {
	views, err := s.ledger.ListBudgets(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, len(views))
	for i, v := range views {
		rows[i] = []string{id(v.ID), v.UserName, v.Category, v.MonthlyLimit.String(), v.Month}
	}
	s.renderTable([]string{"Budget ID", "User", "Category", "Monthly Limit", "Month"}, rows)
	return nil
}

func (s *Shell) addIncome(ctx context.Context) error {
	if err := s.viewUsers(ctx); err != nil {
		return err
	}
	userID, err := s.askID("Enter User ID: ")
	if err != nil {
		return err
	}
	amount, err := s.askAmount("Amount: ")
	if err != nil {
		return err
	}
	answers, err := s.askAll("Date (YYYY-MM-DD) or leave blank for today: ", "Source: ")
	if err != nil {
		return err
	}

	if _, err := s.ledger.AddIncome(ctx, services.AddIncomeRequest{
		UserID: userID,
		Amount: amount,
		Date:   answers[0],
		Source: answers[1],
	}); err != nil {
		return err
	}
	s.success("Income added")
	return nil
}

// askUserMonth shows the users and reads the (user, month) pair reports need.
func (s *Shell) askUserMonth(ctx context.Context) (int64, string, error) {
	if err := s.viewUsers(ctx); err != nil {
		return 0, "", err
	}
	userID, err := s.askID("Enter User ID: ")
	if err != nil {
		return 0, "", err
	}
	month, err := s.ask("Enter Month (YYYY-MM): ")
	if err != nil {
		return 0, "", err
	}
	return userID, month, nil
}

func (s *Shell) categoryReport(ctx context.Context) error {
	userID, month, err := s.askUserMonth(ctx)
	if err != nil {
		return err
	}
	totals, err := s.ledger.CategoryReport(ctx, userID, month)
	if err != nil {
		return err
	}
	rows := make([][]string, len(totals))
	for i, t := range totals {
		rows[i] = []string{t.Category, t.Total.String()}
	}
	s.renderTable([]string{"Category", "Total"}, rows)
	return nil
}

func (s *Shell) monthlySummary(ctx context.Context) error {
	userID, month, err := s.askUserMonth(ctx)
	if err != nil {
		return err
	}
	sum, err := s.ledger.MonthlySummary(ctx, userID, month)
	if err != nil {
		return err
	}
	s.println(fmt.Sprintf("Month: %s | Income: %s | Expenses: %s | Savings: %s",
		sum.Month, sum.Income, sum.Expense, sum.Savings))
	return nil
}

func (s *Shell) exportExpenses(ctx context.Context) error {
	if err := s.viewUsers(ctx); err != nil {
		return err
	}
	userID, err := s.askID("Enter User ID to Export Expenses: ")
	if err != nil {
		return err
	}
	format, err := s.ask("Format (csv, xlsx, sheets) or leave blank for csv: ")
	if err != nil {
		return err
	}

	switch format {
	case "", "csv":
		path, err := s.exporter.ExportCSV(ctx, userID)
		if err != nil {
			return err
		}
		s.success("Expenses exported to " + path)
	case "xlsx":
		path, err := s.exporter.ExportXLSX(ctx, userID)
		if err != nil {
			return err
		}
		s.success("Expenses exported to " + path)
	case "sheets":
		if s.sheets == nil {
			return errSheetsDisabled
		}
		expenses, err := s.ledger.ExpensesByUser(ctx, userID)
		if err != nil {
			return err
		}
		rng, err := s.sheets.AppendExpenses(ctx, userID, expenses)
		if err != nil {
			return err
		}
		s.success(fmt.Sprintf("%d expenses exported to Google Sheets %s", len(expenses), rng))
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	return nil
}

func (s *Shell) searchExpenses(ctx context.Context) error {
	if err := s.viewUsers(ctx); err != nil {
		return err
	}
	userID, err := s.askID("Enter User ID: ")
	if err != nil {
		return err
	}
	answers, err := s.askAll(
		"Enter Category to Filter (leave blank for all): ",
		"Start Date (YYYY-MM-DD, leave blank for all): ",
		"End Date (YYYY-MM-DD, leave blank for all): ",
	)
	if err != nil {
		return err
	}

	expenses, err := s.ledger.Search(ctx, core.SearchFilter{
		UserID:    userID,
		Category:  answers[0],
		StartDate: answers[1],
		EndDate:   answers[2],
	})
	if err != nil {
		return err
	}
	rows := make([][]string, len(expenses))
	for i, e := range expenses {
		rows[i] = []string{id(e.ID), id(e.UserID), e.Category, e.Amount.String(), e.Date, e.Description}
	}
	s.renderTable([]string{"Expense ID", "User ID", "Category", "Amount", "Date", "Description"}, rows)
	return nil
}
