// Package shell runs the interactive ledger menu. It turns prompt answers
// into service requests and renders the results; it holds no state of its own.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/services"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Ledger is the subset of services.LedgerService the menu drives.
type Ledger interface {
	AddUser(ctx context.Context, req services.AddUserRequest) (core.User, error)
	ListUsers(ctx context.Context) ([]core.User, error)
	AddExpense(ctx context.Context, req services.AddExpenseRequest) (core.Expense, core.BudgetCheck, error)
	ListExpenses(ctx context.Context) ([]core.ExpenseView, error)
	UpdateExpense(ctx context.Context, req services.UpdateExpenseRequest) (int64, error)
	DeleteExpense(ctx context.Context, id int64) (int64, error)
	AddBudget(ctx context.Context, req services.AddBudgetRequest) (core.Budget, error)
	ListBudgets(ctx context.Context) ([]core.BudgetView, error)
	AddIncome(ctx context.Context, req services.AddIncomeRequest) (core.Income, error)
	CategoryReport(ctx context.Context, userID int64, month string) ([]core.CategoryTotal, error)
	MonthlySummary(ctx context.Context, userID int64, month string) (core.MonthlySummary, error)
	Search(ctx context.Context, f core.SearchFilter) ([]core.Expense, error)
	ExpensesByUser(ctx context.Context, userID int64) ([]core.Expense, error)
}

// FileExporter writes export files and returns their paths.
type FileExporter interface {
	ExportCSV(ctx context.Context, userID int64) (string, error)
	ExportXLSX(ctx context.Context, userID int64) (string, error)
}

// SheetsAppender pushes expenses to a spreadsheet.
type SheetsAppender interface {
	AppendExpenses(ctx context.Context, userID int64, expenses []core.Expense) (string, error)
}

var errSheetsDisabled = errors.New("sheets export is not configured")

type styles struct {
	title   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa")),
		success: r.NewStyle().Foreground(lipgloss.Color("#a6e3a1")),
		warning: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9e2af")),
		failure: r.NewStyle().Foreground(lipgloss.Color("#f38ba8")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#7f849c")),
	}
}

type Shell struct {
	in       *bufio.Scanner
	out      io.Writer
	ledger   Ledger
	exporter FileExporter
	sheets   SheetsAppender
	logger   *log.Logger
	st       styles
}

type Option func(*Shell)

// WithSheets enables the "sheets" export format.
func WithSheets(s SheetsAppender) Option {
	return func(sh *Shell) { sh.sheets = s }
}

func WithLogger(l *log.Logger) Option {
	return func(sh *Shell) { sh.logger = l.WithComponent(log.ComponentShell) }
}

func New(in io.Reader, out io.Writer, ledger Ledger, exporter FileExporter, opts ...Option) *Shell {
	sh := &Shell{
		in:       bufio.NewScanner(in),
		out:      out,
		ledger:   ledger,
		exporter: exporter,
		logger:   log.New(log.Config{Component: log.ComponentShell, Output: io.Discard}),
		st:       newStyles(lipgloss.NewRenderer(out)),
	}
	for _, opt := range opts {
		opt(sh)
	}
	return sh
}

// Run shows the menu until the user exits, input ends, or ctx is cancelled.
// A failing operation is reported and the menu is shown again.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.printMenu()
		choice, err := s.ask("Enter Choice: ")
		if errors.Is(err, io.EOF) {
			s.println("Exiting...")
			return nil
		}
		if err != nil {
			return err
		}

		if choice == "8" {
			s.println("Exiting...")
			return nil
		}

		err = s.dispatch(ctx, choice)
		switch {
		case errors.Is(err, io.EOF):
			s.println("Exiting...")
			return nil
		case err != nil:
			fields := log.NewFields().WithError(err)
			if errors.Is(err, core.ErrInvalidAmount) || errors.Is(err, core.ErrInvalidID) {
				fields = fields.WithOperation(log.OpParse)
			}
			s.logger.WarnContext(ctx, "Operation failed", append(fields.ToSlice(), log.FieldChoice, choice)...)
			s.println(s.st.failure.Render("❌ " + err.Error()))
		}
	}
}

func (s *Shell) printMenu() {
	s.println("")
	s.println(s.st.title.Render("--- Expense & Budget Tracker ---"))
	s.println("1. Manage Users")
	s.println("2. Manage Expenses")
	s.println("3. Manage Budgets")
	s.println("4. Manage Income")
	s.println("5. Reports")
	s.println("6. Export Expenses")
	s.println("7. Search Expenses")
	s.println("8. Exit")
}

func (s *Shell) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return s.submenu(ctx, "a. Add User\nb. View Users", map[string]func(context.Context) error{
			"a": s.addUser,
			"b": s.viewUsers,
		})
	case "2":
		return s.submenu(ctx, "a. Add Expense\nb. View Expenses\nc. Update Expense\nd. Delete Expense", map[string]func(context.Context) error{
			"a": s.addExpense,
			"b": s.viewExpenses,
			"c": s.updateExpense,
			"d": s.deleteExpense,
		})
	case "3":
		return s.submenu(ctx, "a. Add Budget\nb. View Budgets", map[string]func(context.Context) error{
			"a": s.addBudget,
			"b": s.viewBudgets,
		})
	case "4":
		return s.addIncome(ctx)
	case "5":
		return s.submenu(ctx, "a. Category-wise Expense\nb. Monthly Summary", map[string]func(context.Context) error{
			"a": s.categoryReport,
			"b": s.monthlySummary,
		})
	case "6":
		return s.exportExpenses(ctx)
	case "7":
		return s.searchExpenses(ctx)
	default:
		s.println(s.st.failure.Render("❌ Invalid Choice"))
		return nil
	}
}

// submenu reads a letter and runs its action. Unknown letters do nothing.
func (s *Shell) submenu(ctx context.Context, options string, actions map[string]func(context.Context) error) error {
	s.println(options)
	sub, err := s.ask("Choice: ")
	if err != nil {
		return err
	}
	if action, ok := actions[sub]; ok {
		return action(ctx)
	}
	return nil
}

func (s *Shell) ask(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Shell) askID(label string) (int64, error) {
	v, err := s.ask(label)
	if err != nil {
		return 0, err
	}
	return core.ParseID(v)
}

func (s *Shell) askAmount(label string) (core.Money, error) {
	v, err := s.ask(label)
	if err != nil {
		return core.Money{}, err
	}
	return core.ParseAmount(v)
}

// askAll reads several answers in order, stopping at the first error.
func (s *Shell) askAll(labels ...string) ([]string, error) {
	out := make([]string, len(labels))
	for i, l := range labels {
		v, err := s.ask(l)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Shell) success(msg string) {
	s.println(s.st.success.Render("✅ " + msg))
}

func (s *Shell) renderTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		s.println(s.st.muted.Render("No records."))
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	s.println(t.Render())
}
