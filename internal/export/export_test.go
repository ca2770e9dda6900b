package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ledger/internal/core"
	"ledger/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type staticSource struct {
	expenses []core.Expense
	err      error
}

func (s staticSource) ExpensesByUser(_ context.Context, userID int64) ([]core.Expense, error) {
	var out []core.Expense
	for _, e := range s.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, s.err
}

func sampleExpenses() []core.Expense {
	return []core.Expense{
		{ID: 1, UserID: 7, Category: "Food", Amount: core.Money{Cents: 1250}, Date: "2025-01-02", Description: "lunch, with friends"},
		{ID: 3, UserID: 7, Category: "Travel", Amount: core.Money{Cents: -500}, Date: "2025-01-03", Description: `refund "bus"`},
		{ID: 4, UserID: 8, Category: "Bills", Amount: core.Money{Cents: 9999}, Date: "2025-01-04", Description: ""},
	}
}

func TestCSVFileName(t *testing.T) {
	assert.Equal(t, "expenses_user_42.csv", CSVFileName(42))
	assert.Equal(t, "expenses_user_42.xlsx", XLSXFileName(42))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleExpenses()[:2]))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Expense ID,User ID,Category,Amount,Date,Description", lines[0])
	assert.Equal(t, `1,7,Food,12.50,2025-01-02,"lunch, with friends"`, lines[1])
	assert.Equal(t, `3,7,Travel,-5.00,2025-01-03,"refund ""bus"""`, lines[2])
}

func TestReadCSV_RoundTrip(t *testing.T) {
	want := sampleExpenses()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, want))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	require.Error(t, err)

	_, err = ReadCSV(strings.NewReader("Expense ID,User ID,Category,Amount,Date,Description\nx,1,Food,1.00,2025-01-01,d\n"))
	require.ErrorIs(t, err, core.ErrInvalidID)

	_, err = ReadCSV(strings.NewReader("Expense ID,User ID,Category,Amount,Date,Description\n1,1,Food,lots,2025-01-01,d\n"))
	require.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestExporter_ExportCSVMatchesStore(t *testing.T) {
	ctx := context.Background()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer repo.Close()

	u, err := repo.CreateUser(ctx, "Ada", "")
	require.NoError(t, err)
	other, err := repo.CreateUser(ctx, "Bob", "")
	require.NoError(t, err)
	for _, e := range []core.Expense{
		{UserID: u.ID, Category: "Food", Amount: core.Money{Cents: 1999}, Date: "2025-01-01", Description: "groceries"},
		{UserID: other.ID, Category: "Food", Amount: core.Money{Cents: 1}, Date: "2025-01-01"},
		{UserID: u.ID, Category: "Travel", Amount: core.Money{Cents: 100000}, Date: "2025-01-05", Description: "flight\nreturn"},
	} {
		_, err := repo.CreateExpense(ctx, e)
		require.NoError(t, err)
	}

	dir := filepath.Join(t.TempDir(), "exports")
	path, err := NewExporter(repo, dir).ExportCSV(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "expenses_user_1.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := ReadCSV(f)
	require.NoError(t, err)

	want, err := repo.ExpensesByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExporter_SourceError(t *testing.T) {
	x := NewExporter(staticSource{err: errors.New("db gone")}, t.TempDir())
	_, err := x.ExportCSV(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db gone")
}

func TestExporter_ExportXLSX(t *testing.T) {
	dir := t.TempDir()
	path, err := NewExporter(staticSource{expenses: sampleExpenses()}, dir).ExportXLSX(context.Background(), 7)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "Food", rows[1][2])
	assert.Equal(t, "Travel", rows[2][2])

	raw, err := f.GetCellValue(xlsxSheet, "D2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "12.5", raw)

	width, err := f.GetColWidth(xlsxSheet, "F")
	require.NoError(t, err)
	assert.Equal(t, 40.0, width)
}
