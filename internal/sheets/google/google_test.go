package google

import (
	"context"
	"testing"

	"ledger/internal/core"
)

func TestRowsFor(t *testing.T) {
	expenses := []core.Expense{
		{ID: 1, UserID: 2, Category: "Food", Amount: core.Money{Cents: 1050}, Date: "2025-01-01", Description: "lunch"},
		{ID: 5, UserID: 2, Category: "Bills", Amount: core.Money{Cents: 7}, Date: "2025-01-09", Description: ""},
	}

	rows := rowsFor(expenses, true)
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Expense ID" || rows[0][5] != "Description" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][3] != "10.50" || rows[2][3] != "0.07" {
		t.Fatalf("unexpected amounts: %v %v", rows[1][3], rows[2][3])
	}

	rows = rowsFor(expenses, false)
	if len(rows) != 2 || rows[0][0] != "1" {
		t.Fatalf("unexpected rows without header: %v", rows)
	}

	if rows := rowsFor(nil, false); len(rows) != 0 {
		t.Fatalf("expected no rows, got %v", rows)
	}
}

func TestNewRequiresSpreadsheetAndCredentials(t *testing.T) {
	ctx := context.Background()
	if _, err := New(ctx, "", "Expenses", Credentials{JSON: "{}"}); err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
	if _, err := New(ctx, "sheet", "Expenses", Credentials{}); err == nil {
		t.Fatal("expected error for missing credentials")
	}
	if _, err := New(ctx, "sheet", "Expenses", Credentials{File: "/nonexistent/sa.json"}); err == nil {
		t.Fatal("expected error for unreadable key file")
	}
}

func TestAppendExpensesWithoutService(t *testing.T) {
	c := &Client{spreadsheetID: "x", sheetName: "Expenses"}
	if _, err := c.AppendExpenses(context.Background(), 1, nil); err == nil {
		t.Fatal("expected error when service is nil")
	}
}
