package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"ledger/internal/core"
	"ledger/internal/log"
)

// ExpenseSource returns a user's expenses in store order.
type ExpenseSource interface {
	ExpensesByUser(ctx context.Context, userID int64) ([]core.Expense, error)
}

// Exporter writes export files into a directory.
type Exporter struct {
	source ExpenseSource
	dir    string
}

func NewExporter(source ExpenseSource, dir string) *Exporter {
	return &Exporter{source: source, dir: dir}
}

// ExportCSV writes expenses_user_<id>.csv and returns its path.
func (x *Exporter) ExportCSV(ctx context.Context, userID int64) (string, error) {
	return x.export(ctx, userID, CSVFileName(userID), WriteCSV)
}

// ExportXLSX writes expenses_user_<id>.xlsx and returns its path.
func (x *Exporter) ExportXLSX(ctx context.Context, userID int64) (string, error) {
	return x.export(ctx, userID, XLSXFileName(userID), WriteXLSX)
}

func (x *Exporter) export(ctx context.Context, userID int64, name string, write func(io.Writer, []core.Expense) error) (path string, err error) {
	expenses, err := x.source.ExpensesByUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load expenses: %w", err)
	}

	if err := os.MkdirAll(x.dir, 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path = filepath.Join(x.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close export file: %w", cerr)
		}
	}()

	if err := write(f, expenses); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}

	slog.InfoContext(ctx, "Expenses exported",
		log.FieldComponent, log.ComponentExport,
		log.FieldOperation, log.OpExport,
		log.FieldUserID, userID,
		log.FieldPath, path,
		log.FieldCount, len(expenses))

	return path, nil
}
