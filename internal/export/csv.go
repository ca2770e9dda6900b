// Package export writes a user's expenses to files.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"ledger/internal/core"
)

// Header is the first row of every expense export.
var Header = []string{"Expense ID", "User ID", "Category", "Amount", "Date", "Description"}

// CSVFileName is the file name used for a user's CSV export.
func CSVFileName(userID int64) string {
	return fmt.Sprintf("expenses_user_%d.csv", userID)
}

// Row renders an expense in export column order.
func Row(e core.Expense) []string {
	return []string{
		strconv.FormatInt(e.ID, 10),
		strconv.FormatInt(e.UserID, 10),
		e.Category,
		e.Amount.String(),
		e.Date,
		e.Description,
	}
}

// WriteCSV writes the header followed by one row per expense, in the given order.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range expenses {
		if err := writer.Write(Row(e)); err != nil {
			return fmt.Errorf("write expense %d: %w", e.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadCSV parses a file produced by WriteCSV.
func ReadCSV(r io.Reader) ([]core.Expense, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(Header)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("read csv: missing header")
	}

	out := make([]core.Expense, 0, len(records)-1)
	for i, rec := range records[1:] {
		id, err := core.ParseID(rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d expense id: %w", i+2, err)
		}
		userID, err := core.ParseID(rec[1])
		if err != nil {
			return nil, fmt.Errorf("row %d user id: %w", i+2, err)
		}
		amount, err := core.ParseAmount(rec[3])
		if err != nil {
			return nil, fmt.Errorf("row %d amount: %w", i+2, err)
		}
		out = append(out, core.Expense{
			ID:          id,
			UserID:      userID,
			Category:    rec[2],
			Amount:      amount,
			Date:        rec[4],
			Description: rec[5],
		})
	}
	return out, nil
}
