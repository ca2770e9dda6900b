package export

import (
	"fmt"
	"io"

	"ledger/internal/core"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Expenses"

// XLSXFileName is the file name used for a user's spreadsheet export.
func XLSXFileName(userID int64) string {
	return fmt.Sprintf("expenses_user_%d.xlsx", userID)
}

// WriteXLSX writes the same columns as WriteCSV into a single styled sheet.
// Amounts are stored as numbers so spreadsheet formulas work on them.
func WriteXLSX(w io.Writer, expenses []core.Expense) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("create amount style: %w", err)
	}

	for _, w := range []struct {
		start, end string
		width      float64
	}{
		{"A", "B", 12},
		{"C", "C", 18},
		{"D", "E", 14},
		{"F", "F", 40},
	} {
		if err := f.SetColWidth(xlsxSheet, w.start, w.end, w.width); err != nil {
			return fmt.Errorf("set column width %s:%s: %w", w.start, w.end, err)
		}
	}

	for i, h := range Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(xlsxSheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", "F1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, e := range expenses {
		row := i + 2
		values := []interface{}{
			e.ID,
			e.UserID,
			e.Category,
			e.Amount.Decimal().InexactFloat64(),
			e.Date,
			e.Description,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
			return fmt.Errorf("write expense %d: %w", e.ID, err)
		}
		amountCell := fmt.Sprintf("D%d", row)
		if err := f.SetCellStyle(xlsxSheet, amountCell, amountCell, amountStyle); err != nil {
			return fmt.Errorf("style amount: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
