package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"ledger/internal/core"
	"ledger/internal/export"
	"ledger/internal/log"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Credentials selects the service account used to reach the Sheets API.
// JSON takes precedence over File.
type Credentials struct {
	File string
	JSON string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// New creates a Sheets client for one spreadsheet tab.
func New(ctx context.Context, spreadsheetID, sheetName string, creds Credentials) (*Client, error) {
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if sheetName == "" {
		sheetName = "Expenses"
	}

	svc, err := newSheetsService(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context, creds Credentials) (*gsheet.Service, error) {
	var credentialsJSON []byte
	var err error

	switch {
	case creds.JSON != "":
		credentialsJSON = []byte(creds.JSON)
	case creds.File != "":
		credentialsJSON, err = os.ReadFile(creds.File)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// AppendExpenses appends a user's expenses below the existing data of the
// tab, writing the export header first when the tab is empty. It returns
// the updated range reported by the API.
func (c *Client) AppendExpenses(ctx context.Context, userID int64, expenses []core.Expense) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	headerRange := fmt.Sprintf("%s!A1:F1", c.sheetName)
	existing, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("read header row: %w", err)
	}
	withHeader := len(existing.Values) == 0

	values := rowsFor(expenses, withHeader)
	if len(values) == 0 {
		return "", nil
	}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, fmt.Sprintf("%s!A:F", c.sheetName), &gsheet.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append rows: %w", err)
	}

	updated := ""
	if resp.Updates != nil {
		updated = resp.Updates.UpdatedRange
	}
	slog.InfoContext(ctx, "Expenses appended to Google Sheets",
		log.FieldComponent, log.ComponentSheets,
		log.FieldOperation, log.OpExport,
		log.FieldUserID, userID,
		log.FieldCount, len(expenses),
		"range", updated)

	return updated, nil
}

// rowsFor converts expenses to sheet rows using the CSV export columns.
func rowsFor(expenses []core.Expense, withHeader bool) [][]interface{} {
	out := make([][]interface{}, 0, len(expenses)+1)
	if withHeader {
		out = append(out, toCells(export.Header))
	}
	for _, e := range expenses {
		out = append(out, toCells(export.Row(e)))
	}
	return out
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}
