// Package sheets exports expenses to a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"kharcha/internal/core"
)

// Exporter appends expense rows to one sheet of a spreadsheet.
type Exporter struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewExporter builds a Sheets client from a service account credentials
// file. credentialsPath comes from GOOGLE_APPLICATION_CREDENTIALS when
// empty.
func NewExporter(ctx context.Context, credentialsPath, spreadsheetID, sheetName string) (*Exporter, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if credentialsPath == "" {
		credentialsPath = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	if credentialsPath == "" {
		return nil, fmt.Errorf("no Google credentials configured")
	}

	credentials, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	service, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentials),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Exporter{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// AppendRow implements ports.RowExporter.
func (e *Exporter) AppendRow(ctx context.Context, expense core.Expense) error {
	values := &sheets.ValueRange{
		Values: [][]interface{}{{
			expense.Date.String(),
			expense.Amount.Rupees(),
			string(expense.Category),
			expense.Description,
		}},
	}

	writeRange := fmt.Sprintf("%s!A:D", e.sheetName)
	_, err := e.service.Spreadsheets.Values.Append(e.spreadsheetID, writeRange, values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row to sheet: %w", err)
	}
	return nil
}
