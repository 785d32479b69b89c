package export

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"guitarlots/internal/model"
)

// SheetWriter replaces the contents of one worksheet with exported rows.
type SheetWriter struct {
	Service       *sheets.Service
	SpreadsheetID string
	Worksheet     string
}

// NewSheetWriter authenticates with a service account key file. Extra client
// options are appended after the credentials.
func NewSheetWriter(ctx context.Context, credentialsFile, spreadsheetID, worksheet string, opts ...option.ClientOption) (*SheetWriter, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet id is required")
	}
	base := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if credentialsFile != "" {
		base = append(base, option.WithCredentialsFile(credentialsFile))
	}
	srv, err := sheets.NewService(ctx, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("sheets: %w", err)
	}
	return &SheetWriter{Service: srv, SpreadsheetID: spreadsheetID, Worksheet: worksheet}, nil
}

// Write clears the worksheet and writes the header plus records from A1 in a
// single update.
func (w *SheetWriter) Write(ctx context.Context, records []model.Record) error {
	values := w.Service.Spreadsheets.Values

	if _, err := values.Clear(w.SpreadsheetID, w.Worksheet, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets: clear %s: %w", w.Worksheet, err)
	}

	vr := &sheets.ValueRange{Values: Rows(records)}
	if _, err := values.Update(w.SpreadsheetID, w.Worksheet+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("sheets: update %s: %w", w.Worksheet, err)
	}
	return nil
}
