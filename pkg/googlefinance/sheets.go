package googlefinance

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type sheetsTransport struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
}

// NewSheetsTransport returns a CellTransport backed by a real
// spreadsheet worksheet.
func NewSheetsTransport(ctx context.Context, credentialsFile, spreadsheetID, worksheet string) (CellTransport, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &sheetsTransport{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
	}, nil
}

func (t *sheetsTransport) cellRange(cell string) string {
	return fmt.Sprintf("%s!%s", t.worksheet, cell)
}

func (t *sheetsTransport) UpdateCell(ctx context.Context, cell string, value string) error {
	body := &sheets.ValueRange{
		Values: [][]interface{}{{value}},
	}
	_, err := t.svc.Spreadsheets.Values.
		Update(t.spreadsheetID, t.cellRange(cell), body).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update cell %s: %w", cell, err)
	}

	return nil
}

func (t *sheetsTransport) ReadCell(ctx context.Context, cell string) (string, error) {
	resp, err := t.svc.Spreadsheets.Values.
		Get(t.spreadsheetID, t.cellRange(cell)).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to read cell %s: %w", cell, err)
	}

	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return "", nil
	}

	return fmt.Sprint(resp.Values[0][0]), nil
}

func (t *sheetsTransport) ReadTable(ctx context.Context) ([][]string, error) {
	resp, err := t.svc.Spreadsheets.Values.
		Get(t.spreadsheetID, t.worksheet).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %s: %w", t.worksheet, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprint(cell))
		}
		rows = append(rows, cells)
	}

	return rows, nil
}
