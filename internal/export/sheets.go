// Package export mirrors transactions into a Google Sheet. The worker drives
// it from AMQP events; the web process never touches Sheets directly.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fintrack/internal/config"
	"fintrack/internal/core"
)

type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsExporter builds a Sheets client from the OAuth client credentials
// and token in the configuration. The token comes from a one-time consent
// flow; see cmd/oauth-init.
func NewSheetsExporter(ctx context.Context, cfg *config.Config) (*SheetsExporter, error) {
	clientJSON, err := readCredential(cfg.GoogleOAuthClientJSON, cfg.GoogleOAuthClientFile)
	if err != nil {
		return nil, fmt.Errorf("load oauth client: %w", err)
	}
	tokenJSON, err := readCredential(cfg.GoogleOAuthTokenJSON, cfg.GoogleOAuthTokenFile)
	if err != nil {
		return nil, fmt.Errorf("load oauth token: %w", err)
	}

	oauthCfg, err := google.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse oauth client: %w", err)
	}

	var token oauth2.Token
	if err := unmarshalToken(tokenJSON, &token); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}

	svc, err := gsheet.NewService(ctx, goption.WithHTTPClient(oauthCfg.Client(ctx, &token)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: cfg.GoogleSpreadsheetID,
		sheetName:     cfg.GoogleSheetName,
	}, nil
}

func unmarshalToken(data []byte, token *oauth2.Token) error {
	if err := json.Unmarshal(data, token); err != nil {
		return err
	}
	if token.RefreshToken == "" && token.AccessToken == "" {
		return errors.New("token carries no access or refresh token")
	}
	return nil
}

func readCredential(inline, file string) ([]byte, error) {
	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		return b, nil
	default:
		return nil, errors.New("neither inline JSON nor a file path is set")
	}
}

// AppendTransaction writes one transaction as a row. The transaction id goes
// in the first column so deletes can find the row again.
func (e *SheetsExporter) AppendTransaction(ctx context.Context, t core.Transaction) error {
	row := []any{
		strconv.FormatInt(t.ID, 10),
		t.Date.ISO(),
		string(t.Type),
		t.CategoryName,
		t.Description,
		t.Amount.Decimal(),
	}

	_, err := e.svc.Spreadsheets.Values.Append(
		e.spreadsheetID,
		fmt.Sprintf("%s!A:F", e.sheetName),
		&gsheet.ValueRange{Values: [][]any{row}},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}

	slog.InfoContext(ctx, "Transaction exported to sheet",
		"transaction_id", t.ID,
		"sheet", e.sheetName)
	return nil
}

// DeleteTransaction removes every row carrying the transaction id. A missing
// row is not an error; the transaction may never have been exported.
func (e *SheetsExporter) DeleteTransaction(ctx context.Context, id int64) error {
	wanted := strconv.FormatInt(id, 10)

	resp, err := e.svc.Spreadsheets.Values.Get(
		e.spreadsheetID,
		fmt.Sprintf("%s!A:A", e.sheetName),
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read id column: %w", err)
	}

	var rowIndexes []int64
	for i, row := range resp.Values {
		if len(row) > 0 && fmt.Sprint(row[0]) == wanted {
			rowIndexes = append(rowIndexes, int64(i))
		}
	}
	if len(rowIndexes) == 0 {
		slog.WarnContext(ctx, "Transaction row not found in sheet",
			"transaction_id", id,
			"sheet", e.sheetName)
		return nil
	}

	sheetID, err := e.resolveSheetID(ctx)
	if err != nil {
		return err
	}

	// Delete bottom-up so earlier deletions do not shift later indexes.
	var requests []*gsheet.Request
	for i := len(rowIndexes) - 1; i >= 0; i-- {
		requests = append(requests, &gsheet.Request{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: rowIndexes[i],
					EndIndex:   rowIndexes[i] + 1,
				},
			},
		})
	}

	_, err = e.svc.Spreadsheets.BatchUpdate(e.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete rows: %w", err)
	}

	slog.InfoContext(ctx, "Transaction removed from sheet",
		"transaction_id", id,
		"rows", len(rowIndexes))
	return nil
}

func (e *SheetsExporter) resolveSheetID(ctx context.Context) (int64, error) {
	meta, err := e.svc.Spreadsheets.Get(e.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read spreadsheet metadata: %w", err)
	}
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == e.sheetName {
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found in spreadsheet", e.sheetName)
}
