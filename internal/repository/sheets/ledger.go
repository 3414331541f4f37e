// Package sheets mirrors the activity ledger into a Google Sheet.
package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/sowmensarker/ambika/internal/config"
	"github.com/sowmensarker/ambika/internal/domain/models"
)

// RowAppender appends one row to a sheet range.
type RowAppender interface {
	AppendRow(ctx context.Context, sheetRange string, values []any) error
}

// GoogleSheetClient implements RowAppender using the official Google Sheets API.
type GoogleSheetClient struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetClient builds a Sheets client from a service-account credentials file.
// Extra options are appended after the credentials.
func NewGoogleSheetClient(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*GoogleSheetClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOpts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if cfg.CredentialsPath != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsPath))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetClient{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendRow appends the provided values to the supplied sheet range.
func (c *GoogleSheetClient) AppendRow(ctx context.Context, sheetRange string, values []any) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]any{values}}

	call := c.service.Spreadsheets.Values.Append(c.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	c.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// LedgerMirror writes each activity record as one sheet row.
type LedgerMirror struct {
	rows       RowAppender
	sheetRange string
}

// NewLedgerMirror returns a mirror appending into sheetRange, e.g. "Ledger!A:E".
func NewLedgerMirror(rows RowAppender, sheetRange string) *LedgerMirror {
	return &LedgerMirror{rows: rows, sheetRange: sheetRange}
}

// AppendActivity appends record to the ledger sheet.
func (m *LedgerMirror) AppendActivity(ctx context.Context, record models.ActivityRecord) error {
	if err := m.rows.AppendRow(ctx, m.sheetRange, LedgerRow(record)); err != nil {
		return fmt.Errorf("failed to mirror activity: %w", err)
	}
	return nil
}

// LedgerRow lays out a record as Date, Type, Description, Amount, Timestamp.
func LedgerRow(record models.ActivityRecord) []any {
	return []any{record.Date, string(record.Type), record.Description, record.Amount, record.Timestamp}
}
