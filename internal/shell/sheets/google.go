package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/Neoksnaman/bizRegForm/internal/core/domain"
	"github.com/Neoksnaman/bizRegForm/internal/core/sheetrow"
)

// GoogleConfig identifies the target spreadsheet.
type GoogleConfig struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
}

// Google appends rows to a Google Sheets spreadsheet.
type Google struct {
	svc    *gsheets.Service
	config GoogleConfig
	logger *slog.Logger
}

// NewGoogle creates an appender. The credentials file, when set, must hold
// a service account key with the spreadsheets scope.
func NewGoogle(ctx context.Context, cfg GoogleConfig, logger *slog.Logger, opts ...option.ClientOption) (*Google, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("sheets: spreadsheet id is required")
	}
	if cfg.SheetName == "" {
		cfg.SheetName = DefaultSheetName
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	opts = append(opts, option.WithScopes(gsheets.SpreadsheetsScope))

	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}
	return &Google{
		svc:    svc,
		config: cfg,
		logger: logger.With("component", "sheets", "backend", "google", "sheet", cfg.SheetName),
	}, nil
}

// Append writes rec as a new row.
func (g *Google) Append(ctx context.Context, rec domain.Record) (string, error) {
	headers, err := g.ensureHeaders(ctx)
	if err != nil {
		return "", err
	}

	values, err := sheetrow.Build(headers, rec)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAppendFailed, err)
	}

	resp, err := g.svc.Spreadsheets.Values.
		Append(g.config.SpreadsheetID, quoteSheet(g.config.SheetName), &gsheets.ValueRange{
			Values: [][]any{toCells(values)},
		}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("%w: append row: %w", ErrAppendFailed, err)
	}

	ref := ""
	if resp.Updates != nil {
		ref = resp.Updates.UpdatedRange
	}
	g.logger.Info("row appended", "range", ref, "columns", len(values))
	return ref, nil
}

// ensureHeaders returns the sheet's header row, writing the default one
// when the sheet has none.
func (g *Google) ensureHeaders(ctx context.Context) ([]string, error) {
	headerRange := quoteSheet(g.config.SheetName) + "!1:1"
	resp, err := g.svc.Spreadsheets.Values.Get(g.config.SpreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: load header row: %w", ErrAppendFailed, err)
	}

	var headers []string
	if len(resp.Values) > 0 {
		for _, cell := range resp.Values[0] {
			headers = append(headers, fmt.Sprint(cell))
		}
	}
	if len(headers) > 0 {
		return headers, nil
	}

	headers = sheetrow.DefaultHeaders()
	_, err = g.svc.Spreadsheets.Values.
		Update(g.config.SpreadsheetID, quoteSheet(g.config.SheetName)+"!A1", &gsheets.ValueRange{
			Values: [][]any{toCells(headers)},
		}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: write header row: %w", ErrAppendFailed, err)
	}
	g.logger.Info("header row written", "columns", len(headers))
	return headers, nil
}

// quoteSheet quotes a sheet name for use in A1 notation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
