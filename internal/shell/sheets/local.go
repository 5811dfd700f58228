package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Neoksnaman/bizRegForm/internal/core/domain"
	"github.com/Neoksnaman/bizRegForm/internal/core/sheetrow"
	"github.com/Neoksnaman/bizRegForm/internal/shell/store"
)

// Local appends rows to a sheet kept in the local database.
type Local struct {
	store  store.Store
	sheet  string
	logger *slog.Logger
}

// NewLocal creates an appender over s.
func NewLocal(s store.Store, sheet string, logger *slog.Logger) *Local {
	if sheet == "" {
		sheet = DefaultSheetName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Local{
		store:  s,
		sheet:  sheet,
		logger: logger.With("component", "sheets", "backend", "sqlite", "sheet", sheet),
	}
}

// Append writes rec as a new row. The header check and the append share one
// transaction.
func (l *Local) Append(ctx context.Context, rec domain.Record) (string, error) {
	var row *store.Row
	err := l.store.WithTx(ctx, func(tx store.Store) error {
		headers, err := tx.GetHeaders(ctx, l.sheet)
		if errors.Is(err, store.ErrNotFound) {
			headers = sheetrow.DefaultHeaders()
			if err := tx.SetHeaders(ctx, l.sheet, headers); err != nil {
				return err
			}
			l.logger.Info("header row written", "columns", len(headers))
		} else if err != nil {
			return err
		}

		values, err := sheetrow.Build(headers, rec)
		if err != nil {
			return err
		}
		row = store.NewRow(l.sheet, values)
		return tx.AppendRow(ctx, row)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAppendFailed, err)
	}

	l.logger.Info("row appended", "row_id", row.ID, "columns", len(row.Values))
	return row.ID, nil
}
