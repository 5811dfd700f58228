// Package sheets appends registration records to a spreadsheet.
//
// Every appender follows the same protocol: read the sheet's header row,
// write the default header row when the sheet has none, then append the
// flattened record laid out in the sheet's own header order.
package sheets

import (
	"context"
	"errors"

	"github.com/Neoksnaman/bizRegForm/internal/core/domain"
)

// DefaultSheetName is the tab rows are appended to when none is configured.
const DefaultSheetName = "Sheet1"

// ErrAppendFailed wraps every append failure.
var ErrAppendFailed = errors.New("append to sheet failed")

// Appender persists one record as one sheet row. It returns a reference to
// the written row.
type Appender interface {
	Append(ctx context.Context, rec domain.Record) (string, error)
}
