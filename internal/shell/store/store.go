package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Store Interface
// =============================================================================

// Store defines the persistence interface for sheets held in the local
// database: a header row per sheet and the data rows appended beneath it.
type Store interface {
	// Header operations
	GetHeaders(ctx context.Context, sheet string) ([]string, error)
	SetHeaders(ctx context.Context, sheet string, headers []string) error

	// Row operations
	AppendRow(ctx context.Context, row *Row) error
	GetRow(ctx context.Context, id string) (*Row, error)
	ListRows(ctx context.Context, sheet string, opts ListOptions) ([]Row, error)
	CountRows(ctx context.Context, sheet string) (int, error)

	// Transaction support
	WithTx(ctx context.Context, fn func(Store) error) error

	// Lifecycle
	Close() error
}

// =============================================================================
// Entities
// =============================================================================

// Row is one appended sheet row. Values line up with the sheet's header row
// at the time of the append.
type Row struct {
	ID        string
	Sheet     string
	Values    []string
	CreatedAt time.Time
}

// NewRow creates a row with a fresh ID.
func NewRow(sheet string, values []string) *Row {
	return &Row{
		ID:        "row_" + uuid.New().String()[:8],
		Sheet:     sheet,
		Values:    values,
		CreatedAt: time.Now().UTC(),
	}
}

// =============================================================================
// Options
// =============================================================================

// ListOptions defines pagination and filtering options.
type ListOptions struct {
	Limit  int
	Offset int
}

// DefaultListOptions returns default list options.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Limit:  100,
		Offset: 0,
	}
}

// Normalize ensures list options have valid values.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = 100
	}
	if o.Limit > 1000 {
		o.Limit = 1000
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}
