package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// =============================================================================
// Executor Interface - Shared by DB and Transaction
// =============================================================================

// executor abstracts database operations that can be performed on both
// a database connection and a transaction.
type executor interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// SQLiteStore
// =============================================================================

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore creates a new SQLite store and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	// Open database connection
	db, err := sqlx.Open("sqlite3", dsn+"?_foreign_keys=on")
	if err != nil {
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to open database", ErrConnectionFailed)
	}

	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to ping database", ErrConnectionFailed)
	}

	// Run migrations
	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", err.Error(), ErrMigrationFailed)
	}

	return &SQLiteStore{db: db}, nil
}

// runMigrations runs database migrations using embedded SQL files.
func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStoreError("Ping", "", "", err.Error(), ErrConnectionFailed)
	}
	return nil
}

// =============================================================================
// Header Operations
// =============================================================================

// headerRow represents a sheet header row in the database.
type headerRow struct {
	Sheet     string `db:"sheet"`
	Headers   string `db:"headers"`
	UpdatedAt string `db:"updated_at"`
}

func (s *SQLiteStore) GetHeaders(ctx context.Context, sheet string) ([]string, error) {
	return getHeaders(ctx, s.db, sheet)
}

func (s *SQLiteStore) SetHeaders(ctx context.Context, sheet string, headers []string) error {
	return setHeaders(ctx, s.db, sheet, headers)
}

// =============================================================================
// Row Operations
// =============================================================================

// sheetRow represents an appended row in the database.
type sheetRow struct {
	ID        string `db:"id"`
	Sheet     string `db:"sheet"`
	Values    string `db:"row_values"`
	CreatedAt string `db:"created_at"`
}

func (s *SQLiteStore) AppendRow(ctx context.Context, row *Row) error {
	return appendRow(ctx, s.db, row)
}

func (s *SQLiteStore) GetRow(ctx context.Context, id string) (*Row, error) {
	return getRow(ctx, s.db, id)
}

func (s *SQLiteStore) ListRows(ctx context.Context, sheet string, opts ListOptions) ([]Row, error) {
	return listRows(ctx, s.db, sheet, opts)
}

func (s *SQLiteStore) CountRows(ctx context.Context, sheet string) (int, error) {
	return countRows(ctx, s.db, sheet)
}

// =============================================================================
// Transaction Support
// =============================================================================

func (s *SQLiteStore) WithTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return NewStoreError("WithTx", "", "", "failed to begin transaction", ErrTxFailed)
	}

	txS := &txSQLiteStore{tx: tx}

	if err := fn(txS); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return NewStoreError("WithTx", "", "", fmt.Sprintf("rollback failed after error: %v", err), ErrTxFailed)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return NewStoreError("WithTx", "", "", "failed to commit transaction", ErrTxFailed)
	}

	return nil
}

// =============================================================================
// Transaction Store
// =============================================================================

// txSQLiteStore implements Store within a transaction.
type txSQLiteStore struct {
	tx *sqlx.Tx
}

func (s *txSQLiteStore) GetHeaders(ctx context.Context, sheet string) ([]string, error) {
	return getHeaders(ctx, s.tx, sheet)
}

func (s *txSQLiteStore) SetHeaders(ctx context.Context, sheet string, headers []string) error {
	return setHeaders(ctx, s.tx, sheet, headers)
}

func (s *txSQLiteStore) AppendRow(ctx context.Context, row *Row) error {
	return appendRow(ctx, s.tx, row)
}

func (s *txSQLiteStore) GetRow(ctx context.Context, id string) (*Row, error) {
	return getRow(ctx, s.tx, id)
}

func (s *txSQLiteStore) ListRows(ctx context.Context, sheet string, opts ListOptions) ([]Row, error) {
	return listRows(ctx, s.tx, sheet, opts)
}

func (s *txSQLiteStore) CountRows(ctx context.Context, sheet string) (int, error) {
	return countRows(ctx, s.tx, sheet)
}

func (s *txSQLiteStore) WithTx(ctx context.Context, fn func(Store) error) error {
	// Already in a transaction, just run the function
	return fn(s)
}

func (s *txSQLiteStore) Close() error {
	// No-op for tx store
	return nil
}

// =============================================================================
// Shared Implementation Functions
// =============================================================================

func getHeaders(ctx context.Context, exec executor, sheet string) ([]string, error) {
	query := `SELECT * FROM sheet_headers WHERE sheet = ?`

	var row headerRow
	err := exec.GetContext(ctx, &row, query, sheet)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetHeaders", "header", sheet, "header row not found", ErrNotFound)
		}
		return nil, NewStoreError("GetHeaders", "header", sheet, err.Error(), err)
	}

	var headers []string
	if err := json.Unmarshal([]byte(row.Headers), &headers); err != nil {
		return nil, NewStoreError("GetHeaders", "header", sheet, "failed to deserialize headers", ErrInvalidData)
	}
	if len(headers) == 0 {
		return nil, NewStoreError("GetHeaders", "header", sheet, "header row is empty", ErrNotFound)
	}
	return headers, nil
}

func setHeaders(ctx context.Context, exec executor, sheet string, headers []string) error {
	headersJSON, err := json.Marshal(headers)
	if err != nil {
		return NewStoreError("SetHeaders", "header", sheet, "failed to serialize headers", ErrInvalidData)
	}

	query := `
		INSERT INTO sheet_headers (sheet, headers, updated_at)
		VALUES (:sheet, :headers, :updated_at)
		ON CONFLICT(sheet) DO UPDATE SET
			headers = excluded.headers,
			updated_at = excluded.updated_at`

	row := map[string]any{
		"sheet":      sheet,
		"headers":    string(headersJSON),
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := exec.NamedExecContext(ctx, query, row); err != nil {
		return NewStoreError("SetHeaders", "header", sheet, err.Error(), err)
	}
	return nil
}

func appendRow(ctx context.Context, exec executor, row *Row) error {
	valuesJSON, err := json.Marshal(row.Values)
	if err != nil {
		return NewStoreError("AppendRow", "row", row.ID, "failed to serialize values", ErrInvalidData)
	}

	query := `
		INSERT INTO sheet_rows (id, sheet, row_values, created_at)
		VALUES (:id, :sheet, :row_values, :created_at)`

	params := map[string]any{
		"id":         row.ID,
		"sheet":      row.Sheet,
		"row_values": string(valuesJSON),
		"created_at": row.CreatedAt.Format(time.RFC3339Nano),
	}

	_, err = exec.NamedExecContext(ctx, query, params)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: sheet_rows.id") {
			return NewStoreError("AppendRow", "row", row.ID, "row with this ID already exists", ErrDuplicateID)
		}
		return NewStoreError("AppendRow", "row", row.ID, err.Error(), err)
	}
	return nil
}

func getRow(ctx context.Context, exec executor, id string) (*Row, error) {
	query := `SELECT * FROM sheet_rows WHERE id = ?`

	var r sheetRow
	err := exec.GetContext(ctx, &r, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetRow", "row", id, "row not found", ErrNotFound)
		}
		return nil, NewStoreError("GetRow", "row", id, err.Error(), err)
	}

	return rowFromDB(&r)
}

func listRows(ctx context.Context, exec executor, sheet string, opts ListOptions) ([]Row, error) {
	opts = opts.Normalize()
	query := `SELECT * FROM sheet_rows WHERE sheet = ? ORDER BY rowid LIMIT ? OFFSET ?`

	var dbRows []sheetRow
	if err := exec.SelectContext(ctx, &dbRows, query, sheet, opts.Limit, opts.Offset); err != nil {
		return nil, NewStoreError("ListRows", "row", "", err.Error(), err)
	}

	rows := make([]Row, 0, len(dbRows))
	for i := range dbRows {
		r, err := rowFromDB(&dbRows[i])
		if err != nil {
			return nil, err
		}
		rows = append(rows, *r)
	}
	return rows, nil
}

func countRows(ctx context.Context, exec executor, sheet string) (int, error) {
	var n int
	if err := exec.GetContext(ctx, &n, `SELECT COUNT(*) FROM sheet_rows WHERE sheet = ?`, sheet); err != nil {
		return 0, NewStoreError("CountRows", "row", "", err.Error(), err)
	}
	return n, nil
}

func rowFromDB(r *sheetRow) (*Row, error) {
	var values []string
	if err := json.Unmarshal([]byte(r.Values), &values); err != nil {
		return nil, NewStoreError("GetRow", "row", r.ID, "failed to deserialize values", ErrInvalidData)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return nil, NewStoreError("GetRow", "row", r.ID, "invalid created_at", ErrInvalidData)
	}
	return &Row{
		ID:        r.ID,
		Sheet:     r.Sheet,
		Values:    values,
		CreatedAt: createdAt,
	}, nil
}
