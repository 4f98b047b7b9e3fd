// Package sqlite stores the ledger in a single SQLite file through database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/trust_ledger/internal/apperrors"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// timeLayout is fixed width so stored timestamps sort lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	DB *sql.DB
}

// Begin starts a new database transaction. The DSN makes it BEGIN IMMEDIATE.
func (r *BaseRepository) Begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(tx *sql.Tx) error {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func ts(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullTS(t sql.NullTime) any {
	if !t.Valid {
		return nil
	}
	return ts(t.Time)
}

// uniqueViolation reports the "table.column" list of a failed UNIQUE constraint.
func uniqueViolation(err error) (string, bool) {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		_, columns, _ := strings.Cut(sqliteErr.Error(), "constraint failed: ")
		return columns, true
	}
	return "", false
}

// notFound maps sql.ErrNoRows to apperrors.ErrNotFound and wraps everything else.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("failed to find %s: %w", what, err)
}

// sumColumns adds up two decimal text columns in Go; SQLite would sum them as floats.
func sumColumns(ctx context.Context, q querier, query string, args ...any) (decimal.Decimal, decimal.Decimal, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	defer rows.Close()

	debit, credit := decimal.Zero, decimal.Zero
	for rows.Next() {
		var d, c decimal.Decimal
		if err := rows.Scan(&d, &c); err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		debit = debit.Add(d)
		credit = credit.Add(c)
	}
	return debit, credit, rows.Err()
}
