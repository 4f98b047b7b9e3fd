package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/trust_ledger/internal/models"
	"github.com/SscSPs/trust_ledger/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

const ownerEntryColumns = `e.entry_id, e.owner_id, e.transaction_id, e.counterparty_id, e.voucher_no, e.voucher_date, e.category,
	e.debit, e.credit, e.running_balance, e.unit_id, e.particulars, e.transfer_group_id, e.created_at, o.owner_type`

const ownerEntryFrom = ` FROM owner_ledger_entries e LEFT JOIN owners o ON o.owner_id = e.counterparty_id`

const attachmentColumns = `attachment_id, transaction_id, attachment_type, file_name, storage_key, mime_type, size_bytes, uploaded_at`

type SQLiteLedgerRepository struct {
	BaseRepository
}

func newSQLiteLedgerRepository(db *sql.DB) portsrepo.LedgerReader {
	return &SQLiteLedgerRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.LedgerReader = (*SQLiteLedgerRepository)(nil)

// inClause returns "?, ?, ?" and the matching args.
func inClause[T any](values []T) (string, []any) {
	marks := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		marks[i] = "?"
		args[i] = v
	}
	return strings.Join(marks, ", "), args
}

func scanOwnerEntry(row scanner) (models.OwnerLedgerEntry, error) {
	var m models.OwnerLedgerEntry
	err := row.Scan(
		&m.EntryID, &m.OwnerID, &m.TransactionID, &m.CounterpartyID, &m.VoucherNo, &m.VoucherDate, &m.Category,
		&m.Debit, &m.Credit, &m.RunningBalance, &m.UnitID, &m.Particulars, &m.TransferGroupID, &m.CreatedAt, &m.CounterpartyType,
	)
	return m, err
}

func queryOwnerEntries(ctx context.Context, q querier, query string, args ...any) ([]domain.OwnerLedgerEntry, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query owner ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.OwnerLedgerEntry
	for rows.Next() {
		m, err := scanOwnerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan owner ledger entry: %w", err)
		}
		entries = append(entries, mapping.ToDomainOwnerLedgerEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate owner ledger entries: %w", err)
	}
	return entries, nil
}

func firstOwnerEntry(ctx context.Context, q querier, query string, args ...any) (*domain.OwnerLedgerEntry, error) {
	entries, err := queryOwnerEntries(ctx, q, query, args...)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[0], nil
}

func latestOwnerEntry(ctx context.Context, q querier, ownerID string) (*domain.OwnerLedgerEntry, error) {
	return firstOwnerEntry(ctx, q, `SELECT `+ownerEntryColumns+ownerEntryFrom+`
		WHERE e.owner_id = ? ORDER BY e.created_at DESC, e.entry_id DESC LIMIT 1;`, ownerID)
}

func (r *SQLiteLedgerRepository) ListOwnerEntries(ctx context.Context, ownerID string, dateRange domain.DateRange) ([]domain.OwnerLedgerEntry, error) {
	query := `SELECT ` + ownerEntryColumns + ownerEntryFrom + ` WHERE e.owner_id = ?`
	args := []any{ownerID}
	if dateRange.From != nil {
		query += " AND e.created_at >= ?"
		args = append(args, ts(*dateRange.From))
	}
	if dateRange.To != nil {
		query += " AND e.created_at < ?"
		args = append(args, ts(*dateRange.To))
	}
	return queryOwnerEntries(ctx, r.DB, query+" ORDER BY e.created_at ASC, e.entry_id ASC;", args...)
}

func (r *SQLiteLedgerRepository) FindEarliestOwnerEntry(ctx context.Context, ownerID string) (*domain.OwnerLedgerEntry, error) {
	return firstOwnerEntry(ctx, r.DB, `SELECT `+ownerEntryColumns+ownerEntryFrom+`
		WHERE e.owner_id = ? ORDER BY e.created_at ASC, e.entry_id ASC LIMIT 1;`, ownerID)
}

func (r *SQLiteLedgerRepository) FindLatestOwnerEntry(ctx context.Context, ownerID string) (*domain.OwnerLedgerEntry, error) {
	return latestOwnerEntry(ctx, r.DB, ownerID)
}

func (r *SQLiteLedgerRepository) SumOwnerEntriesBefore(ctx context.Context, ownerID string, cutoff time.Time, excludeEntryID int64) (decimal.Decimal, decimal.Decimal, error) {
	debit, credit, err := sumColumns(ctx, r.DB, `
		SELECT debit, credit FROM owner_ledger_entries
		WHERE owner_id = ? AND created_at < ? AND entry_id <> ?;`, ownerID, ts(cutoff), excludeEntryID)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum entries for owner %s: %w", ownerID, err)
	}
	return debit, credit, nil
}

func (r *SQLiteLedgerRepository) ListAccountEntries(ctx context.Context, accountID string, dateRange domain.DateRange) ([]domain.AccountLedgerRow, error) {
	query := `
		SELECT g.entry_id, g.transaction_id, g.account_id, g.debit, g.credit, g.description, g.created_at,
		       t.voucher_no, t.voucher_date, t.particulars, t.from_owner_id, t.to_owner_id
		FROM general_ledger_entries g
		JOIN transactions t ON t.transaction_id = g.transaction_id
		WHERE g.account_id = ?`
	args := []any{accountID}
	if dateRange.From != nil {
		query += " AND COALESCE(t.voucher_date, t.created_at) >= ?"
		args = append(args, ts(*dateRange.From))
	}
	if dateRange.To != nil {
		query += " AND COALESCE(t.voucher_date, t.created_at) < ?"
		args = append(args, ts(*dateRange.To))
	}

	rows, err := r.DB.QueryContext(ctx, query+" ORDER BY g.transaction_id ASC, g.entry_id ASC;", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query account %s entries: %w", accountID, err)
	}
	defer rows.Close()

	var out []domain.AccountLedgerRow
	for rows.Next() {
		var (
			g   models.GeneralLedgerEntry
			txn models.Transaction
		)
		if err := rows.Scan(&g.EntryID, &g.TransactionID, &g.AccountID, &g.Debit, &g.Credit, &g.Description, &g.CreatedAt,
			&txn.VoucherNo, &txn.VoucherDate, &txn.Particulars, &txn.FromOwnerID, &txn.ToOwnerID); err != nil {
			return nil, fmt.Errorf("failed to scan account ledger row: %w", err)
		}
		out = append(out, domain.AccountLedgerRow{
			Entry:       mapping.ToDomainGeneralLedgerEntry(g),
			VoucherNo:   txn.VoucherNo.String,
			VoucherDate: mapping.TimePtr(txn.VoucherDate),
			Particulars: txn.Particulars,
			FromOwnerID: txn.FromOwnerID,
			ToOwnerID:   txn.ToOwnerID,
		})
	}
	return out, rows.Err()
}

func (r *SQLiteLedgerRepository) SumAccountEntriesBefore(ctx context.Context, accountID string, cutoff time.Time) (decimal.Decimal, decimal.Decimal, error) {
	debit, credit, err := sumColumns(ctx, r.DB, `
		SELECT g.debit, g.credit
		FROM general_ledger_entries g
		JOIN transactions t ON t.transaction_id = g.transaction_id
		WHERE g.account_id = ? AND COALESCE(t.voucher_date, t.created_at) < ?;`, accountID, ts(cutoff))
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum entries for account %s: %w", accountID, err)
	}
	return debit, credit, nil
}

func (r *SQLiteLedgerRepository) FindInstrumentsByTransactionIDs(ctx context.Context, transactionIDs []int64) (map[int64][]domain.TransactionInstrument, error) {
	return findInstruments(ctx, r.DB, transactionIDs)
}

func (r *SQLiteLedgerRepository) FindAttachmentsByTransactionIDs(ctx context.Context, transactionIDs []int64) (map[int64][]domain.TransactionAttachment, error) {
	return findAttachments(ctx, r.DB, transactionIDs)
}

func findInstruments(ctx context.Context, q querier, transactionIDs []int64) (map[int64][]domain.TransactionInstrument, error) {
	out := make(map[int64][]domain.TransactionInstrument)
	if len(transactionIDs) == 0 {
		return out, nil
	}
	marks, args := inClause(transactionIDs)
	rows, err := q.QueryContext(ctx, `
		SELECT instrument_id, transaction_id, instrument_type, instrument_no, created_at
		FROM transaction_instruments WHERE transaction_id IN (`+marks+`) ORDER BY instrument_id;`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query instruments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.TransactionInstrument
		if err := rows.Scan(&m.InstrumentID, &m.TransactionID, &m.InstrumentType, &m.InstrumentNo, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan instrument: %w", err)
		}
		out[m.TransactionID] = append(out[m.TransactionID], mapping.ToDomainInstrument(m))
	}
	return out, rows.Err()
}

func scanAttachment(row scanner) (models.TransactionAttachment, error) {
	var m models.TransactionAttachment
	err := row.Scan(&m.AttachmentID, &m.TransactionID, &m.AttachmentType, &m.FileName, &m.StorageKey, &m.MimeType, &m.SizeBytes, &m.UploadedAt)
	return m, err
}

func findAttachments(ctx context.Context, q querier, transactionIDs []int64) (map[int64][]domain.TransactionAttachment, error) {
	out := make(map[int64][]domain.TransactionAttachment)
	if len(transactionIDs) == 0 {
		return out, nil
	}
	marks, args := inClause(transactionIDs)
	rows, err := q.QueryContext(ctx, `SELECT `+attachmentColumns+` FROM transaction_attachments
		WHERE transaction_id IN (`+marks+`) ORDER BY attachment_id;`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		out[m.TransactionID] = append(out[m.TransactionID], mapping.ToDomainAttachment(m))
	}
	return out, rows.Err()
}

func queryGLEntries(ctx context.Context, q querier, transactionID int64) ([]domain.GeneralLedgerEntry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT entry_id, transaction_id, account_id, debit, credit, description, created_at
		FROM general_ledger_entries WHERE transaction_id = ? ORDER BY entry_id;`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query general ledger entries: %w", err)
	}
	defer rows.Close()

	var out []domain.GeneralLedgerEntry
	for rows.Next() {
		var m models.GeneralLedgerEntry
		if err := rows.Scan(&m.EntryID, &m.TransactionID, &m.AccountID, &m.Debit, &m.Credit, &m.Description, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan general ledger entry: %w", err)
		}
		out = append(out, mapping.ToDomainGeneralLedgerEntry(m))
	}
	return out, rows.Err()
}
