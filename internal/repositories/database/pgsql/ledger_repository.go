package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/trust_ledger/internal/models"
	"github.com/SscSPs/trust_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const ownerEntryColumns = `e.entry_id, e.owner_id, e.transaction_id, e.counterparty_id, e.voucher_no, e.voucher_date, e.category,
	e.debit, e.credit, e.running_balance, e.unit_id, e.particulars, e.transfer_group_id, e.created_at, o.owner_type`

const ownerEntryFrom = ` FROM owner_ledger_entries e LEFT JOIN owners o ON o.owner_id = e.counterparty_id`

const attachmentColumns = `attachment_id, transaction_id, attachment_type, file_name, storage_key, mime_type, size_bytes, uploaded_at`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates the read side used by owner and account statements.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerReader {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerReader = (*PgxLedgerRepository)(nil)

func scanOwnerEntry(row pgx.Row) (models.OwnerLedgerEntry, error) {
	var m models.OwnerLedgerEntry
	err := row.Scan(
		&m.EntryID, &m.OwnerID, &m.TransactionID, &m.CounterpartyID, &m.VoucherNo, &m.VoucherDate, &m.Category,
		&m.Debit, &m.Credit, &m.RunningBalance, &m.UnitID, &m.Particulars, &m.TransferGroupID, &m.CreatedAt, &m.CounterpartyType,
	)
	return m, err
}

func queryOwnerEntries(ctx context.Context, q querier, query string, args ...any) ([]domain.OwnerLedgerEntry, error) {
	rows, err := q.Query(ctx, query, args...)
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

// firstOwnerEntry returns the single row of query, or nil when there is none.
func firstOwnerEntry(ctx context.Context, q querier, query string, args ...any) (*domain.OwnerLedgerEntry, error) {
	entries, err := queryOwnerEntries(ctx, q, query, args...)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[0], nil
}

func latestOwnerEntry(ctx context.Context, q querier, ownerID string) (*domain.OwnerLedgerEntry, error) {
	return firstOwnerEntry(ctx, q, `SELECT `+ownerEntryColumns+ownerEntryFrom+`
		WHERE e.owner_id = $1 ORDER BY e.created_at DESC, e.entry_id DESC LIMIT 1;`, ownerID)
}

func (r *PgxLedgerRepository) ListOwnerEntries(ctx context.Context, ownerID string, dateRange domain.DateRange) ([]domain.OwnerLedgerEntry, error) {
	args := []any{ownerID}
	query := `SELECT ` + ownerEntryColumns + ownerEntryFrom + ` WHERE e.owner_id = $1`
	if dateRange.From != nil {
		args = append(args, dateRange.From.UTC())
		query += fmt.Sprintf(" AND e.created_at >= $%d", len(args))
	}
	if dateRange.To != nil {
		args = append(args, dateRange.To.UTC())
		query += fmt.Sprintf(" AND e.created_at < $%d", len(args))
	}
	query += " ORDER BY e.created_at ASC, e.entry_id ASC;"
	return queryOwnerEntries(ctx, r.Pool, query, args...)
}

func (r *PgxLedgerRepository) FindEarliestOwnerEntry(ctx context.Context, ownerID string) (*domain.OwnerLedgerEntry, error) {
	return firstOwnerEntry(ctx, r.Pool, `SELECT `+ownerEntryColumns+ownerEntryFrom+`
		WHERE e.owner_id = $1 ORDER BY e.created_at ASC, e.entry_id ASC LIMIT 1;`, ownerID)
}

func (r *PgxLedgerRepository) FindLatestOwnerEntry(ctx context.Context, ownerID string) (*domain.OwnerLedgerEntry, error) {
	return latestOwnerEntry(ctx, r.Pool, ownerID)
}

func (r *PgxLedgerRepository) SumOwnerEntriesBefore(ctx context.Context, ownerID string, cutoff time.Time, excludeEntryID int64) (decimal.Decimal, decimal.Decimal, error) {
	var debit, credit decimal.Decimal
	err := r.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM owner_ledger_entries
		WHERE owner_id = $1 AND created_at < $2 AND entry_id <> $3;`,
		ownerID, cutoff.UTC(), excludeEntryID).Scan(&debit, &credit)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum entries for owner %s: %w", ownerID, err)
	}
	return debit, credit, nil
}

func (r *PgxLedgerRepository) ListAccountEntries(ctx context.Context, accountID string, dateRange domain.DateRange) ([]domain.AccountLedgerRow, error) {
	args := []any{accountID}
	query := `
		SELECT g.entry_id, g.transaction_id, g.account_id, g.debit, g.credit, g.description, g.created_at,
		       t.voucher_no, t.voucher_date, t.particulars, t.from_owner_id, t.to_owner_id
		FROM general_ledger_entries g
		JOIN transactions t ON t.transaction_id = g.transaction_id
		WHERE g.account_id = $1`
	if dateRange.From != nil {
		args = append(args, dateRange.From.UTC())
		query += fmt.Sprintf(" AND COALESCE(t.voucher_date, t.created_at) >= $%d", len(args))
	}
	if dateRange.To != nil {
		args = append(args, dateRange.To.UTC())
		query += fmt.Sprintf(" AND COALESCE(t.voucher_date, t.created_at) < $%d", len(args))
	}
	query += " ORDER BY g.transaction_id ASC, g.entry_id ASC;"

	rows, err := r.Pool.Query(ctx, query, args...)
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

func (r *PgxLedgerRepository) SumAccountEntriesBefore(ctx context.Context, accountID string, cutoff time.Time) (decimal.Decimal, decimal.Decimal, error) {
	var debit, credit decimal.Decimal
	err := r.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(g.debit), 0), COALESCE(SUM(g.credit), 0)
		FROM general_ledger_entries g
		JOIN transactions t ON t.transaction_id = g.transaction_id
		WHERE g.account_id = $1 AND COALESCE(t.voucher_date, t.created_at) < $2;`,
		accountID, cutoff.UTC()).Scan(&debit, &credit)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum entries for account %s: %w", accountID, err)
	}
	return debit, credit, nil
}

func (r *PgxLedgerRepository) FindInstrumentsByTransactionIDs(ctx context.Context, transactionIDs []int64) (map[int64][]domain.TransactionInstrument, error) {
	return findInstruments(ctx, r.Pool, transactionIDs)
}

func (r *PgxLedgerRepository) FindAttachmentsByTransactionIDs(ctx context.Context, transactionIDs []int64) (map[int64][]domain.TransactionAttachment, error) {
	return findAttachments(ctx, r.Pool, transactionIDs)
}

func findInstruments(ctx context.Context, q querier, transactionIDs []int64) (map[int64][]domain.TransactionInstrument, error) {
	out := make(map[int64][]domain.TransactionInstrument)
	if len(transactionIDs) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx, `
		SELECT instrument_id, transaction_id, instrument_type, instrument_no, created_at
		FROM transaction_instruments WHERE transaction_id = ANY($1) ORDER BY instrument_id;`, transactionIDs)
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

func findAttachments(ctx context.Context, q querier, transactionIDs []int64) (map[int64][]domain.TransactionAttachment, error) {
	out := make(map[int64][]domain.TransactionAttachment)
	if len(transactionIDs) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx, `SELECT `+attachmentColumns+` FROM transaction_attachments
		WHERE transaction_id = ANY($1) ORDER BY attachment_id;`, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.TransactionAttachment
		if err := rows.Scan(&m.AttachmentID, &m.TransactionID, &m.AttachmentType, &m.FileName, &m.StorageKey, &m.MimeType, &m.SizeBytes, &m.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		out[m.TransactionID] = append(out[m.TransactionID], mapping.ToDomainAttachment(m))
	}
	return out, rows.Err()
}

func queryGLEntries(ctx context.Context, q querier, transactionID int64) ([]domain.GeneralLedgerEntry, error) {
	rows, err := q.Query(ctx, `
		SELECT entry_id, transaction_id, account_id, debit, credit, description, created_at
		FROM general_ledger_entries WHERE transaction_id = $1 ORDER BY entry_id;`, transactionID)
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
