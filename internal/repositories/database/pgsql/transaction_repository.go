package pgsql

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/trust_ledger/internal/apperrors"
	"github.com/SscSPs/trust_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/trust_ledger/internal/middleware"
	"github.com/SscSPs/trust_ledger/internal/models"
	"github.com/SscSPs/trust_ledger/internal/utils/mapping"
	"github.com/SscSPs/trust_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, voucher_no, voucher_date, category, method, trans_type, from_owner_id, to_owner_id,
	unit_id, amount, fund_reference, particulars, transfer_group_id, person_in_charge, status, is_posted, posted_at,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transactions and their posting unit of work.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID, &m.VoucherNo, &m.VoucherDate, &m.Category, &m.Method, &m.TransType, &m.FromOwnerID, &m.ToOwnerID,
		&m.UnitID, &m.Amount, &m.FundReference, &m.Particulars, &m.TransferGroupID, &m.PersonInCharge, &m.Status, &m.IsPosted, &m.PostedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// RunInTx opens a transaction, hands it to fn and commits only if fn succeeds.
func (r *PgxTransactionRepository) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.PostingTx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := r.Rollback(context.WithoutCancel(ctx), tx); rbErr != nil {
			middleware.GetLoggerFromCtx(ctx).Error("Rollback failed", slog.String("error", rbErr.Error()))
		}
	}()

	if err := fn(ctx, &pgxPostingTx{tx: tx}); err != nil {
		return err
	}
	if err := r.Commit(ctx, tx); err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return conflictFor(constraint)
		}
		if numericOverflow(err) {
			return apperrors.NewIntegrityFailure("amount out of range for storage", err)
		}
		return err
	}
	return nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	m, err := scanTransaction(r.Pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = $1;`, transactionID))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("transaction %d", transactionID))
	}
	txn := mapping.ToDomainTransaction(m)
	ids := []int64{txn.TransactionID}

	instruments, err := findInstruments(ctx, r.Pool, ids)
	if err != nil {
		return nil, err
	}
	attachments, err := findAttachments(ctx, r.Pool, ids)
	if err != nil {
		return nil, err
	}
	txn.Instruments = instruments[txn.TransactionID]
	txn.Attachments = attachments[txn.TransactionID]

	txn.LedgerEntries, err = queryOwnerEntries(ctx, r.Pool, `SELECT `+ownerEntryColumns+ownerEntryFrom+` WHERE e.transaction_id = $1 ORDER BY e.entry_id ASC;`, transactionID)
	if err != nil {
		return nil, err
	}
	txn.GLEntries, err = queryGLEntries(ctx, r.Pool, transactionID)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := []any{}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE TRUE`
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		query += fmt.Sprintf(" AND (from_owner_id = $%d OR to_owner_id = $%d)", len(args), len(args))
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("nextToken", err.Error())
		}
		args = append(args, cursor.CreatedAt, cursor.ID)
		query += fmt.Sprintf(" AND (created_at, transaction_id) < ($%d, $%d)", len(args)-1, len(args))
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY created_at DESC, transaction_id DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, mapping.ToDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	var next *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		next = &token
	}
	return txns, next, nil
}

func (r *PgxTransactionRepository) FindAttachment(ctx context.Context, transactionID, attachmentID int64) (*domain.TransactionAttachment, error) {
	var m models.TransactionAttachment
	err := r.Pool.QueryRow(ctx, `SELECT `+attachmentColumns+` FROM transaction_attachments WHERE transaction_id = $1 AND attachment_id = $2;`,
		transactionID, attachmentID).Scan(
		&m.AttachmentID, &m.TransactionID, &m.AttachmentType, &m.FileName, &m.StorageKey, &m.MimeType, &m.SizeBytes, &m.UploadedAt)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("attachment %d", attachmentID))
	}
	d := mapping.ToDomainAttachment(m)
	return &d, nil
}

func (r *PgxTransactionRepository) VoucherNoExists(ctx context.Context, voucherNo string) (bool, error) {
	return voucherNoExists(ctx, r.Pool, voucherNo)
}

func voucherNoExists(ctx context.Context, q querier, voucherNo string) (bool, error) {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE voucher_no = $1);`, voucherNo).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check voucher number: %w", err)
	}
	return exists, nil
}

// postingWriteError maps a failed posting write: unique violations become
// conflicts, NUMERIC overflow an integrity failure.
func postingWriteError(err error, op string) error {
	if constraint, ok := uniqueViolation(err); ok {
		return conflictFor(constraint)
	}
	if numericOverflow(err) {
		return apperrors.NewIntegrityFailure(op+": amount out of range for storage", err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// conflictFor translates a unique constraint name into a caller-facing conflict.
func conflictFor(constraint string) error {
	switch constraint {
	case "uq_transactions_voucher_no":
		return apperrors.NewConflictError("voucherNo", "voucher number already exists")
	case "uq_owner_ledger_entries_owner_txn":
		return apperrors.NewConflictError("", "transaction already posted for owner")
	default:
		return apperrors.NewConflictError("", "duplicate "+constraint)
	}
}

// Owners are locked in id order so concurrent postings over the same pair cannot deadlock.
const lockOwnersQuery = `SELECT ` + ownerColumns + ` FROM owners WHERE owner_id = ANY($1) ORDER BY owner_id FOR UPDATE;`

// pgxPostingTx implements PostingTx on an open pgx transaction.
type pgxPostingTx struct {
	tx pgx.Tx
}

var _ portsrepo.PostingTx = (*pgxPostingTx)(nil)

func (p *pgxPostingTx) LockOwners(ctx context.Context, ownerIDs []string) (map[string]domain.Owner, error) {
	rows, err := p.tx.Query(ctx, lockOwnersQuery, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock owners: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Owner, len(ownerIDs))
	for rows.Next() {
		m, err := scanOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		out[m.OwnerID] = mapping.ToDomainOwner(m)
	}
	return out, rows.Err()
}

func (p *pgxPostingTx) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.ChartOfAccount, error) {
	accounts, err := queryAccounts(ctx, p.tx, `SELECT `+accountColumns+` FROM chart_of_accounts WHERE account_id = ANY($1);`, accountIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.ChartOfAccount, len(accounts))
	for _, a := range accounts {
		out[a.AccountID] = a
	}
	return out, nil
}

func (p *pgxPostingTx) FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error) {
	return findUnit(ctx, p.tx, unitID)
}

func (p *pgxPostingTx) VoucherNoExists(ctx context.Context, voucherNo string) (bool, error) {
	return voucherNoExists(ctx, p.tx, voucherNo)
}

func (p *pgxPostingTx) LatestOwnerEntry(ctx context.Context, ownerID string) (*domain.OwnerLedgerEntry, error) {
	return latestOwnerEntry(ctx, p.tx, ownerID)
}

func (p *pgxPostingTx) InsertTransaction(ctx context.Context, txn *domain.Transaction) error {
	m := mapping.ToModelTransaction(*txn)
	query := `
		INSERT INTO transactions (
			voucher_no, voucher_date, category, method, trans_type, from_owner_id, to_owner_id, unit_id, amount,
			fund_reference, particulars, transfer_group_id, person_in_charge, status, is_posted, posted_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, FALSE, NULL, $15, $16, $17, $18)
		RETURNING transaction_id;`
	err := p.tx.QueryRow(ctx, query,
		m.VoucherNo, m.VoucherDate, m.Category, m.Method, m.TransType, m.FromOwnerID, m.ToOwnerID, m.UnitID, m.Amount,
		m.FundReference, m.Particulars, m.TransferGroupID, m.PersonInCharge, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	).Scan(&txn.TransactionID)
	if err != nil {
		return postingWriteError(err, "insert transaction")
	}
	return nil
}

func (p *pgxPostingTx) InsertInstruments(ctx context.Context, instruments []domain.TransactionInstrument) ([]domain.TransactionInstrument, error) {
	batch := &pgx.Batch{}
	for _, ins := range instruments {
		batch.Queue(`INSERT INTO transaction_instruments (transaction_id, instrument_type, instrument_no, created_at)
			VALUES ($1, $2, $3, $4) RETURNING instrument_id;`,
			ins.TransactionID, string(ins.InstrumentType), ins.InstrumentNo, ins.CreatedAt.UTC())
	}
	out := append([]domain.TransactionInstrument(nil), instruments...)
	err := sendReturningBatch(ctx, p.tx, batch, len(out), func(i int, row pgx.Row) error {
		return row.Scan(&out[i].InstrumentID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert instruments: %w", err)
	}
	return out, nil
}

func (p *pgxPostingTx) InsertAttachments(ctx context.Context, attachments []domain.TransactionAttachment) ([]domain.TransactionAttachment, error) {
	batch := &pgx.Batch{}
	for _, a := range attachments {
		batch.Queue(`INSERT INTO transaction_attachments (transaction_id, attachment_type, file_name, storage_key, mime_type, size_bytes, uploaded_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING attachment_id;`,
			a.TransactionID, string(a.AttachmentType), a.FileName, a.StorageKey, a.MimeType, a.SizeBytes, a.UploadedAt.UTC())
	}
	out := append([]domain.TransactionAttachment(nil), attachments...)
	err := sendReturningBatch(ctx, p.tx, batch, len(out), func(i int, row pgx.Row) error {
		return row.Scan(&out[i].AttachmentID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert attachments: %w", err)
	}
	return out, nil
}

func (p *pgxPostingTx) InsertGeneralLedgerEntries(ctx context.Context, entries []domain.GeneralLedgerEntry) ([]domain.GeneralLedgerEntry, error) {
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(`INSERT INTO general_ledger_entries (transaction_id, account_id, debit, credit, description, created_at)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING entry_id;`,
			e.TransactionID, e.AccountID, e.Debit, e.Credit, e.Description, e.CreatedAt.UTC())
	}
	out := append([]domain.GeneralLedgerEntry(nil), entries...)
	err := sendReturningBatch(ctx, p.tx, batch, len(out), func(i int, row pgx.Row) error {
		return row.Scan(&out[i].EntryID)
	})
	if err != nil {
		return nil, postingWriteError(err, "insert general ledger entries")
	}
	return out, nil
}

func (p *pgxPostingTx) InsertOwnerLedgerEntry(ctx context.Context, entry domain.OwnerLedgerEntry) (domain.OwnerLedgerEntry, error) {
	m := mapping.ToModelOwnerLedgerEntry(entry)
	query := `
		INSERT INTO owner_ledger_entries (
			owner_id, transaction_id, counterparty_id, voucher_no, voucher_date, category, debit, credit,
			running_balance, unit_id, particulars, transfer_group_id, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING entry_id;`
	err := p.tx.QueryRow(ctx, query,
		m.OwnerID, m.TransactionID, m.CounterpartyID, m.VoucherNo, m.VoucherDate, m.Category, m.Debit, m.Credit,
		m.RunningBalance, m.UnitID, m.Particulars, m.TransferGroupID, m.CreatedAt,
	).Scan(&entry.EntryID)
	if err != nil {
		return domain.OwnerLedgerEntry{}, postingWriteError(err, "insert owner ledger entry")
	}
	return entry, nil
}

func (p *pgxPostingTx) MarkPosted(ctx context.Context, transactionID int64, postedAt time.Time) error {
	tag, err := p.tx.Exec(ctx, `UPDATE transactions SET is_posted = TRUE, posted_at = $2 WHERE transaction_id = $1 AND NOT is_posted;`,
		transactionID, postedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to mark transaction %d posted: %w", transactionID, err)
	}
	if tag.RowsAffected() != 1 {
		return apperrors.NewIntegrityFailure(fmt.Sprintf("transaction %d vanished or was already posted", transactionID), nil)
	}
	return nil
}

// sendReturningBatch runs a batch of single-row RETURNING statements and hands each row to scan.
func sendReturningBatch(ctx context.Context, q querier, batch *pgx.Batch, n int, scan func(i int, row pgx.Row) error) (err error) {
	if n == 0 {
		return nil
	}
	br := q.SendBatch(ctx, batch)
	defer func() {
		if closeErr := br.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	for i := 0; i < n; i++ {
		if err := scan(i, br.QueryRow()); err != nil {
			return err
		}
	}
	return nil
}
