package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/trust_ledger/internal/apperrors"
	"github.com/SscSPs/trust_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/trust_ledger/internal/middleware"
	"github.com/SscSPs/trust_ledger/internal/models"
	"github.com/SscSPs/trust_ledger/internal/utils/mapping"
	"github.com/SscSPs/trust_ledger/internal/utils/pagination"
)

const transactionColumns = `transaction_id, voucher_no, voucher_date, category, method, trans_type, from_owner_id, to_owner_id,
	unit_id, amount, fund_reference, particulars, transfer_group_id, person_in_charge, status, is_posted, posted_at,
	created_at, created_by, last_updated_at, last_updated_by`

type SQLiteTransactionRepository struct {
	BaseRepository
}

func newSQLiteTransactionRepository(db *sql.DB) portsrepo.TransactionRepositoryWithTx {
	return &SQLiteTransactionRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.TransactionRepositoryWithTx = (*SQLiteTransactionRepository)(nil)

func scanTransaction(row scanner) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID, &m.VoucherNo, &m.VoucherDate, &m.Category, &m.Method, &m.TransType, &m.FromOwnerID, &m.ToOwnerID,
		&m.UnitID, &m.Amount, &m.FundReference, &m.Particulars, &m.TransferGroupID, &m.PersonInCharge, &m.Status, &m.IsPosted, &m.PostedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// RunInTx runs fn inside one IMMEDIATE transaction, so postings are serialized by the database write lock.
func (r *SQLiteTransactionRepository) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.PostingTx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := r.Rollback(tx); rbErr != nil {
			middleware.GetLoggerFromCtx(ctx).Error("Rollback failed", slog.String("error", rbErr.Error()))
		}
	}()

	if err := fn(ctx, &sqlitePostingTx{tx: tx}); err != nil {
		return err
	}
	return r.Commit(tx)
}

func (r *SQLiteTransactionRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	m, err := scanTransaction(r.DB.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = ?;`, transactionID))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("transaction %d", transactionID))
	}
	txn := mapping.ToDomainTransaction(m)
	ids := []int64{txn.TransactionID}

	instruments, err := findInstruments(ctx, r.DB, ids)
	if err != nil {
		return nil, err
	}
	attachments, err := findAttachments(ctx, r.DB, ids)
	if err != nil {
		return nil, err
	}
	txn.Instruments = instruments[txn.TransactionID]
	txn.Attachments = attachments[txn.TransactionID]

	txn.LedgerEntries, err = queryOwnerEntries(ctx, r.DB, `SELECT `+ownerEntryColumns+ownerEntryFrom+` WHERE e.transaction_id = ? ORDER BY e.entry_id ASC;`, transactionID)
	if err != nil {
		return nil, err
	}
	txn.GLEntries, err = queryGLEntries(ctx, r.DB, transactionID)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *SQLiteTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1 = 1`
	var args []any
	if filter.OwnerID != "" {
		query += " AND (from_owner_id = ? OR to_owner_id = ?)"
		args = append(args, filter.OwnerID, filter.OwnerID)
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("nextToken", err.Error())
		}
		query += " AND (created_at, transaction_id) < (?, ?)"
		args = append(args, ts(cursor.CreatedAt), cursor.ID)
	}
	query += " ORDER BY created_at DESC, transaction_id DESC LIMIT ?;"
	args = append(args, limit+1)

	rows, err := r.DB.QueryContext(ctx, query, args...)
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

func (r *SQLiteTransactionRepository) FindAttachment(ctx context.Context, transactionID, attachmentID int64) (*domain.TransactionAttachment, error) {
	m, err := scanAttachment(r.DB.QueryRowContext(ctx, `SELECT `+attachmentColumns+` FROM transaction_attachments
		WHERE transaction_id = ? AND attachment_id = ?;`, transactionID, attachmentID))
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("attachment %d", attachmentID))
	}
	d := mapping.ToDomainAttachment(m)
	return &d, nil
}

func (r *SQLiteTransactionRepository) VoucherNoExists(ctx context.Context, voucherNo string) (bool, error) {
	return voucherNoExists(ctx, r.DB, voucherNo)
}

func voucherNoExists(ctx context.Context, q querier, voucherNo string) (bool, error) {
	var exists bool
	if err := q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE voucher_no = ?);`, voucherNo).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check voucher number: %w", err)
	}
	return exists, nil
}

func conflictFor(columns string) error {
	switch {
	case strings.Contains(columns, "transactions.voucher_no"):
		return apperrors.NewConflictError("voucherNo", "voucher number already exists")
	case strings.Contains(columns, "owner_ledger_entries.owner_id"):
		return apperrors.NewConflictError("", "transaction already posted for owner")
	default:
		return apperrors.NewConflictError("", "duplicate "+columns)
	}
}

// sqlitePostingTx implements PostingTx on an open *sql.Tx. It never touches the pool:
// with a single connection that would block on itself.
type sqlitePostingTx struct {
	tx *sql.Tx
}

var _ portsrepo.PostingTx = (*sqlitePostingTx)(nil)

// LockOwners reads the owners; the IMMEDIATE transaction already holds the write lock.
func (p *sqlitePostingTx) LockOwners(ctx context.Context, ownerIDs []string) (map[string]domain.Owner, error) {
	marks, args := inClause(ownerIDs)
	owners, err := queryOwners(ctx, p.tx, `SELECT `+ownerColumns+` FROM owners WHERE owner_id IN (`+marks+`) ORDER BY owner_id;`, args...)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.Owner, len(owners))
	for _, o := range owners {
		out[o.OwnerID] = o
	}
	return out, nil
}

func (p *sqlitePostingTx) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.ChartOfAccount, error) {
	marks, args := inClause(accountIDs)
	accounts, err := queryAccounts(ctx, p.tx, `SELECT `+accountColumns+` FROM chart_of_accounts WHERE account_id IN (`+marks+`);`, args...)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.ChartOfAccount, len(accounts))
	for _, a := range accounts {
		out[a.AccountID] = a
	}
	return out, nil
}

func (p *sqlitePostingTx) FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error) {
	return findUnit(ctx, p.tx, unitID)
}

func (p *sqlitePostingTx) VoucherNoExists(ctx context.Context, voucherNo string) (bool, error) {
	return voucherNoExists(ctx, p.tx, voucherNo)
}

func (p *sqlitePostingTx) LatestOwnerEntry(ctx context.Context, ownerID string) (*domain.OwnerLedgerEntry, error) {
	return latestOwnerEntry(ctx, p.tx, ownerID)
}

func (p *sqlitePostingTx) InsertTransaction(ctx context.Context, txn *domain.Transaction) error {
	m := mapping.ToModelTransaction(*txn)
	res, err := p.tx.ExecContext(ctx, `
		INSERT INTO transactions (
			voucher_no, voucher_date, category, method, trans_type, from_owner_id, to_owner_id, unit_id, amount,
			fund_reference, particulars, transfer_group_id, person_in_charge, status, is_posted, posted_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, NULL, ?, ?, ?, ?);`,
		m.VoucherNo, nullTS(m.VoucherDate), m.Category, m.Method, m.TransType, m.FromOwnerID, m.ToOwnerID, m.UnitID, m.Amount,
		m.FundReference, m.Particulars, m.TransferGroupID, m.PersonInCharge, m.Status,
		ts(m.CreatedAt), m.CreatedBy, ts(m.LastUpdatedAt), m.LastUpdatedBy,
	)
	if err != nil {
		// voucher_no is the only unique column on transactions
		if _, ok := uniqueViolation(err); ok {
			return apperrors.NewConflictError("voucherNo", "voucher number already exists")
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read transaction id: %w", err)
	}
	txn.TransactionID = id
	return nil
}

// insertReturningID executes one INSERT and returns the new row id.
func (p *sqlitePostingTx) insertReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := p.tx.ExecContext(ctx, query, args...)
	if err != nil {
		if columns, ok := uniqueViolation(err); ok {
			return 0, conflictFor(columns)
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (p *sqlitePostingTx) InsertInstruments(ctx context.Context, instruments []domain.TransactionInstrument) ([]domain.TransactionInstrument, error) {
	out := append([]domain.TransactionInstrument(nil), instruments...)
	for i, ins := range out {
		id, err := p.insertReturningID(ctx, `INSERT INTO transaction_instruments (transaction_id, instrument_type, instrument_no, created_at)
			VALUES (?, ?, ?, ?);`, ins.TransactionID, string(ins.InstrumentType), ins.InstrumentNo, ts(ins.CreatedAt))
		if err != nil {
			return nil, fmt.Errorf("failed to insert instrument %s: %w", ins.InstrumentNo, err)
		}
		out[i].InstrumentID = id
	}
	return out, nil
}

func (p *sqlitePostingTx) InsertAttachments(ctx context.Context, attachments []domain.TransactionAttachment) ([]domain.TransactionAttachment, error) {
	out := append([]domain.TransactionAttachment(nil), attachments...)
	for i, a := range out {
		id, err := p.insertReturningID(ctx, `INSERT INTO transaction_attachments
			(transaction_id, attachment_type, file_name, storage_key, mime_type, size_bytes, uploaded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?);`,
			a.TransactionID, string(a.AttachmentType), a.FileName, a.StorageKey, a.MimeType, a.SizeBytes, ts(a.UploadedAt))
		if err != nil {
			return nil, fmt.Errorf("failed to insert attachment %s: %w", a.FileName, err)
		}
		out[i].AttachmentID = id
	}
	return out, nil
}

func (p *sqlitePostingTx) InsertGeneralLedgerEntries(ctx context.Context, entries []domain.GeneralLedgerEntry) ([]domain.GeneralLedgerEntry, error) {
	out := append([]domain.GeneralLedgerEntry(nil), entries...)
	for i, e := range out {
		id, err := p.insertReturningID(ctx, `INSERT INTO general_ledger_entries (transaction_id, account_id, debit, credit, description, created_at)
			VALUES (?, ?, ?, ?, ?, ?);`, e.TransactionID, e.AccountID, e.Debit, e.Credit, e.Description, ts(e.CreatedAt))
		if err != nil {
			return nil, fmt.Errorf("failed to insert general ledger entry: %w", err)
		}
		out[i].EntryID = id
	}
	return out, nil
}

func (p *sqlitePostingTx) InsertOwnerLedgerEntry(ctx context.Context, entry domain.OwnerLedgerEntry) (domain.OwnerLedgerEntry, error) {
	m := mapping.ToModelOwnerLedgerEntry(entry)
	id, err := p.insertReturningID(ctx, `
		INSERT INTO owner_ledger_entries (
			owner_id, transaction_id, counterparty_id, voucher_no, voucher_date, category, debit, credit,
			running_balance, unit_id, particulars, transfer_group_id, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		m.OwnerID, m.TransactionID, m.CounterpartyID, m.VoucherNo, nullTS(m.VoucherDate), m.Category, m.Debit, m.Credit,
		m.RunningBalance, m.UnitID, m.Particulars, m.TransferGroupID, ts(m.CreatedAt),
	)
	if err != nil {
		return domain.OwnerLedgerEntry{}, fmt.Errorf("failed to insert owner ledger entry: %w", err)
	}
	entry.EntryID = id
	return entry, nil
}

func (p *sqlitePostingTx) MarkPosted(ctx context.Context, transactionID int64, postedAt time.Time) error {
	res, err := p.tx.ExecContext(ctx, `UPDATE transactions SET is_posted = 1, posted_at = ? WHERE transaction_id = ? AND is_posted = 0;`,
		ts(postedAt), transactionID)
	if err != nil {
		return fmt.Errorf("failed to mark transaction %d posted: %w", transactionID, err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return apperrors.NewIntegrityFailure(fmt.Sprintf("transaction %d vanished or was already posted", transactionID), nil)
	}
	return nil
}
