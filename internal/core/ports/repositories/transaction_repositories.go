package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
)

// TransactionFilter narrows ListTransactions.
type TransactionFilter struct {
	OwnerID string // matches either side
}

// TransactionReader defines read operations for posted transactions
type TransactionReader interface {
	// FindTransactionByID loads the transaction aggregate (instruments, attachments, ledger and GL entries).
	FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error)

	// ListTransactions pages headers newest first. It returns the page, a token for the next page, and an error.
	ListTransactions(ctx context.Context, filter TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	FindAttachment(ctx context.Context, transactionID, attachmentID int64) (*domain.TransactionAttachment, error)

	// VoucherNoExists checks an already-normalized voucher number.
	VoucherNoExists(ctx context.Context, voucherNo string) (bool, error)
}

// PostingTx exposes the writes of one posting inside an open database transaction.
// Implementations never commit; the owning UnitOfWork does.
type PostingTx interface {
	// LockOwners loads and row-locks the owners in a stable order. Missing ids are absent from the map.
	LockOwners(ctx context.Context, ownerIDs []string) (map[string]domain.Owner, error)

	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.ChartOfAccount, error)

	FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error)

	VoucherNoExists(ctx context.Context, voucherNo string) (bool, error)

	// LatestOwnerEntry returns the owner's newest entry by (created_at DESC, id DESC), or nil.
	LatestOwnerEntry(ctx context.Context, ownerID string) (*domain.OwnerLedgerEntry, error)

	// InsertTransaction stores the header unposted and assigns TransactionID.
	// A voucher number collision returns an apperrors.ConflictError.
	InsertTransaction(ctx context.Context, txn *domain.Transaction) error

	InsertInstruments(ctx context.Context, instruments []domain.TransactionInstrument) ([]domain.TransactionInstrument, error)
	InsertAttachments(ctx context.Context, attachments []domain.TransactionAttachment) ([]domain.TransactionAttachment, error)
	InsertGeneralLedgerEntries(ctx context.Context, entries []domain.GeneralLedgerEntry) ([]domain.GeneralLedgerEntry, error)
	InsertOwnerLedgerEntry(ctx context.Context, entry domain.OwnerLedgerEntry) (domain.OwnerLedgerEntry, error)

	MarkPosted(ctx context.Context, transactionID int64, postedAt time.Time) error
}

// TransactionRepositoryWithTx extends TransactionReader with the posting unit of work
type TransactionRepositoryWithTx interface {
	TransactionReader
	UnitOfWork
}
