package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines the read side used by statements.
type LedgerReader interface {
	// ListOwnerEntries returns entries in the range ordered by (created_at ASC, id ASC),
	// with CounterpartyType populated.
	ListOwnerEntries(ctx context.Context, ownerID string, dateRange domain.DateRange) ([]domain.OwnerLedgerEntry, error)

	// FindEarliestOwnerEntry is an independent ascending lookup; nil when the owner has no entries.
	FindEarliestOwnerEntry(ctx context.Context, ownerID string) (*domain.OwnerLedgerEntry, error)

	FindLatestOwnerEntry(ctx context.Context, ownerID string) (*domain.OwnerLedgerEntry, error)

	// SumOwnerEntriesBefore sums debit and credit of entries created strictly before cutoff,
	// skipping excludeEntryID when non-zero.
	SumOwnerEntriesBefore(ctx context.Context, ownerID string, cutoff time.Time, excludeEntryID int64) (debit, credit decimal.Decimal, err error)

	// ListAccountEntries returns GL rows for the account ordered by transaction id, filtered on
	// the transaction's effective date (voucher date, else creation time).
	ListAccountEntries(ctx context.Context, accountID string, dateRange domain.DateRange) ([]domain.AccountLedgerRow, error)

	SumAccountEntriesBefore(ctx context.Context, accountID string, cutoff time.Time) (debit, credit decimal.Decimal, err error)

	FindInstrumentsByTransactionIDs(ctx context.Context, transactionIDs []int64) (map[int64][]domain.TransactionInstrument, error)
	FindAttachmentsByTransactionIDs(ctx context.Context, transactionIDs []int64) (map[int64][]domain.TransactionAttachment, error)
}
