package services

import (
	"context"
	"io"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
	"github.com/SscSPs/trust_ledger/internal/dto"
)

// TransactionWriterSvc records and posts transactions
type TransactionWriterSvc interface {
	// PostTransaction validates, records and posts a transaction atomically.
	// Failures are *apperrors.ValidationError, *apperrors.ConflictError,
	// *apperrors.StorageError or *apperrors.IntegrityFailure.
	PostTransaction(ctx context.Context, req dto.PostTransactionRequest, actorID string) (*domain.Transaction, error)
}

// TransactionReaderSvc defines read operations for posted transactions
type TransactionReaderSvc interface {
	GetTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// OpenAttachment returns the attachment metadata and a reader over its content. The caller closes the reader.
	OpenAttachment(ctx context.Context, transactionID, attachmentID int64) (*domain.TransactionAttachment, io.ReadCloser, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionWriterSvc
	TransactionReaderSvc
}
