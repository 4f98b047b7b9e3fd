package services

import (
	"context"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
)

// LedgerSvcFacade reconstructs owner and account statements from persisted entries
type LedgerSvcFacade interface {
	GetOwnerLedger(ctx context.Context, ownerID string, sort domain.SortOrder, dateRange domain.DateRange) (*domain.OwnerStatement, error)
	GetAccountLedger(ctx context.Context, accountID string, dateRange domain.DateRange) (*domain.AccountStatement, error)

	// ExportOwnerLedger renders the owner statement as an .xlsx workbook.
	ExportOwnerLedger(ctx context.Context, ownerID string, sort domain.SortOrder, dateRange domain.DateRange) ([]byte, error)
}
