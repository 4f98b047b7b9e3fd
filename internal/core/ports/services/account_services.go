package services

import (
	"context"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
	"github.com/SscSPs/trust_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts
type AccountReaderSvc interface {
	GetAccount(ctx context.Context, accountID string) (*domain.ChartOfAccount, error)
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.ChartOfAccount, error)
}

// AccountWriterSvc defines write operations for the chart of accounts
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actorID string) (*domain.ChartOfAccount, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.ChartOfAccount, error)
	SetAccountActive(ctx context.Context, accountID string, active bool, actorID string) (*domain.ChartOfAccount, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
