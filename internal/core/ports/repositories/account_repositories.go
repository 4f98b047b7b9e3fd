package repositories

import (
	"context"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
)

// AccountFilter narrows ListAccounts.
type AccountFilter struct {
	AccountType domain.AccountType
	ActiveOnly  bool
}

// AccountReader defines read operations for chart-of-accounts nodes
type AccountReader interface {
	FindAccountByID(ctx context.Context, accountID string) (*domain.ChartOfAccount, error)
	FindAccountByCode(ctx context.Context, code string) (*domain.ChartOfAccount, error)
	ListAccounts(ctx context.Context, filter AccountFilter) ([]domain.ChartOfAccount, error)
}

// AccountWriter defines write operations for chart-of-accounts nodes
type AccountWriter interface {
	// SaveAccount returns an apperrors.ConflictError when the code is taken.
	SaveAccount(ctx context.Context, account domain.ChartOfAccount) error
	UpdateAccount(ctx context.Context, account domain.ChartOfAccount) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
