package handlers_test

import (
	"context"
	"io"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/trust_ledger/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock OwnerService ---
type MockOwnerService struct {
	mock.Mock
}

func (m *MockOwnerService) GetOwner(ctx context.Context, ownerID string) (*domain.Owner, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Owner), args.Error(1)
}
func (m *MockOwnerService) ListOwners(ctx context.Context, params dto.ListOwnersParams) ([]domain.Owner, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Owner), args.Error(1)
}
func (m *MockOwnerService) ListUnits(ctx context.Context, ownerID string) ([]domain.Unit, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Unit), args.Error(1)
}
func (m *MockOwnerService) CreateOwner(ctx context.Context, req dto.CreateOwnerRequest, actorID string) (*domain.Owner, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Owner), args.Error(1)
}
func (m *MockOwnerService) UpdateOwner(ctx context.Context, ownerID string, req dto.UpdateOwnerRequest, actorID string) (*domain.Owner, error) {
	args := m.Called(ctx, ownerID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Owner), args.Error(1)
}
func (m *MockOwnerService) SetOwnerStatus(ctx context.Context, ownerID string, status domain.Status, actorID string) (*domain.Owner, error) {
	args := m.Called(ctx, ownerID, status, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Owner), args.Error(1)
}
func (m *MockOwnerService) CreateUnit(ctx context.Context, ownerID string, req dto.CreateUnitRequest, actorID string) (*domain.Unit, error) {
	args := m.Called(ctx, ownerID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.OwnerSvcFacade = (*MockOwnerService)(nil)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccount(ctx context.Context, accountID string) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.ChartOfAccount, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChartOfAccount), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actorID string) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, accountID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}
func (m *MockAccountService) SetAccountActive(ctx context.Context, accountID string, active bool, actorID string) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, accountID, active, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) PostTransaction(ctx context.Context, req dto.PostTransactionRequest, actorID string) (*domain.Transaction, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) GetTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}
func (m *MockTransactionService) OpenAttachment(ctx context.Context, transactionID, attachmentID int64) (*domain.TransactionAttachment, io.ReadCloser, error) {
	args := m.Called(ctx, transactionID, attachmentID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.TransactionAttachment), args.Get(1).(io.ReadCloser), args.Error(2)
}

// Ensure mock implements the interface
var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetOwnerLedger(ctx context.Context, ownerID string, sort domain.SortOrder, dateRange domain.DateRange) (*domain.OwnerStatement, error) {
	args := m.Called(ctx, ownerID, sort, dateRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OwnerStatement), args.Error(1)
}
func (m *MockLedgerService) GetAccountLedger(ctx context.Context, accountID string, dateRange domain.DateRange) (*domain.AccountStatement, error) {
	args := m.Called(ctx, accountID, dateRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountStatement), args.Error(1)
}
func (m *MockLedgerService) ExportOwnerLedger(ctx context.Context, ownerID string, sort domain.SortOrder, dateRange domain.DateRange) ([]byte, error) {
	args := m.Called(ctx, ownerID, sort, dateRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)
