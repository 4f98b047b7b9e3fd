package services_test

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
	"github.com/SscSPs/trust_ledger/internal/core/ports/infra"
	portsrepo "github.com/SscSPs/trust_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockOwnerRepository is a mock type for the owner repository facade
type MockOwnerRepository struct {
	mock.Mock
}

func (m *MockOwnerRepository) FindOwnerByID(ctx context.Context, ownerID string) (*domain.Owner, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Owner), args.Error(1)
}

func (m *MockOwnerRepository) FindOwnerByCode(ctx context.Context, code string) (*domain.Owner, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Owner), args.Error(1)
}

func (m *MockOwnerRepository) ListOwners(ctx context.Context, filter portsrepo.OwnerFilter) ([]domain.Owner, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Owner), args.Error(1)
}

func (m *MockOwnerRepository) FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}

func (m *MockOwnerRepository) ListUnitsByOwner(ctx context.Context, ownerID string) ([]domain.Unit, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Unit), args.Error(1)
}

func (m *MockOwnerRepository) SaveOwner(ctx context.Context, owner domain.Owner) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *MockOwnerRepository) UpdateOwner(ctx context.Context, owner domain.Owner) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *MockOwnerRepository) SaveUnit(ctx context.Context, unit domain.Unit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

// MockAccountRepository is a mock type for the chart-of-accounts repository facade
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.ChartOfAccount, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, filter portsrepo.AccountFilter) ([]domain.ChartOfAccount, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChartOfAccount), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.ChartOfAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.ChartOfAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockLedgerRepository is a mock type for the ledger read side
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) ListOwnerEntries(ctx context.Context, ownerID string, dateRange domain.DateRange) ([]domain.OwnerLedgerEntry, error) {
	args := m.Called(ctx, ownerID, dateRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OwnerLedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEarliestOwnerEntry(ctx context.Context, ownerID string) (*domain.OwnerLedgerEntry, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OwnerLedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindLatestOwnerEntry(ctx context.Context, ownerID string) (*domain.OwnerLedgerEntry, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OwnerLedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SumOwnerEntriesBefore(ctx context.Context, ownerID string, cutoff time.Time, excludeEntryID int64) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, ownerID, cutoff, excludeEntryID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockLedgerRepository) ListAccountEntries(ctx context.Context, accountID string, dateRange domain.DateRange) ([]domain.AccountLedgerRow, error) {
	args := m.Called(ctx, accountID, dateRange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountLedgerRow), args.Error(1)
}

func (m *MockLedgerRepository) SumAccountEntriesBefore(ctx context.Context, accountID string, cutoff time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID, cutoff)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockLedgerRepository) FindInstrumentsByTransactionIDs(ctx context.Context, transactionIDs []int64) (map[int64][]domain.TransactionInstrument, error) {
	args := m.Called(ctx, transactionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]domain.TransactionInstrument), args.Error(1)
}

func (m *MockLedgerRepository) FindAttachmentsByTransactionIDs(ctx context.Context, transactionIDs []int64) (map[int64][]domain.TransactionAttachment, error) {
	args := m.Called(ctx, transactionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]domain.TransactionAttachment), args.Error(1)
}

// MockEventPublisher is a mock type for the posting event publisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishTransactionPosted(ctx context.Context, event infra.TransactionPostedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// memoryBlobStore keeps blobs in a map and can be told to fail writes.
type memoryBlobStore struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	failPut error
}

func newMemoryBlobStore() *memoryBlobStore {
	return &memoryBlobStore{blobs: map[string][]byte{}}
}

func (b *memoryBlobStore) Put(_ context.Context, key, _ string, content []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failPut != nil {
		return b.failPut
	}
	b.blobs[key] = append([]byte(nil), content...)
	return nil
}

func (b *memoryBlobStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	content, ok := b.blobs[key]
	if !ok {
		return nil, infra.ErrBlobNotFound
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (b *memoryBlobStore) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.blobs[key]; !ok {
		return infra.ErrBlobNotFound
	}
	delete(b.blobs, key)
	return nil
}

func (b *memoryBlobStore) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.blobs)
}
