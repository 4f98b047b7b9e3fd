package services_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/trust_ledger/internal/apperrors"
	"github.com/SscSPs/trust_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger/internal/core/ports/repositories"
)

var errInjected = errors.New("injected failure")

// memoryStore is an in-memory TransactionRepositoryWithTx and OwnerReader.
// RunInTx serializes callers and applies staged writes only when fn succeeds.
type memoryStore struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	owners   map[string]domain.Owner
	units    map[string]domain.Unit
	accounts map[string]domain.ChartOfAccount
	state    memoryState

	// failOn names a PostingTx method that returns errInjected.
	failOn string
}

type memoryState struct {
	nextID       int64
	transactions []domain.Transaction
	instruments  []domain.TransactionInstrument
	attachments  []domain.TransactionAttachment
	glEntries    []domain.GeneralLedgerEntry
	entries      []domain.OwnerLedgerEntry
}

func (s memoryState) clone() memoryState {
	return memoryState{
		nextID:       s.nextID,
		transactions: append([]domain.Transaction(nil), s.transactions...),
		instruments:  append([]domain.TransactionInstrument(nil), s.instruments...),
		attachments:  append([]domain.TransactionAttachment(nil), s.attachments...),
		glEntries:    append([]domain.GeneralLedgerEntry(nil), s.glEntries...),
		entries:      append([]domain.OwnerLedgerEntry(nil), s.entries...),
	}
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		owners:   map[string]domain.Owner{},
		units:    map[string]domain.Unit{},
		accounts: map[string]domain.ChartOfAccount{},
	}
}

// addOwner registers an active owner linked to a fresh active account.
func (m *memoryStore) addOwner(id string, ownerType domain.OwnerType) domain.Owner {
	m.mu.Lock()
	defer m.mu.Unlock()
	accountID := "acc-" + id
	m.accounts[accountID] = domain.ChartOfAccount{AccountID: accountID, Code: "ACC-" + id, AccountType: domain.Asset, IsActive: true}
	owner := domain.Owner{OwnerID: id, Code: id, OwnerType: ownerType, Name: id, Status: domain.StatusActive, AccountID: accountID}
	m.owners[id] = owner
	return owner
}

func (m *memoryStore) snapshot() memoryState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

func (m *memoryStore) entriesFor(ownerID string) []domain.OwnerLedgerEntry {
	var out []domain.OwnerLedgerEntry
	for _, e := range m.snapshot().entries {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].EntryID < out[j].EntryID
	})
	return out
}

// --- OwnerReader ---

func (m *memoryStore) FindOwnerByID(_ context.Context, ownerID string) (*domain.Owner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.owners[ownerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &o, nil
}

func (m *memoryStore) FindOwnerByCode(_ context.Context, code string) (*domain.Owner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.owners {
		if o.Code == code {
			return &o, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memoryStore) ListOwners(_ context.Context, _ portsrepo.OwnerFilter) ([]domain.Owner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Owner, 0, len(m.owners))
	for _, o := range m.owners {
		out = append(out, o)
	}
	return out, nil
}

func (m *memoryStore) FindUnitByID(_ context.Context, unitID string) (*domain.Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.units[unitID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (m *memoryStore) ListUnitsByOwner(_ context.Context, ownerID string) ([]domain.Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Unit
	for _, u := range m.units {
		if u.OwnerID == ownerID {
			out = append(out, u)
		}
	}
	return out, nil
}

// --- TransactionReader ---

func (m *memoryStore) FindTransactionByID(_ context.Context, transactionID int64) (*domain.Transaction, error) {
	for _, t := range m.snapshot().transactions {
		if t.TransactionID == transactionID {
			return &t, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memoryStore) ListTransactions(_ context.Context, _ portsrepo.TransactionFilter, limit int, _ *string) ([]domain.Transaction, *string, error) {
	txns := m.snapshot().transactions
	if len(txns) > limit {
		txns = txns[:limit]
	}
	return txns, nil, nil
}

func (m *memoryStore) FindAttachment(_ context.Context, transactionID, attachmentID int64) (*domain.TransactionAttachment, error) {
	for _, a := range m.snapshot().attachments {
		if a.TransactionID == transactionID && a.AttachmentID == attachmentID {
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memoryStore) VoucherNoExists(_ context.Context, voucherNo string) (bool, error) {
	for _, t := range m.snapshot().transactions {
		if t.VoucherNo == voucherNo {
			return true, nil
		}
	}
	return false, nil
}

// --- UnitOfWork ---

func (m *memoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.PostingTx) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	tx := &memoryTx{store: m, staged: m.snapshot()}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	m.mu.Lock()
	m.state = tx.staged
	m.mu.Unlock()
	return nil
}

type memoryTx struct {
	store  *memoryStore
	staged memoryState
}

func (t *memoryTx) fail(method string) error {
	if t.store.failOn == method {
		return errInjected
	}
	return nil
}

func (t *memoryTx) id() int64 {
	t.staged.nextID++
	return t.staged.nextID
}

func (t *memoryTx) LockOwners(ctx context.Context, ownerIDs []string) (map[string]domain.Owner, error) {
	out := make(map[string]domain.Owner, len(ownerIDs))
	for _, id := range ownerIDs {
		if o, err := t.store.FindOwnerByID(ctx, id); err == nil {
			out[id] = *o
		}
	}
	return out, nil
}

func (t *memoryTx) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.ChartOfAccount, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	out := make(map[string]domain.ChartOfAccount, len(accountIDs))
	for _, id := range accountIDs {
		if a, ok := t.store.accounts[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func (t *memoryTx) FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error) {
	return t.store.FindUnitByID(ctx, unitID)
}

func (t *memoryTx) VoucherNoExists(_ context.Context, voucherNo string) (bool, error) {
	for _, txn := range t.staged.transactions {
		if txn.VoucherNo == voucherNo {
			return true, nil
		}
	}
	return false, nil
}

func (t *memoryTx) LatestOwnerEntry(_ context.Context, ownerID string) (*domain.OwnerLedgerEntry, error) {
	var latest *domain.OwnerLedgerEntry
	for i := range t.staged.entries {
		e := t.staged.entries[i]
		if e.OwnerID != ownerID {
			continue
		}
		if latest == nil || e.CreatedAt.After(latest.CreatedAt) || (e.CreatedAt.Equal(latest.CreatedAt) && e.EntryID > latest.EntryID) {
			latest = &e
		}
	}
	return latest, nil
}

func (t *memoryTx) InsertTransaction(_ context.Context, txn *domain.Transaction) error {
	if err := t.fail("InsertTransaction"); err != nil {
		return err
	}
	for _, existing := range t.staged.transactions {
		if txn.VoucherNo != "" && existing.VoucherNo == txn.VoucherNo {
			return apperrors.NewConflictError("voucherNo", "voucher number already exists")
		}
	}
	txn.TransactionID = t.id()
	t.staged.transactions = append(t.staged.transactions, *txn)
	return nil
}

func (t *memoryTx) InsertInstruments(_ context.Context, instruments []domain.TransactionInstrument) ([]domain.TransactionInstrument, error) {
	if err := t.fail("InsertInstruments"); err != nil {
		return nil, err
	}
	out := make([]domain.TransactionInstrument, len(instruments))
	for i, ins := range instruments {
		ins.InstrumentID = t.id()
		out[i] = ins
	}
	t.staged.instruments = append(t.staged.instruments, out...)
	return out, nil
}

func (t *memoryTx) InsertAttachments(_ context.Context, attachments []domain.TransactionAttachment) ([]domain.TransactionAttachment, error) {
	if err := t.fail("InsertAttachments"); err != nil {
		return nil, err
	}
	out := make([]domain.TransactionAttachment, len(attachments))
	for i, a := range attachments {
		a.AttachmentID = t.id()
		out[i] = a
	}
	t.staged.attachments = append(t.staged.attachments, out...)
	return out, nil
}

func (t *memoryTx) InsertGeneralLedgerEntries(_ context.Context, entries []domain.GeneralLedgerEntry) ([]domain.GeneralLedgerEntry, error) {
	if err := t.fail("InsertGeneralLedgerEntries"); err != nil {
		return nil, err
	}
	out := make([]domain.GeneralLedgerEntry, len(entries))
	for i, e := range entries {
		e.EntryID = t.id()
		out[i] = e
	}
	t.staged.glEntries = append(t.staged.glEntries, out...)
	return out, nil
}

func (t *memoryTx) InsertOwnerLedgerEntry(_ context.Context, entry domain.OwnerLedgerEntry) (domain.OwnerLedgerEntry, error) {
	if err := t.fail("InsertOwnerLedgerEntry"); err != nil {
		return domain.OwnerLedgerEntry{}, err
	}
	entry.EntryID = t.id()
	t.staged.entries = append(t.staged.entries, entry)
	return entry, nil
}

func (t *memoryTx) MarkPosted(_ context.Context, transactionID int64, postedAt time.Time) error {
	if err := t.fail("MarkPosted"); err != nil {
		return err
	}
	for i := range t.staged.transactions {
		if t.staged.transactions[i].TransactionID == transactionID {
			t.staged.transactions[i].IsPosted = true
			t.staged.transactions[i].PostedAt = &postedAt
			return nil
		}
	}
	return apperrors.ErrNotFound
}
