package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/trust_ledger/internal/apperrors"
	"github.com/SscSPs/trust_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/trust_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// postingParties are the locked owners and their linked accounts for one posting.
type postingParties struct {
	from        domain.Owner
	to          domain.Owner
	fromAccount domain.ChartOfAccount
	toAccount   domain.ChartOfAccount
}

// loadParties locks both owners and resolves their chart-of-accounts links inside tx.
func loadParties(ctx context.Context, tx portsrepo.PostingTx, fromID, toID string) (*postingParties, error) {
	owners, err := tx.LockOwners(ctx, []string{fromID, toID})
	if err != nil {
		return nil, fmt.Errorf("failed to lock owners: %w", err)
	}

	from, ok := owners[fromID]
	if !ok {
		return nil, apperrors.NewIntegrityFailure("from owner "+fromID+" disappeared during posting", nil)
	}
	to, ok := owners[toID]
	if !ok {
		return nil, apperrors.NewIntegrityFailure("to owner "+toID+" disappeared during posting", nil)
	}
	if !from.IsActive() {
		return nil, apperrors.NewConflictError("fromOwnerID", "owner is inactive")
	}
	if !to.IsActive() {
		return nil, apperrors.NewConflictError("toOwnerID", "owner is inactive")
	}
	if from.AccountID == "" {
		return nil, apperrors.NewConflictError("fromOwnerID", "owner has no linked chart-of-accounts account")
	}
	if to.AccountID == "" {
		return nil, apperrors.NewConflictError("toOwnerID", "owner has no linked chart-of-accounts account")
	}

	accounts, err := tx.FindAccountsByIDs(ctx, []string{from.AccountID, to.AccountID})
	if err != nil {
		return nil, fmt.Errorf("failed to load linked accounts: %w", err)
	}
	fromAccount, ok := accounts[from.AccountID]
	if !ok || !fromAccount.IsActive {
		return nil, apperrors.NewConflictError("fromOwnerID", "owner's linked account is missing or inactive")
	}
	toAccount, ok := accounts[to.AccountID]
	if !ok || !toAccount.IsActive {
		return nil, apperrors.NewConflictError("toOwnerID", "owner's linked account is missing or inactive")
	}

	return &postingParties{from: from, to: to, fromAccount: fromAccount, toAccount: toAccount}, nil
}

// buildGeneralLedgerEntries debits the receiving owner's account and credits the funding owner's.
func buildGeneralLedgerEntries(txn *domain.Transaction, p *postingParties, at time.Time) ([]domain.GeneralLedgerEntry, error) {
	entries := []domain.GeneralLedgerEntry{
		{
			TransactionID: txn.TransactionID,
			AccountID:     p.toAccount.AccountID,
			Debit:         txn.Amount,
			Credit:        decimal.Zero,
			Description:   "Owner Allocation: " + p.to.Code,
			CreatedAt:     at,
		},
		{
			TransactionID: txn.TransactionID,
			AccountID:     p.fromAccount.AccountID,
			Debit:         decimal.Zero,
			Credit:        txn.Amount,
			Description:   "Owner Funding: " + p.from.Code,
			CreatedAt:     at,
		},
	}
	if err := accounting.ValidateDoubleEntry(entries, txn.Amount); err != nil {
		return nil, apperrors.NewIntegrityFailure("general ledger entries do not balance", err)
	}
	return entries, nil
}

// postOwnerEntry extends one owner's running balance by the polarity-signed amount.
// The previous balance is read inside tx after the owner row lock is held.
func postOwnerEntry(ctx context.Context, tx portsrepo.PostingTx, txn *domain.Transaction, owner, counterparty domain.Owner, at time.Time) (domain.OwnerLedgerEntry, error) {
	posting, err := accounting.PostingFor(owner.OwnerType, txn.Method, txn.Amount)
	if err != nil {
		return domain.OwnerLedgerEntry{}, apperrors.NewIntegrityFailure("cannot derive posting for owner "+owner.OwnerID, err)
	}

	prev, err := tx.LatestOwnerEntry(ctx, owner.OwnerID)
	if err != nil {
		return domain.OwnerLedgerEntry{}, fmt.Errorf("failed to read previous balance for owner %s: %w", owner.OwnerID, err)
	}
	balance := decimal.Zero
	createdAt := at
	if prev != nil {
		balance = prev.RunningBalance
		// keep (created_at, id) monotonic per owner even if clocks step backwards
		if prev.CreatedAt.After(createdAt) {
			createdAt = prev.CreatedAt
		}
	}

	newBalance := balance.Add(posting.Delta)
	if newBalance.Abs().GreaterThanOrEqual(amountCeiling) {
		return domain.OwnerLedgerEntry{}, apperrors.NewValidationError("amount",
			fmt.Sprintf("posting would take the running balance of owner %s out of range", owner.Code))
	}

	entry := domain.OwnerLedgerEntry{
		OwnerID:         owner.OwnerID,
		TransactionID:   txn.TransactionID,
		CounterpartyID:  counterparty.OwnerID,
		VoucherNo:       txn.VoucherNo,
		VoucherDate:     txn.VoucherDate,
		Category:        txn.Category,
		Debit:           posting.Debit,
		Credit:          posting.Credit,
		RunningBalance:  newBalance,
		UnitID:          txn.UnitID,
		Particulars:     txn.Particulars,
		TransferGroupID: txn.TransferGroupID,
		CreatedAt:       createdAt,
	}
	saved, err := tx.InsertOwnerLedgerEntry(ctx, entry)
	if err != nil {
		return domain.OwnerLedgerEntry{}, fmt.Errorf("failed to insert ledger entry for owner %s: %w", owner.OwnerID, err)
	}
	saved.CounterpartyType = counterparty.OwnerType
	return saved, nil
}

// postTransaction writes the full posting inside tx: header, instruments, attachments,
// general-ledger pair and one ledger entry per owner, then flips the posted flag.
func postTransaction(ctx context.Context, tx portsrepo.PostingTx, txn *domain.Transaction, attachments []domain.TransactionAttachment, now time.Time) error {
	parties, err := loadParties(ctx, tx, txn.FromOwnerID, txn.ToOwnerID)
	if err != nil {
		return err
	}

	if txn.UnitID != "" {
		unit, err := tx.FindUnitByID(ctx, txn.UnitID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to load unit: %w", err)
		}
		if unit == nil || unit.OwnerID != txn.ToOwnerID {
			return apperrors.NewValidationError("unitID", "unit does not belong to the receiving owner")
		}
	}

	if txn.VoucherNo != "" {
		exists, err := tx.VoucherNoExists(ctx, txn.VoucherNo)
		if err != nil {
			return fmt.Errorf("failed to check voucher number: %w", err)
		}
		if exists {
			return apperrors.NewConflictError("voucherNo", "voucher number already exists")
		}
	}

	if err := tx.InsertTransaction(ctx, txn); err != nil {
		return err
	}

	if len(txn.Instruments) > 0 {
		for i := range txn.Instruments {
			txn.Instruments[i].TransactionID = txn.TransactionID
			txn.Instruments[i].CreatedAt = now
		}
		saved, err := tx.InsertInstruments(ctx, txn.Instruments)
		if err != nil {
			return fmt.Errorf("failed to insert instruments: %w", err)
		}
		txn.Instruments = saved
	}

	if len(attachments) > 0 {
		for i := range attachments {
			attachments[i].TransactionID = txn.TransactionID
		}
		saved, err := tx.InsertAttachments(ctx, attachments)
		if err != nil {
			return fmt.Errorf("failed to insert attachments: %w", err)
		}
		txn.Attachments = saved
	}

	glEntries, err := buildGeneralLedgerEntries(txn, parties, now)
	if err != nil {
		return err
	}
	savedGL, err := tx.InsertGeneralLedgerEntries(ctx, glEntries)
	if err != nil {
		return fmt.Errorf("failed to insert general ledger entries: %w", err)
	}
	txn.GLEntries = savedGL

	// from != to, so the two balance reads never observe each other's write
	fromEntry, err := postOwnerEntry(ctx, tx, txn, parties.from, parties.to, now)
	if err != nil {
		return err
	}
	toEntry, err := postOwnerEntry(ctx, tx, txn, parties.to, parties.from, now)
	if err != nil {
		return err
	}
	txn.LedgerEntries = []domain.OwnerLedgerEntry{fromEntry, toEntry}

	if err := tx.MarkPosted(ctx, txn.TransactionID, now); err != nil {
		return fmt.Errorf("failed to mark transaction posted: %w", err)
	}
	txn.IsPosted = true
	txn.PostedAt = &now
	return nil
}
