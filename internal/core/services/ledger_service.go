package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/trust_ledger/internal/apperrors"
	"github.com/SscSPs/trust_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trust_ledger/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ledgerService reconstructs statements from persisted ledger entries.
// Running balances are always read from the stored column, never recomputed.
type ledgerService struct {
	BaseService
	ledgerRepo  portsrepo.LedgerReader
	ownerRepo   portsrepo.OwnerReader
	accountRepo portsrepo.AccountReader
}

// NewLedgerService creates a new ledger query service.
func NewLedgerService(ledgerRepo portsrepo.LedgerReader, ownerRepo portsrepo.OwnerReader, accountRepo portsrepo.AccountReader) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:  ledgerRepo,
		ownerRepo:   ownerRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func validateRange(dateRange domain.DateRange) error {
	if dateRange.From != nil && dateRange.To != nil && !dateRange.From.Before(*dateRange.To) {
		return apperrors.NewValidationError("toDate", "toDate must not be before fromDate")
	}
	return nil
}

func normalizeSort(sort domain.SortOrder) (domain.SortOrder, error) {
	switch sort {
	case "", domain.SortAsc:
		return domain.SortAsc, nil
	case domain.SortDesc:
		return domain.SortDesc, nil
	}
	return "", apperrors.NewValidationError("sort", fmt.Sprintf("unknown sort order '%s'", sort))
}

func (s *ledgerService) GetOwnerLedger(ctx context.Context, ownerID string, sort domain.SortOrder, dateRange domain.DateRange) (*domain.OwnerStatement, error) {
	sort, err := normalizeSort(sort)
	if err != nil {
		return nil, err
	}
	if err := validateRange(dateRange); err != nil {
		return nil, err
	}

	owner, err := s.ownerRepo.FindOwnerByID(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load owner for ledger", slog.String("owner_id", ownerID))
		}
		return nil, err
	}

	opening, openingEntryID, err := s.openingBalance(ctx, owner, dateRange)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute opening balance", slog.String("owner_id", ownerID))
		return nil, err
	}

	entries, err := s.ledgerRepo.ListOwnerEntries(ctx, ownerID, dateRange)
	if err != nil {
		s.LogError(ctx, err, "Failed to list owner ledger entries", slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to list owner ledger entries: %w", err)
	}

	lines := make([]domain.OwnerStatementLine, 0, len(entries))
	txnIDs := make([]int64, 0, len(entries))
	for _, e := range entries {
		if openingEntryID != 0 && e.EntryID == openingEntryID {
			continue
		}
		deposit, withdrawal := accounting.DepositWithdrawal(owner.OwnerType, e.Debit, e.Credit)
		lines = append(lines, domain.OwnerStatementLine{Entry: e, Deposit: deposit, Withdrawal: withdrawal})
		txnIDs = append(txnIDs, e.TransactionID)
	}

	if err := s.attachDocuments(ctx, txnIDs, func(instruments map[int64][]domain.TransactionInstrument, attachments map[int64][]domain.TransactionAttachment) {
		for i := range lines {
			lines[i].Instruments = instruments[lines[i].Entry.TransactionID]
			lines[i].Attachments = attachments[lines[i].Entry.TransactionID]
		}
	}); err != nil {
		s.LogError(ctx, err, "Failed to load statement documents", slog.String("owner_id", ownerID))
		return nil, err
	}

	stmt := &domain.OwnerStatement{
		Owner:          *owner,
		Range:          dateRange,
		Sort:           sort,
		OpeningBalance: opening,
		OpeningEntryID: openingEntryID,
		ClosingBalance: opening,
		TotalDeposit:   decimal.Zero,
		TotalWithdraw:  decimal.Zero,
	}
	for _, l := range lines {
		stmt.TotalDeposit = stmt.TotalDeposit.Add(l.Deposit)
		stmt.TotalWithdraw = stmt.TotalWithdraw.Add(l.Withdrawal)
	}
	if len(lines) > 0 {
		stmt.ClosingBalance = lines[len(lines)-1].Entry.RunningBalance
	}
	if sort == domain.SortDesc {
		for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
			lines[i], lines[j] = lines[j], lines[i]
		}
	}
	stmt.Lines = lines
	return stmt, nil
}

// openingBalance returns the owner's balance carried into dateRange and, when the
// owner's earliest entry is an opening entry, that entry's id.
// The earliest entry comes from its own ascending lookup so display order never affects it.
func (s *ledgerService) openingBalance(ctx context.Context, owner *domain.Owner, dateRange domain.DateRange) (decimal.Decimal, int64, error) {
	opening := decimal.Zero
	var openingEntryID int64

	earliest, err := s.ledgerRepo.FindEarliestOwnerEntry(ctx, owner.OwnerID)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to find earliest ledger entry: %w", err)
	}
	if earliest != nil && earliest.IsOpening() {
		opening = accounting.OpeningAmount(owner.OwnerType, *earliest)
		openingEntryID = earliest.EntryID
	}

	if dateRange.From != nil {
		debit, credit, err := s.ledgerRepo.SumOwnerEntriesBefore(ctx, owner.OwnerID, *dateRange.From, openingEntryID)
		if err != nil {
			return decimal.Zero, 0, fmt.Errorf("failed to sum prior ledger entries: %w", err)
		}
		opening = opening.Add(accounting.SignedDelta(owner.OwnerType, debit, credit))
	}
	return opening, openingEntryID, nil
}

// attachDocuments batch-loads instruments and attachments for the given transactions.
func (s *ledgerService) attachDocuments(ctx context.Context, txnIDs []int64, apply func(map[int64][]domain.TransactionInstrument, map[int64][]domain.TransactionAttachment)) error {
	if len(txnIDs) == 0 {
		return nil
	}
	instruments, err := s.ledgerRepo.FindInstrumentsByTransactionIDs(ctx, txnIDs)
	if err != nil {
		return fmt.Errorf("failed to load instruments: %w", err)
	}
	attachments, err := s.ledgerRepo.FindAttachmentsByTransactionIDs(ctx, txnIDs)
	if err != nil {
		return fmt.Errorf("failed to load attachments: %w", err)
	}
	apply(instruments, attachments)
	return nil
}

func (s *ledgerService) GetAccountLedger(ctx context.Context, accountID string, dateRange domain.DateRange) (*domain.AccountStatement, error) {
	if err := validateRange(dateRange); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load account for ledger", slog.String("account_id", accountID))
		}
		return nil, err
	}

	opening := decimal.Zero
	if dateRange.From != nil {
		debit, credit, err := s.ledgerRepo.SumAccountEntriesBefore(ctx, accountID, *dateRange.From)
		if err != nil {
			s.LogError(ctx, err, "Failed to sum prior account entries", slog.String("account_id", accountID))
			return nil, fmt.Errorf("failed to sum prior account entries: %w", err)
		}
		opening = debit.Sub(credit)
	}

	rows, err := s.ledgerRepo.ListAccountEntries(ctx, accountID, dateRange)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account entries", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list account entries: %w", err)
	}

	stmt := &domain.AccountStatement{
		Account:        *account,
		OpeningBalance: opening,
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
		Lines:          make([]domain.AccountStatementLine, 0, len(rows)),
	}
	running := opening
	txnIDs := make([]int64, 0, len(rows))
	for _, r := range rows {
		running = running.Add(r.Entry.Debit).Sub(r.Entry.Credit)
		stmt.TotalDebit = stmt.TotalDebit.Add(r.Entry.Debit)
		stmt.TotalCredit = stmt.TotalCredit.Add(r.Entry.Credit)
		stmt.Lines = append(stmt.Lines, domain.AccountStatementLine{AccountLedgerRow: r, RunningTotal: running})
		txnIDs = append(txnIDs, r.Entry.TransactionID)
	}
	stmt.ClosingBalance = running

	if err := s.attachDocuments(ctx, txnIDs, func(instruments map[int64][]domain.TransactionInstrument, attachments map[int64][]domain.TransactionAttachment) {
		for i := range stmt.Lines {
			id := stmt.Lines[i].Entry.TransactionID
			stmt.Lines[i].Instruments = instruments[id]
			stmt.Lines[i].Attachments = attachments[id]
		}
	}); err != nil {
		s.LogError(ctx, err, "Failed to load statement documents", slog.String("account_id", accountID))
		return nil, err
	}
	return stmt, nil
}
