package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/trust_ledger/internal/apperrors"
	"github.com/SscSPs/trust_ledger/internal/core/domain"
	"github.com/SscSPs/trust_ledger/internal/core/ports/infra"
	portsrepo "github.com/SscSPs/trust_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trust_ledger/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger/internal/dto"
	"github.com/SscSPs/trust_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// Amounts and balances are stored as NUMERIC(20,2).
const (
	maxAmountScale         = 2
	maxAmountIntegerDigits = 18
)

// amountCeiling is the smallest magnitude that no longer fits storage.
var amountCeiling = decimal.New(1, maxAmountIntegerDigits)

// TransactionServiceOption configures optional collaborators of the transaction service.
type TransactionServiceOption func(*transactionService)

// WithOwnerLocker serializes postings per owner ahead of the database row locks.
func WithOwnerLocker(l infra.OwnerLocker) TransactionServiceOption {
	return func(s *transactionService) { s.locker = l }
}

// WithEventPublisher emits a TransactionPostedEvent after each commit.
func WithEventPublisher(p infra.EventPublisher) TransactionServiceOption {
	return func(s *transactionService) { s.publisher = p }
}

// WithMaxAttachmentBytes overrides DefaultMaxAttachmentBytes.
func WithMaxAttachmentBytes(n int64) TransactionServiceOption {
	return func(s *transactionService) {
		if n > 0 {
			s.maxAttachmentBytes = n
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) TransactionServiceOption {
	return func(s *transactionService) { s.now = now }
}

// transactionService records and posts transactions.
type transactionService struct {
	BaseService
	txnRepo            portsrepo.TransactionRepositoryWithTx
	ownerRepo          portsrepo.OwnerReader
	blobs              infra.BlobStore
	locker             infra.OwnerLocker
	publisher          infra.EventPublisher
	maxAttachmentBytes int64
	now                func() time.Time
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryWithTx, ownerRepo portsrepo.OwnerReader, blobs infra.BlobStore, opts ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	s := &transactionService{
		txnRepo:            txnRepo,
		ownerRepo:          ownerRepo,
		blobs:              blobs,
		maxAttachmentBytes: DefaultMaxAttachmentBytes,
		now:                func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// validatedPosting is a request that passed every pre-commit check.
type validatedPosting struct {
	txn         domain.Transaction
	attachments []pendingAttachment
}

func (s *transactionService) PostTransaction(ctx context.Context, req dto.PostTransactionRequest, actorID string) (*domain.Transaction, error) {
	logger := s.GetLogger(ctx).With(
		slog.String("from_owner_id", req.FromOwnerID),
		slog.String("to_owner_id", req.ToOwnerID),
		slog.String("category", string(req.Category)),
	)

	now := s.now()
	vp, err := s.validate(ctx, req, actorID, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Transaction rejected", slog.String("error", err.Error()))
		} else {
			logger.Error("Transaction validation failed", slog.String("error", err.Error()))
		}
		return nil, err
	}
	txn := &vp.txn

	stored, err := s.storeAttachments(ctx, vp.attachments)
	if err != nil {
		logger.Error("Failed to store attachments", slog.String("error", err.Error()))
		return nil, err
	}

	if s.locker != nil {
		release, err := s.locker.LockOwners(ctx, []string{txn.FromOwnerID, txn.ToOwnerID})
		if err != nil {
			s.discardAttachments(ctx, stored)
			logger.Error("Failed to lock owners", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to lock owners: %w", err)
		}
		defer release()
	}

	err = s.txnRepo.RunInTx(ctx, func(ctx context.Context, tx portsrepo.PostingTx) error {
		return postTransaction(ctx, tx, txn, stored, now)
	})
	if err != nil {
		s.discardAttachments(ctx, stored)
		switch {
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Transaction rejected during posting", slog.String("error", err.Error()))
		default:
			logger.Error("Failed to post transaction", slog.String("error", err.Error()))
		}
		return nil, err
	}

	logger.Info("Transaction posted",
		slog.Int64("transaction_id", txn.TransactionID),
		slog.String("voucher_no", txn.VoucherNo),
		slog.String("amount", txn.Amount.String()),
	)
	s.publishPosted(ctx, txn)
	return txn, nil
}

// validate runs the fail-fast checks in order and builds the unposted transaction.
func (s *transactionService) validate(ctx context.Context, req dto.PostTransactionRequest, actorID string, now time.Time) (*validatedPosting, error) {
	fromID := strings.TrimSpace(req.FromOwnerID)
	toID := strings.TrimSpace(req.ToOwnerID)
	particulars := strings.TrimSpace(req.Particulars)

	verr := &apperrors.ValidationError{}
	if req.Amount == nil {
		verr.Add("amount", "amount is required")
	}
	if particulars == "" {
		verr.Add("particulars", "particulars are required")
	}
	if fromID == "" {
		verr.Add("fromOwnerID", "from owner is required")
	}
	if toID == "" {
		verr.Add("toOwnerID", "to owner is required")
	}
	if req.TransType == "" {
		verr.Add("transType", "transaction type is required")
	} else if !req.TransType.Valid() {
		verr.Add("transType", fmt.Sprintf("unknown transaction type '%s'", req.TransType))
	}
	if !req.Category.Valid() {
		verr.Add("category", fmt.Sprintf("unknown category '%s'", req.Category))
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}
	method, ok := req.Category.ResolveMethod(req.Method)
	if !ok {
		return nil, apperrors.NewValidationError("method", "ADJUSTMENT requires method DEPOSIT or WITHDRAWAL")
	}

	if fromID == toID {
		return nil, apperrors.NewValidationError("toOwnerID", "from and to owner must differ")
	}

	from, err := s.loadActiveOwner(ctx, "fromOwnerID", fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.loadActiveOwner(ctx, "toOwnerID", toID)
	if err != nil {
		return nil, err
	}

	if !req.Category.AllowsSystemOwner() {
		if from.OwnerType == domain.OwnerSystem {
			return nil, apperrors.NewValidationError("fromOwnerID", fmt.Sprintf("SYSTEM owners cannot take part in %s transactions", req.Category))
		}
		if to.OwnerType == domain.OwnerSystem {
			return nil, apperrors.NewValidationError("toOwnerID", fmt.Sprintf("SYSTEM owners cannot take part in %s transactions", req.Category))
		}
	}

	unitID := strings.TrimSpace(req.UnitID)
	if unitID != "" {
		unit, err := s.ownerRepo.FindUnitByID(ctx, unitID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to load unit: %w", err)
		}
		if unit == nil {
			return nil, apperrors.NewValidationError("unitID", "unit not found")
		}
		if unit.OwnerID != to.OwnerID {
			return nil, apperrors.NewValidationError("unitID", "unit does not belong to the receiving owner")
		}
	}

	amount := *req.Amount
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount", "amount must be greater than zero")
	}
	if !amount.Equal(amount.Round(maxAmountScale)) {
		return nil, apperrors.NewValidationError("amount", fmt.Sprintf("amount may have at most %d decimal places", maxAmountScale))
	}
	if amount.GreaterThanOrEqual(amountCeiling) {
		return nil, apperrors.NewValidationError("amount", fmt.Sprintf("amount may have at most %d integer digits", maxAmountIntegerDigits))
	}

	voucherNo := domain.NormalizeVoucherNo(req.VoucherNo)
	voucherDate, err := parseVoucherDate(req.VoucherDate)
	if err != nil {
		return nil, err
	}
	if voucherNo != "" {
		if voucherDate == nil {
			return nil, apperrors.NewValidationError("voucherDate", "voucher date is required with a voucher number")
		}
		exists, err := s.txnRepo.VoucherNoExists(ctx, voucherNo)
		if err != nil {
			return nil, fmt.Errorf("failed to check voucher number: %w", err)
		}
		if exists {
			return nil, apperrors.NewConflictError("voucherNo", "voucher number already exists")
		}
	}

	instruments, err := normalizeInstruments(req.Instruments)
	if err != nil {
		return nil, err
	}

	attachments, err := validateAttachments(req.Attachments, s.maxAttachmentBytes, now)
	if err != nil {
		return nil, err
	}

	if err := checkInstrumentPolicy(req.TransType, instruments, attachments); err != nil {
		return nil, err
	}
	if from.AccountID == "" {
		return nil, apperrors.NewConflictError("fromOwnerID", "owner has no linked chart-of-accounts account")
	}
	if to.AccountID == "" {
		return nil, apperrors.NewConflictError("toOwnerID", "owner has no linked chart-of-accounts account")
	}

	return &validatedPosting{
		txn: domain.Transaction{
			VoucherNo:       voucherNo,
			VoucherDate:     voucherDate,
			Category:        req.Category,
			Method:          method,
			TransType:       req.TransType,
			FromOwnerID:     from.OwnerID,
			ToOwnerID:       to.OwnerID,
			UnitID:          unitID,
			Amount:          amount,
			FundReference:   strings.TrimSpace(req.FundReference),
			Particulars:     particulars,
			TransferGroupID: strings.TrimSpace(req.TransferGroupID),
			PersonInCharge:  strings.TrimSpace(req.PersonInCharge),
			Status:          domain.StatusActive,
			Instruments:     instruments,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		},
		attachments: attachments,
	}, nil
}

func (s *transactionService) loadActiveOwner(ctx context.Context, field, ownerID string) (*domain.Owner, error) {
	owner, err := s.ownerRepo.FindOwnerByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError(field, "owner not found")
		}
		return nil, fmt.Errorf("failed to load owner %s: %w", ownerID, err)
	}
	if !owner.IsActive() {
		return nil, apperrors.NewConflictError(field, "owner is inactive")
	}
	return owner, nil
}

// parseVoucherDate accepts YYYY-MM-DD or RFC3339. Empty input yields nil.
func parseVoucherDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, apperrors.NewValidationError("voucherDate", "voucher date must be YYYY-MM-DD or RFC3339")
	}
	t = t.UTC()
	return &t, nil
}

// normalizeInstruments drops duplicate (type, number) pairs and rejects unknown types.
func normalizeInstruments(in []dto.InstrumentInput) ([]domain.TransactionInstrument, error) {
	verr := &apperrors.ValidationError{}
	seen := make(map[string]struct{}, len(in))
	out := make([]domain.TransactionInstrument, 0, len(in))
	for i, ins := range in {
		field := fmt.Sprintf("instruments[%d]", i)
		if !ins.InstrumentType.Valid() {
			verr.Add(field+".instrumentType", fmt.Sprintf("unknown instrument type '%s'", ins.InstrumentType))
			continue
		}
		no := strings.ToUpper(strings.TrimSpace(ins.InstrumentNo))
		if no == "" {
			verr.Add(field+".instrumentNo", "instrument number is required")
			continue
		}
		key := string(ins.InstrumentType) + "|" + no
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, domain.TransactionInstrument{InstrumentType: ins.InstrumentType, InstrumentNo: no})
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return out, nil
}

// checkInstrumentPolicy ties the instrument medium to the documents that must back it.
func checkInstrumentPolicy(transType domain.InstrumentType, instruments []domain.TransactionInstrument, attachments []pendingAttachment) error {
	needsDocument := transType.RequiresAttachment()
	for _, ins := range instruments {
		if ins.InstrumentType.RequiresAttachment() {
			needsDocument = true
		}
	}
	if needsDocument && len(attachments) == 0 {
		return apperrors.NewValidationError("attachments", "cheque and deposit slip transactions require a scanned document")
	}
	if transType == domain.InstrumentCash {
		for i, a := range attachments {
			if a.meta.AttachmentType == domain.AttachmentSupporting {
				return apperrors.NewValidationError(fmt.Sprintf("attachments[%d].kind", i), "cash transactions only accept a VOUCHER attachment")
			}
		}
	}
	return nil
}

// storeAttachments writes every validated upload to the blob store. On failure the
// blobs already written are removed and a StorageError is returned.
func (s *transactionService) storeAttachments(ctx context.Context, pending []pendingAttachment) ([]domain.TransactionAttachment, error) {
	if len(pending) == 0 {
		return nil, nil
	}
	if s.blobs == nil {
		return nil, apperrors.NewStorageError("put", errors.New("no attachment store configured"))
	}
	stored := make([]domain.TransactionAttachment, 0, len(pending))
	for _, p := range pending {
		if err := s.blobs.Put(ctx, p.meta.StorageKey, p.meta.MimeType, p.content); err != nil {
			s.discardAttachments(ctx, stored)
			return nil, apperrors.NewStorageError("put "+p.meta.FileName, err)
		}
		stored = append(stored, p.meta)
	}
	return stored, nil
}

// discardAttachments removes orphaned blobs after a failed posting. Failures are logged and tolerated.
func (s *transactionService) discardAttachments(ctx context.Context, stored []domain.TransactionAttachment) {
	if len(stored) == 0 || s.blobs == nil {
		return
	}
	cleanupCtx := context.WithoutCancel(ctx)
	for _, a := range stored {
		if err := s.blobs.Delete(cleanupCtx, a.StorageKey); err != nil && !errors.Is(err, infra.ErrBlobNotFound) {
			s.LogWarn(ctx, err, "Failed to remove orphaned attachment", slog.String("storage_key", a.StorageKey))
		}
	}
}

func (s *transactionService) publishPosted(ctx context.Context, txn *domain.Transaction) {
	if s.publisher == nil {
		return
	}
	postedAt := txn.CreatedAt
	if txn.PostedAt != nil {
		postedAt = *txn.PostedAt
	}
	event := infra.TransactionPostedEvent{
		TransactionID: txn.TransactionID,
		VoucherNo:     txn.VoucherNo,
		Category:      string(txn.Category),
		FromOwnerID:   txn.FromOwnerID,
		ToOwnerID:     txn.ToOwnerID,
		Amount:        txn.Amount,
		PostedBy:      txn.CreatedBy,
		PostedAt:      postedAt,
	}
	if err := s.publisher.PublishTransactionPosted(context.WithoutCancel(ctx), event); err != nil {
		s.LogWarn(ctx, err, "Failed to publish transaction posted event", slog.Int64("transaction_id", txn.TransactionID))
	}
}

func (s *transactionService) GetTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load transaction", slog.Int64("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if params.NextToken != nil && *params.NextToken != "" {
		if _, err := pagination.DecodeToken(*params.NextToken); err != nil {
			return nil, apperrors.NewValidationError("nextToken", "invalid pagination token")
		}
	}
	limit := pagination.NormalizeLimit(params.Limit)
	filter := portsrepo.TransactionFilter{OwnerID: strings.TrimSpace(params.OwnerID)}

	txns, next, err := s.txnRepo.ListTransactions(ctx, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("owner_id", filter.OwnerID))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    next,
	}, nil
}

func (s *transactionService) OpenAttachment(ctx context.Context, transactionID, attachmentID int64) (*domain.TransactionAttachment, io.ReadCloser, error) {
	att, err := s.txnRepo.FindAttachment(ctx, transactionID, attachmentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load attachment", slog.Int64("transaction_id", transactionID), slog.Int64("attachment_id", attachmentID))
		}
		return nil, nil, err
	}
	if s.blobs == nil {
		return nil, nil, apperrors.NewStorageError("get", errors.New("no attachment store configured"))
	}
	rc, err := s.blobs.Get(ctx, att.StorageKey)
	if err != nil {
		s.LogError(ctx, err, "Failed to open attachment content", slog.String("storage_key", att.StorageKey))
		return nil, nil, apperrors.NewStorageError("get "+att.FileName, err)
	}
	return att, rc, nil
}

