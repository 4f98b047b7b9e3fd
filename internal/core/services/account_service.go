package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/trust_ledger/internal/apperrors"
	"github.com/SscSPs/trust_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trust_ledger/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger/internal/dto"
	"github.com/google/uuid"
)

// maxAccountDepth guards parent-chain walks against corrupt cycles.
const maxAccountDepth = 64

// accountService implements the chart of accounts.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new chart-of-accounts service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actorID string) (*domain.ChartOfAccount, error) {
	code := normalizeCode(req.Code)
	name := strings.TrimSpace(req.Name)

	verr := &apperrors.ValidationError{}
	if code == "" {
		verr.Add("code", "account code is required")
	}
	if name == "" {
		verr.Add("name", "account name is required")
	}
	if !req.AccountType.Valid() {
		verr.Add("accountType", fmt.Sprintf("unknown account type '%s'", req.AccountType))
	}
	bankID := trimmed(req.RelatedBankAccountID)
	if bankID != "" && req.AccountType != domain.Asset {
		verr.Add("relatedBankAccountID", "only ASSET accounts may link to a bank account")
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	existing, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("code", "account code already exists")
	}

	parentID := trimmed(req.ParentAccountID)
	if parentID != "" {
		if _, err := s.findParent(ctx, parentID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	account := domain.ChartOfAccount{
		AccountID:            uuid.NewString(),
		Code:                 code,
		Name:                 name,
		AccountType:          req.AccountType,
		ParentAccountID:      parentID,
		RelatedBankAccountID: bankID,
		IsActive:             true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("code", code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", code))
	return &account, nil
}

func (s *accountService) findParent(ctx context.Context, parentID string) (*domain.ChartOfAccount, error) {
	parent, err := s.accountRepo.FindAccountByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("parentAccountID", "parent account not found")
		}
		return nil, fmt.Errorf("failed to load parent account: %w", err)
	}
	return parent, nil
}

func (s *accountService) GetAccount(ctx context.Context, accountID string) (*domain.ChartOfAccount, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.ChartOfAccount, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountFilter{AccountType: params.AccountType, ActiveOnly: params.ActiveOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.ChartOfAccount, error) {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name", "account name cannot be empty")
		}
		account.Name = name
	}
	if req.RelatedBankAccountID != nil {
		bankID := strings.TrimSpace(*req.RelatedBankAccountID)
		if bankID != "" && !account.CanLinkBankAccount() {
			return nil, apperrors.NewValidationError("relatedBankAccountID", "only ASSET accounts may link to a bank account")
		}
		account.RelatedBankAccountID = bankID
	}
	if req.ParentAccountID != nil {
		parentID := strings.TrimSpace(*req.ParentAccountID)
		if parentID != "" {
			if err := s.checkNoCycle(ctx, account.AccountID, parentID); err != nil {
				return nil, err
			}
		}
		account.ParentAccountID = parentID
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = actorID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// checkNoCycle rejects a parent that is the account itself or one of its descendants.
func (s *accountService) checkNoCycle(ctx context.Context, accountID, parentID string) error {
	current := parentID
	for depth := 0; current != ""; depth++ {
		if current == accountID {
			return apperrors.NewValidationError("parentAccountID", "account cannot be its own ancestor")
		}
		if depth >= maxAccountDepth {
			return apperrors.NewIntegrityFailure("account hierarchy too deep or cyclic", nil)
		}
		parent, err := s.findParent(ctx, current)
		if err != nil {
			return err
		}
		current = parent.ParentAccountID
	}
	return nil
}

func (s *accountService) SetAccountActive(ctx context.Context, accountID string, active bool, actorID string) (*domain.ChartOfAccount, error) {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.IsActive == active {
		return account, nil
	}

	account.IsActive = active
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = actorID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to change account state", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to change account state: %w", err)
	}
	s.LogInfo(ctx, "Account state changed", slog.String("account_id", accountID), slog.Bool("active", active))
	return account, nil
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
