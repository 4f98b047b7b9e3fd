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

// MaxSystemOwners bounds the fixed set of SYSTEM owners.
const MaxSystemOwners = 3

// ownerService implements the owner directory.
type ownerService struct {
	BaseService
	ownerRepo   portsrepo.OwnerRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// NewOwnerService creates a new owner directory service.
func NewOwnerService(ownerRepo portsrepo.OwnerRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.OwnerSvcFacade {
	return &ownerService{
		ownerRepo:   ownerRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.OwnerSvcFacade = (*ownerService)(nil)

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *ownerService) CreateOwner(ctx context.Context, req dto.CreateOwnerRequest, actorID string) (*domain.Owner, error) {
	code := normalizeCode(req.Code)
	name := strings.TrimSpace(req.Name)

	verr := &apperrors.ValidationError{}
	if code == "" {
		verr.Add("code", "owner code is required")
	}
	if name == "" {
		verr.Add("name", "owner name is required")
	}
	if !req.OwnerType.Valid() {
		verr.Add("ownerType", fmt.Sprintf("unknown owner type '%s'", req.OwnerType))
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	existing, err := s.ownerRepo.FindOwnerByCode(ctx, code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check owner code", slog.String("code", code))
		return nil, fmt.Errorf("failed to check owner code: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("code", "owner code already exists")
	}

	if req.OwnerType == domain.OwnerSystem {
		systemOwners, err := s.ownerRepo.ListOwners(ctx, portsrepo.OwnerFilter{OwnerType: domain.OwnerSystem})
		if err != nil {
			return nil, fmt.Errorf("failed to count system owners: %w", err)
		}
		if len(systemOwners) >= MaxSystemOwners {
			return nil, apperrors.NewConflictError("ownerType", fmt.Sprintf("at most %d SYSTEM owners may exist", MaxSystemOwners))
		}
	}

	accountID := ""
	if req.AccountID != nil {
		accountID = strings.TrimSpace(*req.AccountID)
	}
	if accountID != "" {
		if err := s.checkLinkableAccount(ctx, accountID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	owner := domain.Owner{
		OwnerID:     uuid.NewString(),
		Code:        code,
		OwnerType:   req.OwnerType,
		Name:        name,
		Description: req.Description,
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Address:     req.Address,
		Status:      domain.StatusActive,
		IsSystem:    req.OwnerType == domain.OwnerSystem,
		AccountID:   accountID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.ownerRepo.SaveOwner(ctx, owner); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to save owner", slog.String("code", code))
		return nil, fmt.Errorf("failed to save owner: %w", err)
	}

	s.LogInfo(ctx, "Owner created", slog.String("owner_id", owner.OwnerID), slog.String("code", owner.Code), slog.String("owner_type", string(owner.OwnerType)))
	return &owner, nil
}

// checkLinkableAccount ensures a chart-of-accounts node exists and is active.
func (s *ownerService) checkLinkableAccount(ctx context.Context, accountID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError("accountID", "linked account not found")
		}
		return fmt.Errorf("failed to load linked account: %w", err)
	}
	if !account.IsActive {
		return apperrors.NewConflictError("accountID", "linked account is inactive")
	}
	return nil
}

func (s *ownerService) GetOwner(ctx context.Context, ownerID string) (*domain.Owner, error) {
	owner, err := s.ownerRepo.FindOwnerByID(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load owner", slog.String("owner_id", ownerID))
		}
		return nil, err
	}
	return owner, nil
}

func (s *ownerService) ListOwners(ctx context.Context, params dto.ListOwnersParams) ([]domain.Owner, error) {
	owners, err := s.ownerRepo.ListOwners(ctx, portsrepo.OwnerFilter{OwnerType: params.OwnerType, Status: params.Status})
	if err != nil {
		s.LogError(ctx, err, "Failed to list owners")
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	return owners, nil
}

func (s *ownerService) UpdateOwner(ctx context.Context, ownerID string, req dto.UpdateOwnerRequest, actorID string) (*domain.Owner, error) {
	owner, err := s.GetOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name", "owner name cannot be empty")
		}
		owner.Name = name
	}
	if req.Description != nil {
		owner.Description = *req.Description
	}
	if req.Email != nil {
		owner.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		owner.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		owner.Address = *req.Address
	}
	if req.AccountID != nil {
		accountID := strings.TrimSpace(*req.AccountID)
		if accountID != "" && accountID != owner.AccountID {
			if err := s.checkLinkableAccount(ctx, accountID); err != nil {
				return nil, err
			}
		}
		owner.AccountID = accountID
	}

	owner.LastUpdatedAt = time.Now().UTC()
	owner.LastUpdatedBy = actorID
	if err := s.ownerRepo.UpdateOwner(ctx, *owner); err != nil {
		s.LogError(ctx, err, "Failed to update owner", slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to update owner: %w", err)
	}
	return owner, nil
}

func (s *ownerService) SetOwnerStatus(ctx context.Context, ownerID string, status domain.Status, actorID string) (*domain.Owner, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("status", fmt.Sprintf("unknown status '%s'", status))
	}
	owner, err := s.GetOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner.Status == status {
		return owner, nil
	}

	owner.Status = status
	owner.LastUpdatedAt = time.Now().UTC()
	owner.LastUpdatedBy = actorID
	if err := s.ownerRepo.UpdateOwner(ctx, *owner); err != nil {
		s.LogError(ctx, err, "Failed to change owner status", slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to change owner status: %w", err)
	}
	s.LogInfo(ctx, "Owner status changed", slog.String("owner_id", ownerID), slog.String("status", string(status)))
	return owner, nil
}

func (s *ownerService) CreateUnit(ctx context.Context, ownerID string, req dto.CreateUnitRequest, actorID string) (*domain.Unit, error) {
	owner, err := s.GetOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	code := normalizeCode(req.Code)
	name := strings.TrimSpace(req.Name)
	verr := &apperrors.ValidationError{}
	if code == "" {
		verr.Add("code", "unit code is required")
	}
	if name == "" {
		verr.Add("name", "unit name is required")
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	now := time.Now().UTC()
	unit := domain.Unit{
		UnitID:  uuid.NewString(),
		OwnerID: owner.OwnerID,
		Code:    code,
		Name:    name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.ownerRepo.SaveUnit(ctx, unit); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to save unit", slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to save unit: %w", err)
	}
	return &unit, nil
}

func (s *ownerService) ListUnits(ctx context.Context, ownerID string) ([]domain.Unit, error) {
	if _, err := s.GetOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	units, err := s.ownerRepo.ListUnitsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	return units, nil
}
