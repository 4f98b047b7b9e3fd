package services

import (
	"context"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
	"github.com/SscSPs/trust_ledger/internal/dto"
)

// OwnerReaderSvc defines read operations for the owner directory
type OwnerReaderSvc interface {
	GetOwner(ctx context.Context, ownerID string) (*domain.Owner, error)
	ListOwners(ctx context.Context, params dto.ListOwnersParams) ([]domain.Owner, error)
	ListUnits(ctx context.Context, ownerID string) ([]domain.Unit, error)
}

// OwnerWriterSvc defines write operations for the owner directory
type OwnerWriterSvc interface {
	CreateOwner(ctx context.Context, req dto.CreateOwnerRequest, actorID string) (*domain.Owner, error)
	UpdateOwner(ctx context.Context, ownerID string, req dto.UpdateOwnerRequest, actorID string) (*domain.Owner, error)

	// SetOwnerStatus activates or deactivates an owner. Owners are never deleted.
	SetOwnerStatus(ctx context.Context, ownerID string, status domain.Status, actorID string) (*domain.Owner, error)

	CreateUnit(ctx context.Context, ownerID string, req dto.CreateUnitRequest, actorID string) (*domain.Unit, error)
}

// OwnerSvcFacade combines all owner-related service interfaces
type OwnerSvcFacade interface {
	OwnerReaderSvc
	OwnerWriterSvc
}
