package repositories

import (
	"context"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
)

// OwnerFilter narrows ListOwners. Zero values mean no filter.
type OwnerFilter struct {
	OwnerType domain.OwnerType
	Status    domain.Status
}

// OwnerReader defines read operations for owners and their units
type OwnerReader interface {
	// FindOwnerByID returns apperrors.ErrNotFound when the owner does not exist.
	FindOwnerByID(ctx context.Context, ownerID string) (*domain.Owner, error)
	FindOwnerByCode(ctx context.Context, code string) (*domain.Owner, error)
	ListOwners(ctx context.Context, filter OwnerFilter) ([]domain.Owner, error)
	FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error)
	ListUnitsByOwner(ctx context.Context, ownerID string) ([]domain.Unit, error)
}

// OwnerWriter defines write operations for owners and their units
type OwnerWriter interface {
	// SaveOwner returns an apperrors.ConflictError when the code is taken.
	SaveOwner(ctx context.Context, owner domain.Owner) error
	UpdateOwner(ctx context.Context, owner domain.Owner) error
	SaveUnit(ctx context.Context, unit domain.Unit) error
}

// OwnerRepositoryFacade combines all owner-related repository interfaces
type OwnerRepositoryFacade interface {
	OwnerReader
	OwnerWriter
}
