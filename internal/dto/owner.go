package dto

import (
	"time"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
)

// CreateOwnerRequest defines the data needed to register a ledger participant.
type CreateOwnerRequest struct {
	Code        string           `json:"code" binding:"required,max=50"`
	OwnerType   domain.OwnerType `json:"ownerType" binding:"required,oneof=MAIN COMPANY EMPLOYEE CLIENT UNIT PROJECT SYSTEM"`
	Name        string           `json:"name" binding:"required,max=255"`
	Description string           `json:"description"`
	Email       string           `json:"email" binding:"omitempty,email"`
	Phone       string           `json:"phone" binding:"omitempty,max=50"`
	Address     string           `json:"address"`
	AccountID   *string          `json:"accountID"` // optional chart-of-accounts link
}

// UpdateOwnerRequest defines the mutable owner fields. Nil means unchanged.
type UpdateOwnerRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Address     *string `json:"address"`
	AccountID   *string `json:"accountID"` // empty string unlinks
}

// SetOwnerStatusRequest flips an owner between ACTIVE and INACTIVE.
type SetOwnerStatusRequest struct {
	Status domain.Status `json:"status" binding:"required,oneof=ACTIVE INACTIVE"`
}

// ListOwnersParams defines query parameters for listing owners.
type ListOwnersParams struct {
	OwnerType domain.OwnerType `form:"ownerType" binding:"omitempty,oneof=MAIN COMPANY EMPLOYEE CLIENT UNIT PROJECT SYSTEM"`
	Status    domain.Status    `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

// CreateUnitRequest defines the data needed to add a unit to an owner.
type CreateUnitRequest struct {
	Code string `json:"code" binding:"required,max=50"`
	Name string `json:"name" binding:"required,max=255"`
}

// OwnerResponse defines the data returned for an owner.
type OwnerResponse struct {
	OwnerID       string           `json:"ownerID"`
	Code          string           `json:"code"`
	OwnerType     domain.OwnerType `json:"ownerType"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Email         string           `json:"email"`
	Phone         string           `json:"phone"`
	Address       string           `json:"address"`
	Status        domain.Status    `json:"status"`
	IsSystem      bool             `json:"isSystem"`
	AccountID     string           `json:"accountID"`
	CreatedAt     time.Time        `json:"createdAt"`
	CreatedBy     string           `json:"createdBy"`
	LastUpdatedAt time.Time        `json:"lastUpdatedAt"`
	LastUpdatedBy string           `json:"lastUpdatedBy"`
}

// UnitResponse defines the data returned for a unit.
type UnitResponse struct {
	UnitID    string    `json:"unitID"`
	OwnerID   string    `json:"ownerID"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToOwnerResponse converts a domain.Owner to OwnerResponse DTO
func ToOwnerResponse(o *domain.Owner) OwnerResponse {
	return OwnerResponse{
		OwnerID:       o.OwnerID,
		Code:          o.Code,
		OwnerType:     o.OwnerType,
		Name:          o.Name,
		Description:   o.Description,
		Email:         o.Email,
		Phone:         o.Phone,
		Address:       o.Address,
		Status:        o.Status,
		IsSystem:      o.IsSystem,
		AccountID:     o.AccountID,
		CreatedAt:     o.CreatedAt,
		CreatedBy:     o.CreatedBy,
		LastUpdatedAt: o.LastUpdatedAt,
		LastUpdatedBy: o.LastUpdatedBy,
	}
}

// ToOwnerResponses converts a slice of domain.Owner
func ToOwnerResponses(owners []domain.Owner) []OwnerResponse {
	out := make([]OwnerResponse, len(owners))
	for i := range owners {
		out[i] = ToOwnerResponse(&owners[i])
	}
	return out
}

// ToUnitResponses converts a slice of domain.Unit
func ToUnitResponses(units []domain.Unit) []UnitResponse {
	out := make([]UnitResponse, len(units))
	for i, u := range units {
		out[i] = UnitResponse{UnitID: u.UnitID, OwnerID: u.OwnerID, Code: u.Code, Name: u.Name, CreatedAt: u.CreatedAt}
	}
	return out
}
