package dto

import (
	"time"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a chart-of-accounts node.
type CreateAccountRequest struct {
	Code                 string             `json:"code" binding:"required,max=50"`
	Name                 string             `json:"name" binding:"required,max=255"`
	AccountType          domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	ParentAccountID      *string            `json:"parentAccountID"`      // Optional, use pointer for nullability
	RelatedBankAccountID *string            `json:"relatedBankAccountID"` // ASSET only
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name                 *string `json:"name" binding:"omitempty,min=1,max=255"`
	ParentAccountID      *string `json:"parentAccountID"`
	RelatedBankAccountID *string `json:"relatedBankAccountID"`
}

// SetAccountActiveRequest activates or deactivates an account.
type SetAccountActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	AccountType domain.AccountType `form:"accountType" binding:"omitempty,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	ActiveOnly  bool               `form:"activeOnly"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID            string             `json:"accountID"`
	Code                 string             `json:"code"`
	Name                 string             `json:"name"`
	AccountType          domain.AccountType `json:"accountType"`
	ParentAccountID      string             `json:"parentAccountID"` // Note: Empty string if null in DB
	RelatedBankAccountID string             `json:"relatedBankAccountID"`
	IsActive             bool               `json:"isActive"`
	CreatedAt            time.Time          `json:"createdAt"`
	CreatedBy            string             `json:"createdBy"`
	LastUpdatedAt        time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy        string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.ChartOfAccount to AccountResponse DTO
func ToAccountResponse(acc *domain.ChartOfAccount) AccountResponse {
	return AccountResponse{
		AccountID:            acc.AccountID,
		Code:                 acc.Code,
		Name:                 acc.Name,
		AccountType:          acc.AccountType,
		ParentAccountID:      acc.ParentAccountID,
		RelatedBankAccountID: acc.RelatedBankAccountID,
		IsActive:             acc.IsActive,
		CreatedAt:            acc.CreatedAt,
		CreatedBy:            acc.CreatedBy,
		LastUpdatedAt:        acc.LastUpdatedAt,
		LastUpdatedBy:        acc.LastUpdatedBy,
	}
}

// ToAccountResponses converts a slice of domain.ChartOfAccount
func ToAccountResponses(accounts []domain.ChartOfAccount) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
