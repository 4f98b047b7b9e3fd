package mapping

import (
	"github.com/SscSPs/trust_ledger/internal/core/domain"
	"github.com/SscSPs/trust_ledger/internal/models"
)

// ToModelAccount converts a domain ChartOfAccount to a model ChartOfAccount
func ToModelAccount(d domain.ChartOfAccount) models.ChartOfAccount {
	return models.ChartOfAccount{
		AccountID:            d.AccountID,
		Code:                 d.Code,
		Name:                 d.Name,
		AccountType:          models.AccountType(d.AccountType),
		ParentAccountID:      NullString(d.ParentAccountID),
		RelatedBankAccountID: NullString(d.RelatedBankAccountID),
		IsActive:             d.IsActive,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model ChartOfAccount to a domain ChartOfAccount
func ToDomainAccount(m models.ChartOfAccount) domain.ChartOfAccount {
	return domain.ChartOfAccount{
		AccountID:            m.AccountID,
		Code:                 m.Code,
		Name:                 m.Name,
		AccountType:          domain.AccountType(m.AccountType),
		ParentAccountID:      m.ParentAccountID.String,
		RelatedBankAccountID: m.RelatedBankAccountID.String,
		IsActive:             m.IsActive,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model accounts to a slice of domain accounts
func ToDomainAccountSlice(ms []models.ChartOfAccount) []domain.ChartOfAccount {
	ds := make([]domain.ChartOfAccount, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
