package mapping

import (
	"github.com/SscSPs/trust_ledger/internal/core/domain"
	"github.com/SscSPs/trust_ledger/internal/models"
)

// ToModelOwner converts a domain Owner to a model Owner
func ToModelOwner(d domain.Owner) models.Owner {
	return models.Owner{
		OwnerID:     d.OwnerID,
		Code:        d.Code,
		OwnerType:   string(d.OwnerType),
		Name:        d.Name,
		Description: d.Description,
		Email:       d.Email,
		Phone:       d.Phone,
		Address:     d.Address,
		Status:      string(d.Status),
		IsSystem:    d.IsSystem,
		AccountID:   NullString(d.AccountID),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainOwner converts a model Owner to a domain Owner
func ToDomainOwner(m models.Owner) domain.Owner {
	return domain.Owner{
		OwnerID:     m.OwnerID,
		Code:        m.Code,
		OwnerType:   domain.OwnerType(m.OwnerType),
		Name:        m.Name,
		Description: m.Description,
		Email:       m.Email,
		Phone:       m.Phone,
		Address:     m.Address,
		Status:      domain.Status(m.Status),
		IsSystem:    m.IsSystem,
		AccountID:   m.AccountID.String,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainOwnerSlice converts a slice of model Owners to a slice of domain Owners
func ToDomainOwnerSlice(ms []models.Owner) []domain.Owner {
	ds := make([]domain.Owner, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainOwner(m)
	}
	return ds
}

// ToModelUnit converts a domain Unit to a model Unit
func ToModelUnit(d domain.Unit) models.Unit {
	return models.Unit{
		UnitID:      d.UnitID,
		OwnerID:     d.OwnerID,
		Code:        d.Code,
		Name:        d.Name,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUnit converts a model Unit to a domain Unit
func ToDomainUnit(m models.Unit) domain.Unit {
	return domain.Unit{
		UnitID:      m.UnitID,
		OwnerID:     m.OwnerID,
		Code:        m.Code,
		Name:        m.Name,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
