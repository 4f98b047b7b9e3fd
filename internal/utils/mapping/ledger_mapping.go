package mapping

import (
	"github.com/SscSPs/trust_ledger/internal/core/domain"
	"github.com/SscSPs/trust_ledger/internal/models"
)

// ToModelOwnerLedgerEntry converts a domain OwnerLedgerEntry to a model OwnerLedgerEntry
func ToModelOwnerLedgerEntry(d domain.OwnerLedgerEntry) models.OwnerLedgerEntry {
	return models.OwnerLedgerEntry{
		EntryID:         d.EntryID,
		OwnerID:         d.OwnerID,
		TransactionID:   d.TransactionID,
		CounterpartyID:  d.CounterpartyID,
		VoucherNo:       NullString(d.VoucherNo),
		VoucherDate:     NullTime(d.VoucherDate),
		Category:        string(d.Category),
		Debit:           d.Debit,
		Credit:          d.Credit,
		RunningBalance:  d.RunningBalance,
		UnitID:          NullString(d.UnitID),
		Particulars:     d.Particulars,
		TransferGroupID: d.TransferGroupID,
		CreatedAt:       d.CreatedAt.UTC(),
	}
}

// ToDomainOwnerLedgerEntry converts a model OwnerLedgerEntry to a domain OwnerLedgerEntry
func ToDomainOwnerLedgerEntry(m models.OwnerLedgerEntry) domain.OwnerLedgerEntry {
	return domain.OwnerLedgerEntry{
		EntryID:          m.EntryID,
		OwnerID:          m.OwnerID,
		TransactionID:    m.TransactionID,
		CounterpartyID:   m.CounterpartyID,
		VoucherNo:        m.VoucherNo.String,
		VoucherDate:      TimePtr(m.VoucherDate),
		Category:         domain.Category(m.Category),
		Debit:            m.Debit,
		Credit:           m.Credit,
		RunningBalance:   m.RunningBalance,
		UnitID:           m.UnitID.String,
		Particulars:      m.Particulars,
		TransferGroupID:  m.TransferGroupID,
		CreatedAt:        m.CreatedAt.UTC(),
		CounterpartyType: domain.OwnerType(m.CounterpartyType.String),
	}
}

// ToDomainGeneralLedgerEntry converts a model GeneralLedgerEntry to a domain GeneralLedgerEntry
func ToDomainGeneralLedgerEntry(m models.GeneralLedgerEntry) domain.GeneralLedgerEntry {
	return domain.GeneralLedgerEntry{
		EntryID:       m.EntryID,
		TransactionID: m.TransactionID,
		AccountID:     m.AccountID,
		Debit:         m.Debit,
		Credit:        m.Credit,
		Description:   m.Description,
		CreatedAt:     m.CreatedAt.UTC(),
	}
}
