package mapping

import (
	"github.com/SscSPs/trust_ledger/internal/core/domain"
	"github.com/SscSPs/trust_ledger/internal/models"
)

// ToModelTransaction converts a domain Transaction header to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		VoucherNo:       NullString(d.VoucherNo),
		VoucherDate:     NullTime(d.VoucherDate),
		Category:        string(d.Category),
		Method:          string(d.Method),
		TransType:       string(d.TransType),
		FromOwnerID:     d.FromOwnerID,
		ToOwnerID:       d.ToOwnerID,
		UnitID:          NullString(d.UnitID),
		Amount:          d.Amount,
		FundReference:   d.FundReference,
		Particulars:     d.Particulars,
		TransferGroupID: d.TransferGroupID,
		PersonInCharge:  d.PersonInCharge,
		Status:          string(d.Status),
		IsPosted:        d.IsPosted,
		PostedAt:        NullTime(d.PostedAt),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction header
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		VoucherNo:       m.VoucherNo.String,
		VoucherDate:     TimePtr(m.VoucherDate),
		Category:        domain.Category(m.Category),
		Method:          domain.Method(m.Method),
		TransType:       domain.InstrumentType(m.TransType),
		FromOwnerID:     m.FromOwnerID,
		ToOwnerID:       m.ToOwnerID,
		UnitID:          m.UnitID.String,
		Amount:          m.Amount,
		FundReference:   m.FundReference,
		Particulars:     m.Particulars,
		TransferGroupID: m.TransferGroupID,
		PersonInCharge:  m.PersonInCharge,
		Status:          domain.Status(m.Status),
		IsPosted:        m.IsPosted,
		PostedAt:        TimePtr(m.PostedAt),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInstrument converts a model TransactionInstrument to a domain TransactionInstrument
func ToDomainInstrument(m models.TransactionInstrument) domain.TransactionInstrument {
	return domain.TransactionInstrument{
		InstrumentID:   m.InstrumentID,
		TransactionID:  m.TransactionID,
		InstrumentType: domain.InstrumentType(m.InstrumentType),
		InstrumentNo:   m.InstrumentNo,
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

// ToDomainAttachment converts a model TransactionAttachment to a domain TransactionAttachment
func ToDomainAttachment(m models.TransactionAttachment) domain.TransactionAttachment {
	return domain.TransactionAttachment{
		AttachmentID:   m.AttachmentID,
		TransactionID:  m.TransactionID,
		AttachmentType: domain.AttachmentKind(m.AttachmentType),
		FileName:       m.FileName,
		StorageKey:     m.StorageKey,
		MimeType:       m.MimeType,
		SizeBytes:      m.SizeBytes,
		UploadedAt:     m.UploadedAt.UTC(),
	}
}
