package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of transactions, one per business event.
type Transaction struct {
	TransactionID   int64           `db:"transaction_id"`
	VoucherNo       sql.NullString  `db:"voucher_no"` // unique when present
	VoucherDate     sql.NullTime    `db:"voucher_date"`
	Category        string          `db:"category"`
	Method          string          `db:"method"`
	TransType       string          `db:"trans_type"`
	FromOwnerID     string          `db:"from_owner_id"`
	ToOwnerID       string          `db:"to_owner_id"`
	UnitID          sql.NullString  `db:"unit_id"`
	Amount          decimal.Decimal `db:"amount"`
	FundReference   string          `db:"fund_reference"`
	Particulars     string          `db:"particulars"`
	TransferGroupID string          `db:"transfer_group_id"`
	PersonInCharge  string          `db:"person_in_charge"`
	Status          string          `db:"status"`
	IsPosted        bool            `db:"is_posted"`
	PostedAt        sql.NullTime    `db:"posted_at"`
	AuditFields
}

// TransactionInstrument is a row of transaction_instruments.
type TransactionInstrument struct {
	InstrumentID   int64     `db:"instrument_id"`
	TransactionID  int64     `db:"transaction_id"`
	InstrumentType string    `db:"instrument_type"`
	InstrumentNo   string    `db:"instrument_no"`
	CreatedAt      time.Time `db:"created_at"`
}

// TransactionAttachment is a row of transaction_attachments. Content lives in the blob store under StorageKey.
type TransactionAttachment struct {
	AttachmentID   int64     `db:"attachment_id"`
	TransactionID  int64     `db:"transaction_id"`
	AttachmentType string    `db:"attachment_type"`
	FileName       string    `db:"file_name"`
	StorageKey     string    `db:"storage_key"`
	MimeType       string    `db:"mime_type"`
	SizeBytes      int64     `db:"size_bytes"`
	UploadedAt     time.Time `db:"uploaded_at"`
}
