package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies the business event behind a transaction.
type Category string

const (
	CategoryDeposit    Category = "DEPOSIT"
	CategoryWithdrawal Category = "WITHDRAWAL"
	CategoryOpening    Category = "OPENING"
	CategoryAdjustment Category = "ADJUSTMENT"
	CategoryReversal   Category = "REVERSAL"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryDeposit, CategoryWithdrawal, CategoryOpening, CategoryAdjustment, CategoryReversal:
		return true
	}
	return false
}

// AllowsSystemOwner reports whether a SYSTEM owner may be a party to the category.
func (c Category) AllowsSystemOwner() bool {
	return c == CategoryOpening || c == CategoryAdjustment || c == CategoryReversal
}

// Method is the balance direction of a transaction: DEPOSIT increases both parties, WITHDRAWAL decreases them.
type Method string

const (
	MethodDeposit    Method = "DEPOSIT"
	MethodWithdrawal Method = "WITHDRAWAL"
)

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	return m == MethodDeposit || m == MethodWithdrawal
}

// ResolveMethod derives the balance direction for a category.
// ADJUSTMENT has no inherent direction and takes the explicit method; ok is false when none is usable.
func (c Category) ResolveMethod(explicit Method) (Method, bool) {
	switch c {
	case CategoryDeposit, CategoryOpening:
		return MethodDeposit, true
	case CategoryWithdrawal, CategoryReversal:
		return MethodWithdrawal, true
	case CategoryAdjustment:
		return explicit, explicit.Valid()
	}
	return "", false
}

// InstrumentType is the medium of a transaction.
type InstrumentType string

const (
	InstrumentCash        InstrumentType = "CASH"
	InstrumentCheque      InstrumentType = "CHEQUE"
	InstrumentDepositSlip InstrumentType = "DEPOSIT_SLIP"
	InstrumentInternal    InstrumentType = "INTERNAL"
)

// Valid reports whether t is a known instrument type.
func (t InstrumentType) Valid() bool {
	switch t {
	case InstrumentCash, InstrumentCheque, InstrumentDepositSlip, InstrumentInternal:
		return true
	}
	return false
}

// RequiresAttachment reports whether the instrument must be backed by a scanned document.
func (t InstrumentType) RequiresAttachment() bool {
	return t == InstrumentCheque || t == InstrumentDepositSlip
}

// AttachmentKind distinguishes the primary voucher scan from supporting documents.
type AttachmentKind string

const (
	AttachmentVoucher    AttachmentKind = "VOUCHER"
	AttachmentSupporting AttachmentKind = "SUPPORTING"
)

// Transaction is the business event recorded by the ledger.
type Transaction struct {
	TransactionID   int64           `json:"transactionID"`
	VoucherNo       string          `json:"voucherNo"` // normalized; empty when absent
	VoucherDate     *time.Time      `json:"voucherDate"`
	Category        Category        `json:"category"`
	Method          Method          `json:"method"`
	TransType       InstrumentType  `json:"transType"`
	FromOwnerID     string          `json:"fromOwnerID"`
	ToOwnerID       string          `json:"toOwnerID"`
	UnitID          string          `json:"unitID"`
	Amount          decimal.Decimal `json:"amount"`
	FundReference   string          `json:"fundReference"`
	Particulars     string          `json:"particulars"`
	TransferGroupID string          `json:"transferGroupID"`
	PersonInCharge  string          `json:"personInCharge"`
	Status          Status          `json:"status"`
	IsPosted        bool            `json:"isPosted"`
	PostedAt        *time.Time      `json:"postedAt"`
	AuditFields

	Instruments   []TransactionInstrument `json:"instruments"`
	Attachments   []TransactionAttachment `json:"attachments"`
	LedgerEntries []OwnerLedgerEntry      `json:"ledgerEntries"`
	GLEntries     []GeneralLedgerEntry    `json:"glEntries"`
}

// NormalizeVoucherNo trims and upper-cases a voucher number.
func NormalizeVoucherNo(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

// TransactionInstrument is a cash/cheque/slip reference attached to a transaction.
type TransactionInstrument struct {
	InstrumentID   int64          `json:"instrumentID"`
	TransactionID  int64          `json:"transactionID"`
	InstrumentType InstrumentType `json:"instrumentType"`
	InstrumentNo   string         `json:"instrumentNo"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// TransactionAttachment references a blob stored outside the database.
// StorageKey is always generated; FileName is the caller supplied name, kept for display only.
type TransactionAttachment struct {
	AttachmentID   int64          `json:"attachmentID"`
	TransactionID  int64          `json:"transactionID"`
	AttachmentType AttachmentKind `json:"attachmentType"`
	FileName       string         `json:"fileName"`
	StorageKey     string         `json:"-"`
	MimeType       string         `json:"mimeType"`
	SizeBytes      int64          `json:"sizeBytes"`
	UploadedAt     time.Time      `json:"uploadedAt"`
}
