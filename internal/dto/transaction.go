package dto

import (
	"time"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InstrumentInput is one cash/cheque/slip reference in a posting request.
type InstrumentInput struct {
	InstrumentType domain.InstrumentType `json:"instrumentType" binding:"required"`
	InstrumentNo   string                `json:"instrumentNo" binding:"required,max=100"`
}

// AttachmentUpload carries a file to store alongside the transaction.
// Over JSON, Content is base64; multipart requests fill it from the uploaded part.
type AttachmentUpload struct {
	Kind     domain.AttachmentKind `json:"kind" binding:"omitempty,oneof=VOUCHER SUPPORTING"`
	FileName string                `json:"fileName" binding:"required"`
	MimeType string                `json:"mimeType" binding:"required"`
	Content  []byte                `json:"content" binding:"required"`
}

// PostTransactionRequest defines the data needed to record and post a transaction.
type PostTransactionRequest struct {
	FromOwnerID     string                `json:"fromOwnerID" binding:"required"`
	ToOwnerID       string                `json:"toOwnerID" binding:"required"`
	Amount          *decimal.Decimal      `json:"amount" binding:"required"`
	Category        domain.Category       `json:"category" binding:"required,oneof=DEPOSIT WITHDRAWAL OPENING ADJUSTMENT REVERSAL"`
	Method          domain.Method         `json:"method" binding:"omitempty,oneof=DEPOSIT WITHDRAWAL"` // ADJUSTMENT only
	TransType       domain.InstrumentType `json:"transType" binding:"required"`
	Particulars     string                `json:"particulars" binding:"required"`
	VoucherNo       string                `json:"voucherNo" binding:"max=100"`
	VoucherDate     string                `json:"voucherDate"` // YYYY-MM-DD or RFC3339
	UnitID          string                `json:"unitID"`
	FundReference   string                `json:"fundReference" binding:"max=255"`
	TransferGroupID string                `json:"transferGroupID" binding:"max=100"`
	PersonInCharge  string                `json:"personInCharge" binding:"max=255"`
	Instruments     []InstrumentInput     `json:"instruments" binding:"dive"`
	Attachments     []AttachmentUpload    `json:"attachments" binding:"dive"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	OwnerID   string  `form:"ownerID"`
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=200"`
	NextToken *string `form:"nextToken"`
}

// InstrumentResponse defines the data returned for an instrument.
type InstrumentResponse struct {
	InstrumentID   int64                 `json:"instrumentID"`
	InstrumentType domain.InstrumentType `json:"instrumentType"`
	InstrumentNo   string                `json:"instrumentNo"`
}

// AttachmentResponse references a stored attachment; the bytes come from the download endpoint.
type AttachmentResponse struct {
	AttachmentID   int64                 `json:"attachmentID"`
	AttachmentType domain.AttachmentKind `json:"attachmentType"`
	FileName       string                `json:"fileName"`
	FileType       string                `json:"fileType"`
	SizeBytes      int64                 `json:"sizeBytes"`
	URL            string                `json:"url"`
}

// OwnerLedgerEntryResponse defines the data returned for an owner ledger entry.
type OwnerLedgerEntryResponse struct {
	EntryID        int64           `json:"entryID"`
	OwnerID        string          `json:"ownerID"`
	TransactionID  int64           `json:"transactionID"`
	VoucherNo      string          `json:"voucherNo"`
	VoucherDate    *time.Time      `json:"voucherDate"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
	Particulars    string          `json:"particulars"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// GLEntryResponse defines the data returned for a general ledger entry.
type GLEntryResponse struct {
	EntryID     int64           `json:"entryID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// TransactionResponse defines the data returned for a transaction aggregate.
type TransactionResponse struct {
	TransactionID   int64                      `json:"transactionID"`
	VoucherNo       string                     `json:"voucherNo"`
	VoucherDate     *time.Time                 `json:"voucherDate"`
	Category        domain.Category            `json:"category"`
	Method          domain.Method              `json:"method"`
	TransType       domain.InstrumentType      `json:"transType"`
	FromOwnerID     string                     `json:"fromOwnerID"`
	ToOwnerID       string                     `json:"toOwnerID"`
	UnitID          string                     `json:"unitID"`
	Amount          decimal.Decimal            `json:"amount"`
	FundReference   string                     `json:"fundReference"`
	Particulars     string                     `json:"particulars"`
	TransferGroupID string                     `json:"transferGroupID"`
	PersonInCharge  string                     `json:"personInCharge"`
	Status          domain.Status              `json:"status"`
	IsPosted        bool                       `json:"isPosted"`
	PostedAt        *time.Time                 `json:"postedAt"`
	CreatedAt       time.Time                  `json:"createdAt"`
	CreatedBy       string                     `json:"createdBy"`
	Instruments     []InstrumentResponse       `json:"instruments"`
	Attachments     []AttachmentResponse       `json:"attachments"`
	LedgerEntries   []OwnerLedgerEntryResponse `json:"ledgerEntries"`
	GLEntries       []GLEntryResponse          `json:"glEntries"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// AttachmentURL is the download path for an attachment, relative to the API base path.
func AttachmentURL(transactionID, attachmentID int64) string {
	return "/transactions/" + itoa(transactionID) + "/attachments/" + itoa(attachmentID)
}

// ToInstrumentResponses converts instruments.
func ToInstrumentResponses(in []domain.TransactionInstrument) []InstrumentResponse {
	out := make([]InstrumentResponse, len(in))
	for i, ins := range in {
		out[i] = InstrumentResponse{InstrumentID: ins.InstrumentID, InstrumentType: ins.InstrumentType, InstrumentNo: ins.InstrumentNo}
	}
	return out
}

// ToAttachmentResponses converts attachments.
func ToAttachmentResponses(in []domain.TransactionAttachment) []AttachmentResponse {
	out := make([]AttachmentResponse, len(in))
	for i, a := range in {
		out[i] = AttachmentResponse{
			AttachmentID:   a.AttachmentID,
			AttachmentType: a.AttachmentType,
			FileName:       a.FileName,
			FileType:       a.MimeType,
			SizeBytes:      a.SizeBytes,
			URL:            AttachmentURL(a.TransactionID, a.AttachmentID),
		}
	}
	return out
}

// ToOwnerLedgerEntryResponse converts an owner ledger entry.
func ToOwnerLedgerEntryResponse(e domain.OwnerLedgerEntry) OwnerLedgerEntryResponse {
	return OwnerLedgerEntryResponse{
		EntryID:        e.EntryID,
		OwnerID:        e.OwnerID,
		TransactionID:  e.TransactionID,
		VoucherNo:      e.VoucherNo,
		VoucherDate:    e.VoucherDate,
		Debit:          e.Debit,
		Credit:         e.Credit,
		RunningBalance: e.RunningBalance,
		Particulars:    e.Particulars,
		CreatedAt:      e.CreatedAt,
	}
}

// ToTransactionResponse converts a domain.Transaction aggregate to TransactionResponse DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	entries := make([]OwnerLedgerEntryResponse, len(t.LedgerEntries))
	for i, e := range t.LedgerEntries {
		entries[i] = ToOwnerLedgerEntryResponse(e)
	}
	gl := make([]GLEntryResponse, len(t.GLEntries))
	for i, e := range t.GLEntries {
		gl[i] = GLEntryResponse{EntryID: e.EntryID, AccountID: e.AccountID, Debit: e.Debit, Credit: e.Credit, Description: e.Description}
	}
	return TransactionResponse{
		TransactionID:   t.TransactionID,
		VoucherNo:       t.VoucherNo,
		VoucherDate:     t.VoucherDate,
		Category:        t.Category,
		Method:          t.Method,
		TransType:       t.TransType,
		FromOwnerID:     t.FromOwnerID,
		ToOwnerID:       t.ToOwnerID,
		UnitID:          t.UnitID,
		Amount:          t.Amount,
		FundReference:   t.FundReference,
		Particulars:     t.Particulars,
		TransferGroupID: t.TransferGroupID,
		PersonInCharge:  t.PersonInCharge,
		Status:          t.Status,
		IsPosted:        t.IsPosted,
		PostedAt:        t.PostedAt,
		CreatedAt:       t.CreatedAt,
		CreatedBy:       t.CreatedBy,
		Instruments:     ToInstrumentResponses(t.Instruments),
		Attachments:     ToAttachmentResponses(t.Attachments),
		LedgerEntries:   entries,
		GLEntries:       gl,
	}
}

// ToTransactionResponses converts a slice of transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}
