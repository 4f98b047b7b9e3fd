package dto

import (
	"strconv"
	"time"

	"github.com/SscSPs/trust_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerQueryParams defines query parameters for statements. Dates are YYYY-MM-DD and inclusive.
type LedgerQueryParams struct {
	Sort     domain.SortOrder `form:"sort" binding:"omitempty,oneof=asc desc"`
	FromDate string           `form:"fromDate"`
	ToDate   string           `form:"toDate"`
}

// OwnerStatementLineResponse is one line of an owner statement.
type OwnerStatementLineResponse struct {
	OwnerLedgerEntryResponse
	Deposit     decimal.Decimal      `json:"deposit"`
	Withdrawal  decimal.Decimal      `json:"withdrawal"`
	Instruments []InstrumentResponse `json:"instruments"`
	Attachments []AttachmentResponse `json:"attachments"`
}

// OwnerStatementResponse defines the data returned for an owner ledger.
type OwnerStatementResponse struct {
	Owner           OwnerResponse                `json:"owner"`
	Sort            domain.SortOrder             `json:"sort"`
	OpeningBalance  decimal.Decimal              `json:"openingBalance"`
	ClosingBalance  decimal.Decimal              `json:"closingBalance"`
	TotalDeposit    decimal.Decimal              `json:"totalDeposit"`
	TotalWithdrawal decimal.Decimal              `json:"totalWithdrawal"`
	Lines           []OwnerStatementLineResponse `json:"lines"`
}

// AccountStatementLineResponse is one line of an account ledger.
type AccountStatementLineResponse struct {
	EntryID       int64                `json:"entryID"`
	TransactionID int64                `json:"transactionID"`
	VoucherNo     string               `json:"voucherNo"`
	VoucherDate   *time.Time           `json:"voucherDate"`
	Particulars   string               `json:"particulars"`
	Description   string               `json:"description"`
	Debit         decimal.Decimal      `json:"debit"`
	Credit        decimal.Decimal      `json:"credit"`
	RunningTotal  decimal.Decimal      `json:"runningTotal"`
	Instruments   []InstrumentResponse `json:"instruments"`
	Attachments   []AttachmentResponse `json:"attachments"`
}

// AccountStatementResponse defines the data returned for an account ledger.
type AccountStatementResponse struct {
	Account        AccountResponse                `json:"account"`
	OpeningBalance decimal.Decimal                `json:"openingBalance"`
	ClosingBalance decimal.Decimal                `json:"closingBalance"`
	TotalDebit     decimal.Decimal                `json:"totalDebit"`
	TotalCredit    decimal.Decimal                `json:"totalCredit"`
	Lines          []AccountStatementLineResponse `json:"lines"`
}

// ToOwnerStatementResponse converts a domain.OwnerStatement.
func ToOwnerStatementResponse(s *domain.OwnerStatement) OwnerStatementResponse {
	lines := make([]OwnerStatementLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = OwnerStatementLineResponse{
			OwnerLedgerEntryResponse: ToOwnerLedgerEntryResponse(l.Entry),
			Deposit:                  l.Deposit,
			Withdrawal:               l.Withdrawal,
			Instruments:              ToInstrumentResponses(l.Instruments),
			Attachments:              ToAttachmentResponses(l.Attachments),
		}
	}
	return OwnerStatementResponse{
		Owner:           ToOwnerResponse(&s.Owner),
		Sort:            s.Sort,
		OpeningBalance:  s.OpeningBalance,
		ClosingBalance:  s.ClosingBalance,
		TotalDeposit:    s.TotalDeposit,
		TotalWithdrawal: s.TotalWithdraw,
		Lines:           lines,
	}
}

// ToAccountStatementResponse converts a domain.AccountStatement.
func ToAccountStatementResponse(s *domain.AccountStatement) AccountStatementResponse {
	lines := make([]AccountStatementLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = AccountStatementLineResponse{
			EntryID:       l.Entry.EntryID,
			TransactionID: l.Entry.TransactionID,
			VoucherNo:     l.VoucherNo,
			VoucherDate:   l.VoucherDate,
			Particulars:   l.Particulars,
			Description:   l.Entry.Description,
			Debit:         l.Entry.Debit,
			Credit:        l.Entry.Credit,
			RunningTotal:  l.RunningTotal,
			Instruments:   ToInstrumentResponses(l.Instruments),
			Attachments:   ToAttachmentResponses(l.Attachments),
		}
	}
	return AccountStatementResponse{
		Account:        ToAccountResponse(&s.Account),
		OpeningBalance: s.OpeningBalance,
		ClosingBalance: s.ClosingBalance,
		TotalDebit:     s.TotalDebit,
		TotalCredit:    s.TotalCredit,
		Lines:          lines,
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
