package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SortOrder controls display ordering of statement lines.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// DateRange filters statement lines. From is inclusive, To is exclusive; nil means unbounded.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && !t.Before(*r.To) {
		return false
	}
	return true
}

// OwnerStatementLine is one entry of an owner statement with polarity-derived columns.
type OwnerStatementLine struct {
	Entry       OwnerLedgerEntry        `json:"entry"`
	Deposit     decimal.Decimal         `json:"deposit"`
	Withdrawal  decimal.Decimal         `json:"withdrawal"`
	Instruments []TransactionInstrument `json:"instruments"`
	Attachments []TransactionAttachment `json:"attachments"`
}

// OwnerStatement is an owner's chronological statement.
type OwnerStatement struct {
	Owner          Owner                `json:"owner"`
	Range          DateRange            `json:"-"`
	Sort           SortOrder            `json:"sort"`
	OpeningBalance decimal.Decimal      `json:"openingBalance"`
	OpeningEntryID int64                `json:"openingEntryID,omitempty"` // set when the opening came from an opening entry
	ClosingBalance decimal.Decimal      `json:"closingBalance"`
	TotalDeposit   decimal.Decimal      `json:"totalDeposit"`
	TotalWithdraw  decimal.Decimal      `json:"totalWithdrawal"`
	Lines          []OwnerStatementLine `json:"lines"`
}

// AccountLedgerRow is a general-ledger entry joined with its transaction header.
type AccountLedgerRow struct {
	Entry       GeneralLedgerEntry `json:"entry"`
	VoucherNo   string             `json:"voucherNo"`
	VoucherDate *time.Time         `json:"voucherDate"`
	Particulars string             `json:"particulars"`
	FromOwnerID string             `json:"fromOwnerID"`
	ToOwnerID   string             `json:"toOwnerID"`
}

// AccountStatementLine is an account ledger row with its running total.
type AccountStatementLine struct {
	AccountLedgerRow
	RunningTotal decimal.Decimal         `json:"runningTotal"`
	Instruments  []TransactionInstrument `json:"instruments"`
	Attachments  []TransactionAttachment `json:"attachments"`
}

// AccountStatement is the chart-of-accounts level ledger.
type AccountStatement struct {
	Account        ChartOfAccount         `json:"account"`
	OpeningBalance decimal.Decimal        `json:"openingBalance"`
	ClosingBalance decimal.Decimal        `json:"closingBalance"`
	TotalDebit     decimal.Decimal        `json:"totalDebit"`
	TotalCredit    decimal.Decimal        `json:"totalCredit"`
	Lines          []AccountStatementLine `json:"lines"`
}
