package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OwnerLedgerEntry is one owner's side of a posted transaction. Entries are append-only.
type OwnerLedgerEntry struct {
	EntryID          int64           `json:"entryID"`
	OwnerID          string          `json:"ownerID"`
	TransactionID    int64           `json:"transactionID"`
	CounterpartyID   string          `json:"counterpartyID"`
	VoucherNo        string          `json:"voucherNo"`
	VoucherDate      *time.Time      `json:"voucherDate"`
	Category         Category        `json:"category"`
	Debit            decimal.Decimal `json:"debit"`
	Credit           decimal.Decimal `json:"credit"`
	RunningBalance   decimal.Decimal `json:"runningBalance"`
	UnitID           string          `json:"unitID"`
	Particulars      string          `json:"particulars"`
	TransferGroupID  string          `json:"transferGroupID"`
	CreatedAt        time.Time       `json:"createdAt"`
	CounterpartyType OwnerType       `json:"counterpartyType,omitempty"` // read side only
}

// Opening voucher prefixes recognised when reconstructing opening balances.
var openingVoucherPrefixes = []string{"OB-", "OPENING"}

// IsOpening reports whether the entry records an opening balance.
// Detection: OPENING category, an opening voucher prefix, "Opening Balance" particulars,
// or a SYSTEM counterparty with "Opening" wording.
func (e OwnerLedgerEntry) IsOpening() bool {
	if e.Category == CategoryOpening {
		return true
	}
	voucher := strings.ToUpper(e.VoucherNo)
	for _, p := range openingVoucherPrefixes {
		if strings.HasPrefix(voucher, p) {
			return true
		}
	}
	particulars := strings.ToLower(e.Particulars)
	if strings.Contains(particulars, "opening balance") {
		return true
	}
	return e.CounterpartyType == OwnerSystem && strings.Contains(particulars, "opening")
}

// GeneralLedgerEntry is one side of the chart-of-accounts double entry.
type GeneralLedgerEntry struct {
	EntryID       int64           `json:"entryID"`
	TransactionID int64           `json:"transactionID"`
	AccountID     string          `json:"accountID"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"createdAt"`
}
