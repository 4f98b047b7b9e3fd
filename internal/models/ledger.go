package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// OwnerLedgerEntry is a row of owner_ledger_entries. Rows are append-only.
type OwnerLedgerEntry struct {
	EntryID         int64           `db:"entry_id"`
	OwnerID         string          `db:"owner_id"`
	TransactionID   int64           `db:"transaction_id"`
	CounterpartyID  string          `db:"counterparty_id"`
	VoucherNo       sql.NullString  `db:"voucher_no"`
	VoucherDate     sql.NullTime    `db:"voucher_date"`
	Category        string          `db:"category"`
	Debit           decimal.Decimal `db:"debit"`
	Credit          decimal.Decimal `db:"credit"`
	RunningBalance  decimal.Decimal `db:"running_balance"`
	UnitID          sql.NullString  `db:"unit_id"`
	Particulars     string          `db:"particulars"`
	TransferGroupID string          `db:"transfer_group_id"`
	CreatedAt       time.Time       `db:"created_at"`

	// joined from owners on counterparty_id; not a column of the table
	CounterpartyType sql.NullString `db:"counterparty_type"`
}

// GeneralLedgerEntry is a row of general_ledger_entries.
type GeneralLedgerEntry struct {
	EntryID       int64           `db:"entry_id"`
	TransactionID int64           `db:"transaction_id"`
	AccountID     string          `db:"account_id"`
	Debit         decimal.Decimal `db:"debit"`
	Credit        decimal.Decimal `db:"credit"`
	Description   string          `db:"description"`
	CreatedAt     time.Time       `db:"created_at"`
}
