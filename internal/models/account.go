package models

import "database/sql"

// AccountType defines the fundamental accounting type of a chart-of-accounts node.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// ChartOfAccount is a row of chart_of_accounts.
type ChartOfAccount struct {
	AccountID            string         `db:"account_id"`
	Code                 string         `db:"code"`
	Name                 string         `db:"name"`
	AccountType          AccountType    `db:"account_type"`
	ParentAccountID      sql.NullString `db:"parent_account_id"`
	RelatedBankAccountID sql.NullString `db:"related_bank_account_id"`
	IsActive             bool           `db:"is_active"`
	AuditFields
}
