package domain

// AccountType defines the fundamental accounting type of a chart-of-accounts node.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// ChartOfAccount is a node of the hierarchical chart of accounts used by the general ledger.
type ChartOfAccount struct {
	AccountID            string      `json:"accountID"`
	Code                 string      `json:"code"` // unique
	Name                 string      `json:"name"`
	AccountType          AccountType `json:"accountType"`
	ParentAccountID      string      `json:"parentAccountID"`      // empty for roots
	RelatedBankAccountID string      `json:"relatedBankAccountID"` // ASSET only
	IsActive             bool        `json:"isActive"`
	AuditFields
}

// CanLinkBankAccount reports whether the node may reference a bank account.
func (a ChartOfAccount) CanLinkBankAccount() bool {
	return a.AccountType == Asset
}
