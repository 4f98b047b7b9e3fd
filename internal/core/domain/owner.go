package domain

// OwnerType classifies a ledger participant.
type OwnerType string

const (
	OwnerMain     OwnerType = "MAIN"
	OwnerCompany  OwnerType = "COMPANY"
	OwnerEmployee OwnerType = "EMPLOYEE"
	OwnerClient   OwnerType = "CLIENT"
	OwnerUnit     OwnerType = "UNIT"
	OwnerProject  OwnerType = "PROJECT"
	OwnerSystem   OwnerType = "SYSTEM"
)

// Valid reports whether t is a known owner type.
func (t OwnerType) Valid() bool {
	switch t {
	case OwnerMain, OwnerCompany, OwnerEmployee, OwnerClient, OwnerUnit, OwnerProject, OwnerSystem:
		return true
	}
	return false
}

// IsAssetLike reports whether the owner behaves as an asset account (debit increases).
// MAIN and SYSTEM owners are asset-like; everyone else is a liability/wallet account.
func (t OwnerType) IsAssetLike() bool {
	return t == OwnerMain || t == OwnerSystem
}

// Status is the lifecycle flag shared by owners and transactions.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Owner is a participant in the trust ledger. Owners are never hard-deleted.
type Owner struct {
	OwnerID     string    `json:"ownerID"`
	Code        string    `json:"code"` // unique, normalized upper-case
	OwnerType   OwnerType `json:"ownerType"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Status      Status    `json:"status"`
	IsSystem    bool      `json:"isSystem"`
	AccountID   string    `json:"accountID"` // linked chart-of-accounts node, may be empty
	AuditFields
}

// IsActive reports whether the owner may take part in new transactions.
func (o Owner) IsActive() bool {
	return o.Status == StatusActive
}

// Unit is a sub-division (property unit, project slot) belonging to exactly one owner.
type Unit struct {
	UnitID  string `json:"unitID"`
	OwnerID string `json:"ownerID"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	AuditFields
}
