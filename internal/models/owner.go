package models

import "database/sql"

// Owner is a row of owners.
type Owner struct {
	OwnerID     string         `db:"owner_id"`
	Code        string         `db:"code"`
	OwnerType   string         `db:"owner_type"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Email       string         `db:"email"`
	Phone       string         `db:"phone"`
	Address     string         `db:"address"`
	Status      string         `db:"status"`
	IsSystem    bool           `db:"is_system"`
	AccountID   sql.NullString `db:"account_id"`
	AuditFields
}

// Unit is a row of units.
type Unit struct {
	UnitID  string `db:"unit_id"`
	OwnerID string `db:"owner_id"`
	Code    string `db:"code"`
	Name    string `db:"name"`
	AuditFields
}
