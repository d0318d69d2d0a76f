package models

import "database/sql"

// Account is a row of the accounts table.
type Account struct {
	AccountID       string         `db:"account_id"`
	CompanyID       string         `db:"company_id"`
	Code            string         `db:"code"`
	Name            string         `db:"name"`
	AccountType     string         `db:"account_type"`
	Nature          string         `db:"nature"`
	Level           int            `db:"level"`
	ParentAccountID sql.NullString `db:"parent_account_id"`
	AcceptsEntries  bool           `db:"accepts_entries"`
	IsActive        bool           `db:"is_active"`
	AuditFields
}
