package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	EntryID      string          `db:"entry_id"`
	CompanyID    string          `db:"company_id"`
	EntryNumber  string          `db:"entry_number"`
	EntryDate    time.Time       `db:"entry_date"`
	Description  string          `db:"description"`
	Reference    sql.NullString  `db:"reference"`
	Status       string          `db:"status"`
	ApprovedBy   sql.NullString  `db:"approved_by"`
	ApprovedAt   sql.NullTime    `db:"approved_at"`
	TotalDebit   decimal.Decimal `db:"total_debit"`
	TotalCredit  decimal.Decimal `db:"total_credit"`
	ReversalOfID sql.NullString  `db:"reversal_of_id"`
	ReversedByID sql.NullString  `db:"reversed_by_id"`
	AuditFields
}

// JournalEntryDetail is a row of the journal_entry_details table.
type JournalEntryDetail struct {
	DetailID     string          `db:"detail_id"`
	EntryID      string          `db:"entry_id"`
	LineNo       int             `db:"line_no"`
	AccountID    string          `db:"account_id"`
	CostCenterID sql.NullString  `db:"cost_center_id"`
	Description  sql.NullString  `db:"description"`
	Debit        decimal.Decimal `db:"debit"`
	Credit       decimal.Decimal `db:"credit"`
}
