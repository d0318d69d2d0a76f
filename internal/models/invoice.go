package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a row of the invoices table.
type Invoice struct {
	InvoiceID       string          `db:"invoice_id"`
	CompanyID       string          `db:"company_id"`
	InvoiceType     string          `db:"invoice_type"`
	InvoiceNumber   string          `db:"invoice_number"`
	ControlNumber   sql.NullString  `db:"control_number"`
	CounterpartRIF  sql.NullString  `db:"counterpart_rif"`
	CounterpartName string          `db:"counterpart_name"`
	IssueDate       time.Time       `db:"issue_date"`
	DueDate         sql.NullTime    `db:"due_date"`
	Subtotal        decimal.Decimal `db:"subtotal"`
	TaxAmount       decimal.Decimal `db:"tax_amount"`
	Total           decimal.Decimal `db:"total"`
	RetentionIVA    decimal.Decimal `db:"retention_iva"`
	RetentionISLR   decimal.Decimal `db:"retention_islr"`
	Status          string          `db:"status"`
	AuditFields
}

// InvoiceItem is a row of the invoice_items table.
type InvoiceItem struct {
	ItemID      string          `db:"item_id"`
	InvoiceID   string          `db:"invoice_id"`
	LineNo      int             `db:"line_no"`
	Description string          `db:"description"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	TaxRate     decimal.Decimal `db:"tax_rate"`
	Subtotal    decimal.Decimal `db:"subtotal"`
	TaxAmount   decimal.Decimal `db:"tax_amount"`
}
