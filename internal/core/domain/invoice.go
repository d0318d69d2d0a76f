package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceType separates issued (sales) from received (purchase) invoices.
type InvoiceType string

const (
	InvoiceSale     InvoiceType = "SALE"
	InvoicePurchase InvoiceType = "PURCHASE"
)

// IsValid reports whether t is a known invoice type.
func (t InvoiceType) IsValid() bool {
	return t == InvoiceSale || t == InvoicePurchase
}

// Prefix returns the numbering series of the type: FV for sales, FC for purchases.
func (t InvoiceType) Prefix() EntryPrefix {
	if t == InvoicePurchase {
		return PrefixPurchaseInvoice
	}
	return PrefixSaleInvoice
}

const (
	PrefixSaleInvoice     EntryPrefix = "FV"
	PrefixPurchaseInvoice EntryPrefix = "FC"
)

const invoiceNumberDigits = 8

// FormatInvoiceNumber renders a series value as e.g. FV-00000042.
func FormatInvoiceNumber(t InvoiceType, n int64) string {
	return fmt.Sprintf("%s-%0*d", t.Prefix(), invoiceNumberDigits, n)
}

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "PENDING"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// IsValid reports whether s is a known status.
func (s InvoiceStatus) IsValid() bool {
	return s == InvoicePending || s == InvoicePaid || s == InvoiceCancelled
}

// CanBecome reports whether an invoice in status s may move to next.
// Only pending invoices change state; paid and cancelled are final.
func (s InvoiceStatus) CanBecome(next InvoiceStatus) bool {
	return s == InvoicePending && (next == InvoicePaid || next == InvoiceCancelled)
}

// DefaultIVARate is the general VAT rate in percent.
var DefaultIVARate = decimal.NewFromInt(16)

// InvoiceItem is one priced line of an invoice.
type InvoiceItem struct {
	ItemID      string          `json:"itemID"`
	InvoiceID   string          `json:"invoiceID"`
	LineNo      int             `json:"lineNo"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
}

// Invoice is a sales or purchase document kept for the fiscal books.
type Invoice struct {
	InvoiceID       string          `json:"invoiceID"`
	CompanyID       string          `json:"companyID"`
	InvoiceType     InvoiceType     `json:"invoiceType"`
	InvoiceNumber   string          `json:"invoiceNumber"`
	ControlNumber   *string         `json:"controlNumber,omitempty"`
	CounterpartRIF  *string         `json:"counterpartRif,omitempty"`
	CounterpartName string          `json:"counterpartName"`
	IssueDate       time.Time       `json:"issueDate"`
	DueDate         *time.Time      `json:"dueDate,omitempty"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	Total           decimal.Decimal `json:"total"`
	RetentionIVA    decimal.Decimal `json:"retentionIva"`
	RetentionISLR   decimal.Decimal `json:"retentionIslr"`
	Status          InvoiceStatus   `json:"status"`
	Items           []InvoiceItem   `json:"items,omitempty"`
	AuditFields
}

// Retentions is the sum of the withheld IVA and ISLR.
func (i Invoice) Retentions() decimal.Decimal {
	return i.RetentionIVA.Add(i.RetentionISLR)
}

// InvoiceFilter narrows an invoice listing. IssueDate bounds are inclusive.
type InvoiceFilter struct {
	Type     *InvoiceType
	Status   *InvoiceStatus
	FromDate *time.Time
	ToDate   *time.Time
}

// Matches reports whether inv passes the filter.
func (f InvoiceFilter) Matches(inv Invoice) bool {
	if f.Type != nil && inv.InvoiceType != *f.Type {
		return false
	}
	if f.Status != nil && inv.Status != *f.Status {
		return false
	}
	if f.FromDate != nil && inv.IssueDate.Before(*f.FromDate) {
		return false
	}
	if f.ToDate != nil && inv.IssueDate.After(*f.ToDate) {
		return false
	}
	return true
}

// InvoiceStats counts the invoices of a company.
type InvoiceStats struct {
	Total   int
	Pending int
}

// FiscalBook is the sales or purchases book of a date range.
type FiscalBook struct {
	BookType        InvoiceType     `json:"bookType"`
	FromDate        time.Time       `json:"fromDate"`
	ToDate          time.Time       `json:"toDate"`
	Invoices        []Invoice       `json:"invoices"`
	TotalBase       decimal.Decimal `json:"totalBase"`
	TotalTax        decimal.Decimal `json:"totalTax"`
	Total           decimal.Decimal `json:"total"`
	TotalRetentions decimal.Decimal `json:"totalRetentions"`
	NetAmount       decimal.Decimal `json:"netAmount"`
	Count           int             `json:"count"`
}
