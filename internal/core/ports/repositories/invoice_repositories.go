package repositories

import (
	"context"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
)

// InvoiceReader defines read operations for invoices
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its items in line order.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices returns one page of invoice headers, newest first, with the number
	// of invoices matching the filter. A limit of zero returns every match.
	ListInvoices(ctx context.Context, companyID string, filter domain.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error)

	// CountInvoices counts all and pending invoices of a company.
	CountInvoices(ctx context.Context, companyID string) (domain.InvoiceStats, error)
}

// InvoiceTxRepository holds the invoice operations that run inside one transaction.
type InvoiceTxRepository interface {
	// NextInvoiceNumber advances and returns the counter of (company, series).
	NextInvoiceNumber(ctx context.Context, companyID string, prefix domain.EntryPrefix) (int64, error)

	// FindInvoiceForUpdate loads an invoice header and locks it.
	FindInvoiceForUpdate(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// SaveInvoice inserts an invoice and its items.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateInvoice writes the status, retentions and audit fields of an invoice.
	UpdateInvoice(ctx context.Context, invoice domain.Invoice) error

	// SaveAuditLog appends an audit record.
	SaveAuditLog(ctx context.Context, log domain.AuditLog) error
}

// InvoiceRepositoryWithTx combines invoice reads with transactional writes.
type InvoiceRepositoryWithTx interface {
	InvoiceReader
	TxScope[InvoiceTxRepository]
}
