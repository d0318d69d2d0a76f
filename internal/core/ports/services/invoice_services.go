package services

import (
	"context"
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
)

// InvoiceSvcFacade manages sales and purchase invoices and their fiscal books.
type InvoiceSvcFacade interface {
	// CreateInvoice prices the items, numbers the invoice in its FV or FC series and
	// stores it as PENDING.
	CreateInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error)

	GetInvoice(ctx context.Context, companyID, invoiceID, userID string) (*domain.Invoice, error)

	ListInvoices(ctx context.Context, companyID, userID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)

	// UpdateInvoice changes the status or retentions of a PENDING invoice.
	UpdateInvoice(ctx context.Context, companyID, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error)

	// FiscalBook lists the invoices of one type issued between from and to with their totals.
	// Cancelled invoices are listed but left out of the totals.
	FiscalBook(ctx context.Context, companyID string, bookType domain.InvoiceType, from, to time.Time, userID string) (*domain.FiscalBook, error)
}
