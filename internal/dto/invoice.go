package dto

import (
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceItemRequest is one priced line of a new invoice. TaxRate is a percentage
// and defaults to the general IVA rate when omitted.
type InvoiceItemRequest struct {
	Description string           `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unitPrice"`
	TaxRate     *decimal.Decimal `json:"taxRate"`
}

// CreateInvoiceRequest carries a new sales or purchase invoice.
type CreateInvoiceRequest struct {
	InvoiceType     domain.InvoiceType   `json:"invoiceType" binding:"required,oneof=SALE PURCHASE"`
	CounterpartRIF  *string              `json:"counterpartRif" binding:"omitempty,rif"`
	CounterpartName string               `json:"counterpartName" binding:"required,max=200"`
	IssueDate       string               `json:"issueDate" binding:"required,datetime=2006-01-02"`
	DueDate         *string              `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	ControlNumber   *string              `json:"controlNumber" binding:"omitempty,max=50"`
	Items           []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateInvoiceRequest changes the status or the retentions of a pending invoice.
type UpdateInvoiceRequest struct {
	Status        *domain.InvoiceStatus `json:"status" binding:"omitempty,oneof=PENDING PAID CANCELLED"`
	RetentionIVA  *decimal.Decimal      `json:"retentionIva"`
	RetentionISLR *decimal.Decimal      `json:"retentionIslr"`
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	InvoiceType *domain.InvoiceType   `form:"invoiceType" binding:"omitempty,oneof=SALE PURCHASE"`
	Status      *domain.InvoiceStatus `form:"status" binding:"omitempty,oneof=PENDING PAID CANCELLED"`
	FromDate    *string               `form:"fromDate" binding:"omitempty,datetime=2006-01-02"`
	ToDate      *string               `form:"toDate" binding:"omitempty,datetime=2006-01-02"`
	Page        int                   `form:"page,default=1" binding:"min=1"`
	Limit       int                   `form:"limit,default=20" binding:"min=1,max=100"`
}

// InvoiceItemResponse defines the data returned for an invoice line.
type InvoiceItemResponse struct {
	LineNo      int             `json:"lineNo"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID       string                `json:"invoiceID"`
	InvoiceType     domain.InvoiceType    `json:"invoiceType"`
	InvoiceNumber   string                `json:"invoiceNumber"`
	ControlNumber   *string               `json:"controlNumber,omitempty"`
	CounterpartRIF  *string               `json:"counterpartRif,omitempty"`
	CounterpartName string                `json:"counterpartName"`
	IssueDate       string                `json:"issueDate"`
	DueDate         *string               `json:"dueDate,omitempty"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	TaxAmount       decimal.Decimal       `json:"taxAmount"`
	Total           decimal.Decimal       `json:"total"`
	RetentionIVA    decimal.Decimal       `json:"retentionIva"`
	RetentionISLR   decimal.Decimal       `json:"retentionIslr"`
	Status          domain.InvoiceStatus  `json:"status"`
	Items           []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	CreatedBy       string                `json:"createdBy"`
}

// ToInvoiceResponse converts a domain.Invoice to DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		InvoiceID:       inv.InvoiceID,
		InvoiceType:     inv.InvoiceType,
		InvoiceNumber:   inv.InvoiceNumber,
		ControlNumber:   inv.ControlNumber,
		CounterpartRIF:  inv.CounterpartRIF,
		CounterpartName: inv.CounterpartName,
		IssueDate:       inv.IssueDate.Format("2006-01-02"),
		Subtotal:        inv.Subtotal,
		TaxAmount:       inv.TaxAmount,
		Total:           inv.Total,
		RetentionIVA:    inv.RetentionIVA,
		RetentionISLR:   inv.RetentionISLR,
		Status:          inv.Status,
		CreatedAt:       inv.CreatedAt,
		CreatedBy:       inv.CreatedBy,
	}
	if inv.DueDate != nil {
		due := inv.DueDate.Format("2006-01-02")
		resp.DueDate = &due
	}
	for _, it := range inv.Items {
		resp.Items = append(resp.Items, InvoiceItemResponse{
			LineNo:      it.LineNo,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Subtotal:    it.Subtotal,
			TaxAmount:   it.TaxAmount,
		})
	}
	return resp
}

// ListInvoicesResponse is one page of invoices.
type ListInvoicesResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Total    int               `json:"total"`
	Pages    int               `json:"pages"`
}

// FiscalBookResponse is a sales or purchases book.
type FiscalBookResponse struct {
	BookType        domain.InvoiceType `json:"bookType"`
	FromDate        string             `json:"fromDate"`
	ToDate          string             `json:"toDate"`
	Invoices        []InvoiceResponse  `json:"invoices"`
	TotalBase       decimal.Decimal    `json:"totalBase"`
	TotalTax        decimal.Decimal    `json:"totalTax"`
	Total           decimal.Decimal    `json:"total"`
	TotalRetentions decimal.Decimal    `json:"totalRetentions"`
	NetAmount       decimal.Decimal    `json:"netAmount"`
	Count           int                `json:"count"`
}

// ToFiscalBookResponse converts a domain.FiscalBook to DTO.
func ToFiscalBookResponse(b *domain.FiscalBook) FiscalBookResponse {
	invoices := make([]InvoiceResponse, len(b.Invoices))
	for i := range b.Invoices {
		invoices[i] = ToInvoiceResponse(&b.Invoices[i])
	}
	return FiscalBookResponse{
		BookType:        b.BookType,
		FromDate:        b.FromDate.Format("2006-01-02"),
		ToDate:          b.ToDate.Format("2006-01-02"),
		Invoices:        invoices,
		TotalBase:       b.TotalBase,
		TotalTax:        b.TotalTax,
		Total:           b.Total,
		TotalRetentions: b.TotalRetentions,
		NetAmount:       b.NetAmount,
		Count:           b.Count,
	}
}
