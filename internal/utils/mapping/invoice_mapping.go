package mapping

import (
	"database/sql"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	"github.com/SscSPs/contabilidad_ve/internal/models"
)

// ToModelInvoice converts a domain Invoice header to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	m := models.Invoice{
		InvoiceID:       d.InvoiceID,
		CompanyID:       d.CompanyID,
		InvoiceType:     string(d.InvoiceType),
		InvoiceNumber:   d.InvoiceNumber,
		ControlNumber:   NullString(d.ControlNumber),
		CounterpartRIF:  NullString(d.CounterpartRIF),
		CounterpartName: d.CounterpartName,
		IssueDate:       d.IssueDate,
		Subtotal:        d.Subtotal,
		TaxAmount:       d.TaxAmount,
		Total:           d.Total,
		RetentionIVA:    d.RetentionIVA,
		RetentionISLR:   d.RetentionISLR,
		Status:          string(d.Status),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
	if d.DueDate != nil {
		m.DueDate = sql.NullTime{Time: *d.DueDate, Valid: true}
	}
	return m
}

// ToDomainInvoice converts a model Invoice to a domain Invoice without items
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	d := domain.Invoice{
		InvoiceID:       m.InvoiceID,
		CompanyID:       m.CompanyID,
		InvoiceType:     domain.InvoiceType(m.InvoiceType),
		InvoiceNumber:   m.InvoiceNumber,
		ControlNumber:   StringPtr(m.ControlNumber),
		CounterpartRIF:  StringPtr(m.CounterpartRIF),
		CounterpartName: m.CounterpartName,
		IssueDate:       domain.DateOnly(m.IssueDate),
		Subtotal:        m.Subtotal,
		TaxAmount:       m.TaxAmount,
		Total:           m.Total,
		RetentionIVA:    m.RetentionIVA,
		RetentionISLR:   m.RetentionISLR,
		Status:          domain.InvoiceStatus(m.Status),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
	if m.DueDate.Valid {
		due := domain.DateOnly(m.DueDate.Time)
		d.DueDate = &due
	}
	return d
}

// ToModelInvoiceItem converts a domain item to a model item
func ToModelInvoiceItem(d domain.InvoiceItem) models.InvoiceItem {
	return models.InvoiceItem{
		ItemID:      d.ItemID,
		InvoiceID:   d.InvoiceID,
		LineNo:      d.LineNo,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		TaxRate:     d.TaxRate,
		Subtotal:    d.Subtotal,
		TaxAmount:   d.TaxAmount,
	}
}

// ToDomainInvoiceItem converts a model item to a domain item
func ToDomainInvoiceItem(m models.InvoiceItem) domain.InvoiceItem {
	return domain.InvoiceItem{
		ItemID:      m.ItemID,
		InvoiceID:   m.InvoiceID,
		LineNo:      m.LineNo,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		TaxRate:     m.TaxRate,
		Subtotal:    m.Subtotal,
		TaxAmount:   m.TaxAmount,
	}
}
