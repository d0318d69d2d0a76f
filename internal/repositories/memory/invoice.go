package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portsrepo "github.com/SscSPs/contabilidad_ve/internal/core/ports/repositories"
)

// invoiceStore exposes the invoices of a Store. It is a separate type because its
// WithTx hands out an InvoiceTxRepository instead of a journal one.
type invoiceStore struct {
	*Store
}

var _ portsrepo.InvoiceRepositoryWithTx = invoiceStore{}

func copyInvoice(inv domain.Invoice) domain.Invoice {
	out := inv
	if inv.Items != nil {
		out.Items = make([]domain.InvoiceItem, len(inv.Items))
		copy(out.Items, inv.Items)
	}
	return out
}

func (s invoiceStore) FindInvoiceByID(_ context.Context, invoiceID string) (*domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[invoiceID]
	if !ok {
		return nil, apperrors.NewNotFoundError("invoice " + invoiceID)
	}
	out := copyInvoice(inv)
	return &out, nil
}

func (s invoiceStore) ListInvoices(_ context.Context, companyID string, filter domain.InvoiceFilter, offset, limit int) ([]domain.Invoice, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Invoice, 0)
	for _, inv := range s.invoices {
		if inv.CompanyID != companyID || !filter.Matches(inv) {
			continue
		}
		header := inv
		header.Items = nil
		matched = append(matched, header)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.InvoiceNumber > b.InvoiceNumber
	})

	total := len(matched)
	if offset > total {
		offset = total
	}
	matched = matched[offset:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (s invoiceStore) CountInvoices(_ context.Context, companyID string) (domain.InvoiceStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var stats domain.InvoiceStats
	for _, inv := range s.invoices {
		if inv.CompanyID != companyID {
			continue
		}
		stats.Total++
		if inv.Status == domain.InvoicePending {
			stats.Pending++
		}
	}
	return stats, nil
}

// WithTx shares txMu with journal transactions, so invoice and entry numbering
// never interleave.
func (s invoiceStore) WithTx(_ context.Context, fn func(txRepo portsrepo.InvoiceTxRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &invoiceTx{
		store:     s.Store,
		invoices:  make(map[string]domain.Invoice),
		sequences: make(map[seqKey]int64),
	}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

type invoiceTx struct {
	store     *Store
	invoices  map[string]domain.Invoice
	sequences map[seqKey]int64
	audit     []domain.AuditLog
}

func (t *invoiceTx) lookup(invoiceID string) (domain.Invoice, bool) {
	if staged, ok := t.invoices[invoiceID]; ok {
		return copyInvoice(staged), true
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	inv, ok := t.store.invoices[invoiceID]
	if !ok {
		return domain.Invoice{}, false
	}
	return copyInvoice(inv), true
}

func (t *invoiceTx) NextInvoiceNumber(_ context.Context, companyID string, prefix domain.EntryPrefix) (int64, error) {
	key := seqKey{companyID: companyID, prefix: prefix}
	current, ok := t.sequences[key]
	if !ok {
		t.store.mu.RLock()
		current = t.store.sequences[key]
		t.store.mu.RUnlock()
	}
	current++
	t.sequences[key] = current
	return current, nil
}

func (t *invoiceTx) FindInvoiceForUpdate(_ context.Context, invoiceID string) (*domain.Invoice, error) {
	inv, ok := t.lookup(invoiceID)
	if !ok {
		return nil, apperrors.NewNotFoundError("invoice " + invoiceID)
	}
	return &inv, nil
}

func (t *invoiceTx) SaveInvoice(_ context.Context, invoice domain.Invoice) error {
	if _, exists := t.lookup(invoice.InvoiceID); exists {
		return fmt.Errorf("%w: invoice %s", apperrors.ErrDuplicate, invoice.InvoiceID)
	}
	t.store.mu.RLock()
	for _, inv := range t.store.invoices {
		if inv.CompanyID == invoice.CompanyID && inv.InvoiceNumber == invoice.InvoiceNumber {
			t.store.mu.RUnlock()
			return fmt.Errorf("%w: invoice number %s", apperrors.ErrDuplicate, invoice.InvoiceNumber)
		}
	}
	t.store.mu.RUnlock()
	for i := range invoice.Items {
		invoice.Items[i].InvoiceID = invoice.InvoiceID
	}
	t.invoices[invoice.InvoiceID] = copyInvoice(invoice)
	return nil
}

func (t *invoiceTx) UpdateInvoice(_ context.Context, invoice domain.Invoice) error {
	current, ok := t.lookup(invoice.InvoiceID)
	if !ok {
		return apperrors.NewNotFoundError("invoice " + invoice.InvoiceID)
	}
	current.Status = invoice.Status
	current.RetentionIVA = invoice.RetentionIVA
	current.RetentionISLR = invoice.RetentionISLR
	current.LastUpdatedAt = invoice.LastUpdatedAt
	current.LastUpdatedBy = invoice.LastUpdatedBy
	t.invoices[invoice.InvoiceID] = current
	return nil
}

func (t *invoiceTx) SaveAuditLog(_ context.Context, log domain.AuditLog) error {
	t.audit = append(t.audit, log)
	return nil
}

func (t *invoiceTx) commit() {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, inv := range t.invoices {
		s.invoices[id] = inv
	}
	for k, v := range t.sequences {
		s.sequences[k] = v
	}
	s.auditLogs = append(s.auditLogs, t.audit...)
}
