package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portsrepo "github.com/SscSPs/contabilidad_ve/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/contabilidad_ve/internal/core/ports/services"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
	"github.com/SscSPs/contabilidad_ve/internal/utils/accounting"
)

var maxTaxRate = decimal.NewFromInt(100)

type invoiceService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceRepositoryWithTx
	now         func() time.Time
}

// InvoiceServiceOption configures the invoice service.
type InvoiceServiceOption func(*invoiceService)

// WithInvoiceClock replaces the clock used for audit timestamps.
func WithInvoiceClock(now func() time.Time) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.now = now
	}
}

// NewInvoiceService creates the invoicing service.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryWithTx,
	authorizer portssvc.CompanyAuthorizerSvc,
	options ...InvoiceServiceOption,
) portssvc.InvoiceSvcFacade {
	svc := &invoiceService{
		invoiceRepo: invoiceRepo,
		now:         time.Now,
	}
	svc.CompanyAuthorizer = authorizer
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// priceItems computes line subtotals and IVA, each rounded to cents.
func priceItems(reqs []dto.InvoiceItemRequest) ([]domain.InvoiceItem, decimal.Decimal, decimal.Decimal, error) {
	if len(reqs) == 0 {
		return nil, decimal.Zero, decimal.Zero, fmt.Errorf("%w: an invoice needs at least one item", apperrors.ErrValidation)
	}
	items := make([]domain.InvoiceItem, len(reqs))
	subtotal, tax := decimal.Zero, decimal.Zero
	for i, r := range reqs {
		line := i + 1
		if strings.TrimSpace(r.Description) == "" {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("%w: item %d needs a description", apperrors.ErrValidation, line)
		}
		if !r.Quantity.IsPositive() {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("%w: item %d quantity must be positive", apperrors.ErrValidation, line)
		}
		if !r.UnitPrice.IsPositive() {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("%w: item %d unit price must be positive", apperrors.ErrValidation, line)
		}
		rate := domain.DefaultIVARate
		if r.TaxRate != nil {
			rate = *r.TaxRate
		}
		if rate.IsNegative() || rate.GreaterThan(maxTaxRate) {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("%w: item %d tax rate %s out of range", apperrors.ErrValidation, line, rate)
		}

		lineSubtotal := accounting.Round(r.Quantity.Mul(r.UnitPrice))
		lineTax := accounting.Round(lineSubtotal.Mul(rate).Div(maxTaxRate))
		items[i] = domain.InvoiceItem{
			ItemID:      uuid.NewString(),
			LineNo:      line,
			Description: strings.TrimSpace(r.Description),
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			TaxRate:     rate,
			Subtotal:    lineSubtotal,
			TaxAmount:   lineTax,
		}
		subtotal = subtotal.Add(lineSubtotal)
		tax = tax.Add(lineTax)
	}
	return items, subtotal, tax, nil
}

func (s *invoiceService) auditLog(companyID, userID string, action domain.AuditAction, inv *domain.Invoice, details string) domain.AuditLog {
	return domain.AuditLog{
		AuditLogID: uuid.NewString(),
		CompanyID:  companyID,
		UserID:     userID,
		Action:     action,
		EntityType: "INVOICE",
		EntityID:   inv.InvoiceID,
		Details:    details,
		CreatedAt:  s.now().UTC(),
	}
}

// CreateInvoice stores a PENDING invoice numbered FV-nnnnnnnn or FC-nnnnnnnn.
func (s *invoiceService) CreateInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapInvoicesWrite); err != nil {
		return nil, err
	}
	if !req.InvoiceType.IsValid() {
		return nil, fmt.Errorf("%w: unknown invoice type %q", apperrors.ErrValidation, req.InvoiceType)
	}
	name := strings.TrimSpace(req.CounterpartName)
	if name == "" {
		return nil, fmt.Errorf("%w: counterpart name is required", apperrors.ErrValidation)
	}
	issueDate, err := time.Parse(dateLayout, req.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid issue date %q", apperrors.ErrValidation, req.IssueDate)
	}
	var dueDate *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		d, err := time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid due date %q", apperrors.ErrValidation, *req.DueDate)
		}
		if d.Before(issueDate) {
			return nil, fmt.Errorf("%w: due date is before the issue date", apperrors.ErrValidation)
		}
		dueDate = &d
	}
	var rif *string
	if req.CounterpartRIF != nil && *req.CounterpartRIF != "" {
		normalized, ok := domain.NormalizeRIF(*req.CounterpartRIF)
		if !ok {
			return nil, fmt.Errorf("%w: invalid RIF %q", apperrors.ErrValidation, *req.CounterpartRIF)
		}
		rif = &normalized
	}
	items, subtotal, tax, err := priceItems(req.Items)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	invoice := domain.Invoice{
		InvoiceID:       uuid.NewString(),
		CompanyID:       companyID,
		InvoiceType:     req.InvoiceType,
		ControlNumber:   emptyToNil(req.ControlNumber),
		CounterpartRIF:  rif,
		CounterpartName: name,
		IssueDate:       issueDate,
		DueDate:         dueDate,
		Subtotal:        subtotal,
		TaxAmount:       tax,
		Total:           subtotal.Add(tax),
		RetentionIVA:    decimal.Zero,
		RetentionISLR:   decimal.Zero,
		Status:          domain.InvoicePending,
		Items:           items,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	for i := range invoice.Items {
		invoice.Items[i].InvoiceID = invoice.InvoiceID
	}

	err = s.invoiceRepo.WithTx(ctx, func(tx portsrepo.InvoiceTxRepository) error {
		n, err := tx.NextInvoiceNumber(ctx, companyID, req.InvoiceType.Prefix())
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = domain.FormatInvoiceNumber(req.InvoiceType, n)
		if err := tx.SaveInvoice(ctx, invoice); err != nil {
			return err
		}
		return tx.SaveAuditLog(ctx, s.auditLog(companyID, userID, domain.AuditInvoiceCreate, &invoice, invoice.InvoiceNumber))
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save invoice", slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Invoice created",
		slog.String("company_id", companyID),
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("invoice_number", invoice.InvoiceNumber),
		slog.String("total", invoice.Total.StringFixed(accounting.MoneyScale)))
	return &invoice, nil
}

// GetInvoice returns an invoice with its items. Invoices of other companies are not found.
func (s *invoiceService) GetInvoice(ctx context.Context, companyID, invoiceID, userID string) (*domain.Invoice, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapInvoicesRead); err != nil {
		return nil, err
	}
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find invoice", slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}
	if invoice.CompanyID != companyID {
		return nil, apperrors.NewNotFoundError("invoice " + invoiceID)
	}
	return invoice, nil
}

func invoiceFilter(t *domain.InvoiceType, status *domain.InvoiceStatus, from, to *string) (domain.InvoiceFilter, error) {
	filter := domain.InvoiceFilter{Type: t, Status: status}
	if from != nil && *from != "" {
		d, err := time.Parse(dateLayout, *from)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid fromDate %q", apperrors.ErrValidation, *from)
		}
		filter.FromDate = &d
	}
	if to != nil && *to != "" {
		d, err := time.Parse(dateLayout, *to)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid toDate %q", apperrors.ErrValidation, *to)
		}
		filter.ToDate = &d
	}
	if filter.FromDate != nil && filter.ToDate != nil && filter.ToDate.Before(*filter.FromDate) {
		return filter, fmt.Errorf("%w: toDate is before fromDate", apperrors.ErrValidation)
	}
	return filter, nil
}

// ListInvoices returns one page of invoice headers, newest first.
func (s *invoiceService) ListInvoices(ctx context.Context, companyID, userID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapInvoicesRead); err != nil {
		return nil, err
	}
	filter, err := invoiceFilter(params.InvoiceType, params.Status, params.FromDate, params.ToDate)
	if err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	} else if limit > maxListLimit {
		limit = maxListLimit
	}
	page := params.Page
	if page < 1 {
		page = 1
	}

	invoices, total, err := s.invoiceRepo.ListInvoices(ctx, companyID, filter, (page-1)*limit, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices", slog.String("company_id", companyID))
		return nil, err
	}
	resp := &dto.ListInvoicesResponse{
		Invoices: make([]dto.InvoiceResponse, len(invoices)),
		Total:    total,
		Pages:    (total + limit - 1) / limit,
	}
	for i := range invoices {
		resp.Invoices[i] = dto.ToInvoiceResponse(&invoices[i])
	}
	return resp, nil
}

// UpdateInvoice applies a status change and/or new retentions to a PENDING invoice.
// Withheld IVA cannot exceed the invoice IVA and withheld ISLR cannot exceed the base.
func (s *invoiceService) UpdateInvoice(ctx context.Context, companyID, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapInvoicesWrite); err != nil {
		return nil, err
	}
	if req.Status == nil && req.RetentionIVA == nil && req.RetentionISLR == nil {
		return nil, fmt.Errorf("%w: nothing to update", apperrors.ErrValidation)
	}

	var updated domain.Invoice
	err := s.invoiceRepo.WithTx(ctx, func(tx portsrepo.InvoiceTxRepository) error {
		current, err := tx.FindInvoiceForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if current.CompanyID != companyID {
			return apperrors.NewNotFoundError("invoice " + invoiceID)
		}
		if current.Status != domain.InvoicePending {
			return fmt.Errorf("%w: invoice %s is %s", apperrors.ErrConflict, current.InvoiceNumber, current.Status)
		}

		updated = *current
		changes := make([]string, 0, 3)
		if req.RetentionIVA != nil {
			r := accounting.Round(*req.RetentionIVA)
			if r.IsNegative() || r.GreaterThan(current.TaxAmount) {
				return fmt.Errorf("%w: IVA retention must be between 0 and %s", apperrors.ErrValidation, current.TaxAmount.StringFixed(accounting.MoneyScale))
			}
			updated.RetentionIVA = r
			changes = append(changes, "retentionIva="+r.StringFixed(accounting.MoneyScale))
		}
		if req.RetentionISLR != nil {
			r := accounting.Round(*req.RetentionISLR)
			if r.IsNegative() || r.GreaterThan(current.Subtotal) {
				return fmt.Errorf("%w: ISLR retention must be between 0 and %s", apperrors.ErrValidation, current.Subtotal.StringFixed(accounting.MoneyScale))
			}
			updated.RetentionISLR = r
			changes = append(changes, "retentionIslr="+r.StringFixed(accounting.MoneyScale))
		}
		if req.Status != nil && *req.Status != current.Status {
			if !current.Status.CanBecome(*req.Status) {
				return fmt.Errorf("%w: invoice cannot go from %s to %s", apperrors.ErrConflict, current.Status, *req.Status)
			}
			updated.Status = *req.Status
			changes = append(changes, "status="+string(updated.Status))
		}
		updated.LastUpdatedAt = s.now().UTC()
		updated.LastUpdatedBy = userID

		if err := tx.UpdateInvoice(ctx, updated); err != nil {
			return err
		}
		return tx.SaveAuditLog(ctx, s.auditLog(companyID, userID, domain.AuditInvoiceUpdate, &updated,
			updated.InvoiceNumber+" "+strings.Join(changes, " ")))
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrNotFound) &&
			!errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to update invoice", slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Invoice updated",
		slog.String("invoice_id", invoiceID),
		slog.String("status", string(updated.Status)))
	return &updated, nil
}

// FiscalBook builds the sales (SALE) or purchases (PURCHASE) book of a date range.
func (s *invoiceService) FiscalBook(ctx context.Context, companyID string, bookType domain.InvoiceType, from, to time.Time, userID string) (*domain.FiscalBook, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapInvoicesRead); err != nil {
		return nil, err
	}
	if !bookType.IsValid() {
		return nil, fmt.Errorf("%w: unknown book type %q", apperrors.ErrValidation, bookType)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: toDate is before fromDate", apperrors.ErrValidation)
	}

	filter := domain.InvoiceFilter{Type: &bookType, FromDate: &from, ToDate: &to}
	invoices, _, err := s.invoiceRepo.ListInvoices(ctx, companyID, filter, 0, 0)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices for fiscal book",
			slog.String("company_id", companyID),
			slog.String("book_type", string(bookType)))
		return nil, err
	}
	// Books read in issue order, numbers breaking ties.
	sortInvoicesForBook(invoices)

	book := &domain.FiscalBook{
		BookType:        bookType,
		FromDate:        from,
		ToDate:          to,
		Invoices:        invoices,
		TotalBase:       decimal.Zero,
		TotalTax:        decimal.Zero,
		Total:           decimal.Zero,
		TotalRetentions: decimal.Zero,
		Count:           len(invoices),
	}
	for _, inv := range invoices {
		if inv.Status == domain.InvoiceCancelled {
			continue
		}
		book.TotalBase = book.TotalBase.Add(inv.Subtotal)
		book.TotalTax = book.TotalTax.Add(inv.TaxAmount)
		book.Total = book.Total.Add(inv.Total)
		book.TotalRetentions = book.TotalRetentions.Add(inv.Retentions())
	}
	book.NetAmount = book.Total.Sub(book.TotalRetentions)

	s.LogDebug(ctx, "Fiscal book built",
		slog.String("company_id", companyID),
		slog.String("book_type", string(bookType)),
		slog.Int("count", book.Count))
	return book, nil
}

func sortInvoicesForBook(invoices []domain.Invoice) {
	sort.Slice(invoices, func(i, j int) bool {
		a, b := invoices[i], invoices[j]
		if !a.IssueDate.Equal(b.IssueDate) {
			return a.IssueDate.Before(b.IssueDate)
		}
		return a.InvoiceNumber < b.InvoiceNumber
	})
}
