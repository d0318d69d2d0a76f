package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portsrepo "github.com/SscSPs/contabilidad_ve/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/contabilidad_ve/internal/core/ports/services"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
	"github.com/SscSPs/contabilidad_ve/internal/platform/metrics"
	"github.com/SscSPs/contabilidad_ve/internal/utils/accounting"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	dateLayout       = "2006-01-02"
)

// journalService is the journal engine: it validates, numbers and moves entries
// through DRAFT -> APPROVED -> REVERSED.
type journalService struct {
	BaseService
	journalRepo    portsrepo.JournalRepositoryWithTx
	costCenterRepo portsrepo.CostCenterRepositoryFacade
	periodGuard    portssvc.PeriodGuardSvc
	now            func() time.Time
}

// JournalServiceOption configures the journal service.
type JournalServiceOption func(*journalService)

// WithJournalClock replaces the clock used for approval timestamps and reversal dates.
func WithJournalClock(now func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.now = now
	}
}

// WithPeriodGuard enables the closed-period check.
func WithPeriodGuard(guard portssvc.PeriodGuardSvc) JournalServiceOption {
	return func(s *journalService) {
		s.periodGuard = guard
	}
}

// NewJournalService creates a new journal engine.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryWithTx,
	costCenterRepo portsrepo.CostCenterRepositoryFacade,
	authorizer portssvc.CompanyAuthorizerSvc,
	options ...JournalServiceOption,
) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo:    journalRepo,
		costCenterRepo: costCenterRepo,
		now:            time.Now,
	}
	svc.CompanyAuthorizer = authorizer
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// entryContent is the validated, caller-supplied part of an entry.
type entryContent struct {
	date        time.Time
	description string
	reference   *string
	details     []domain.JournalEntryDetail
	totalDebit  decimal.Decimal
	totalCredit decimal.Decimal
}

// buildContent runs the create/update validations that do not need the transaction.
// Account postability is checked later by checkAccounts, under the account locks.
func (s *journalService) buildContent(ctx context.Context, companyID string, req dto.JournalEntryRequest) (*entryContent, error) {
	date, err := time.Parse(dateLayout, req.EntryDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid entry date %q", apperrors.ErrValidation, req.EntryDate)
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}

	details := make([]domain.JournalEntryDetail, len(req.Details))
	for i, d := range req.Details {
		details[i] = domain.JournalEntryDetail{
			DetailID:     uuid.NewString(),
			LineNo:       i + 1,
			AccountID:    d.AccountID,
			CostCenterID: emptyToNil(d.CostCenterID),
			Description:  emptyToNil(d.Description),
			Debit:        d.DebitAmount(),
			Credit:       d.CreditAmount(),
		}
	}

	totalDebit, totalCredit, err := accounting.ValidateEntryDetails(details)
	if err != nil {
		return nil, err
	}
	if err := s.checkCostCenters(ctx, companyID, details); err != nil {
		return nil, err
	}
	if err := s.ensureOpen(ctx, companyID, date); err != nil {
		return nil, err
	}

	return &entryContent{
		date:        date,
		description: description,
		reference:   emptyToNil(req.Reference),
		details:     details,
		totalDebit:  totalDebit,
		totalCredit: totalCredit,
	}, nil
}

// checkAccounts locks the accounts referenced by details for the rest of the
// transaction and requires every one of them to be postable.
func (s *journalService) checkAccounts(ctx context.Context, tx portsrepo.JournalTxRepository, companyID string, details []domain.JournalEntryDetail) error {
	ids := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.AccountID)
	}
	accounts, err := tx.LockAccounts(ctx, companyID, uniqueStrings(ids))
	if err != nil {
		s.LogError(ctx, err, "Failed to lock accounts for journal entry", slog.String("company_id", companyID))
		return err
	}
	for _, d := range details {
		acc, ok := accounts[d.AccountID]
		if !ok {
			return fmt.Errorf("%w: account %s not found in company", apperrors.ErrNonPostableAccount, d.AccountID)
		}
		if !acc.IsPostable() {
			return fmt.Errorf("%w: %s %s", apperrors.ErrNonPostableAccount, acc.Code, acc.Name)
		}
	}
	return nil
}

func (s *journalService) checkCostCenters(ctx context.Context, companyID string, details []domain.JournalEntryDetail) error {
	ids := make([]string, 0)
	for _, d := range details {
		if d.CostCenterID != nil {
			ids = append(ids, *d.CostCenterID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	if s.costCenterRepo == nil {
		return fmt.Errorf("%w: cost centers are not available", apperrors.ErrValidation)
	}
	centers, err := s.costCenterRepo.FindCostCentersByIDs(ctx, companyID, uniqueStrings(ids))
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch cost centers", slog.String("company_id", companyID))
		return err
	}
	for _, id := range ids {
		cc, ok := centers[id]
		if !ok || !cc.IsActive {
			return fmt.Errorf("%w: cost center %s not found in company", apperrors.ErrValidation, id)
		}
	}
	return nil
}

func (s *journalService) ensureOpen(ctx context.Context, companyID string, date time.Time) error {
	if s.periodGuard == nil {
		return nil
	}
	return s.periodGuard.EnsureDateOpen(ctx, companyID, date)
}

func (s *journalService) today() time.Time {
	return domain.DateOnly(s.now().UTC())
}

func (s *journalService) auditLog(companyID, userID string, action domain.AuditAction, entry *domain.JournalEntry, details string) domain.AuditLog {
	return domain.AuditLog{
		AuditLogID: uuid.NewString(),
		CompanyID:  companyID,
		UserID:     userID,
		Action:     action,
		EntityType: "JOURNAL_ENTRY",
		EntityID:   entry.EntryID,
		Details:    details,
		CreatedAt:  s.now().UTC(),
	}
}

// lockCompanyEntry loads and locks an entry, hiding entries of other companies.
func lockCompanyEntry(ctx context.Context, tx portsrepo.JournalTxRepository, companyID, entryID string) (*domain.JournalEntry, error) {
	entry, err := tx.FindEntryForUpdate(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrEntryNotFound, entryID)
		}
		return nil, err
	}
	if entry.CompanyID != companyID {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrEntryNotFound, entryID)
	}
	return entry, nil
}

// lockEntryForTransition is lockCompanyEntry for approve and reverse, where a missing
// entry is also an invalid transition.
func lockEntryForTransition(ctx context.Context, tx portsrepo.JournalTxRepository, companyID, entryID string) (*domain.JournalEntry, error) {
	entry, err := lockCompanyEntry(ctx, tx, companyID, entryID)
	if err != nil && errors.Is(err, apperrors.ErrEntryNotFound) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidStateTransition, err)
	}
	return entry, err
}

// CreateEntry validates and stores a new DRAFT entry numbered in the AS series.
func (s *journalService) CreateEntry(ctx context.Context, companyID string, req dto.JournalEntryRequest, userID string) (entry *domain.JournalEntry, err error) {
	defer func() { metrics.ObserveJournal("create", err) }()
	logger := s.GetLogger(ctx).With(slog.String("company_id", companyID))

	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapJournalWrite); err != nil {
		return nil, err
	}
	content, err := s.buildContent(ctx, companyID, req)
	if err != nil {
		logger.Warn("Journal entry rejected", slog.String("error", err.Error()))
		return nil, err
	}

	now := s.now().UTC()
	newEntry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		CompanyID:   companyID,
		EntryDate:   content.date,
		Description: content.description,
		Reference:   content.reference,
		Status:      domain.Draft,
		TotalDebit:  content.totalDebit,
		TotalCredit: content.totalCredit,
		Details:     content.details,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	for i := range newEntry.Details {
		newEntry.Details[i].EntryID = newEntry.EntryID
	}

	err = s.journalRepo.WithTx(ctx, func(tx portsrepo.JournalTxRepository) error {
		if err := s.checkAccounts(ctx, tx, companyID, newEntry.Details); err != nil {
			return err
		}
		n, err := tx.NextEntryNumber(ctx, companyID, domain.PrefixEntry)
		if err != nil {
			return err
		}
		newEntry.EntryNumber = domain.FormatEntryNumber(domain.PrefixEntry, n)
		if err := tx.SaveEntry(ctx, newEntry); err != nil {
			return err
		}
		return tx.SaveAuditLog(ctx, s.auditLog(companyID, userID, domain.AuditJournalCreate, &newEntry, newEntry.EntryNumber))
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Journal entry rejected", slog.String("error", err.Error()))
		} else {
			s.LogError(ctx, err, "Failed to save journal entry", slog.String("company_id", companyID))
		}
		return nil, err
	}

	logger.Info("Journal entry created",
		slog.String("entry_id", newEntry.EntryID),
		slog.String("entry_number", newEntry.EntryNumber))
	return &newEntry, nil
}

// UpdateDraftEntry replaces the content of a DRAFT entry; number and creation audit are kept.
func (s *journalService) UpdateDraftEntry(ctx context.Context, companyID, entryID string, req dto.JournalEntryRequest, userID string) (entry *domain.JournalEntry, err error) {
	defer func() { metrics.ObserveJournal("update", err) }()

	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapJournalWrite); err != nil {
		return nil, err
	}
	content, err := s.buildContent(ctx, companyID, req)
	if err != nil {
		return nil, err
	}

	var updated domain.JournalEntry
	err = s.journalRepo.WithTx(ctx, func(tx portsrepo.JournalTxRepository) error {
		current, err := lockCompanyEntry(ctx, tx, companyID, entryID)
		if err != nil {
			return err
		}
		if current.Status != domain.Draft {
			return fmt.Errorf("%w: only DRAFT entries can be edited, %s is %s",
				apperrors.ErrInvalidStateTransition, current.EntryNumber, current.Status)
		}
		if err := s.checkAccounts(ctx, tx, companyID, content.details); err != nil {
			return err
		}
		updated = *current
		updated.EntryDate = content.date
		updated.Description = content.description
		updated.Reference = content.reference
		updated.TotalDebit = content.totalDebit
		updated.TotalCredit = content.totalCredit
		updated.Details = content.details
		for i := range updated.Details {
			updated.Details[i].EntryID = updated.EntryID
		}
		updated.LastUpdatedAt = s.now().UTC()
		updated.LastUpdatedBy = userID
		if err := tx.ReplaceDraft(ctx, updated); err != nil {
			return err
		}
		return tx.SaveAuditLog(ctx, s.auditLog(companyID, userID, domain.AuditJournalUpdate, &updated, updated.EntryNumber))
	})
	if err != nil {
		if !isExpectedJournalError(err) {
			s.LogError(ctx, err, "Failed to update journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry updated",
		slog.String("entry_id", entryID),
		slog.String("entry_number", updated.EntryNumber))
	return &updated, nil
}

// DeleteDraftEntry physically removes a DRAFT entry. Its number is not reused.
func (s *journalService) DeleteDraftEntry(ctx context.Context, companyID, entryID, userID string) (err error) {
	defer func() { metrics.ObserveJournal("delete", err) }()

	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapJournalWrite); err != nil {
		return err
	}
	err = s.journalRepo.WithTx(ctx, func(tx portsrepo.JournalTxRepository) error {
		current, err := lockCompanyEntry(ctx, tx, companyID, entryID)
		if err != nil {
			return err
		}
		if current.Status != domain.Draft {
			return fmt.Errorf("%w: only DRAFT entries can be deleted, %s is %s",
				apperrors.ErrInvalidStateTransition, current.EntryNumber, current.Status)
		}
		if err := tx.DeleteEntry(ctx, entryID); err != nil {
			return err
		}
		return tx.SaveAuditLog(ctx, s.auditLog(companyID, userID, domain.AuditJournalDelete, current, current.EntryNumber))
	})
	if err != nil {
		if !isExpectedJournalError(err) {
			s.LogError(ctx, err, "Failed to delete journal entry", slog.String("entry_id", entryID))
		}
		return err
	}
	s.LogInfo(ctx, "Journal entry deleted", slog.String("entry_id", entryID))
	return nil
}

// ApproveEntry moves a DRAFT entry to APPROVED, re-checking the status under the row lock.
func (s *journalService) ApproveEntry(ctx context.Context, companyID, entryID, userID string) (entry *domain.JournalEntry, err error) {
	defer func() { metrics.ObserveJournal("approve", err) }()

	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapJournalApprove); err != nil {
		return nil, err
	}

	var approved domain.JournalEntry
	err = s.journalRepo.WithTx(ctx, func(tx portsrepo.JournalTxRepository) error {
		current, err := lockEntryForTransition(ctx, tx, companyID, entryID)
		if err != nil {
			return err
		}
		if current.Status != domain.Draft {
			return fmt.Errorf("%w: cannot approve %s in status %s",
				apperrors.ErrInvalidStateTransition, current.EntryNumber, current.Status)
		}
		if err := s.checkAccounts(ctx, tx, companyID, current.Details); err != nil {
			return err
		}
		if err := s.ensureOpen(ctx, companyID, current.EntryDate); err != nil {
			return err
		}

		now := s.now().UTC()
		approver := userID
		if err := tx.UpdateEntryStatus(ctx, portsrepo.EntryStatusChange{
			EntryID:    current.EntryID,
			Status:     domain.Approved,
			ApprovedBy: &approver,
			ApprovedAt: &now,
			UpdatedBy:  userID,
			UpdatedAt:  now,
		}); err != nil {
			return err
		}
		approved = *current
		approved.Status = domain.Approved
		approved.ApprovedBy = &approver
		approved.ApprovedAt = &now
		approved.LastUpdatedAt = now
		approved.LastUpdatedBy = userID
		return tx.SaveAuditLog(ctx, s.auditLog(companyID, userID, domain.AuditJournalApprove, &approved, approved.EntryNumber))
	})
	if err != nil {
		if !isExpectedJournalError(err) {
			s.LogError(ctx, err, "Failed to approve journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry approved",
		slog.String("entry_id", entryID),
		slog.String("entry_number", approved.EntryNumber))
	return &approved, nil
}

// ReverseEntry creates the mirror of an APPROVED entry in the RV series, dated today and
// approved by the actor, and marks the original REVERSED.
func (s *journalService) ReverseEntry(ctx context.Context, companyID, entryID, reason, userID string) (entry *domain.JournalEntry, err error) {
	defer func() { metrics.ObserveJournal("reverse", err) }()

	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapJournalReverse); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a reversal reason is required", apperrors.ErrValidation)
	}
	reversalDate := s.today()

	var reversal domain.JournalEntry
	err = s.journalRepo.WithTx(ctx, func(tx portsrepo.JournalTxRepository) error {
		original, err := lockEntryForTransition(ctx, tx, companyID, entryID)
		if err != nil {
			return err
		}
		if original.IsReversal() {
			return fmt.Errorf("%w: %s is itself a reversal", apperrors.ErrInvalidStateTransition, original.EntryNumber)
		}
		if original.Status != domain.Approved {
			return fmt.Errorf("%w: cannot reverse %s in status %s",
				apperrors.ErrInvalidStateTransition, original.EntryNumber, original.Status)
		}
		if err := s.ensureOpen(ctx, companyID, reversalDate); err != nil {
			return err
		}

		n, err := tx.NextEntryNumber(ctx, companyID, domain.PrefixReversal)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		reversal = buildReversal(original, domain.FormatEntryNumber(domain.PrefixReversal, n), reason, reversalDate, userID, now)
		if err := tx.SaveEntry(ctx, reversal); err != nil {
			return err
		}
		if err := tx.UpdateEntryStatus(ctx, portsrepo.EntryStatusChange{
			EntryID:      original.EntryID,
			Status:       domain.Reversed,
			ReversedByID: &reversal.EntryID,
			UpdatedBy:    userID,
			UpdatedAt:    now,
		}); err != nil {
			return err
		}
		return tx.SaveAuditLog(ctx, s.auditLog(companyID, userID, domain.AuditJournalReverse, original,
			fmt.Sprintf("%s reversed by %s: %s", original.EntryNumber, reversal.EntryNumber, reason)))
	})
	if err != nil {
		if !isExpectedJournalError(err) {
			s.LogError(ctx, err, "Failed to reverse journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversal_id", reversal.EntryID),
		slog.String("reversal_number", reversal.EntryNumber))
	return &reversal, nil
}

// buildReversal mirrors original with debit and credit swapped on every line.
func buildReversal(original *domain.JournalEntry, number, reason string, date time.Time, userID string, now time.Time) domain.JournalEntry {
	reference := "Reverso de " + original.EntryNumber
	originalID := original.EntryID
	approver := userID
	approvedAt := now
	reversal := domain.JournalEntry{
		EntryID:      uuid.NewString(),
		CompanyID:    original.CompanyID,
		EntryNumber:  number,
		EntryDate:    date,
		Description:  fmt.Sprintf("REVERSO: %s. Motivo: %s", original.Description, reason),
		Reference:    &reference,
		Status:       domain.Approved,
		ApprovedBy:   &approver,
		ApprovedAt:   &approvedAt,
		TotalDebit:   original.TotalCredit,
		TotalCredit:  original.TotalDebit,
		ReversalOfID: &originalID,
		Details:      make([]domain.JournalEntryDetail, len(original.Details)),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	for i, d := range original.Details {
		var desc *string
		if d.Description != nil && *d.Description != "" {
			text := "Reverso: " + *d.Description
			desc = &text
		}
		reversal.Details[i] = domain.JournalEntryDetail{
			DetailID:     uuid.NewString(),
			EntryID:      reversal.EntryID,
			LineNo:       d.LineNo,
			AccountID:    d.AccountID,
			CostCenterID: d.CostCenterID,
			Description:  desc,
			Debit:        d.Credit,
			Credit:       d.Debit,
		}
	}
	return reversal
}

// GetEntry retrieves an entry with its details.
func (s *journalService) GetEntry(ctx context.Context, companyID, entryID, userID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapJournalRead); err != nil {
		return nil, err
	}
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrEntryNotFound, entryID)
		}
		s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		return nil, err
	}
	if entry.CompanyID != companyID {
		s.GetLogger(ctx).Warn("Journal entry requested from another company",
			slog.String("entry_id", entryID),
			slog.String("company_id", companyID))
		return nil, fmt.Errorf("%w: %s", apperrors.ErrEntryNotFound, entryID)
	}
	return entry, nil
}

// ListEntries retrieves a page of entry headers, newest first.
func (s *journalService) ListEntries(ctx context.Context, companyID, userID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapJournalRead); err != nil {
		return nil, err
	}

	filter := domain.JournalEntryFilter{Status: params.Status}
	if params.Status != nil && !params.Status.IsValid() {
		return nil, fmt.Errorf("%w: invalid status %q", apperrors.ErrValidation, *params.Status)
	}
	var err error
	if filter.FromDate, err = parseOptionalDate(params.FromDate); err != nil {
		return nil, err
	}
	if filter.ToDate, err = parseOptionalDate(params.ToDate); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, companyID, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries", slog.String("company_id", companyID))
		return nil, err
	}

	resp := dto.ToListJournalEntriesResponse(entries, nextToken)
	s.LogDebug(ctx, "Journal entries listed", slog.Int("count", len(entries)))
	return &resp, nil
}

// isExpectedJournalError reports whether err is a caller mistake rather than a failure.
func isExpectedJournalError(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrConflict) ||
		errors.Is(err, apperrors.ErrValidation)
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", apperrors.ErrValidation, *value)
	}
	return &t, nil
}

func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	out := make([]string, 0, len(input))
	for _, v := range input {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
