package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portsrepo "github.com/SscSPs/contabilidad_ve/internal/core/ports/repositories"
	"github.com/SscSPs/contabilidad_ve/internal/utils/pagination"
)

func (s *Store) FindEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[entryID]
	if !ok {
		return nil, apperrors.ErrEntryNotFound
	}
	out := copyEntry(e)
	return &out, nil
}

func (s *Store) ListEntries(_ context.Context, companyID string, filter domain.JournalEntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.JournalEntry, 0)
	for _, e := range s.entries {
		if e.CompanyID != companyID {
			continue
		}
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		if filter.FromDate != nil && e.EntryDate.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && e.EntryDate.After(*filter.ToDate) {
			continue
		}
		header := e
		header.Details = nil
		matched = append(matched, header)
	}
	sort.Slice(matched, func(i, j int) bool {
		return pagination.After(entryCursor(matched[j]), entryCursor(matched[i]))
	})

	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		start := sort.Search(len(matched), func(i int) bool {
			return pagination.After(entryCursor(matched[i]), cursor)
		})
		matched = matched[start:]
	}

	if limit <= 0 || len(matched) <= limit {
		return matched, nil, nil
	}
	page := matched[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(entryCursor(last))
	return page, &token, nil
}

func (s *Store) CountEntries(_ context.Context, companyID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.entries {
		if e.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func entryCursor(e domain.JournalEntry) pagination.Cursor {
	return pagination.Cursor{EntryDate: e.EntryDate, CreatedAt: e.CreatedAt, EntryID: e.EntryID}
}

// WithTx serializes journal transactions. Writes are staged on the transaction and
// applied under the data lock only when fn succeeds. Reads made by fn (including
// period and account lookups through the Store) stay available while it runs.
func (s *Store) WithTx(_ context.Context, fn func(txRepo portsrepo.JournalTxRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &journalTx{
		store:     s,
		entries:   make(map[string]*domain.JournalEntry),
		sequences: make(map[seqKey]int64),
	}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

type journalTx struct {
	store     *Store
	entries   map[string]*domain.JournalEntry // nil marks a deletion
	sequences map[seqKey]int64
	audit     []domain.AuditLog
}

func (t *journalTx) lookup(entryID string) (domain.JournalEntry, bool) {
	if staged, ok := t.entries[entryID]; ok {
		if staged == nil {
			return domain.JournalEntry{}, false
		}
		return copyEntry(*staged), true
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	e, ok := t.store.entries[entryID]
	if !ok {
		return domain.JournalEntry{}, false
	}
	return copyEntry(e), true
}

func (t *journalTx) stage(e domain.JournalEntry) {
	c := copyEntry(e)
	t.entries[e.EntryID] = &c
}

func (t *journalTx) NextEntryNumber(_ context.Context, companyID string, prefix domain.EntryPrefix) (int64, error) {
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

// LockAccounts reads through the store. Account writers wait on txMu, which the
// transaction holds, so the result stays valid until commit.
func (t *journalTx) LockAccounts(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	return t.store.FindAccountsByIDs(ctx, companyID, accountIDs)
}

func (t *journalTx) FindEntryForUpdate(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	e, ok := t.lookup(entryID)
	if !ok {
		return nil, apperrors.ErrEntryNotFound
	}
	return &e, nil
}

func (t *journalTx) SaveEntry(_ context.Context, entry domain.JournalEntry) error {
	if _, exists := t.lookup(entry.EntryID); exists {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.EntryID)
	}
	for i := range entry.Details {
		entry.Details[i].EntryID = entry.EntryID
	}
	t.stage(entry)
	return nil
}

func (t *journalTx) ReplaceDraft(_ context.Context, entry domain.JournalEntry) error {
	current, ok := t.lookup(entry.EntryID)
	if !ok {
		return apperrors.ErrEntryNotFound
	}
	if current.Status != domain.Draft {
		return apperrors.ErrInvalidStateTransition
	}
	current.EntryDate = entry.EntryDate
	current.Description = entry.Description
	current.Reference = entry.Reference
	current.TotalDebit = entry.TotalDebit
	current.TotalCredit = entry.TotalCredit
	current.LastUpdatedAt = entry.LastUpdatedAt
	current.LastUpdatedBy = entry.LastUpdatedBy
	current.Details = entry.Details
	for i := range current.Details {
		current.Details[i].EntryID = entry.EntryID
	}
	t.stage(current)
	return nil
}

func (t *journalTx) DeleteEntry(_ context.Context, entryID string) error {
	if _, ok := t.lookup(entryID); !ok {
		return apperrors.ErrEntryNotFound
	}
	t.entries[entryID] = nil
	return nil
}

func (t *journalTx) UpdateEntryStatus(_ context.Context, change portsrepo.EntryStatusChange) error {
	current, ok := t.lookup(change.EntryID)
	if !ok {
		return apperrors.ErrEntryNotFound
	}
	current.Status = change.Status
	if change.ApprovedBy != nil {
		current.ApprovedBy = change.ApprovedBy
	}
	if change.ApprovedAt != nil {
		current.ApprovedAt = change.ApprovedAt
	}
	if change.ReversedByID != nil {
		current.ReversedByID = change.ReversedByID
	}
	current.LastUpdatedBy = change.UpdatedBy
	current.LastUpdatedAt = change.UpdatedAt
	t.stage(current)
	return nil
}

func (t *journalTx) SaveAuditLog(_ context.Context, log domain.AuditLog) error {
	t.audit = append(t.audit, log)
	return nil
}

func (t *journalTx) commit() {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range t.entries {
		if e == nil {
			delete(s.entries, id)
			continue
		}
		s.entries[id] = *e
	}
	for k, v := range t.sequences {
		s.sequences[k] = v
	}
	s.auditLogs = append(s.auditLogs, t.audit...)
}

// --- Reporting ---

func (s *Store) ListPostedLines(_ context.Context, companyID string, filter domain.LedgerLineFilter) ([]domain.LedgerLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.LedgerLine, 0)
	for _, e := range s.entries {
		if e.CompanyID != companyID || (e.Status != domain.Approved && e.Status != domain.Reversed) {
			continue
		}
		if filter.FromDate != nil && e.EntryDate.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && e.EntryDate.After(*filter.ToDate) {
			continue
		}
		for _, d := range e.Details {
			if filter.AccountID != nil && d.AccountID != *filter.AccountID {
				continue
			}
			if filter.CodePrefix != nil && !domain.HasCodePrefix(s.accounts[d.AccountID].Code, *filter.CodePrefix) {
				continue
			}
			out = append(out, domain.LedgerLine{
				EntryID:         e.EntryID,
				EntryNumber:     e.EntryNumber,
				EntryDate:       e.EntryDate,
				EntryReference:  e.Reference,
				Description:     e.Description,
				LineNo:          d.LineNo,
				LineDescription: d.Description,
				AccountID:       d.AccountID,
				CostCenterID:    d.CostCenterID,
				Debit:           d.Debit,
				Credit:          d.Credit,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.Before(b.EntryDate)
		}
		if a.EntryNumber != b.EntryNumber {
			return strings.Compare(a.EntryNumber, b.EntryNumber) < 0
		}
		return a.LineNo < b.LineNo
	})
	return out, nil
}

func (s *Store) ListAuditLogs(_ context.Context, companyID string, filter domain.AuditLogFilter) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AuditLog, 0)
	for i := len(s.auditLogs) - 1; i >= 0; i-- {
		l := s.auditLogs[i]
		if l.CompanyID != companyID || !filter.Matches(l) {
			continue
		}
		out = append(out, l)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}
