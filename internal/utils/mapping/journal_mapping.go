package mapping

import (
	"database/sql"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	"github.com/SscSPs/contabilidad_ve/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	m := models.JournalEntry{
		EntryID:      d.EntryID,
		CompanyID:    d.CompanyID,
		EntryNumber:  d.EntryNumber,
		EntryDate:    d.EntryDate,
		Description:  d.Description,
		Reference:    NullString(d.Reference),
		Status:       string(d.Status),
		ApprovedBy:   NullString(d.ApprovedBy),
		TotalDebit:   d.TotalDebit,
		TotalCredit:  d.TotalCredit,
		ReversalOfID: NullString(d.ReversalOfID),
		ReversedByID: NullString(d.ReversedByID),
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
	if d.ApprovedAt != nil {
		m.ApprovedAt = sql.NullTime{Time: *d.ApprovedAt, Valid: true}
	}
	return m
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry without details
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	d := domain.JournalEntry{
		EntryID:      m.EntryID,
		CompanyID:    m.CompanyID,
		EntryNumber:  m.EntryNumber,
		EntryDate:    domain.DateOnly(m.EntryDate),
		Description:  m.Description,
		Reference:    StringPtr(m.Reference),
		Status:       domain.JournalStatus(m.Status),
		ApprovedBy:   StringPtr(m.ApprovedBy),
		TotalDebit:   m.TotalDebit,
		TotalCredit:  m.TotalCredit,
		ReversalOfID: StringPtr(m.ReversalOfID),
		ReversedByID: StringPtr(m.ReversedByID),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
	if m.ApprovedAt.Valid {
		t := m.ApprovedAt.Time
		d.ApprovedAt = &t
	}
	return d
}

// ToModelJournalEntryDetail converts a domain detail line to a model detail line
func ToModelJournalEntryDetail(d domain.JournalEntryDetail) models.JournalEntryDetail {
	return models.JournalEntryDetail{
		DetailID:     d.DetailID,
		EntryID:      d.EntryID,
		LineNo:       d.LineNo,
		AccountID:    d.AccountID,
		CostCenterID: NullString(d.CostCenterID),
		Description:  NullString(d.Description),
		Debit:        d.Debit,
		Credit:       d.Credit,
	}
}

// ToDomainJournalEntryDetail converts a model detail line to a domain detail line
func ToDomainJournalEntryDetail(m models.JournalEntryDetail) domain.JournalEntryDetail {
	return domain.JournalEntryDetail{
		DetailID:     m.DetailID,
		EntryID:      m.EntryID,
		LineNo:       m.LineNo,
		AccountID:    m.AccountID,
		CostCenterID: StringPtr(m.CostCenterID),
		Description:  StringPtr(m.Description),
		Debit:        m.Debit,
		Credit:       m.Credit,
	}
}
