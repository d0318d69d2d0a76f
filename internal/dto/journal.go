package dto

import (
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalDetailRequest is one line of a journal entry request.
// Either side may be omitted; omitted amounts count as zero.
type JournalDetailRequest struct {
	AccountID    string           `json:"accountID" binding:"required"`
	CostCenterID *string          `json:"costCenterID"`
	Description  *string          `json:"description" binding:"omitempty,max=500"`
	Debit        *decimal.Decimal `json:"debit"`
	Credit       *decimal.Decimal `json:"credit"`
}

// DebitAmount returns the debit amount or zero.
func (r JournalDetailRequest) DebitAmount() decimal.Decimal {
	if r.Debit == nil {
		return decimal.Zero
	}
	return *r.Debit
}

// CreditAmount returns the credit amount or zero.
func (r JournalDetailRequest) CreditAmount() decimal.Decimal {
	if r.Credit == nil {
		return decimal.Zero
	}
	return *r.Credit
}

// JournalEntryRequest carries the content of a new or updated draft entry.
type JournalEntryRequest struct {
	EntryDate   string                 `json:"entryDate" binding:"required,datetime=2006-01-02"`
	Description string                 `json:"description" binding:"required,max=1000"`
	Reference   *string                `json:"reference" binding:"omitempty,max=100"`
	Details     []JournalDetailRequest `json:"details" binding:"required,dive"`
}

// ReverseJournalEntryRequest defines the payload of a reversal.
type ReverseJournalEntryRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	Status    *domain.JournalStatus `form:"status" binding:"omitempty,oneof=DRAFT APPROVED REVERSED"`
	FromDate  *string               `form:"fromDate" binding:"omitempty,datetime=2006-01-02"`
	ToDate    *string               `form:"toDate" binding:"omitempty,datetime=2006-01-02"`
	Limit     int                   `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string               `form:"nextToken"`
}

// JournalDetailResponse defines the data returned for a detail line.
type JournalDetailResponse struct {
	DetailID     string          `json:"detailID"`
	LineNo       int             `json:"lineNo"`
	AccountID    string          `json:"accountID"`
	CostCenterID *string         `json:"costCenterID,omitempty"`
	Description  *string         `json:"description,omitempty"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID       string                  `json:"entryID"`
	EntryNumber   string                  `json:"entryNumber"`
	EntryDate     string                  `json:"entryDate"`
	Description   string                  `json:"description"`
	Reference     *string                 `json:"reference,omitempty"`
	Status        domain.JournalStatus    `json:"status"`
	TotalDebit    decimal.Decimal         `json:"totalDebit"`
	TotalCredit   decimal.Decimal         `json:"totalCredit"`
	ApprovedBy    *string                 `json:"approvedBy,omitempty"`
	ApprovedAt    *time.Time              `json:"approvedAt,omitempty"`
	ReversalOfID  *string                 `json:"reversalOfID,omitempty"`
	ReversedByID  *string                 `json:"reversedByID,omitempty"`
	Details       []JournalDetailResponse `json:"details,omitempty"`
	CreatedAt     time.Time               `json:"createdAt"`
	CreatedBy     string                  `json:"createdBy"`
	LastUpdatedAt time.Time               `json:"lastUpdatedAt"`
	LastUpdatedBy string                  `json:"lastUpdatedBy"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:       e.EntryID,
		EntryNumber:   e.EntryNumber,
		EntryDate:     e.EntryDate.Format("2006-01-02"),
		Description:   e.Description,
		Reference:     e.Reference,
		Status:        e.Status,
		TotalDebit:    e.TotalDebit,
		TotalCredit:   e.TotalCredit,
		ApprovedBy:    e.ApprovedBy,
		ApprovedAt:    e.ApprovedAt,
		ReversalOfID:  e.ReversalOfID,
		ReversedByID:  e.ReversedByID,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
		LastUpdatedAt: e.LastUpdatedAt,
		LastUpdatedBy: e.LastUpdatedBy,
	}
	if len(e.Details) > 0 {
		resp.Details = make([]JournalDetailResponse, len(e.Details))
		for i, d := range e.Details {
			resp.Details[i] = JournalDetailResponse{
				DetailID:     d.DetailID,
				LineNo:       d.LineNo,
				AccountID:    d.AccountID,
				CostCenterID: d.CostCenterID,
				Description:  d.Description,
				Debit:        d.Debit,
				Credit:       d.Credit,
			}
		}
	}
	return resp
}

// ListJournalEntriesResponse wraps a page of journal entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToListJournalEntriesResponse converts a page of entries to its DTO.
func ToListJournalEntriesResponse(entries []domain.JournalEntry, nextToken *string) ListJournalEntriesResponse {
	list := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		list[i] = ToJournalEntryResponse(&entries[i])
	}
	return ListJournalEntriesResponse{Entries: list, NextToken: nextToken}
}
