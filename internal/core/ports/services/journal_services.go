package services

import (
	"context"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	// GetEntry retrieves an entry with its details.
	GetEntry(ctx context.Context, companyID, entryID, userID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of entry headers, newest first.
	ListEntries(ctx context.Context, companyID, userID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc defines the journal engine transitions
type JournalWriterSvc interface {
	// CreateEntry validates, numbers and stores a new DRAFT entry.
	CreateEntry(ctx context.Context, companyID string, req dto.JournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// UpdateDraftEntry replaces the content of a DRAFT entry, keeping its number.
	UpdateDraftEntry(ctx context.Context, companyID, entryID string, req dto.JournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// DeleteDraftEntry removes a DRAFT entry.
	DeleteDraftEntry(ctx context.Context, companyID, entryID, userID string) error

	// ApproveEntry moves a DRAFT entry to APPROVED.
	ApproveEntry(ctx context.Context, companyID, entryID, userID string) (*domain.JournalEntry, error)

	// ReverseEntry marks an APPROVED entry REVERSED and returns the new mirror entry.
	ReverseEntry(ctx context.Context, companyID, entryID, reason, userID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
