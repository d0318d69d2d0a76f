package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindEntryByID retrieves an entry with its detail lines in line order.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves entry headers of a company newest first using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, companyID string, filter domain.JournalEntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// CountEntries counts the entries of a company in any status.
	CountEntries(ctx context.Context, companyID string) (int, error)
}

// EntryStatusChange describes a status transition persisted on an entry header.
type EntryStatusChange struct {
	EntryID      string
	Status       domain.JournalStatus
	ApprovedBy   *string
	ApprovedAt   *time.Time
	ReversedByID *string
	UpdatedBy    string
	UpdatedAt    time.Time
}

// JournalTxRepository holds the operations that must run inside one transaction.
type JournalTxRepository interface {
	// NextEntryNumber advances and returns the counter for (company, prefix).
	// Concurrent callers for the same pair are serialized until the transaction ends.
	NextEntryNumber(ctx context.Context, companyID string, prefix domain.EntryPrefix) (int64, error)

	// LockAccounts loads the accounts of a company matching accountIDs and keeps them
	// from changing until the transaction ends. Missing ids are absent from the map.
	LockAccounts(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// FindEntryForUpdate loads an entry with its details and locks its header row.
	FindEntryForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// SaveEntry inserts an entry header and all of its details.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// ReplaceDraft rewrites the header fields and details of a draft entry.
	ReplaceDraft(ctx context.Context, entry domain.JournalEntry) error

	// DeleteEntry physically removes an entry and its details.
	DeleteEntry(ctx context.Context, entryID string) error

	// UpdateEntryStatus applies a status transition.
	UpdateEntryStatus(ctx context.Context, change EntryStatusChange) error

	// SaveAuditLog appends an audit record.
	SaveAuditLog(ctx context.Context, log domain.AuditLog) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TxScope[JournalTxRepository]
}
