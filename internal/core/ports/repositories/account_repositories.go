package repositories

import (
	"context"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its chart code within a company.
	FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves the accounts of a company matching the given ids.
	// Ids that do not exist or belong to another company are absent from the map.
	FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves the whole chart of a company ordered by code.
	ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error)

	// HasPostings reports whether any journal line references the account.
	HasPostings(ctx context.Context, accountID string) (bool, error)

	// HasChildren reports whether any account names accountID as parent.
	HasChildren(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. When the account has a parent, the parent is
	// locked, re-checked for postings and made non-postable in the same transaction.
	SaveAccount(ctx context.Context, account domain.Account) error

	// SaveAccounts bulk-inserts a prepared chart in one transaction.
	SaveAccounts(ctx context.Context, accounts []domain.Account) error

	// UpdateAccount updates the mutable fields (name, flags, audit) of an account.
	// Closing an account to entries fails with ErrConflict once journal lines reference it.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
