package services

import (
	"context"
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts
type AccountReaderSvc interface {
	GetAccountByID(ctx context.Context, companyID, accountID, userID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, companyID, userID string) ([]domain.Account, error)
	// GetAccountTree builds the hierarchy from the flat chart.
	GetAccountTree(ctx context.Context, companyID, userID string) ([]*domain.AccountNode, error)
	// GetAccountBalance sums the posted lines of one account in an optional window.
	GetAccountBalance(ctx context.Context, companyID, accountID string, from, to *time.Time, userID string) (*domain.AccountBalance, error)
}

// AccountWriterSvc defines write operations for the chart of accounts
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, companyID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
