package services

import (
	"context"
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
)

// ReportingService defines the ledger aggregation reports
type ReportingService interface {
	// TrialBalance lists leaf account balances as of a date.
	TrialBalance(ctx context.Context, companyID string, asOf time.Time, userID string) (*domain.TrialBalance, error)

	// BalanceSheet groups asset, liability and equity balances as of a date.
	BalanceSheet(ctx context.Context, companyID string, asOf time.Time, userID string) (*domain.BalanceSheetReport, error)

	// IncomeStatement reports revenues and expenses in an inclusive date range.
	IncomeStatement(ctx context.Context, companyID string, from, to time.Time, userID string) (*domain.IncomeStatementReport, error)

	// GeneralLedger lists posted lines in a range, optionally for one account.
	GeneralLedger(ctx context.Context, companyID string, accountID *string, from, to time.Time, userID string) (*domain.GeneralLedgerReport, error)

	// CashFlow lists movements on cash and equivalent accounts.
	CashFlow(ctx context.Context, companyID string, from, to time.Time, userID string) (*domain.CashFlowReport, error)

	// AuditTrail lists recent audit records.
	AuditTrail(ctx context.Context, companyID string, filter domain.AuditLogFilter, userID string) ([]domain.AuditLog, error)
}
