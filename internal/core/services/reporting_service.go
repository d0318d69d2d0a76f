package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	"github.com/SscSPs/contabilidad_ve/internal/core/ledger"
	portsrepo "github.com/SscSPs/contabilidad_ve/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/contabilidad_ve/internal/core/ports/services"
)

// maxAuditTrail caps the audit records returned by one request.
const maxAuditTrail = 1000

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepositoryFacade
	accountRepo   portsrepo.AccountReader
	cashPrefix    string
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingAuthorizer sets the company authorizer for the reporting service.
func WithReportingAuthorizer(authorizer portssvc.CompanyAuthorizerSvc) ReportingServiceOption {
	return func(s *reportingService) {
		s.CompanyAuthorizer = authorizer
	}
}

// WithCashPrefix sets the chart code under which cash and equivalents live.
func WithCashPrefix(prefix string) ReportingServiceOption {
	return func(s *reportingService) {
		if prefix != "" {
			s.cashPrefix = prefix
		}
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepositoryFacade, accountRepo portsrepo.AccountReader, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
		accountRepo:   accountRepo,
		cashPrefix:    ledger.DefaultCashPrefix,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// load authorizes the caller and fetches the chart plus the posted lines matching filter.
func (s *reportingService) load(ctx context.Context, companyID, userID string, filter domain.LedgerLineFilter) ([]domain.Account, []domain.LedgerLine, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapReportsRead); err != nil {
		return nil, nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load chart of accounts", slog.String("company_id", companyID))
		return nil, nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	lines, err := s.reportingRepo.ListPostedLines(ctx, companyID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to load posted lines", slog.String("company_id", companyID))
		return nil, nil, fmt.Errorf("failed to load posted lines: %w", err)
	}
	return accounts, lines, nil
}

func checkRange(from, to time.Time) error {
	if to.Before(from) {
		return fmt.Errorf("%w: toDate %s is before fromDate %s", apperrors.ErrValidation,
			to.Format(dateLayout), from.Format(dateLayout))
	}
	return nil
}

// TrialBalance generates a trial balance report as of a specific date
func (s *reportingService) TrialBalance(ctx context.Context, companyID string, asOf time.Time, userID string) (*domain.TrialBalance, error) {
	asOf = domain.DateOnly(asOf)
	accounts, lines, err := s.load(ctx, companyID, userID, domain.LedgerLineFilter{ToDate: &asOf})
	if err != nil {
		return nil, err
	}
	report := ledger.TrialBalance(accounts, lines, asOf)
	s.LogInfo(ctx, "Trial balance report generated",
		slog.String("company_id", companyID),
		slog.String("as_of", asOf.Format(dateLayout)),
		slog.Int("row_count", len(report.Rows)))
	return &report, nil
}

// BalanceSheet generates a balance sheet as of a specific date
func (s *reportingService) BalanceSheet(ctx context.Context, companyID string, asOf time.Time, userID string) (*domain.BalanceSheetReport, error) {
	asOf = domain.DateOnly(asOf)
	accounts, lines, err := s.load(ctx, companyID, userID, domain.LedgerLineFilter{ToDate: &asOf})
	if err != nil {
		return nil, err
	}
	report := ledger.BalanceSheet(accounts, lines, asOf)
	if !report.IsBalanced {
		s.GetLogger(ctx).Warn("Balance sheet does not balance",
			slog.String("company_id", companyID),
			slog.String("total_assets", report.TotalAssets.String()),
			slog.String("total_liabilities", report.TotalLiabilities.String()),
			slog.String("total_equity", report.TotalEquity.String()))
	}
	return &report, nil
}

// IncomeStatement generates an income statement for an inclusive date range
func (s *reportingService) IncomeStatement(ctx context.Context, companyID string, from, to time.Time, userID string) (*domain.IncomeStatementReport, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	accounts, lines, err := s.load(ctx, companyID, userID, domain.LedgerLineFilter{FromDate: &from, ToDate: &to})
	if err != nil {
		return nil, err
	}
	report := ledger.IncomeStatement(accounts, lines, from, to)
	return &report, nil
}

// GeneralLedger lists posted lines in range, optionally for one account
func (s *reportingService) GeneralLedger(ctx context.Context, companyID string, accountID *string, from, to time.Time, userID string) (*domain.GeneralLedgerReport, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	accounts, lines, err := s.load(ctx, companyID, userID, domain.LedgerLineFilter{FromDate: &from, ToDate: &to, AccountID: accountID})
	if err != nil {
		return nil, err
	}
	report := ledger.GeneralLedger(accounts, lines, accountID, from, to)
	return &report, nil
}

// CashFlow lists movements on cash and equivalent accounts
func (s *reportingService) CashFlow(ctx context.Context, companyID string, from, to time.Time, userID string) (*domain.CashFlowReport, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	prefix := s.cashPrefix
	accounts, lines, err := s.load(ctx, companyID, userID, domain.LedgerLineFilter{FromDate: &from, ToDate: &to, CodePrefix: &prefix})
	if err != nil {
		return nil, err
	}
	report := ledger.CashFlow(accounts, lines, prefix, from, to)
	return &report, nil
}

// AuditTrail lists the most recent audit records
func (s *reportingService) AuditTrail(ctx context.Context, companyID string, filter domain.AuditLogFilter, userID string) ([]domain.AuditLog, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapReportsRead); err != nil {
		return nil, err
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: toDate is before fromDate", apperrors.ErrValidation)
	}
	if filter.Limit <= 0 || filter.Limit > maxAuditTrail {
		filter.Limit = maxAuditTrail
	}
	logs, err := s.reportingRepo.ListAuditLogs(ctx, companyID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to load audit trail", slog.String("company_id", companyID))
		return nil, err
	}
	if logs == nil {
		logs = []domain.AuditLog{}
	}
	return logs, nil
}
