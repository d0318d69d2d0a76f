package services

import (
	portsrepo "github.com/SscSPs/contabilidad_ve/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/contabilidad_ve/internal/core/ports/services"
	"github.com/SscSPs/contabilidad_ve/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The company service authorizes every other service, so it comes first.
	container.Company = NewCompanyService(
		repos.CompanyRepo,
		repos.AccountRepo,
		repos.CostCenterRepo,
		repos.UserRepo,
		WithCompanyStats(repos.JournalRepo, repos.InvoiceRepo, repos.PeriodRepo),
	)
	authorizer := container.Company.(portssvc.CompanyAuthorizerSvc)

	container.Period = NewPeriodService(repos.PeriodRepo, repos.JournalRepo, authorizer)

	container.Account = NewAccountService(
		repos.AccountRepo,
		WithAccountAuthorizer(authorizer),
		WithAccountLedger(repos.ReportingRepo),
		WithAccountAudit(repos.JournalRepo),
	)
	container.CostCenter = NewCostCenterService(repos.CostCenterRepo, authorizer)
	container.Journal = NewJournalService(
		repos.JournalRepo,
		repos.CostCenterRepo,
		authorizer,
		WithPeriodGuard(container.Period),
	)
	container.Invoice = NewInvoiceService(repos.InvoiceRepo, authorizer)
	container.Reporting = NewReportingService(
		repos.ReportingRepo,
		repos.AccountRepo,
		WithReportingAuthorizer(authorizer),
		WithCashPrefix(cfg.CashAccountPrefix),
	)
	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg)

	return container
}
