package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo    AccountRepositoryFacade
	CompanyRepo    CompanyRepositoryFacade
	CostCenterRepo CostCenterRepositoryFacade
	InvoiceRepo    InvoiceRepositoryWithTx
	JournalRepo    JournalRepositoryWithTx
	PeriodRepo     PeriodRepositoryFacade
	ReportingRepo  ReportingRepositoryFacade
	UserRepo       UserRepositoryFacade
}
