package pgsql

import (
	portsrepo "github.com/SscSPs/contabilidad_ve/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:    newPgxAccountRepository(dbPool),
		CompanyRepo:    newPgxCompanyRepository(dbPool),
		CostCenterRepo: newPgxCostCenterRepository(dbPool),
		InvoiceRepo:    newPgxInvoiceRepository(dbPool),
		JournalRepo:    newPgxJournalRepository(dbPool),
		PeriodRepo:     newPgxPeriodRepository(dbPool),
		ReportingRepo:  newPgxReportingRepository(dbPool),
		UserRepo:       newPgxUserRepository(dbPool),
	}
}
