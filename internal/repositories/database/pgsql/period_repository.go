package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portsrepo "github.com/SscSPs/contabilidad_ve/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPeriodRepository struct {
	BaseRepository
}

func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

const fullPeriodSelectQuery = `
SELECT period_id, company_id, year, month, start_date, end_date, status,
	created_at, created_by, last_updated_at, last_updated_by
FROM accounting_periods
`

func scanPeriod(row pgx.CollectableRow) (domain.AccountingPeriod, error) {
	var p domain.AccountingPeriod
	err := row.Scan(&p.PeriodID, &p.CompanyID, &p.Year, &p.Month, &p.StartDate, &p.EndDate, &p.Status,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy)
	p.StartDate = domain.DateOnly(p.StartDate)
	p.EndDate = domain.DateOnly(p.EndDate)
	return p, err
}

func (r *PgxPeriodRepository) getPeriods(ctx context.Context, filter string, args ...any) ([]domain.AccountingPeriod, error) {
	rows, err := r.Pool.Query(ctx, fullPeriodSelectQuery+filter, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query periods", err)
	}
	out, err := pgx.CollectRows(rows, scanPeriod)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan periods", err)
	}
	return out, nil
}

func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, p domain.AccountingPeriod) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO accounting_periods (period_id, company_id, year, month, start_date, end_date, status,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
		p.PeriodID, p.CompanyID, p.Year, p.Month, p.StartDate, p.EndDate, string(p.Status),
		p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "accounting period")
	}
	return nil
}

func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	periods, err := r.getPeriods(ctx, `WHERE period_id = $1`, periodID)
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, apperrors.NewNotFoundError("period " + periodID)
	}
	return &periods[0], nil
}

func (r *PgxPeriodRepository) FindPeriodForDate(ctx context.Context, companyID string, date time.Time) (*domain.AccountingPeriod, error) {
	periods, err := r.getPeriods(ctx, `WHERE company_id = $1 AND $2::date BETWEEN start_date AND end_date`, companyID, domain.DateOnly(date))
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, apperrors.NewNotFoundError("period for " + date.Format("2006-01-02"))
	}
	return &periods[0], nil
}

func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, companyID string) ([]domain.AccountingPeriod, error) {
	return r.getPeriods(ctx, `WHERE company_id = $1 ORDER BY start_date DESC`, companyID)
}

func (r *PgxPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, userID string, at time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE accounting_periods SET status = $2, last_updated_by = $3, last_updated_at = $4
		WHERE period_id = $1;`, periodID, string(status), userID, at)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update period "+periodID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("period " + periodID)
	}
	return nil
}
