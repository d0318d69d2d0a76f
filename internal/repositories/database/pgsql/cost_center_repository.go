package pgsql

import (
	"context"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portsrepo "github.com/SscSPs/contabilidad_ve/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCostCenterRepository struct {
	BaseRepository
}

func newPgxCostCenterRepository(pool *pgxpool.Pool) portsrepo.CostCenterRepositoryFacade {
	return &PgxCostCenterRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CostCenterRepositoryFacade = (*PgxCostCenterRepository)(nil)

const insertCostCenterQuery = `
INSERT INTO cost_centers (cost_center_id, company_id, code, name, is_active, created_at, created_by, last_updated_at, last_updated_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

func costCenterArgs(cc domain.CostCenter) []any {
	return []any{cc.CostCenterID, cc.CompanyID, cc.Code, cc.Name, cc.IsActive, cc.CreatedAt, cc.CreatedBy, cc.LastUpdatedAt, cc.LastUpdatedBy}
}

func (r *PgxCostCenterRepository) SaveCostCenter(ctx context.Context, cc domain.CostCenter) error {
	if _, err := r.Pool.Exec(ctx, insertCostCenterQuery, costCenterArgs(cc)...); err != nil {
		return mapWriteError(err, "cost center "+cc.Code)
	}
	return nil
}

func (r *PgxCostCenterRepository) SaveCostCenters(ctx context.Context, ccs []domain.CostCenter) error {
	if len(ccs) == 0 {
		return nil
	}
	return r.inTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, cc := range ccs {
			batch.Queue(insertCostCenterQuery, costCenterArgs(cc)...)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return mapWriteError(err, "cost centers")
		}
		return nil
	})
}

func (r *PgxCostCenterRepository) query(ctx context.Context, filter string, args ...any) ([]domain.CostCenter, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT cost_center_id, company_id, code, name, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM cost_centers `+filter, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query cost centers", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CostCenter, error) {
		var cc domain.CostCenter
		err := row.Scan(&cc.CostCenterID, &cc.CompanyID, &cc.Code, &cc.Name, &cc.IsActive,
			&cc.CreatedAt, &cc.CreatedBy, &cc.LastUpdatedAt, &cc.LastUpdatedBy)
		return cc, err
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan cost centers", err)
	}
	return out, nil
}

func (r *PgxCostCenterRepository) ListCostCenters(ctx context.Context, companyID string) ([]domain.CostCenter, error) {
	return r.query(ctx, `WHERE company_id = $1 ORDER BY code`, companyID)
}

func (r *PgxCostCenterRepository) FindCostCentersByIDs(ctx context.Context, companyID string, ids []string) (map[string]domain.CostCenter, error) {
	out := make(map[string]domain.CostCenter, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ccs, err := r.query(ctx, `WHERE company_id = $1 AND cost_center_id = ANY($2)`, companyID, ids)
	if err != nil {
		return nil, err
	}
	for _, cc := range ccs {
		out[cc.CostCenterID] = cc
	}
	return out, nil
}
