package repositories

import (
	"context"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
)

// CostCenterRepositoryFacade stores cost centers.
type CostCenterRepositoryFacade interface {
	SaveCostCenter(ctx context.Context, cc domain.CostCenter) error
	SaveCostCenters(ctx context.Context, ccs []domain.CostCenter) error
	ListCostCenters(ctx context.Context, companyID string) ([]domain.CostCenter, error)
	FindCostCentersByIDs(ctx context.Context, companyID string, ids []string) (map[string]domain.CostCenter, error)
}
