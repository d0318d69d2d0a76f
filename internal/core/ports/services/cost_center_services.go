package services

import (
	"context"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
)

// CostCenterSvcFacade manages cost centers
type CostCenterSvcFacade interface {
	CreateCostCenter(ctx context.Context, companyID string, req dto.CreateCostCenterRequest, userID string) (*domain.CostCenter, error)
	ListCostCenters(ctx context.Context, companyID, userID string) ([]domain.CostCenter, error)
}
