package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portsrepo "github.com/SscSPs/contabilidad_ve/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/contabilidad_ve/internal/core/ports/services"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
	"github.com/google/uuid"
)

type costCenterService struct {
	BaseService
	repo portsrepo.CostCenterRepositoryFacade
}

// NewCostCenterService creates a cost center service.
func NewCostCenterService(repo portsrepo.CostCenterRepositoryFacade, authorizer portssvc.CompanyAuthorizerSvc) portssvc.CostCenterSvcFacade {
	svc := &costCenterService{repo: repo}
	svc.CompanyAuthorizer = authorizer
	return svc
}

var _ portssvc.CostCenterSvcFacade = (*costCenterService)(nil)

func (s *costCenterService) CreateCostCenter(ctx context.Context, companyID string, req dto.CreateCostCenterRequest, userID string) (*domain.CostCenter, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapAccountsWrite); err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: code and name are required", apperrors.ErrValidation)
	}
	now := time.Now().UTC()
	cc := domain.CostCenter{
		CostCenterID: uuid.NewString(),
		CompanyID:    companyID,
		Code:         code,
		Name:         name,
		IsActive:     true,
		AuditFields:  domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID},
	}
	if err := s.repo.SaveCostCenter(ctx, cc); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save cost center", slog.String("code", code))
		}
		return nil, err
	}
	return &cc, nil
}

func (s *costCenterService) ListCostCenters(ctx context.Context, companyID, userID string) ([]domain.CostCenter, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapAccountsRead); err != nil {
		return nil, err
	}
	ccs, err := s.repo.ListCostCenters(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cost centers", slog.String("company_id", companyID))
		return nil, err
	}
	if ccs == nil {
		ccs = []domain.CostCenter{}
	}
	return ccs, nil
}
