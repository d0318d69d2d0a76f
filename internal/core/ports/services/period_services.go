package services

import (
	"context"
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
)

// PeriodGuardSvc decides whether a date may receive postings.
type PeriodGuardSvc interface {
	// EnsureDateOpen returns ErrPeriodClosed when date falls in a closed period.
	EnsureDateOpen(ctx context.Context, companyID string, date time.Time) error
}

// PeriodSvcFacade manages accounting periods
type PeriodSvcFacade interface {
	PeriodGuardSvc
	CreatePeriod(ctx context.Context, companyID string, req dto.CreatePeriodRequest, userID string) (*domain.AccountingPeriod, error)
	ListPeriods(ctx context.Context, companyID, userID string) ([]domain.AccountingPeriod, error)
	ClosePeriod(ctx context.Context, companyID, periodID, userID string) (*domain.AccountingPeriod, error)
	ReopenPeriod(ctx context.Context, companyID, periodID, userID string) (*domain.AccountingPeriod, error)
}
