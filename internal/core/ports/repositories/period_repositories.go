package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
)

// PeriodRepositoryFacade stores accounting periods.
type PeriodRepositoryFacade interface {
	SavePeriod(ctx context.Context, period domain.AccountingPeriod) error
	FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)
	// FindPeriodForDate returns the period containing date, or ErrNotFound when none is defined.
	FindPeriodForDate(ctx context.Context, companyID string, date time.Time) (*domain.AccountingPeriod, error)
	ListPeriods(ctx context.Context, companyID string) ([]domain.AccountingPeriod, error)
	UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, userID string, at time.Time) error
}
