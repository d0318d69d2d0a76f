package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portsrepo "github.com/SscSPs/contabilidad_ve/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/contabilidad_ve/internal/core/ports/services"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
	"github.com/google/uuid"
)

// periodService implements the PeriodSvcFacade interface
type periodService struct {
	BaseService
	periodRepo  portsrepo.PeriodRepositoryFacade
	journalRepo portsrepo.JournalRepositoryWithTx
}

// NewPeriodService creates a period service. journalRepo carries the audit trail.
func NewPeriodService(periodRepo portsrepo.PeriodRepositoryFacade, journalRepo portsrepo.JournalRepositoryWithTx, authorizer portssvc.CompanyAuthorizerSvc) portssvc.PeriodSvcFacade {
	svc := &periodService{periodRepo: periodRepo, journalRepo: journalRepo}
	svc.CompanyAuthorizer = authorizer
	return svc
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// EnsureDateOpen allows dates with no period record.
func (s *periodService) EnsureDateOpen(ctx context.Context, companyID string, date time.Time) error {
	period, err := s.periodRepo.FindPeriodForDate(ctx, companyID, domain.DateOnly(date))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		s.LogError(ctx, err, "Failed to look up period", slog.String("company_id", companyID))
		return err
	}
	if period.Status == domain.PeriodClosed {
		return fmt.Errorf("%w: %04d-%02d", apperrors.ErrPeriodClosed, period.Year, period.Month)
	}
	return nil
}

func (s *periodService) CreatePeriod(ctx context.Context, companyID string, req dto.CreatePeriodRequest, userID string) (*domain.AccountingPeriod, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapPeriodsManage); err != nil {
		return nil, err
	}
	if req.Month < 1 || req.Month > 12 || req.Year < 1900 {
		return nil, fmt.Errorf("%w: invalid period %d-%d", apperrors.ErrValidation, req.Year, req.Month)
	}
	start, end := domain.MonthBounds(req.Year, req.Month)
	now := time.Now().UTC()
	period := domain.AccountingPeriod{
		PeriodID:  uuid.NewString(),
		CompanyID: companyID,
		Year:      req.Year,
		Month:     req.Month,
		StartDate: start,
		EndDate:   end,
		Status:    domain.PeriodOpen,
		AuditFields: domain.AuditFields{
			CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID,
		},
	}
	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save period", slog.String("company_id", companyID))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Accounting period created",
		slog.String("period_id", period.PeriodID),
		slog.Int("year", req.Year),
		slog.Int("month", req.Month))
	return &period, nil
}

func (s *periodService) ListPeriods(ctx context.Context, companyID, userID string) ([]domain.AccountingPeriod, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapJournalRead); err != nil {
		return nil, err
	}
	periods, err := s.periodRepo.ListPeriods(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list periods", slog.String("company_id", companyID))
		return nil, err
	}
	if periods == nil {
		periods = []domain.AccountingPeriod{}
	}
	return periods, nil
}

func (s *periodService) ClosePeriod(ctx context.Context, companyID, periodID, userID string) (*domain.AccountingPeriod, error) {
	return s.setStatus(ctx, companyID, periodID, userID, domain.PeriodClosed, domain.AuditPeriodClose)
}

func (s *periodService) ReopenPeriod(ctx context.Context, companyID, periodID, userID string) (*domain.AccountingPeriod, error) {
	return s.setStatus(ctx, companyID, periodID, userID, domain.PeriodOpen, domain.AuditPeriodOpen)
}

func (s *periodService) setStatus(ctx context.Context, companyID, periodID, userID string, status domain.PeriodStatus, action domain.AuditAction) (*domain.AccountingPeriod, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapPeriodsManage); err != nil {
		return nil, err
	}
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.CompanyID != companyID {
		return nil, apperrors.NewNotFoundError("period " + periodID)
	}
	if period.Status == status {
		return nil, fmt.Errorf("%w: period is already %s", apperrors.ErrConflict, status)
	}

	now := time.Now().UTC()
	if err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, status, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to update period status", slog.String("period_id", periodID))
		return nil, err
	}
	period.Status = status
	period.LastUpdatedAt = now
	period.LastUpdatedBy = userID

	if s.journalRepo != nil {
		log := domain.AuditLog{
			AuditLogID: uuid.NewString(),
			CompanyID:  companyID,
			UserID:     userID,
			Action:     action,
			EntityType: "PERIOD",
			EntityID:   periodID,
			Details:    fmt.Sprintf("%04d-%02d", period.Year, period.Month),
			CreatedAt:  now,
		}
		if err := s.journalRepo.WithTx(ctx, func(tx portsrepo.JournalTxRepository) error {
			return tx.SaveAuditLog(ctx, log)
		}); err != nil {
			s.LogError(ctx, err, "Failed to write period audit log", slog.String("period_id", periodID))
		}
	}

	s.LogInfo(ctx, "Accounting period status changed",
		slog.String("period_id", periodID),
		slog.String("status", string(status)))
	return period, nil
}
