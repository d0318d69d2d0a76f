package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portssvc "github.com/SscSPs/contabilidad_ve/internal/core/ports/services"
	"github.com/SscSPs/contabilidad_ve/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	CompanyAuthorizer portssvc.CompanyAuthorizerSvc
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// AuthorizeUser checks that a user holds a capability in a company.
// Without an authorizer every request is refused.
func (s *BaseService) AuthorizeUser(ctx context.Context, userID, companyID string, required domain.Capability) error {
	if s.CompanyAuthorizer == nil {
		s.LogError(ctx, apperrors.ErrForbidden, "No company authorizer configured",
			slog.String("user_id", userID),
			slog.String("company_id", companyID))
		return fmt.Errorf("%w: authorization unavailable", apperrors.ErrForbidden)
	}
	if err := s.CompanyAuthorizer.AuthorizeUserAction(ctx, userID, companyID, required); err != nil {
		s.GetLogger(ctx).Warn("Authorization failed",
			slog.String("user_id", userID),
			slog.String("company_id", companyID),
			slog.String("capability", required.String()),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}
