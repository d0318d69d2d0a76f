package repositories

import (
	"context"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
)

// ReportingRepositoryFacade loads the raw material of financial reports.
type ReportingRepositoryFacade interface {
	// ListPostedLines returns the detail lines of every entry of the company that has
	// been approved (including approved entries later reversed), narrowed by filter.
	ListPostedLines(ctx context.Context, companyID string, filter domain.LedgerLineFilter) ([]domain.LedgerLine, error)

	// ListAuditLogs returns audit records newest first.
	ListAuditLogs(ctx context.Context, companyID string, filter domain.AuditLogFilter) ([]domain.AuditLog, error)
}
