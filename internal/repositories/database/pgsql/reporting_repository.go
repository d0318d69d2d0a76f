package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portsrepo "github.com/SscSPs/contabilidad_ve/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReportingRepository struct {
	BaseRepository
}

func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepositoryFacade {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepositoryFacade = (*PgxReportingRepository)(nil)

// ListPostedLines loads the detail lines of approved and reversed entries.
func (r *PgxReportingRepository) ListPostedLines(ctx context.Context, companyID string, filter domain.LedgerLineFilter) ([]domain.LedgerLine, error) {
	conds := []string{"e.company_id = $1", "e.status IN ('APPROVED', 'REVERSED')"}
	args := []any{companyID}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		conds = append(conds, fmt.Sprintf("e.entry_date >= $%d", len(args)))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		conds = append(conds, fmt.Sprintf("e.entry_date <= $%d", len(args)))
	}
	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		conds = append(conds, fmt.Sprintf("d.account_id = $%d", len(args)))
	}
	if filter.CodePrefix != nil {
		args = append(args, *filter.CodePrefix)
		n := len(args)
		conds = append(conds, fmt.Sprintf("(a.code = $%d OR a.code LIKE $%d || '.%%')", n, n))
	}

	query := `
		SELECT e.entry_id, e.entry_number, e.entry_date, e.reference, e.description,
			d.line_no, d.description, d.account_id, d.cost_center_id, d.debit, d.credit
		FROM journal_entry_details d
		JOIN journal_entries e ON e.entry_id = d.entry_id
		JOIN accounts a ON a.account_id = d.account_id
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY e.entry_date, e.entry_number, d.line_no;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger lines", err)
	}
	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.LedgerLine, error) {
		var l domain.LedgerLine
		err := row.Scan(&l.EntryID, &l.EntryNumber, &l.EntryDate, &l.EntryReference, &l.Description,
			&l.LineNo, &l.LineDescription, &l.AccountID, &l.CostCenterID, &l.Debit, &l.Credit)
		l.EntryDate = domain.DateOnly(l.EntryDate)
		return l, err
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan ledger lines", err)
	}
	return lines, nil
}

func (r *PgxReportingRepository) ListAuditLogs(ctx context.Context, companyID string, filter domain.AuditLogFilter) ([]domain.AuditLog, error) {
	conds := []string{"company_id = $1"}
	args := []any{companyID}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Action != nil {
		args = append(args, string(*filter.Action))
		conds = append(conds, fmt.Sprintf("action = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	query := `
		SELECT audit_log_id, company_id, user_id, action, entity_type, entity_id, details, created_at
		FROM audit_logs WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit logs", err)
	}
	logs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AuditLog, error) {
		var l domain.AuditLog
		err := row.Scan(&l.AuditLogID, &l.CompanyID, &l.UserID, &l.Action, &l.EntityType, &l.EntityID, &l.Details, &l.CreatedAt)
		return l, err
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan audit logs", err)
	}
	return logs, nil
}
