package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portsrepo "github.com/SscSPs/contabilidad_ve/internal/core/ports/repositories"
	"github.com/SscSPs/contabilidad_ve/internal/models"
	"github.com/SscSPs/contabilidad_ve/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCompanyRepository struct {
	BaseRepository
}

// newPgxCompanyRepository creates a new repository for company data.
func newPgxCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepositoryFacade {
	return &PgxCompanyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxCompanyRepository implements portsrepo.CompanyRepositoryFacade
var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

const fullCompanySelectQuery = `
SELECT
	c.company_id, c.rif, c.business_name, c.commercial_name, c.address, c.phone, c.email, c.is_active,
	c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
FROM companies c
`

const fullMembershipSelectQuery = `
SELECT cu.user_id, u.username, cu.company_id, cu.role, cu.capabilities, cu.joined_at
FROM company_users cu
JOIN users u ON u.user_id = cu.user_id
`

// getCompanies runs the company select with the given filter clause.
func (r *PgxCompanyRepository) getCompanies(ctx context.Context, filterQuery string, args ...any) ([]domain.Company, error) {
	rows, err := r.Pool.Query(ctx, fullCompanySelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query companies", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Company])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect company rows", err)
	}
	out := make([]domain.Company, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainCompany(m)
	}
	return out, nil
}

func (r *PgxCompanyRepository) getMembers(ctx context.Context, filterQuery string, args ...any) ([]domain.CompanyUser, error) {
	rows, err := r.Pool.Query(ctx, fullMembershipSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query company members", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CompanyUser])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect company member rows", err)
	}
	out := make([]domain.CompanyUser, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainCompanyUser(m)
	}
	return out, nil
}

func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, company domain.Company, owner domain.CompanyUser) error {
	m := mapping.ToModelCompany(company)
	return r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO companies (company_id, rif, business_name, commercial_name, address, phone, email, is_active,
				created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`,
			m.CompanyID, m.RIF, m.BusinessName, m.CommercialName, m.Address, m.Phone, m.Email, m.IsActive,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return mapWriteError(err, "company with RIF "+m.RIF)
		}
		if err := insertMembership(ctx, tx, owner); err != nil {
			return mapWriteError(err, "company owner "+owner.UserID)
		}
		return nil
	})
}

func (r *PgxCompanyRepository) UpdateCompany(ctx context.Context, company domain.Company) error {
	m := mapping.ToModelCompany(company)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE companies
		SET business_name = $2, commercial_name = $3, address = $4, phone = $5, email = $6, is_active = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE company_id = $1;`,
		m.CompanyID, m.BusinessName, m.CommercialName, m.Address, m.Phone, m.Email, m.IsActive,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "company "+m.CompanyID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("company " + m.CompanyID)
	}
	return nil
}

func insertMembership(ctx context.Context, q querier, membership domain.CompanyUser) error {
	_, err := q.Exec(ctx, `
		INSERT INTO company_users (company_id, user_id, role, capabilities, joined_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (company_id, user_id) DO UPDATE SET role = EXCLUDED.role, capabilities = EXCLUDED.capabilities;`,
		membership.CompanyID, membership.UserID, string(membership.Role), int64(membership.Capabilities), membership.JoinedAt,
	)
	return err
}

func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	companies, err := r.getCompanies(ctx, `WHERE c.company_id = $1`, companyID)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, apperrors.NewNotFoundError("company " + companyID)
	}
	return &companies[0], nil
}

func (r *PgxCompanyRepository) ListCompaniesByUserID(ctx context.Context, userID string) ([]domain.Company, error) {
	return r.getCompanies(ctx, `JOIN company_users cu ON cu.company_id = c.company_id WHERE cu.user_id = $1 ORDER BY c.business_name`, userID)
}

func (r *PgxCompanyRepository) AddUserToCompany(ctx context.Context, membership domain.CompanyUser) error {
	if err := insertMembership(ctx, r.Pool, membership); err != nil {
		return mapWriteError(err, "membership of "+membership.UserID)
	}
	return nil
}

func (r *PgxCompanyRepository) FindMembership(ctx context.Context, userID, companyID string) (*domain.CompanyUser, error) {
	members, err := r.getMembers(ctx, `WHERE cu.user_id = $1 AND cu.company_id = $2`, userID, companyID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, apperrors.NewNotFoundError("membership")
	}
	return &members[0], nil
}

// lockAdmins locks the ADMIN memberships of a company and reports whether userID
// is the only one.
func lockAdmins(ctx context.Context, tx pgx.Tx, companyID, userID string) (bool, error) {
	rows, err := tx.Query(ctx, `
		SELECT user_id FROM company_users
		WHERE company_id = $1 AND role = 'ADMIN' ORDER BY user_id FOR UPDATE;`, companyID)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to lock company admins", err)
	}
	admins, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to scan company admins", err)
	}
	return len(admins) == 1 && admins[0] == userID, nil
}

func (r *PgxCompanyRepository) UpdateMembership(ctx context.Context, membership domain.CompanyUser) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if membership.Role != domain.RoleAdmin {
			last, err := lockAdmins(ctx, tx, membership.CompanyID, membership.UserID)
			if err != nil {
				return err
			}
			if last {
				return fmt.Errorf("%w: company must keep an ADMIN", apperrors.ErrConflict)
			}
		}
		tag, err := tx.Exec(ctx, `
			UPDATE company_users SET role = $3, capabilities = $4
			WHERE company_id = $1 AND user_id = $2;`,
			membership.CompanyID, membership.UserID, string(membership.Role), int64(membership.Capabilities),
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to update membership of "+membership.UserID, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("membership")
		}
		return nil
	})
}

func (r *PgxCompanyRepository) RemoveMember(ctx context.Context, companyID, userID string) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		last, err := lockAdmins(ctx, tx, companyID, userID)
		if err != nil {
			return err
		}
		if last {
			return fmt.Errorf("%w: company must keep an ADMIN", apperrors.ErrConflict)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM company_users WHERE company_id = $1 AND user_id = $2;`, companyID, userID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to remove member "+userID, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("membership")
		}
		return nil
	})
}

func (r *PgxCompanyRepository) ListMembers(ctx context.Context, companyID string) ([]domain.CompanyUser, error) {
	members, err := r.getMembers(ctx, `WHERE cu.company_id = $1 ORDER BY cu.joined_at`, companyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return []domain.CompanyUser{}, nil
	}
	return members, err
}
