package repositories

import (
	"context"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
)

// CompanyReader defines read operations for company data
type CompanyReader interface {
	// FindCompanyByID retrieves a specific company by its ID.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// ListCompaniesByUserID retrieves all companies a user belongs to.
	ListCompaniesByUserID(ctx context.Context, userID string) ([]domain.Company, error)
}

// CompanyWriter defines write operations for company data
type CompanyWriter interface {
	// SaveCompany persists a new company together with its first member.
	SaveCompany(ctx context.Context, company domain.Company, owner domain.CompanyUser) error

	// UpdateCompany writes the mutable fields and audit columns of a company.
	UpdateCompany(ctx context.Context, company domain.Company) error
}

// CompanyMembershipManager defines operations for managing company memberships
type CompanyMembershipManager interface {
	// AddUserToCompany adds a user to a company, replacing an existing membership.
	AddUserToCompany(ctx context.Context, membership domain.CompanyUser) error

	// FindMembership retrieves the role and capabilities of a user in a company.
	FindMembership(ctx context.Context, userID, companyID string) (*domain.CompanyUser, error)

	// ListMembers lists the members of a company.
	ListMembers(ctx context.Context, companyID string) ([]domain.CompanyUser, error)

	// UpdateMembership changes the role and capabilities of an existing member.
	// It fails with ErrConflict when the change would leave the company without an ADMIN.
	UpdateMembership(ctx context.Context, membership domain.CompanyUser) error

	// RemoveMember deletes a membership, failing with ErrConflict for the last ADMIN.
	RemoveMember(ctx context.Context, companyID, userID string) error
}

// CompanyRepositoryFacade combines all company-related repository interfaces
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
	CompanyMembershipManager
}
