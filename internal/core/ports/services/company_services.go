package services

import (
	"context"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
)

// CompanyReaderSvc defines read operations for company data
type CompanyReaderSvc interface {
	// GetCompany retrieves a company the requesting user belongs to.
	GetCompany(ctx context.Context, companyID string, requestingUserID string) (*domain.Company, error)

	// ListUserCompanies retrieves companies a user belongs to.
	ListUserCompanies(ctx context.Context, userID string) ([]domain.Company, error)

	// ListCompanyUsers retrieves all members of a company.
	ListCompanyUsers(ctx context.Context, companyID string, requestingUserID string) ([]domain.CompanyUser, error)

	// GetDashboardStats counts entries and invoices and finds the latest open period.
	GetDashboardStats(ctx context.Context, companyID string, requestingUserID string) (*domain.DashboardStats, error)
}

// CompanyWriterSvc defines write operations for company data
type CompanyWriterSvc interface {
	// CreateCompany persists a new company with the creator as ADMIN,
	// optionally seeding the default chart of accounts and cost centers.
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error)

	// UpdateCompany changes the provided fields. The RIF is immutable.
	UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, requestingUserID string) (*domain.Company, error)
}

// CompanyMembershipSvc defines operations for managing company membership
type CompanyMembershipSvc interface {
	// AddUserToCompany adds a user with a role and capabilities validated against that role.
	AddUserToCompany(ctx context.Context, addingUserID, companyID string, req dto.AddCompanyUserRequest) (*domain.CompanyUser, error)

	// UpdateCompanyUser changes the role and capabilities of a member.
	// Demoting the last ADMIN fails with ErrConflict.
	UpdateCompanyUser(ctx context.Context, requestingUserID, companyID, targetUserID string, req dto.UpdateCompanyUserRequest) (*domain.CompanyUser, error)

	// RemoveCompanyUser revokes a membership. Removing the last ADMIN fails with ErrConflict.
	RemoveCompanyUser(ctx context.Context, requestingUserID, companyID, targetUserID string) error
}

// CompanyAuthorizerSvc defines operations for company authorization
type CompanyAuthorizerSvc interface {
	// AuthorizeUserAction returns ErrNotFound when the user is not a member and
	// ErrForbidden when the member lacks the capability.
	AuthorizeUserAction(ctx context.Context, userID, companyID string, required domain.Capability) error
}

// CompanySvcFacade combines all company-related service interfaces
type CompanySvcFacade interface {
	CompanyReaderSvc
	CompanyWriterSvc
	CompanyMembershipSvc
	CompanyAuthorizerSvc
}
