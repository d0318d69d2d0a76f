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

// companyService implements the CompanySvcFacade interface
type companyService struct {
	BaseService
	companyRepo    portsrepo.CompanyRepositoryFacade
	accountRepo    portsrepo.AccountWriter
	costCenterRepo portsrepo.CostCenterRepositoryFacade
	userRepo       portsrepo.UserReader

	journalRepo portsrepo.JournalRepositoryWithTx
	invoiceRepo portsrepo.InvoiceReader
	periodRepo  portsrepo.PeriodRepositoryFacade
}

// CompanyServiceOption configures the company service.
type CompanyServiceOption func(*companyService)

// WithCompanyStats supplies the repositories read by GetDashboardStats. The journal
// repository also records company and membership changes in the audit trail.
func WithCompanyStats(
	journalRepo portsrepo.JournalRepositoryWithTx,
	invoiceRepo portsrepo.InvoiceReader,
	periodRepo portsrepo.PeriodRepositoryFacade,
) CompanyServiceOption {
	return func(s *companyService) {
		s.journalRepo = journalRepo
		s.invoiceRepo = invoiceRepo
		s.periodRepo = periodRepo
	}
}

// NewCompanyService creates a new company service with the provided dependencies.
// The service is its own authorizer.
func NewCompanyService(
	companyRepo portsrepo.CompanyRepositoryFacade,
	accountRepo portsrepo.AccountWriter,
	costCenterRepo portsrepo.CostCenterRepositoryFacade,
	userRepo portsrepo.UserReader,
	options ...CompanyServiceOption,
) portssvc.CompanySvcFacade {
	svc := &companyService{
		companyRepo:    companyRepo,
		accountRepo:    accountRepo,
		costCenterRepo: costCenterRepo,
		userRepo:       userRepo,
	}
	svc.CompanyAuthorizer = svc
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

// AuthorizeUserAction checks the membership of userID and that it carries the capability.
func (s *companyService) AuthorizeUserAction(ctx context.Context, userID, companyID string, required domain.Capability) error {
	membership, err := s.companyRepo.FindMembership(ctx, userID, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Non-members are told the company does not exist.
			return fmt.Errorf("%w: company %s", apperrors.ErrNotFound, companyID)
		}
		s.LogError(ctx, err, "Failed to load membership",
			slog.String("user_id", userID),
			slog.String("company_id", companyID))
		return err
	}
	if !membership.Can(required) {
		return fmt.Errorf("%w: %s required", apperrors.ErrForbidden, required)
	}
	return nil
}

// GetCompany retrieves a company the requesting user belongs to.
func (s *companyService) GetCompany(ctx context.Context, companyID string, requestingUserID string) (*domain.Company, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapAccountsRead); err != nil {
		return nil, err
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find company by ID", slog.String("company_id", companyID))
		}
		return nil, err
	}
	return company, nil
}

// ListUserCompanies retrieves all companies a user belongs to
func (s *companyService) ListUserCompanies(ctx context.Context, userID string) ([]domain.Company, error) {
	companies, err := s.companyRepo.ListCompaniesByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list companies for user", slog.String("user_id", userID))
		return nil, err
	}
	if companies == nil {
		return []domain.Company{}, nil
	}
	s.LogDebug(ctx, "Companies listed successfully",
		slog.Int("count", len(companies)),
		slog.String("user_id", userID))
	return companies, nil
}

// ListCompanyUsers lists the members of a company.
func (s *companyService) ListCompanyUsers(ctx context.Context, companyID string, requestingUserID string) ([]domain.CompanyUser, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapUsersManage); err != nil {
		return nil, err
	}
	members, err := s.companyRepo.ListMembers(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list company members", slog.String("company_id", companyID))
		return nil, err
	}
	return members, nil
}

// CreateCompany creates a company owned by creatorUserID.
func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	rif, ok := domain.NormalizeRIF(req.RIF)
	if !ok {
		return nil, fmt.Errorf("%w: invalid RIF %q", apperrors.ErrValidation, req.RIF)
	}
	if strings.TrimSpace(req.BusinessName) == "" {
		return nil, fmt.Errorf("%w: business name is required", apperrors.ErrValidation)
	}
	if req.Phone != nil && *req.Phone != "" && !domain.IsValidPhone(*req.Phone) {
		return nil, fmt.Errorf("%w: invalid phone %q", apperrors.ErrValidation, *req.Phone)
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: creatorUserID, LastUpdatedAt: now, LastUpdatedBy: creatorUserID}
	company := domain.Company{
		CompanyID:      uuid.NewString(),
		RIF:            rif,
		BusinessName:   strings.TrimSpace(req.BusinessName),
		CommercialName: req.CommercialName,
		Address:        req.Address,
		Phone:          req.Phone,
		Email:          req.Email,
		IsActive:       true,
		AuditFields:    audit,
	}
	owner := domain.CompanyUser{
		UserID:       creatorUserID,
		CompanyID:    company.CompanyID,
		Role:         domain.RoleAdmin,
		Capabilities: domain.RoleAdmin.DefaultCapabilities(),
		JoinedAt:     now,
	}

	if err := s.companyRepo.SaveCompany(ctx, company, owner); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save company", slog.String("rif", rif))
		}
		return nil, err
	}

	if req.WithDefaultChart {
		if err := s.seedReferenceData(ctx, company.CompanyID, audit); err != nil {
			s.LogError(ctx, err, "Failed to seed default chart", slog.String("company_id", company.CompanyID))
			return nil, err
		}
	}

	s.LogInfo(ctx, "Company created successfully",
		slog.String("company_id", company.CompanyID),
		slog.String("rif", rif),
		slog.Bool("default_chart", req.WithDefaultChart))
	return &company, nil
}

// seedReferenceData installs the standard chart of accounts and cost centers.
func (s *companyService) seedReferenceData(ctx context.Context, companyID string, audit domain.AuditFields) error {
	accounts, err := BuildChart(companyID, domain.DefaultChartOfAccounts, audit)
	if err != nil {
		return err
	}
	if err := s.accountRepo.SaveAccounts(ctx, accounts); err != nil {
		return fmt.Errorf("failed to save default chart: %w", err)
	}

	centers := make([]domain.CostCenter, len(domain.DefaultCostCenters))
	for i, cc := range domain.DefaultCostCenters {
		centers[i] = domain.CostCenter{
			CostCenterID: uuid.NewString(),
			CompanyID:    companyID,
			Code:         cc.Code,
			Name:         cc.Name,
			IsActive:     true,
			AuditFields:  audit,
		}
	}
	if err := s.costCenterRepo.SaveCostCenters(ctx, centers); err != nil {
		return fmt.Errorf("failed to save default cost centers: %w", err)
	}
	return nil
}

// BuildChart expands chart template rows into accounts, deriving type, nature, level and
// parent from the dotted codes. Rows must be listed parents first. Accounts with children
// do not accept entries.
func BuildChart(companyID string, rows []domain.ChartAccount, audit domain.AuditFields) ([]domain.Account, error) {
	byCode := make(map[string]int, len(rows))
	accounts := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		accountType, ok := domain.AccountTypeForCode(row.Code)
		if !ok || !domain.IsValidAccountCode(row.Code) {
			return nil, fmt.Errorf("%w: invalid chart code %q", apperrors.ErrValidation, row.Code)
		}
		acc := domain.Account{
			AccountID:      uuid.NewString(),
			CompanyID:      companyID,
			Code:           row.Code,
			Name:           row.Name,
			AccountType:    accountType,
			Nature:         accountType.Nature(),
			Level:          domain.AccountLevel(row.Code),
			AcceptsEntries: true,
			IsActive:       true,
			AuditFields:    audit,
		}
		if i := strings.LastIndex(row.Code, "."); i > 0 {
			parentIdx, ok := byCode[row.Code[:i]]
			if !ok {
				return nil, fmt.Errorf("%w: chart code %q listed before its parent", apperrors.ErrValidation, row.Code)
			}
			parentID := accounts[parentIdx].AccountID
			acc.ParentAccountID = &parentID
			accounts[parentIdx].AcceptsEntries = false
		}
		byCode[row.Code] = len(accounts)
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// AddUserToCompany adds a user with a validated capability set.
func (s *companyService) AddUserToCompany(ctx context.Context, addingUserID, companyID string, req dto.AddCompanyUserRequest) (*domain.CompanyUser, error) {
	if err := s.AuthorizeUser(ctx, addingUserID, companyID, domain.CapUsersManage); err != nil {
		return nil, err
	}
	if !req.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, req.Role)
	}
	caps, err := domain.ResolveCapabilities(req.Role, req.Capabilities)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	user, err := s.userRepo.FindUserByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, req.UserID)
		}
		s.LogError(ctx, err, "Failed to find user to add", slog.String("target_user_id", req.UserID))
		return nil, err
	}

	membership := domain.CompanyUser{
		UserID:       user.UserID,
		UserName:     user.Username,
		CompanyID:    companyID,
		Role:         req.Role,
		Capabilities: caps,
		JoinedAt:     time.Now().UTC(),
	}
	if err := s.companyRepo.AddUserToCompany(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add user to company",
			slog.String("target_user_id", req.UserID),
			slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "User added to company",
		slog.String("target_user_id", req.UserID),
		slog.String("company_id", companyID),
		slog.String("role", string(req.Role)))
	return &membership, nil
}

// UpdateCompany changes the provided company fields.
func (s *companyService) UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, requestingUserID string) (*domain.Company, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapCompanyManage); err != nil {
		return nil, err
	}
	if req.BusinessName != nil && strings.TrimSpace(*req.BusinessName) == "" {
		return nil, fmt.Errorf("%w: business name cannot be empty", apperrors.ErrValidation)
	}
	if req.Phone != nil && *req.Phone != "" && !domain.IsValidPhone(*req.Phone) {
		return nil, fmt.Errorf("%w: invalid phone %q", apperrors.ErrValidation, *req.Phone)
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find company for update", slog.String("company_id", companyID))
		}
		return nil, err
	}
	update := domain.CompanyUpdate{
		CommercialName: req.CommercialName,
		Address:        req.Address,
		Phone:          req.Phone,
		Email:          req.Email,
		IsActive:       req.IsActive,
	}
	if req.BusinessName != nil {
		name := strings.TrimSpace(*req.BusinessName)
		update.BusinessName = &name
	}
	update.Apply(company)
	company.LastUpdatedAt = time.Now().UTC()
	company.LastUpdatedBy = requestingUserID

	if err := s.companyRepo.UpdateCompany(ctx, *company); err != nil {
		s.LogError(ctx, err, "Failed to update company", slog.String("company_id", companyID))
		return nil, err
	}
	s.recordAudit(ctx, companyID, requestingUserID, domain.AuditCompanyUpdate, "COMPANY", companyID, company.BusinessName)

	s.LogInfo(ctx, "Company updated", slog.String("company_id", companyID))
	return company, nil
}

// GetDashboardStats counts the entries and invoices of a company and finds its newest open period.
func (s *companyService) GetDashboardStats(ctx context.Context, companyID string, requestingUserID string) (*domain.DashboardStats, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapReportsRead); err != nil {
		return nil, err
	}
	stats := &domain.DashboardStats{}
	if s.journalRepo != nil {
		n, err := s.journalRepo.CountEntries(ctx, companyID)
		if err != nil {
			s.LogError(ctx, err, "Failed to count journal entries", slog.String("company_id", companyID))
			return nil, err
		}
		stats.TotalJournalEntries = n
	}
	if s.invoiceRepo != nil {
		counts, err := s.invoiceRepo.CountInvoices(ctx, companyID)
		if err != nil {
			s.LogError(ctx, err, "Failed to count invoices", slog.String("company_id", companyID))
			return nil, err
		}
		stats.TotalInvoices = counts.Total
		stats.PendingInvoices = counts.Pending
	}
	if s.periodRepo != nil {
		periods, err := s.periodRepo.ListPeriods(ctx, companyID)
		if err != nil {
			s.LogError(ctx, err, "Failed to list periods", slog.String("company_id", companyID))
			return nil, err
		}
		// ListPeriods returns the newest period first.
		for i := range periods {
			if periods[i].Status == domain.PeriodOpen {
				stats.CurrentPeriod = &periods[i]
				break
			}
		}
	}
	return stats, nil
}

// UpdateCompanyUser changes the role and capabilities of a member.
func (s *companyService) UpdateCompanyUser(ctx context.Context, requestingUserID, companyID, targetUserID string, req dto.UpdateCompanyUserRequest) (*domain.CompanyUser, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapUsersManage); err != nil {
		return nil, err
	}
	if !req.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, req.Role)
	}
	caps, err := domain.ResolveCapabilities(req.Role, req.Capabilities)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	membership, err := s.companyRepo.FindMembership(ctx, targetUserID, companyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s is not a member", apperrors.ErrNotFound, targetUserID)
		}
		s.LogError(ctx, err, "Failed to load membership", slog.String("target_user_id", targetUserID))
		return nil, err
	}
	membership.Role = req.Role
	membership.Capabilities = caps
	if err := s.companyRepo.UpdateMembership(ctx, *membership); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to update membership",
				slog.String("target_user_id", targetUserID),
				slog.String("company_id", companyID))
		}
		return nil, err
	}
	s.recordAudit(ctx, companyID, requestingUserID, domain.AuditMemberUpdate, "COMPANY_USER", targetUserID,
		string(req.Role)+" "+strings.Join(caps.Names(), ","))

	s.LogInfo(ctx, "Company user updated",
		slog.String("target_user_id", targetUserID),
		slog.String("company_id", companyID),
		slog.String("role", string(req.Role)))
	return membership, nil
}

// RemoveCompanyUser revokes the membership of targetUserID.
func (s *companyService) RemoveCompanyUser(ctx context.Context, requestingUserID, companyID, targetUserID string) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, companyID, domain.CapUsersManage); err != nil {
		return err
	}
	if err := s.companyRepo.RemoveMember(ctx, companyID, targetUserID); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to remove company user",
				slog.String("target_user_id", targetUserID),
				slog.String("company_id", companyID))
		}
		return err
	}
	s.recordAudit(ctx, companyID, requestingUserID, domain.AuditMemberRemove, "COMPANY_USER", targetUserID, "")

	s.LogInfo(ctx, "Company user removed",
		slog.String("target_user_id", targetUserID),
		slog.String("company_id", companyID))
	return nil
}

// recordAudit appends to the audit trail when a journal repository is configured.
// The change itself is already stored, so a failure is only logged.
func (s *companyService) recordAudit(ctx context.Context, companyID, userID string, action domain.AuditAction, entityType, entityID, details string) {
	if s.journalRepo == nil {
		return
	}
	log := domain.AuditLog{
		AuditLogID: uuid.NewString(),
		CompanyID:  companyID,
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedAt:  time.Now().UTC(),
	}
	err := s.journalRepo.WithTx(ctx, func(tx portsrepo.JournalTxRepository) error {
		return tx.SaveAuditLog(ctx, log)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record audit log",
			slog.String("company_id", companyID),
			slog.String("action", string(action)))
	}
}
