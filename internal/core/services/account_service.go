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
	"github.com/SscSPs/contabilidad_ve/internal/core/ledger"
	portsrepo "github.com/SscSPs/contabilidad_ve/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/contabilidad_ve/internal/core/ports/services"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo   portsrepo.AccountRepositoryFacade
	reportingRepo portsrepo.ReportingRepositoryFacade
	auditRepo     portsrepo.JournalRepositoryWithTx
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountAuthorizer adds the company authorizer dependency
func WithAccountAuthorizer(authorizer portssvc.CompanyAuthorizerSvc) AccountServiceOption {
	return func(s *accountService) {
		s.CompanyAuthorizer = authorizer
	}
}

// WithAccountLedger lets the service compute account balances from posted lines.
func WithAccountLedger(repo portsrepo.ReportingRepositoryFacade) AccountServiceOption {
	return func(s *accountService) {
		s.reportingRepo = repo
	}
}

// WithAccountAudit records account changes in the audit trail.
func WithAccountAudit(repo portsrepo.JournalRepositoryWithTx) AccountServiceOption {
	return func(s *accountService) {
		s.auditRepo = repo
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{accountRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapAccountsWrite); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.Code)
	if !domain.IsValidAccountCode(code) {
		return nil, fmt.Errorf("%w: invalid account code %q", apperrors.ErrValidation, req.Code)
	}
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, req.AccountType)
	}
	if t, _ := domain.AccountTypeForCode(code); t != req.AccountType {
		return nil, fmt.Errorf("%w: code %s must start with segment %s for %s accounts",
			apperrors.ErrValidation, code, req.AccountType.CodeSegment(), req.AccountType)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}

	parent, err := s.resolveParent(ctx, companyID, code, req.ParentAccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		CompanyID:      companyID,
		Code:           code,
		Name:           name,
		AccountType:    req.AccountType,
		Nature:         req.AccountType.Nature(),
		Level:          domain.AccountLevel(code),
		AcceptsEntries: true,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if parent != nil {
		account.ParentAccountID = &parent.AccountID
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) && !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to save account",
				slog.String("code", code),
				slog.String("company_id", companyID))
		}
		return nil, err
	}
	s.audit(ctx, companyID, userID, domain.AuditAccountCreate, account.AccountID, "code "+code)

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", code),
		slog.String("company_id", companyID))
	return &account, nil
}

// resolveParent validates an explicit parent or, when none is given, looks one up by code prefix.
// A dotted code with no existing parent account is stored as a root.
func (s *accountService) resolveParent(ctx context.Context, companyID, code string, parentID *string) (*domain.Account, error) {
	if parentID == nil || *parentID == "" {
		i := strings.LastIndex(code, ".")
		if i < 0 {
			return nil, nil
		}
		parent, err := s.accountRepo.FindAccountByCode(ctx, companyID, code[:i])
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return parent, nil
	}

	parent, err := s.accountRepo.FindAccountByID(ctx, *parentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: parent account %s not found", apperrors.ErrValidation, *parentID)
		}
		s.LogError(ctx, err, "Failed to find parent account", slog.String("parent_id", *parentID))
		return nil, err
	}
	if parent.CompanyID != companyID {
		return nil, fmt.Errorf("%w: parent account belongs to a different company", apperrors.ErrValidation)
	}
	if !domain.HasCodePrefix(code, parent.Code) || code == parent.Code {
		return nil, fmt.Errorf("%w: code %s must start with %s.", apperrors.ErrValidation, code, parent.Code)
	}
	if domain.AccountLevel(code) != parent.Level+1 {
		return nil, fmt.Errorf("%w: code %s must be exactly one level below %s", apperrors.ErrValidation, code, parent.Code)
	}
	return parent, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, companyID, accountID, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapAccountsRead); err != nil {
		return nil, err
	}
	return s.findCompanyAccount(ctx, companyID, accountID)
}

func (s *accountService) findCompanyAccount(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	if account.CompanyID != companyID {
		return nil, apperrors.NewNotFoundError("account " + accountID)
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, companyID, userID string) ([]domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapAccountsRead); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("company_id", companyID))
		return nil, err
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

func (s *accountService) GetAccountTree(ctx context.Context, companyID, userID string) ([]*domain.AccountNode, error) {
	accounts, err := s.ListAccounts(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	return ledger.BuildAccountTree(accounts), nil
}

func (s *accountService) GetAccountBalance(ctx context.Context, companyID, accountID string, from, to *time.Time, userID string) (*domain.AccountBalance, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapAccountsRead); err != nil {
		return nil, err
	}
	if s.reportingRepo == nil {
		return nil, apperrors.NewAppError(500, "account balances are not configured", nil)
	}
	account, err := s.findCompanyAccount(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}
	lines, err := s.reportingRepo.ListPostedLines(ctx, companyID, domain.LedgerLineFilter{
		FromDate:  from,
		ToDate:    to,
		AccountID: &account.AccountID,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to load posted lines", slog.String("account_id", accountID))
		return nil, err
	}
	balance := ledger.AccountBalance(*account, lines, from, to)
	return &balance, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, companyID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, companyID, domain.CapAccountsWrite); err != nil {
		return nil, err
	}
	account, err := s.findCompanyAccount(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	changed := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: account name cannot be empty", apperrors.ErrValidation)
		}
		if name != account.Name {
			account.Name = name
			changed = true
		}
	}
	if req.IsActive != nil && *req.IsActive != account.IsActive {
		account.IsActive = *req.IsActive
		changed = true
	}
	if req.AcceptsEntries != nil && *req.AcceptsEntries != account.AcceptsEntries {
		if *req.AcceptsEntries {
			hasChildren, err := s.accountRepo.HasChildren(ctx, account.AccountID)
			if err != nil {
				s.LogError(ctx, err, "Failed to check account children", slog.String("account_id", accountID))
				return nil, err
			}
			if hasChildren {
				return nil, fmt.Errorf("%w: account %s has sub-accounts and cannot accept entries", apperrors.ErrConflict, account.Code)
			}
		} else {
			posted, err := s.accountRepo.HasPostings(ctx, account.AccountID)
			if err != nil {
				s.LogError(ctx, err, "Failed to check account postings", slog.String("account_id", accountID))
				return nil, err
			}
			if posted {
				return nil, fmt.Errorf("%w: account %s already has journal lines", apperrors.ErrConflict, account.Code)
			}
		}
		account.AcceptsEntries = *req.AcceptsEntries
		changed = true
	}

	if !changed {
		s.LogDebug(ctx, "No fields provided for account update", slog.String("account_id", accountID))
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	s.audit(ctx, companyID, userID, domain.AuditAccountUpdate, account.AccountID, "code "+account.Code)

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return account, nil
}

// audit records an account change. Failures are logged and do not fail the change.
func (s *accountService) audit(ctx context.Context, companyID, userID string, action domain.AuditAction, accountID, details string) {
	if s.auditRepo == nil {
		return
	}
	entry := domain.AuditLog{
		AuditLogID: uuid.NewString(),
		CompanyID:  companyID,
		UserID:     userID,
		Action:     action,
		EntityType: "ACCOUNT",
		EntityID:   accountID,
		Details:    details,
		CreatedAt:  time.Now().UTC(),
	}
	err := s.auditRepo.WithTx(ctx, func(tx portsrepo.JournalTxRepository) error {
		return tx.SaveAuditLog(ctx, entry)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to write account audit log", slog.String("account_id", accountID))
	}
}
