// Package memory provides an in-memory implementation of every repository port,
// used for development (STORAGE_DRIVER=memory) and for exercising the services in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portsrepo "github.com/SscSPs/contabilidad_ve/internal/core/ports/repositories"
)

type seqKey struct {
	companyID string
	prefix    domain.EntryPrefix
}

// Store keeps all data in maps guarded by mu. Journal transactions are additionally
// serialized by txMu and stage their writes until they commit.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	users       map[string]domain.User
	companies   map[string]domain.Company
	members     map[string]map[string]domain.CompanyUser // companyID -> userID
	accounts    map[string]domain.Account
	costCenters map[string]domain.CostCenter
	periods     map[string]domain.AccountingPeriod
	entries     map[string]domain.JournalEntry
	invoices    map[string]domain.Invoice
	sequences   map[seqKey]int64
	auditLogs   []domain.AuditLog
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{
		users:       make(map[string]domain.User),
		companies:   make(map[string]domain.Company),
		members:     make(map[string]map[string]domain.CompanyUser),
		accounts:    make(map[string]domain.Account),
		costCenters: make(map[string]domain.CostCenter),
		periods:     make(map[string]domain.AccountingPeriod),
		entries:     make(map[string]domain.JournalEntry),
		invoices:    make(map[string]domain.Invoice),
		sequences:   make(map[seqKey]int64),
	}
}

// Repositories exposes the store through every repository port.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:    s,
		CompanyRepo:    s,
		CostCenterRepo: s,
		InvoiceRepo:    invoiceStore{s},
		JournalRepo:    s,
		PeriodRepo:     s,
		ReportingRepo:  s,
		UserRepo:       s,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade    = (*Store)(nil)
	_ portsrepo.CompanyRepositoryFacade    = (*Store)(nil)
	_ portsrepo.CostCenterRepositoryFacade = (*Store)(nil)
	_ portsrepo.JournalRepositoryWithTx    = (*Store)(nil)
	_ portsrepo.PeriodRepositoryFacade     = (*Store)(nil)
	_ portsrepo.ReportingRepositoryFacade  = (*Store)(nil)
	_ portsrepo.UserRepositoryFacade       = (*Store)(nil)
)

func copyEntry(e domain.JournalEntry) domain.JournalEntry {
	out := e
	if e.Details != nil {
		out.Details = make([]domain.JournalEntryDetail, len(e.Details))
		copy(out.Details, e.Details)
	}
	return out
}

// --- Users ---

func (s *Store) SaveUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username || (user.Email != "" && u.Email == user.Email) {
			return fmt.Errorf("%w: user %s", apperrors.ErrDuplicate, user.Username)
		}
	}
	s.users[user.UserID] = user
	return nil
}

func (s *Store) UpdateUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.users[user.UserID]
	if !ok {
		return apperrors.NewNotFoundError("user " + user.UserID)
	}
	for id, u := range s.users {
		if id != user.UserID && user.Email != "" && u.Email == user.Email {
			return fmt.Errorf("%w: email %s", apperrors.ErrDuplicate, user.Email)
		}
	}
	current.Email = user.Email
	current.FirstName = user.FirstName
	current.LastName = user.LastName
	current.PasswordHash = user.PasswordHash
	current.LastUpdatedAt = user.LastUpdatedAt
	current.LastUpdatedBy = user.LastUpdatedBy
	s.users[user.UserID] = current
	return nil
}

func (s *Store) FindUserByID(_ context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, apperrors.NewNotFoundError("user " + userID)
	}
	return &u, nil
}

func (s *Store) FindUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user " + username)
}

// --- Companies ---

func (s *Store) SaveCompany(_ context.Context, company domain.Company, owner domain.CompanyUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.companies {
		if c.RIF == company.RIF {
			return fmt.Errorf("%w: company with RIF %s", apperrors.ErrDuplicate, company.RIF)
		}
	}
	s.companies[company.CompanyID] = company
	s.members[company.CompanyID] = map[string]domain.CompanyUser{owner.UserID: owner}
	return nil
}

func (s *Store) UpdateCompany(_ context.Context, company domain.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.companies[company.CompanyID]
	if !ok {
		return apperrors.NewNotFoundError("company " + company.CompanyID)
	}
	current.BusinessName = company.BusinessName
	current.CommercialName = company.CommercialName
	current.Address = company.Address
	current.Phone = company.Phone
	current.Email = company.Email
	current.IsActive = company.IsActive
	current.LastUpdatedAt = company.LastUpdatedAt
	current.LastUpdatedBy = company.LastUpdatedBy
	s.companies[company.CompanyID] = current
	return nil
}

func (s *Store) FindCompanyByID(_ context.Context, companyID string) (*domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[companyID]
	if !ok {
		return nil, apperrors.NewNotFoundError("company " + companyID)
	}
	return &c, nil
}

func (s *Store) ListCompaniesByUserID(_ context.Context, userID string) ([]domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Company, 0)
	for companyID, members := range s.members {
		if _, ok := members[userID]; ok {
			out = append(out, s.companies[companyID])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BusinessName < out[j].BusinessName })
	return out, nil
}

func (s *Store) AddUserToCompany(_ context.Context, membership domain.CompanyUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.members[membership.CompanyID]
	if !ok {
		return apperrors.NewNotFoundError("company " + membership.CompanyID)
	}
	members[membership.UserID] = membership
	return nil
}

func (s *Store) FindMembership(_ context.Context, userID, companyID string) (*domain.CompanyUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[companyID][userID]
	if !ok {
		return nil, apperrors.NewNotFoundError("membership")
	}
	m.UserName = s.users[userID].Username
	return &m, nil
}

// lastAdminLocked reports whether userID is the only ADMIN of companyID.
func (s *Store) lastAdminLocked(companyID, userID string) bool {
	members := s.members[companyID]
	if members[userID].Role != domain.RoleAdmin {
		return false
	}
	for id, m := range members {
		if id != userID && m.Role == domain.RoleAdmin {
			return false
		}
	}
	return true
}

func (s *Store) UpdateMembership(_ context.Context, membership domain.CompanyUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.members[membership.CompanyID][membership.UserID]
	if !ok {
		return apperrors.NewNotFoundError("membership")
	}
	if membership.Role != domain.RoleAdmin && s.lastAdminLocked(membership.CompanyID, membership.UserID) {
		return fmt.Errorf("%w: company must keep an ADMIN", apperrors.ErrConflict)
	}
	current.Role = membership.Role
	current.Capabilities = membership.Capabilities
	s.members[membership.CompanyID][membership.UserID] = current
	return nil
}

func (s *Store) RemoveMember(_ context.Context, companyID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[companyID][userID]; !ok {
		return apperrors.NewNotFoundError("membership")
	}
	if s.lastAdminLocked(companyID, userID) {
		return fmt.Errorf("%w: company must keep an ADMIN", apperrors.ErrConflict)
	}
	delete(s.members[companyID], userID)
	return nil
}

func (s *Store) ListMembers(_ context.Context, companyID string) ([]domain.CompanyUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CompanyUser, 0, len(s.members[companyID]))
	for userID, m := range s.members[companyID] {
		m.UserName = s.users[userID].Username
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

// --- Accounts ---

func (s *Store) codeTakenLocked(companyID, code string) bool {
	for _, a := range s.accounts {
		if a.CompanyID == companyID && a.Code == code {
			return true
		}
	}
	return false
}

func (s *Store) hasPostingsLocked(accountID string) bool {
	for _, e := range s.entries {
		for _, d := range e.Details {
			if d.AccountID == accountID {
				return true
			}
		}
	}
	return false
}

// SaveAccount takes txMu like UpdateAccount, so account changes cannot interleave
// with a journal transaction that has already checked the accounts it posts to.
func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.codeTakenLocked(account.CompanyID, account.Code) {
		return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
	}
	if account.ParentAccountID != nil {
		parent, ok := s.accounts[*account.ParentAccountID]
		if !ok {
			return apperrors.NewNotFoundError("parent account " + *account.ParentAccountID)
		}
		if parent.AcceptsEntries {
			if s.hasPostingsLocked(parent.AccountID) {
				return fmt.Errorf("%w: parent account %s already has journal lines", apperrors.ErrConflict, parent.Code)
			}
			parent.AcceptsEntries = false
			parent.LastUpdatedAt = account.CreatedAt
			parent.LastUpdatedBy = account.CreatedBy
			s.accounts[parent.AccountID] = parent
		}
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *Store) SaveAccounts(_ context.Context, accounts []domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{}, len(accounts))
	for _, a := range accounts {
		key := a.CompanyID + "|" + a.Code
		if _, dup := seen[key]; dup || s.codeTakenLocked(a.CompanyID, a.Code) {
			return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, a.Code)
		}
		seen[key] = struct{}{}
	}
	for _, a := range accounts {
		s.accounts[a.AccountID] = a
	}
	return nil
}

func (s *Store) UpdateAccount(_ context.Context, account domain.Account) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.accounts[account.AccountID]
	if !ok {
		return apperrors.NewNotFoundError("account " + account.AccountID)
	}
	if current.AcceptsEntries && !account.AcceptsEntries && s.hasPostingsLocked(account.AccountID) {
		return fmt.Errorf("%w: account %s already has journal lines", apperrors.ErrConflict, current.Code)
	}
	current.Name = account.Name
	current.IsActive = account.IsActive
	current.AcceptsEntries = account.AcceptsEntries
	current.LastUpdatedAt = account.LastUpdatedAt
	current.LastUpdatedBy = account.LastUpdatedBy
	s.accounts[account.AccountID] = current
	return nil
}

func (s *Store) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("account " + accountID)
	}
	return &a, nil
}

func (s *Store) FindAccountByCode(_ context.Context, companyID, code string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.CompanyID == companyID && a.Code == code {
			return &a, nil
		}
	}
	return nil, apperrors.NewNotFoundError("account " + code)
}

func (s *Store) FindAccountsByIDs(_ context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if a, ok := s.accounts[id]; ok && a.CompanyID == companyID {
			out[id] = a
		}
	}
	return out, nil
}

func (s *Store) ListAccounts(_ context.Context, companyID string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Account, 0)
	for _, a := range s.accounts {
		if a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *Store) HasPostings(_ context.Context, accountID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasPostingsLocked(accountID), nil
}

func (s *Store) HasChildren(_ context.Context, accountID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.ParentAccountID != nil && *a.ParentAccountID == accountID {
			return true, nil
		}
	}
	return false, nil
}

// --- Cost centers ---

func (s *Store) saveCostCenterLocked(cc domain.CostCenter) error {
	for _, c := range s.costCenters {
		if c.CompanyID == cc.CompanyID && c.Code == cc.Code {
			return fmt.Errorf("%w: cost center %s", apperrors.ErrDuplicate, cc.Code)
		}
	}
	s.costCenters[cc.CostCenterID] = cc
	return nil
}

func (s *Store) SaveCostCenter(_ context.Context, cc domain.CostCenter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCostCenterLocked(cc)
}

func (s *Store) SaveCostCenters(_ context.Context, ccs []domain.CostCenter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := make([]string, 0, len(ccs))
	for _, cc := range ccs {
		if err := s.saveCostCenterLocked(cc); err != nil {
			for _, id := range saved {
				delete(s.costCenters, id)
			}
			return err
		}
		saved = append(saved, cc.CostCenterID)
	}
	return nil
}

func (s *Store) ListCostCenters(_ context.Context, companyID string) ([]domain.CostCenter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CostCenter, 0)
	for _, c := range s.costCenters {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *Store) FindCostCentersByIDs(_ context.Context, companyID string, ids []string) (map[string]domain.CostCenter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.CostCenter, len(ids))
	for _, id := range ids {
		if c, ok := s.costCenters[id]; ok && c.CompanyID == companyID {
			out[id] = c
		}
	}
	return out, nil
}

// --- Periods ---

func (s *Store) SavePeriod(_ context.Context, period domain.AccountingPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.periods {
		if p.CompanyID == period.CompanyID && p.Year == period.Year && p.Month == period.Month {
			return fmt.Errorf("%w: period %04d-%02d", apperrors.ErrDuplicate, period.Year, period.Month)
		}
	}
	s.periods[period.PeriodID] = period
	return nil
}

func (s *Store) FindPeriodByID(_ context.Context, periodID string) (*domain.AccountingPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.periods[periodID]
	if !ok {
		return nil, apperrors.NewNotFoundError("period " + periodID)
	}
	return &p, nil
}

func (s *Store) FindPeriodForDate(_ context.Context, companyID string, date time.Time) (*domain.AccountingPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.periods {
		if p.CompanyID == companyID && p.Contains(date) {
			return &p, nil
		}
	}
	return nil, apperrors.NewNotFoundError("period for " + date.Format("2006-01-02"))
}

func (s *Store) ListPeriods(_ context.Context, companyID string) ([]domain.AccountingPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.AccountingPeriod, 0)
	for _, p := range s.periods {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (s *Store) UpdatePeriodStatus(_ context.Context, periodID string, status domain.PeriodStatus, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.periods[periodID]
	if !ok {
		return apperrors.NewNotFoundError("period " + periodID)
	}
	p.Status = status
	p.LastUpdatedBy = userID
	p.LastUpdatedAt = at
	s.periods[periodID] = p
	return nil
}
