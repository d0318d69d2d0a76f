package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portssvc "github.com/SscSPs/contabilidad_ve/internal/core/ports/services"
	"github.com/SscSPs/contabilidad_ve/internal/core/services"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
	"github.com/SscSPs/contabilidad_ve/internal/repositories/memory"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.Store
	services  *portssvc.ServiceContainer
	ownerID   string
	companyID string
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	s.services = services.NewServiceContainer(newTestConfig(), s.store.Repositories())
	s.ownerID = seedUser(s.T(), s.store, "admin")

	company, err := s.services.Company.CreateCompany(s.ctx, dto.CreateCompanyRequest{
		RIF:              "G-20000002-1",
		BusinessName:     "Fundación Caribe",
		WithDefaultChart: true,
	}, s.ownerID)
	s.Require().NoError(err)
	s.companyID = company.CompanyID
}

func (s *AccountServiceTestSuite) create(code, name string, t domain.AccountType) (*domain.Account, error) {
	return s.services.Account.CreateAccount(s.ctx, s.companyID, dto.CreateAccountRequest{
		Code:        code,
		Name:        name,
		AccountType: t,
	}, s.ownerID)
}

func (s *AccountServiceTestSuite) TestCreateAccount_ResolvesParentByCode() {
	acc, err := s.create("1.1.01.004", "Caja Chica", domain.Asset)

	s.Require().NoError(err)
	s.Equal(4, acc.Level)
	s.Equal(domain.NatureDebit, acc.Nature)
	s.True(acc.AcceptsEntries)
	s.Require().NotNil(acc.ParentAccountID)
	s.Equal(accountID(s.T(), s.store, s.companyID, "1.1.01"), *acc.ParentAccountID)
}

func (s *AccountServiceTestSuite) TestCreateAccount_ParentFallsBackToRoot() {
	acc, err := s.create("4.9", "Ingresos Varios", domain.Revenue)

	s.Require().NoError(err)
	s.Require().NotNil(acc.ParentAccountID)
	s.Equal(accountID(s.T(), s.store, s.companyID, "4"), *acc.ParentAccountID)

	orphan, err := s.create("5.9.01", "Gastos Sin Grupo", domain.Expense)
	s.Require().NoError(err)
	s.Nil(orphan.ParentAccountID)
	s.Equal(domain.NatureDebit, orphan.Nature)
}

func (s *AccountServiceTestSuite) TestCreateAccount_LeafBecomesGroup() {
	leafID := accountID(s.T(), s.store, s.companyID, "1.1.01.003")

	_, err := s.create("1.1.01.003.01", "Ahorros en Divisas", domain.Asset)
	s.Require().NoError(err)

	parent, err := s.services.Account.GetAccountByID(s.ctx, s.companyID, leafID, s.ownerID)
	s.Require().NoError(err)
	s.False(parent.AcceptsEntries)
}

func (s *AccountServiceTestSuite) TestCreateAccount_Rejections() {
	cases := []struct {
		name string
		code string
		t    domain.AccountType
		want error
	}{
		{"type does not match segment", "2.1.09", domain.Asset, apperrors.ErrValidation},
		{"malformed code", "1..2", domain.Asset, apperrors.ErrValidation},
		{"unknown type", "1.3", domain.AccountType("OTHER"), apperrors.ErrValidation},
		{"duplicate code", "1.1.01.001", domain.Asset, apperrors.ErrDuplicate},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.create(tc.code, "Cuenta", tc.t)
			s.ErrorIs(err, tc.want)
		})
	}
}

func (s *AccountServiceTestSuite) TestCreateAccount_ParentWithPostingsIsRejected() {
	cashID := accountID(s.T(), s.store, s.companyID, "1.1.01.001")
	salesID := accountID(s.T(), s.store, s.companyID, "4.1.01.001")
	_, err := s.services.Journal.CreateEntry(s.ctx, s.companyID, dto.JournalEntryRequest{
		EntryDate:   "2024-05-02",
		Description: "Venta",
		Details: []dto.JournalDetailRequest{
			{AccountID: cashID, Debit: amount("10")},
			{AccountID: salesID, Credit: amount("10")},
		},
	}, s.ownerID)
	s.Require().NoError(err)

	_, err = s.create("1.1.01.001.01", "Caja Principal", domain.Asset)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *AccountServiceTestSuite) TestCreateAccount_ExplicitParentMustPrefixCode() {
	parentID := accountID(s.T(), s.store, s.companyID, "1.1.02")

	_, err := s.services.Account.CreateAccount(s.ctx, s.companyID, dto.CreateAccountRequest{
		Code:            "1.1.03.009",
		Name:            "Inventario en Tránsito",
		AccountType:     domain.Asset,
		ParentAccountID: &parentID,
	}, s.ownerID)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.services.Account.CreateAccount(s.ctx, s.companyID, dto.CreateAccountRequest{
		Code:            "1.1.02.005.01",
		Name:            "Demasiado profundo",
		AccountType:     domain.Asset,
		ParentAccountID: &parentID,
	}, s.ownerID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *AccountServiceTestSuite) TestUpdateAccount_GroupCannotAcceptEntries() {
	groupID := accountID(s.T(), s.store, s.companyID, "1.1.01")
	yes := true

	_, err := s.services.Account.UpdateAccount(s.ctx, s.companyID, groupID, dto.UpdateAccountRequest{AcceptsEntries: &yes}, s.ownerID)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *AccountServiceTestSuite) TestUpdateAccount_CloseUnusedLeaf() {
	leafID := accountID(s.T(), s.store, s.companyID, "1.1.01.003")
	no := false

	acc, err := s.services.Account.UpdateAccount(s.ctx, s.companyID, leafID, dto.UpdateAccountRequest{AcceptsEntries: &no}, s.ownerID)

	s.Require().NoError(err)
	s.False(acc.AcceptsEntries)
	s.False(acc.IsPostable())
}

func (s *AccountServiceTestSuite) TestUpdateAccount_RenameAndDeactivate() {
	id := accountID(s.T(), s.store, s.companyID, "5.2.01.003")
	name := "Arrendamiento de Local"
	no := false

	acc, err := s.services.Account.UpdateAccount(s.ctx, s.companyID, id, dto.UpdateAccountRequest{Name: &name, IsActive: &no}, s.ownerID)

	s.Require().NoError(err)
	s.Equal(name, acc.Name)
	s.False(acc.IsActive)
	s.False(acc.IsPostable())

	action := domain.AuditAccountUpdate
	logs, err := s.services.Reporting.AuditTrail(s.ctx, s.companyID, domain.AuditLogFilter{Action: &action}, s.ownerID)
	s.Require().NoError(err)
	s.Require().Len(logs, 1)
	s.Equal(id, logs[0].EntityID)
}

func (s *AccountServiceTestSuite) TestGetAccountTree() {
	tree, err := s.services.Account.GetAccountTree(s.ctx, s.companyID, s.ownerID)

	s.Require().NoError(err)
	s.Require().Len(tree, 5)
	s.Equal("1", tree[0].Code)
	s.NotEmpty(tree[0].Children)
	s.Equal("1.1", tree[0].Children[0].Code)
}

func (s *AccountServiceTestSuite) TestOtherCompanyAccountIsHidden() {
	other := seedUser(s.T(), s.store, "otro")
	company, err := s.services.Company.CreateCompany(s.ctx, dto.CreateCompanyRequest{
		RIF:              "J-30000003-2",
		BusinessName:     "Otra Empresa",
		WithDefaultChart: true,
	}, other)
	s.Require().NoError(err)
	foreignID := accountID(s.T(), s.store, company.CompanyID, "1.1.01.001")

	_, err = s.services.Account.GetAccountByID(s.ctx, s.companyID, foreignID, s.ownerID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
