package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/apperrors"
	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portssvc "github.com/SscSPs/contabilidad_ve/internal/core/ports/services"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
	"github.com/SscSPs/contabilidad_ve/internal/handlers"
	"github.com/SscSPs/contabilidad_ve/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, companyID, accountID, userID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, companyID, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountTree(ctx context.Context, companyID, userID string) ([]*domain.AccountNode, error) {
	args := m.Called(ctx, companyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AccountNode), args.Error(1)
}
func (m *MockAccountService) GetAccountBalance(ctx context.Context, companyID, accountID string, from, to *time.Time, userID string) (*domain.AccountBalance, error) {
	args := m.Called(ctx, companyID, accountID, from, to, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, companyID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
	companyID          string
	userID             string
}

func (suite *AccountHandlerTestSuite) SetupSuite() {
	suite.Require().NoError(handlers.RegisterValidators())
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(middleware.AuthMiddleware(testJWTSecret))

	suite.mockAccountService = new(MockAccountService)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	company := suite.router.Group("/api/v1/companies/:company_id")
	handlers.RegisterAccountRoutes(company, suite.mockAccountService)
}

func (suite *AccountHandlerTestSuite) url(path string) string {
	return fmt.Sprintf("/api/v1/companies/%s/accounts%s", suite.companyID, path)
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	parentID := uuid.NewString()
	created := &domain.Account{
		AccountID:       uuid.NewString(),
		CompanyID:       suite.companyID,
		Code:            "1.1.01.001",
		Name:            "Caja Principal",
		AccountType:     domain.Asset,
		Nature:          domain.NatureDebit,
		Level:           4,
		ParentAccountID: &parentID,
		AcceptsEntries:  true,
		IsActive:        true,
	}
	suite.mockAccountService.On("CreateAccount",
		mock.Anything,
		suite.companyID,
		dto.CreateAccountRequest{Code: "1.1.01.001", Name: "Caja Principal", AccountType: domain.Asset},
		suite.userID,
	).Return(created, nil).Once()

	body := map[string]any{"code": "1.1.01.001", "name": "Caja Principal", "accountType": "ASSET"}
	w := performRequest(suite.T(), suite.router, http.MethodPost, suite.url(""), body, suite.userID)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("1.1.01.001", resp.Code)
	suite.Equal(4, resp.Level)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_RejectsMalformedCode() {
	body := map[string]any{"code": "1..01", "name": "Caja", "accountType": "ASSET"}

	w := performRequest(suite.T(), suite.router, http.MethodPost, suite.url(""), body, suite.userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_DuplicateCode() {
	suite.mockAccountService.On("CreateAccount", mock.Anything, suite.companyID, mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: account code 1.1", apperrors.ErrDuplicate)).Once()

	body := map[string]any{"code": "1.1", "name": "Activo Corriente", "accountType": "ASSET"}
	w := performRequest(suite.T(), suite.router, http.MethodPost, suite.url(""), body, suite.userID)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AccountHandlerTestSuite) TestGetAccountTree() {
	root := &domain.AccountNode{Account: domain.Account{AccountID: "a1", Code: "1", Name: "ACTIVO"}}
	root.Children = []*domain.AccountNode{{Account: domain.Account{AccountID: "a2", Code: "1.1", Name: "ACTIVO CORRIENTE"}}}
	suite.mockAccountService.On("GetAccountTree", mock.Anything, suite.companyID, suite.userID).
		Return([]*domain.AccountNode{root}, nil).Once()

	w := performRequest(suite.T(), suite.router, http.MethodGet, suite.url("/tree"), nil, suite.userID)

	suite.Equal(http.StatusOK, w.Code)
	var tree []domain.AccountNode
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tree))
	suite.Require().Len(tree, 1)
	suite.Require().Len(tree[0].Children, 1)
	suite.Equal("1.1", tree[0].Children[0].Code)
}

func (suite *AccountHandlerTestSuite) TestGetAccountBalance_ParsesWindow() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("GetAccountBalance",
		mock.Anything,
		suite.companyID,
		accountID,
		mock.MatchedBy(func(from *time.Time) bool {
			return from != nil && from.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		}),
		mock.MatchedBy(func(to *time.Time) bool { return to == nil }),
		suite.userID,
	).Return(&domain.AccountBalance{
		AccountID:   accountID,
		Code:        "1.1.01.001",
		Nature:      domain.NatureDebit,
		TotalDebit:  decimal.NewFromInt(150),
		TotalCredit: decimal.NewFromInt(50),
		Balance:     decimal.NewFromInt(100),
	}, nil).Once()

	w := performRequest(suite.T(), suite.router, http.MethodGet, suite.url("/"+accountID+"/balance?fromDate=2024-01-01"), nil, suite.userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Balance.Equal(decimal.NewFromInt(100)))
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestGetAccountBalance_BadDate() {
	w := performRequest(suite.T(), suite.router, http.MethodGet, suite.url("/x/balance?toDate=2024-13-01"), nil, suite.userID)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NonMemberSeesNotFound() {
	suite.mockAccountService.On("GetAccountByID", mock.Anything, suite.companyID, "acc", suite.userID).
		Return(nil, apperrors.NewNotFoundError("company")).Once()

	w := performRequest(suite.T(), suite.router, http.MethodGet, suite.url("/acc"), nil, suite.userID)

	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Run Test Suite ---
func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
