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

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) TrialBalance(ctx context.Context, companyID string, asOf time.Time, userID string) (*domain.TrialBalance, error) {
	args := m.Called(ctx, companyID, asOf, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}
func (m *MockReportingService) BalanceSheet(ctx context.Context, companyID string, asOf time.Time, userID string) (*domain.BalanceSheetReport, error) {
	args := m.Called(ctx, companyID, asOf, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheetReport), args.Error(1)
}
func (m *MockReportingService) IncomeStatement(ctx context.Context, companyID string, from, to time.Time, userID string) (*domain.IncomeStatementReport, error) {
	args := m.Called(ctx, companyID, from, to, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeStatementReport), args.Error(1)
}
func (m *MockReportingService) GeneralLedger(ctx context.Context, companyID string, accountID *string, from, to time.Time, userID string) (*domain.GeneralLedgerReport, error) {
	args := m.Called(ctx, companyID, accountID, from, to, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneralLedgerReport), args.Error(1)
}
func (m *MockReportingService) CashFlow(ctx context.Context, companyID string, from, to time.Time, userID string) (*domain.CashFlowReport, error) {
	args := m.Called(ctx, companyID, from, to, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashFlowReport), args.Error(1)
}
func (m *MockReportingService) AuditTrail(ctx context.Context, companyID string, filter domain.AuditLogFilter, userID string) ([]domain.AuditLog, error) {
	args := m.Called(ctx, companyID, filter, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Test Suite ---
type ReportingHandlerTestSuite struct {
	suite.Suite
	router               *gin.Engine
	mockReportingService *MockReportingService
	companyID            string
	userID               string
}

func (suite *ReportingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(middleware.AuthMiddleware(testJWTSecret))

	suite.mockReportingService = new(MockReportingService)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	company := suite.router.Group("/api/v1/companies/:company_id")
	handlers.RegisterReportingRoutes(company, suite.mockReportingService)
}

func (suite *ReportingHandlerTestSuite) url(path string) string {
	return fmt.Sprintf("/api/v1/companies/%s/reports%s", suite.companyID, path)
}

func sameDay(y int, m time.Month, d int) func(time.Time) bool {
	want := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return func(t time.Time) bool { return t.Equal(want) }
}

// --- Test Cases ---

func (suite *ReportingHandlerTestSuite) TestTrialBalance_AsOf() {
	asOf := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	suite.mockReportingService.On("TrialBalance", mock.Anything, suite.companyID, mock.MatchedBy(sameDay(2024, 1, 31)), suite.userID).
		Return(&domain.TrialBalance{
			AsOf: asOf,
			Rows: []domain.TrialBalanceRow{
				{AccountID: "cash", Code: "1.1.01.001", Name: "Caja", AccountType: domain.Asset, Nature: domain.NatureDebit,
					Debit: decimal.NewFromInt(100), Balance: decimal.NewFromInt(100)},
				{AccountID: "sales", Code: "4.1.01.001", Name: "Ventas", AccountType: domain.Revenue, Nature: domain.NatureCredit,
					Credit: decimal.NewFromInt(100), Balance: decimal.NewFromInt(100)},
			},
			TotalDebit:  decimal.NewFromInt(100),
			TotalCredit: decimal.NewFromInt(100),
		}, nil).Once()

	w := performRequest(suite.T(), suite.router, http.MethodGet, suite.url("/trial-balance?asOf=2024-01-31"), nil, suite.userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TrialBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("2024-01-31", resp.AsOf)
	suite.Len(resp.Rows, 2)
	suite.True(resp.Totals.Debit.Equal(resp.Totals.Credit))
	suite.mockReportingService.AssertExpectations(suite.T())
}

func (suite *ReportingHandlerTestSuite) TestTrialBalance_BadAsOf() {
	w := performRequest(suite.T(), suite.router, http.MethodGet, suite.url("/trial-balance?asOf=yesterday"), nil, suite.userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReportingService.AssertNotCalled(suite.T(), "TrialBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingHandlerTestSuite) TestBalanceSheet_Forbidden() {
	suite.mockReportingService.On("BalanceSheet", mock.Anything, suite.companyID, mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: reports:read required", apperrors.ErrForbidden)).Once()

	w := performRequest(suite.T(), suite.router, http.MethodGet, suite.url("/balance-sheet"), nil, suite.userID)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *ReportingHandlerTestSuite) TestIncomeStatement_DefaultsToCurrentMonth() {
	suite.mockReportingService.On("IncomeStatement",
		mock.Anything,
		suite.companyID,
		mock.MatchedBy(func(from time.Time) bool { return from.Day() == 1 }),
		mock.MatchedBy(func(to time.Time) bool { return !to.IsZero() }),
		suite.userID,
	).Return(&domain.IncomeStatementReport{NetIncome: decimal.NewFromInt(40)}, nil).Once()

	w := performRequest(suite.T(), suite.router, http.MethodGet, suite.url("/income-statement"), nil, suite.userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.IncomeStatementResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Summary.NetIncome.Equal(decimal.NewFromInt(40)))
	suite.mockReportingService.AssertExpectations(suite.T())
}

func (suite *ReportingHandlerTestSuite) TestGeneralLedger_AccountFilter() {
	suite.mockReportingService.On("GeneralLedger",
		mock.Anything,
		suite.companyID,
		mock.MatchedBy(func(id *string) bool { return id != nil && *id == "cash" }),
		mock.MatchedBy(sameDay(2024, 1, 1)),
		mock.MatchedBy(sameDay(2024, 3, 31)),
		suite.userID,
	).Return(&domain.GeneralLedgerReport{Lines: []domain.GeneralLedgerLine{}}, nil).Once()

	w := performRequest(suite.T(), suite.router, http.MethodGet,
		suite.url("/general-ledger?fromDate=2024-01-01&toDate=2024-03-31&accountId=cash"), nil, suite.userID)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockReportingService.AssertExpectations(suite.T())
}

func (suite *ReportingHandlerTestSuite) TestCashFlow_UnknownAccount() {
	suite.mockReportingService.On("CashFlow", mock.Anything, suite.companyID, mock.Anything, mock.Anything, suite.userID).
		Return(nil, apperrors.NewNotFoundError("company")).Once()

	w := performRequest(suite.T(), suite.router, http.MethodGet, suite.url("/cash-flow"), nil, suite.userID)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ReportingHandlerTestSuite) TestAuditTrail_Filters() {
	actor := uuid.NewString()
	suite.mockReportingService.On("AuditTrail",
		mock.Anything,
		suite.companyID,
		mock.MatchedBy(func(f domain.AuditLogFilter) bool {
			return f.UserID != nil && *f.UserID == actor &&
				f.Action != nil && *f.Action == domain.AuditJournalApprove &&
				f.Limit == 10
		}),
		suite.userID,
	).Return([]domain.AuditLog{{AuditLogID: "l1", UserID: actor, Action: domain.AuditJournalApprove}}, nil).Once()

	w := performRequest(suite.T(), suite.router, http.MethodGet,
		suite.url("/audit-trail?userId="+actor+"&action=JOURNAL_APPROVE&limit=10"), nil, suite.userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.AuditLogResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 1)
	suite.Equal("JOURNAL_APPROVE", resp[0].Action)
	suite.mockReportingService.AssertExpectations(suite.T())
}

func (suite *ReportingHandlerTestSuite) TestAuditTrail_DateRangeCoversWholeDays() {
	suite.mockReportingService.On("AuditTrail",
		mock.Anything,
		suite.companyID,
		mock.MatchedBy(func(f domain.AuditLogFilter) bool {
			return f.From != nil && f.From.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) &&
				f.To != nil && f.To.Equal(time.Date(2024, 3, 2, 23, 59, 59, 999999999, time.UTC))
		}),
		suite.userID,
	).Return([]domain.AuditLog{}, nil).Once()

	w := performRequest(suite.T(), suite.router, http.MethodGet,
		suite.url("/audit-trail?fromDate=2024-03-01&toDate=2024-03-02"), nil, suite.userID)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockReportingService.AssertExpectations(suite.T())

	w = performRequest(suite.T(), suite.router, http.MethodGet, suite.url("/audit-trail?fromDate=2024-13-01"), nil, suite.userID)
	suite.Equal(http.StatusBadRequest, w.Code)
}

// --- Run Test Suite ---
func TestReportingHandler(t *testing.T) {
	suite.Run(t, new(ReportingHandlerTestSuite))
}
