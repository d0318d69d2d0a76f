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

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) CreateInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) GetInvoice(ctx context.Context, companyID, invoiceID, userID string) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) ListInvoices(ctx context.Context, companyID, userID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	args := m.Called(ctx, companyID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListInvoicesResponse), args.Error(1)
}
func (m *MockInvoiceService) UpdateInvoice(ctx context.Context, companyID, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error) {
	args := m.Called(ctx, companyID, invoiceID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) FiscalBook(ctx context.Context, companyID string, bookType domain.InvoiceType, from, to time.Time, userID string) (*domain.FiscalBook, error) {
	args := m.Called(ctx, companyID, bookType, from, to, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalBook), args.Error(1)
}

var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

type InvoiceHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockInvoiceService
	companyID   string
	userID      string
}

func (suite *InvoiceHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterValidators())
	suite.router = gin.New()
	suite.router.Use(middleware.AuthMiddleware(testJWTSecret))

	suite.mockService = new(MockInvoiceService)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	company := suite.router.Group("/api/v1/companies/:company_id")
	handlers.RegisterInvoiceRoutes(company, suite.mockService)
}

func (suite *InvoiceHandlerTestSuite) url(path string) string {
	return fmt.Sprintf("/api/v1/companies/%s%s", suite.companyID, path)
}

func (suite *InvoiceHandlerTestSuite) invoiceBody() map[string]any {
	return map[string]any{
		"invoiceType":     "SALE",
		"counterpartRif":  "J-12345678-9",
		"counterpartName": "Bodega La Esquina",
		"issueDate":       "2024-05-02",
		"items": []map[string]any{
			{"description": "Harina", "quantity": "10", "unitPrice": "100.00"},
		},
	}
}

func (suite *InvoiceHandlerTestSuite) TestCreateInvoice_Success() {
	inv := &domain.Invoice{
		InvoiceID:     uuid.NewString(),
		InvoiceType:   domain.InvoiceSale,
		InvoiceNumber: "FV-00000001",
		IssueDate:     time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Subtotal:      decimal.RequireFromString("1000.00"),
		TaxAmount:     decimal.RequireFromString("160.00"),
		Total:         decimal.RequireFromString("1160.00"),
		Status:        domain.InvoicePending,
	}
	suite.mockService.On("CreateInvoice", mock.Anything, suite.companyID,
		mock.MatchedBy(func(req dto.CreateInvoiceRequest) bool {
			return req.InvoiceType == domain.InvoiceSale && len(req.Items) == 1 &&
				req.Items[0].UnitPrice.Equal(decimal.NewFromInt(100))
		}),
		suite.userID,
	).Return(inv, nil).Once()

	w := performRequest(suite.T(), suite.router, http.MethodPost, suite.url("/invoices"), suite.invoiceBody(), suite.userID)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.InvoiceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("FV-00000001", resp.InvoiceNumber)
	suite.Equal("2024-05-02", resp.IssueDate)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestCreateInvoice_BadRIF() {
	body := suite.invoiceBody()
	body["counterpartRif"] = "J123"

	w := performRequest(suite.T(), suite.router, http.MethodPost, suite.url("/invoices"), body, suite.userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "CreateInvoice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceHandlerTestSuite) TestUpdateInvoice_NotPending() {
	suite.mockService.On("UpdateInvoice", mock.Anything, suite.companyID, "inv-1", mock.Anything, suite.userID).
		Return(nil, apperrors.ErrConflict).Once()

	w := performRequest(suite.T(), suite.router, http.MethodPut, suite.url("/invoices/inv-1"), map[string]any{"status": "PAID"}, suite.userID)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *InvoiceHandlerTestSuite) TestSalesBook_PassesRange() {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	suite.mockService.On("FiscalBook", mock.Anything, suite.companyID, domain.InvoiceSale, from, to, suite.userID).
		Return(&domain.FiscalBook{BookType: domain.InvoiceSale, FromDate: from, ToDate: to, Count: 0}, nil).Once()

	w := performRequest(suite.T(), suite.router, http.MethodGet, suite.url("/fiscal-books/sales?fromDate=2024-05-01&toDate=2024-05-31"), nil, suite.userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.FiscalBookResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.InvoiceSale, resp.BookType)
	suite.Equal("2024-05-31", resp.ToDate)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestPurchasesBook_RejectsBadDate() {
	w := performRequest(suite.T(), suite.router, http.MethodGet, suite.url("/fiscal-books/purchases?fromDate=01/05/2024"), nil, suite.userID)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func TestInvoiceHandlers(t *testing.T) {
	suite.Run(t, new(InvoiceHandlerTestSuite))
}
