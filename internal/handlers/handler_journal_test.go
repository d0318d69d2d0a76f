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

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetEntry(ctx context.Context, companyID, entryID, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ListEntries(ctx context.Context, companyID, userID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	args := m.Called(ctx, companyID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalEntriesResponse), args.Error(1)
}
func (m *MockJournalService) CreateEntry(ctx context.Context, companyID string, req dto.JournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) UpdateDraftEntry(ctx context.Context, companyID, entryID string, req dto.JournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) DeleteDraftEntry(ctx context.Context, companyID, entryID, userID string) error {
	args := m.Called(ctx, companyID, entryID, userID)
	return args.Error(0)
}
func (m *MockJournalService) ApproveEntry(ctx context.Context, companyID, entryID, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ReverseEntry(ctx context.Context, companyID, entryID, reason, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, reason, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Test Suite ---
type JournalHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockJournalService *MockJournalService
	companyID          string
	userID             string
}

func (suite *JournalHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(middleware.AuthMiddleware(testJWTSecret))

	suite.mockJournalService = new(MockJournalService)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	company := suite.router.Group("/api/v1/companies/:company_id")
	handlers.RegisterJournalRoutes(company, suite.mockJournalService)
}

func (suite *JournalHandlerTestSuite) url(path string) string {
	return fmt.Sprintf("/api/v1/companies/%s/journal-entries%s", suite.companyID, path)
}

func (suite *JournalHandlerTestSuite) balancedRequest() map[string]any {
	return map[string]any{
		"entryDate":   "2024-01-15",
		"description": "Venta de contado",
		"details": []map[string]any{
			{"accountID": "acc-cash", "debit": "100.00"},
			{"accountID": "acc-sales", "credit": "100.00"},
		},
	}
}

func (suite *JournalHandlerTestSuite) draftEntry() *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:     uuid.NewString(),
		CompanyID:   suite.companyID,
		EntryNumber: "AS-000001",
		EntryDate:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "Venta de contado",
		Status:      domain.Draft,
		TotalDebit:  decimal.RequireFromString("100.00"),
		TotalCredit: decimal.RequireFromString("100.00"),
	}
}

// --- Test Cases ---

func (suite *JournalHandlerTestSuite) TestCreateEntry_Success() {
	entry := suite.draftEntry()
	suite.mockJournalService.On("CreateEntry",
		mock.Anything,
		suite.companyID,
		mock.MatchedBy(func(req dto.JournalEntryRequest) bool {
			return req.EntryDate == "2024-01-15" &&
				len(req.Details) == 2 &&
				req.Details[0].DebitAmount().Equal(decimal.NewFromInt(100)) &&
				req.Details[1].CreditAmount().Equal(decimal.NewFromInt(100))
		}),
		suite.userID,
	).Return(entry, nil).Once()

	w := performRequest(suite.T(), suite.router, http.MethodPost, suite.url(""), suite.balancedRequest(), suite.userID)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.JournalEntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("AS-000001", resp.EntryNumber)
	suite.Equal("2024-01-15", resp.EntryDate)
	suite.Equal(domain.Draft, resp.Status)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestCreateEntry_Unbalanced() {
	suite.mockJournalService.On("CreateEntry", mock.Anything, suite.companyID, mock.Anything, suite.userID).
		Return(nil, apperrors.ErrUnbalancedEntry).Once()

	w := performRequest(suite.T(), suite.router, http.MethodPost, suite.url(""), suite.balancedRequest(), suite.userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "do not balance")
}

func (suite *JournalHandlerTestSuite) TestCreateEntry_InvalidBody() {
	body := map[string]any{"entryDate": "15/01/2024", "description": "x"}

	w := performRequest(suite.T(), suite.router, http.MethodPost, suite.url(""), body, suite.userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJournalService.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalHandlerTestSuite) TestCreateEntry_PeriodClosed() {
	suite.mockJournalService.On("CreateEntry", mock.Anything, suite.companyID, mock.Anything, suite.userID).
		Return(nil, apperrors.ErrPeriodClosed).Once()

	w := performRequest(suite.T(), suite.router, http.MethodPost, suite.url(""), suite.balancedRequest(), suite.userID)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *JournalHandlerTestSuite) TestCreateEntry_Unauthenticated() {
	w := performRequest(suite.T(), suite.router, http.MethodPost, suite.url(""), suite.balancedRequest(), "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockJournalService.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalHandlerTestSuite) TestListEntries_PassesFilters() {
	next := "cursor"
	suite.mockJournalService.On("ListEntries",
		mock.Anything,
		suite.companyID,
		suite.userID,
		mock.MatchedBy(func(p dto.ListJournalEntriesParams) bool {
			return p.Limit == 5 && p.Status != nil && *p.Status == domain.Approved
		}),
	).Return(&dto.ListJournalEntriesResponse{
		Entries:   []dto.JournalEntryResponse{{EntryNumber: "AS-000002"}, {EntryNumber: "AS-000001"}},
		NextToken: &next,
	}, nil).Once()

	w := performRequest(suite.T(), suite.router, http.MethodGet, suite.url("?limit=5&status=APPROVED"), nil, suite.userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListJournalEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Entries, 2)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("cursor", *resp.NextToken)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestListEntries_RejectsUnknownStatus() {
	w := performRequest(suite.T(), suite.router, http.MethodGet, suite.url("?status=POSTED"), nil, suite.userID)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *JournalHandlerTestSuite) TestGetEntry_NotFound() {
	entryID := uuid.NewString()
	suite.mockJournalService.On("GetEntry", mock.Anything, suite.companyID, entryID, suite.userID).
		Return(nil, apperrors.ErrEntryNotFound).Once()

	w := performRequest(suite.T(), suite.router, http.MethodGet, suite.url("/"+entryID), nil, suite.userID)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *JournalHandlerTestSuite) TestUpdateEntry_NotDraft() {
	entryID := uuid.NewString()
	suite.mockJournalService.On("UpdateDraftEntry", mock.Anything, suite.companyID, entryID, mock.Anything, suite.userID).
		Return(nil, apperrors.ErrInvalidStateTransition).Once()

	w := performRequest(suite.T(), suite.router, http.MethodPut, suite.url("/"+entryID), suite.balancedRequest(), suite.userID)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *JournalHandlerTestSuite) TestDeleteEntry_NoContent() {
	entryID := uuid.NewString()
	suite.mockJournalService.On("DeleteDraftEntry", mock.Anything, suite.companyID, entryID, suite.userID).
		Return(nil).Once()

	w := performRequest(suite.T(), suite.router, http.MethodDelete, suite.url("/"+entryID), nil, suite.userID)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestApproveEntry_Forbidden() {
	entryID := uuid.NewString()
	suite.mockJournalService.On("ApproveEntry", mock.Anything, suite.companyID, entryID, suite.userID).
		Return(nil, fmt.Errorf("%w: journal:approve required", apperrors.ErrForbidden)).Once()

	w := performRequest(suite.T(), suite.router, http.MethodPost, suite.url("/"+entryID+"/approve"), nil, suite.userID)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *JournalHandlerTestSuite) TestApproveEntry_MissingEntry() {
	entryID := uuid.NewString()
	suite.mockJournalService.On("ApproveEntry", mock.Anything, suite.companyID, entryID, suite.userID).
		Return(nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidStateTransition, apperrors.ErrEntryNotFound)).Once()

	w := performRequest(suite.T(), suite.router, http.MethodPost, suite.url("/"+entryID+"/approve"), nil, suite.userID)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *JournalHandlerTestSuite) TestApproveEntry_Success() {
	entry := suite.draftEntry()
	entry.Status = domain.Approved
	entry.ApprovedBy = &suite.userID
	suite.mockJournalService.On("ApproveEntry", mock.Anything, suite.companyID, entry.EntryID, suite.userID).
		Return(entry, nil).Once()

	w := performRequest(suite.T(), suite.router, http.MethodPost, suite.url("/"+entry.EntryID+"/approve"), nil, suite.userID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.JournalEntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.Approved, resp.Status)
	suite.Require().NotNil(resp.ApprovedBy)
	suite.Equal(suite.userID, *resp.ApprovedBy)
}

func (suite *JournalHandlerTestSuite) TestReverseEntry_RequiresReason() {
	w := performRequest(suite.T(), suite.router, http.MethodPost, suite.url("/"+uuid.NewString()+"/reverse"), map[string]any{}, suite.userID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJournalService.AssertNotCalled(suite.T(), "ReverseEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalHandlerTestSuite) TestReverseEntry_Success() {
	originalID := uuid.NewString()
	reversal := suite.draftEntry()
	reversal.EntryNumber = "RV-000001"
	reversal.Status = domain.Approved
	reversal.ReversalOfID = &originalID
	suite.mockJournalService.On("ReverseEntry", mock.Anything, suite.companyID, originalID, "Error de registro", suite.userID).
		Return(reversal, nil).Once()

	w := performRequest(suite.T(), suite.router, http.MethodPost, suite.url("/"+originalID+"/reverse"),
		dto.ReverseJournalEntryRequest{Reason: "Error de registro"}, suite.userID)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.JournalEntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("RV-000001", resp.EntryNumber)
	suite.Require().NotNil(resp.ReversalOfID)
	suite.Equal(originalID, *resp.ReversalOfID)
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestReverseEntry_InternalErrorIsMasked() {
	entryID := uuid.NewString()
	suite.mockJournalService.On("ReverseEntry", mock.Anything, suite.companyID, entryID, "x", suite.userID).
		Return(nil, apperrors.NewAppError(500, "failed to lock entry", fmt.Errorf("connection reset"))).Once()

	w := performRequest(suite.T(), suite.router, http.MethodPost, suite.url("/"+entryID+"/reverse"),
		dto.ReverseJournalEntryRequest{Reason: "x"}, suite.userID)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "connection reset")
}

// --- Run Test Suite ---
func TestJournalHandler(t *testing.T) {
	suite.Run(t, new(JournalHandlerTestSuite))
}
