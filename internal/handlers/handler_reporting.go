package handlers

import (
	"net/http"
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portssvc "github.com/SscSPs/contabilidad_ve/internal/core/ports/services"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
	"github.com/SscSPs/contabilidad_ve/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler serves the ledger reports.
type reportingHandler struct {
	reportingService portssvc.ReportingService
	now              func() time.Time
}

// RegisterReportingRoutes registers the report routes on a company-scoped group.
func RegisterReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := &reportingHandler{reportingService: reportingService, now: time.Now}

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/balance-sheet", h.getBalanceSheet)
		reports.GET("/income-statement", h.getIncomeStatement)
		reports.GET("/general-ledger", h.getGeneralLedger)
		reports.GET("/cash-flow", h.getCashFlow)
		reports.GET("/audit-trail", h.getAuditTrail)
	}
}

type asOfQuery struct {
	AsOf string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

type generalLedgerQuery struct {
	dateRangeQuery
	AccountID *string `form:"accountId"`
}

type auditTrailQuery struct {
	dateRangeQuery
	UserID *string `form:"userId"`
	Action *string `form:"action"`
	Limit  int     `form:"limit,default=100" binding:"min=1,max=1000"`
}

// asOf defaults to today.
func (h *reportingHandler) asOf(q asOfQuery) time.Time {
	if t, err := time.Parse(dateLayout, q.AsOf); err == nil {
		return t
	}
	return domain.DateOnly(h.now().UTC())
}

// period defaults to the first day of the current month through today.
func (h *reportingHandler) period(q dateRangeQuery) (time.Time, time.Time) {
	today := domain.DateOnly(h.now().UTC())
	from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := today
	f, t := q.bounds()
	if f != nil {
		from = *f
	}
	if t != nil {
		to = *t
	}
	return from, to
}

// getTrialBalance godoc
// @Summary Trial balance
// @Description Lists the balance of every postable account as of a date, with debit and credit totals.
// @Tags reports
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   asOf query string false "Cut-off date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var q asOfQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), companyID(c), h.asOf(q), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

// getBalanceSheet godoc
// @Summary Balance sheet
// @Tags reports
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   asOf query string false "Cut-off date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var q asOfQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), companyID(c), h.asOf(q), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate balance sheet")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report))
}

// getIncomeStatement godoc
// @Summary Income statement
// @Tags reports
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   fromDate query string false "Start date (YYYY-MM-DD), defaults to the first of the month"
// @Param   toDate query string false "End date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.IncomeStatementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var q dateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	from, to := h.period(q)
	report, err := h.reportingService.IncomeStatement(c.Request.Context(), companyID(c), from, to, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate income statement")
		return
	}
	c.JSON(http.StatusOK, dto.ToIncomeStatementResponse(report))
}

// getGeneralLedger godoc
// @Summary General ledger
// @Description Lists posted lines in date order, for one account or the whole chart.
// @Tags reports
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   fromDate query string false "Start date (YYYY-MM-DD)"
// @Param   toDate query string false "End date (YYYY-MM-DD)"
// @Param   accountId query string false "Restrict to one account"
// @Success 200 {object} dto.GeneralLedgerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/reports/general-ledger [get]
func (h *reportingHandler) getGeneralLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var q generalLedgerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	from, to := h.period(q.dateRangeQuery)
	report, err := h.reportingService.GeneralLedger(c.Request.Context(), companyID(c), q.AccountID, from, to, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate general ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToGeneralLedgerResponse(report))
}

// getCashFlow godoc
// @Summary Cash flow
// @Tags reports
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   fromDate query string false "Start date (YYYY-MM-DD)"
// @Param   toDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.CashFlowResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/reports/cash-flow [get]
func (h *reportingHandler) getCashFlow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var q dateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	from, to := h.period(q)
	report, err := h.reportingService.CashFlow(c.Request.Context(), companyID(c), from, to, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate cash flow")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashFlowResponse(report))
}

// getAuditTrail godoc
// @Summary Audit trail
// @Tags reports
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   userId query string false "Filter by acting user"
// @Param   action query string false "Filter by action, e.g. JOURNAL_APPROVE"
// @Param   fromDate query string false "First day (YYYY-MM-DD)"
// @Param   toDate query string false "Last day (YYYY-MM-DD), inclusive"
// @Param   limit query int false "Maximum rows" default(100)
// @Success 200 {array} dto.AuditLogResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/reports/audit-trail [get]
func (h *reportingHandler) getAuditTrail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var q auditTrailQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	filter := domain.AuditLogFilter{UserID: q.UserID, Limit: q.Limit}
	filter.From, filter.To = q.bounds()
	if filter.To != nil {
		// toDate covers the whole day.
		end := filter.To.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}
	if q.Action != nil {
		action := domain.AuditAction(*q.Action)
		filter.Action = &action
	}
	logs, err := h.reportingService.AuditTrail(c.Request.Context(), companyID(c), filter, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve audit trail")
		return
	}
	c.JSON(http.StatusOK, dto.ToAuditLogResponses(logs))
}
