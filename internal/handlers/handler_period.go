package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/contabilidad_ve/internal/core/ports/services"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
	"github.com/SscSPs/contabilidad_ve/internal/middleware"
	"github.com/gin-gonic/gin"
)

// periodHandler handles accounting period requests.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

// RegisterPeriodRoutes registers accounting period routes on a company-scoped group.
func RegisterPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := &periodHandler{periodService: periodService}

	periods := rg.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.POST("/:period_id/close", h.closePeriod)
		periods.POST("/:period_id/open", h.reopenPeriod)
	}
}

// createPeriod godoc
// @Summary Create a monthly accounting period
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   period body dto.CreatePeriodRequest true "Year and month"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Period already exists"
// @Security BearerAuth
// @Router /companies/{company_id}/periods [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), companyID(c), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create period")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// listPeriods godoc
// @Summary List accounting periods
// @Tags periods
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {array} dto.PeriodResponse
// @Security BearerAuth
// @Router /companies/{company_id}/periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	periods, err := h.periodService.ListPeriods(c.Request.Context(), companyID(c), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list periods")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponses(periods))
}

// closePeriod godoc
// @Summary Close an accounting period
// @Description Rejects further postings dated inside the period.
// @Tags periods
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   period_id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/periods/{period_id}/close [post]
func (h *periodHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	period, err := h.periodService.ClosePeriod(c.Request.Context(), companyID(c), c.Param("period_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to close period")
		return
	}
	logger.Info("Period closed", slog.String("period_id", period.PeriodID))
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// reopenPeriod godoc
// @Summary Reopen an accounting period
// @Tags periods
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   period_id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/periods/{period_id}/open [post]
func (h *periodHandler) reopenPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	period, err := h.periodService.ReopenPeriod(c.Request.Context(), companyID(c), c.Param("period_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to reopen period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}
