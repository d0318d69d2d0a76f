package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/contabilidad_ve/internal/core/ports/services"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
	"github.com/SscSPs/contabilidad_ve/internal/middleware"
	"github.com/gin-gonic/gin"
)

type costCenterHandler struct {
	costCenterService portssvc.CostCenterSvcFacade
}

// RegisterCostCenterRoutes registers cost center routes on a company-scoped group.
func RegisterCostCenterRoutes(rg *gin.RouterGroup, costCenterService portssvc.CostCenterSvcFacade) {
	h := &costCenterHandler{costCenterService: costCenterService}

	costCenters := rg.Group("/cost-centers")
	{
		costCenters.POST("", h.createCostCenter)
		costCenters.GET("", h.listCostCenters)
	}
}

// createCostCenter godoc
// @Summary Create a cost center
// @Tags cost-centers
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   costCenter body dto.CreateCostCenterRequest true "Cost center"
// @Success 201 {object} domain.CostCenter
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/cost-centers [post]
func (h *costCenterHandler) createCostCenter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCostCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	cc, err := h.costCenterService.CreateCostCenter(c.Request.Context(), companyID(c), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create cost center")
		return
	}
	c.JSON(http.StatusCreated, cc)
}

// listCostCenters godoc
// @Summary List cost centers
// @Tags cost-centers
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {array} domain.CostCenter
// @Security BearerAuth
// @Router /companies/{company_id}/cost-centers [get]
func (h *costCenterHandler) listCostCenters(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	ccs, err := h.costCenterService.ListCostCenters(c.Request.Context(), companyID(c), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list cost centers")
		return
	}
	c.JSON(http.StatusOK, ccs)
}
