package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/contabilidad_ve/internal/core/ports/services"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
	"github.com/SscSPs/contabilidad_ve/internal/middleware"
	"github.com/gin-gonic/gin"
)

// companyHandler handles HTTP requests related to companies and their members.
type companyHandler struct {
	companyService portssvc.CompanySvcFacade
}

func newCompanyHandler(cs portssvc.CompanySvcFacade) *companyHandler {
	return &companyHandler{companyService: cs}
}

// RegisterCompanyRoutes registers company routes and returns the group scoped to a
// single company, under which the accounting resources are nested.
func RegisterCompanyRoutes(rg *gin.RouterGroup, companyService portssvc.CompanySvcFacade) *gin.RouterGroup {
	h := newCompanyHandler(companyService)

	companies := rg.Group("/companies")
	{
		companies.POST("", h.createCompany)
		companies.GET("", h.listUserCompanies)
	}

	companySpecific := rg.Group("/companies/:company_id")
	{
		companySpecific.GET("", h.getCompany)
		companySpecific.PUT("", h.updateCompany)
		companySpecific.GET("/dashboard", h.getDashboardStats)
		companySpecific.POST("/users", h.addUserToCompany)
		companySpecific.GET("/users", h.listCompanyUsers)
		companySpecific.PUT("/users/:user_id", h.updateCompanyUser)
		companySpecific.DELETE("/users/:user_id", h.removeCompanyUser)
	}
	return companySpecific
}

// createCompany godoc
// @Summary Create a new company
// @Description Creates a company, makes the creator its admin and optionally seeds the default chart of accounts.
// @Tags companies
// @Accept  json
// @Produce  json
// @Param   company body dto.CreateCompanyRequest true "Company details"
// @Success 201 {object} dto.CompanyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "RIF already registered"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies [post]
func (h *companyHandler) createCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCompany", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create company")
		return
	}

	logger.Info("Company created", slog.String("company_id", company.CompanyID))
	c.JSON(http.StatusCreated, dto.ToCompanyResponse(company))
}

// listUserCompanies godoc
// @Summary List companies of the current user
// @Tags companies
// @Produce  json
// @Success 200 {object} dto.ListCompaniesResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies [get]
func (h *companyHandler) listUserCompanies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	companies, err := h.companyService.ListUserCompanies(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list companies")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCompaniesResponse(companies))
}

// getCompany godoc
// @Summary Get a company
// @Tags companies
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {object} dto.CompanyResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id} [get]
func (h *companyHandler) getCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	company, err := h.companyService.GetCompany(c.Request.Context(), companyID(c), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve company")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// addUserToCompany godoc
// @Summary Add a user to a company
// @Description Grants a role and optionally a narrower capability set. Requires the users capability.
// @Tags companies
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   membership body dto.AddCompanyUserRequest true "Membership"
// @Success 201 {object} dto.CompanyUserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/users [post]
func (h *companyHandler) addUserToCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddCompanyUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	membership, err := h.companyService.AddUserToCompany(c.Request.Context(), userID, companyID(c), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to add user to company")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCompanyUserResponse(membership))
}

// listCompanyUsers godoc
// @Summary List company members
// @Tags companies
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {array} dto.CompanyUserResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/users [get]
func (h *companyHandler) listCompanyUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	members, err := h.companyService.ListCompanyUsers(c.Request.Context(), companyID(c), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list company users")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyUserResponses(members))
}

// updateCompany godoc
// @Summary Update a company
// @Description Changes the provided fields. The RIF cannot change. Requires the company capability.
// @Tags companies
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   company body dto.UpdateCompanyRequest true "Fields to change"
// @Success 200 {object} dto.CompanyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id} [put]
func (h *companyHandler) updateCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCompany", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	company, err := h.companyService.UpdateCompany(c.Request.Context(), companyID(c), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update company")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// getDashboardStats godoc
// @Summary Company dashboard
// @Description Entry and invoice counts and the current open period.
// @Tags companies
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Success 200 {object} dto.DashboardStatsResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/dashboard [get]
func (h *companyHandler) getDashboardStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	stats, err := h.companyService.GetDashboardStats(c.Request.Context(), companyID(c), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, dto.ToDashboardStatsResponse(stats))
}

// updateCompanyUser godoc
// @Summary Change the role of a member
// @Tags companies
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   user_id path string true "User ID"
// @Param   membership body dto.UpdateCompanyUserRequest true "Role and capabilities"
// @Success 200 {object} dto.CompanyUserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Last admin"
// @Security BearerAuth
// @Router /companies/{company_id}/users/{user_id} [put]
func (h *companyHandler) updateCompanyUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateCompanyUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	membership, err := h.companyService.UpdateCompanyUser(c.Request.Context(), userID, companyID(c), c.Param("user_id"), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update company user")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyUserResponse(membership))
}

// removeCompanyUser godoc
// @Summary Remove a member from a company
// @Tags companies
// @Param   company_id path string true "Company ID"
// @Param   user_id path string true "User ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Last admin"
// @Security BearerAuth
// @Router /companies/{company_id}/users/{user_id} [delete]
func (h *companyHandler) removeCompanyUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.companyService.RemoveCompanyUser(c.Request.Context(), userID, companyID(c), c.Param("user_id")); err != nil {
		respondWithError(c, logger, err, "Failed to remove company user")
		return
	}
	c.Status(http.StatusNoContent)
}
