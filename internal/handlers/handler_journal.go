package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/contabilidad_ve/internal/core/ports/services"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
	"github.com/SscSPs/contabilidad_ve/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

// RegisterJournalRoutes registers journal entry routes on a company-scoped group.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entry_id", h.getEntry)
		entries.PUT("/:entry_id", h.updateEntry)
		entries.DELETE("/:entry_id", h.deleteEntry)
		entries.POST("/:entry_id/approve", h.approveEntry)
		entries.POST("/:entry_id/reverse", h.reverseEntry)
	}
}

// createEntry godoc
// @Summary Create a draft journal entry
// @Description Validates the lines, assigns the next number in the company series and stores the entry as DRAFT.
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   entry body dto.JournalEntryRequest true "Journal entry"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse "Unbalanced, too few lines or non-postable account"
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Period closed"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.JournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), companyID(c), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create journal entry")
		return
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists entry headers newest first with cursor pagination.
// @Tags journal
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   status query string false "DRAFT, APPROVED or REVERSED"
// @Param   fromDate query string false "Start date (YYYY-MM-DD)"
// @Param   toDate query string false "End date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), companyID(c), userID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a journal entry
// @Tags journal
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   entry_id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/journal-entries/{entry_id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.GetEntry(c.Request.Context(), companyID(c), c.Param("entry_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// updateEntry godoc
// @Summary Replace a draft journal entry
// @Description Only DRAFT entries can be edited. The entry number is kept.
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   entry_id path string true "Entry ID"
// @Param   entry body dto.JournalEntryRequest true "Journal entry"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Entry is not a draft"
// @Security BearerAuth
// @Router /companies/{company_id}/journal-entries/{entry_id} [put]
func (h *journalHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.JournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.UpdateDraftEntry(c.Request.Context(), companyID(c), c.Param("entry_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// deleteEntry godoc
// @Summary Delete a draft journal entry
// @Tags journal
// @Param   company_id path string true "Company ID"
// @Param   entry_id path string true "Entry ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Entry is not a draft"
// @Security BearerAuth
// @Router /companies/{company_id}/journal-entries/{entry_id} [delete]
func (h *journalHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.journalService.DeleteDraftEntry(c.Request.Context(), companyID(c), c.Param("entry_id"), userID); err != nil {
		respondWithError(c, logger, err, "Failed to delete journal entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// approveEntry godoc
// @Summary Approve a draft journal entry
// @Description Moves the entry to APPROVED after re-checking balance, accounts and the period.
// @Tags journal
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   entry_id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/journal-entries/{entry_id}/approve [post]
func (h *journalHandler) approveEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.ApproveEntry(c.Request.Context(), companyID(c), c.Param("entry_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to approve journal entry")
		return
	}
	logger.Info("Journal entry approved", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse an approved journal entry
// @Description Creates an approved mirror entry with debits and credits swapped and marks the original REVERSED.
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   entry_id path string true "Entry ID"
// @Param   reversal body dto.ReverseJournalEntryRequest true "Reason"
// @Success 201 {object} dto.JournalEntryResponse "The reversal entry"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/journal-entries/{entry_id}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReverseJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	reversal, err := h.journalService.ReverseEntry(c.Request.Context(), companyID(c), c.Param("entry_id"), req.Reason, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to reverse journal entry")
		return
	}
	logger.Info("Journal entry reversed",
		slog.String("entry_id", c.Param("entry_id")),
		slog.String("reversal_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}
