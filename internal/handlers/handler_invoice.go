package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/contabilidad_ve/internal/core/domain"
	portssvc "github.com/SscSPs/contabilidad_ve/internal/core/ports/services"
	"github.com/SscSPs/contabilidad_ve/internal/dto"
	"github.com/SscSPs/contabilidad_ve/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler serves invoices and the sales and purchases books.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
	now            func() time.Time
}

// RegisterInvoiceRoutes registers invoice routes on a company-scoped group.
func RegisterInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := &invoiceHandler{invoiceService: invoiceService, now: time.Now}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:invoice_id", h.getInvoice)
		invoices.PUT("/:invoice_id", h.updateInvoice)
	}

	books := rg.Group("/fiscal-books")
	{
		books.GET("/sales", h.fiscalBook(domain.InvoiceSale))
		books.GET("/purchases", h.fiscalBook(domain.InvoicePurchase))
	}
}

// createInvoice godoc
// @Summary Create an invoice
// @Description Prices the items with IVA and numbers the invoice FV-nnnnnnnn (sales) or FC-nnnnnnnn (purchases).
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), companyID(c), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create invoice")
		return
	}

	logger.Info("Invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("invoice_number", invoice.InvoiceNumber))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// listInvoices godoc
// @Summary List invoices
// @Tags invoices
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   invoiceType query string false "SALE or PURCHASE"
// @Param   status query string false "PENDING, PAID or CANCELLED"
// @Param   fromDate query string false "First issue date (YYYY-MM-DD)"
// @Param   toDate query string false "Last issue date (YYYY-MM-DD)"
// @Param   page query int false "Page" default(1)
// @Param   limit query int false "Page size" default(20)
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), companyID(c), userID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getInvoice godoc
// @Summary Get an invoice with its items
// @Tags invoices
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   invoice_id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/invoices/{invoice_id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), companyID(c), c.Param("invoice_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// updateInvoice godoc
// @Summary Update the status or retentions of a pending invoice
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   invoice_id path string true "Invoice ID"
// @Param   changes body dto.UpdateInvoiceRequest true "Status and retentions"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Invoice is not pending"
// @Security BearerAuth
// @Router /companies/{company_id}/invoices/{invoice_id} [put]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), companyID(c), c.Param("invoice_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// fiscalBook godoc
// @Summary Sales or purchases book
// @Description Invoices of the range in issue order. Cancelled invoices are listed but not totalled.
// @Tags invoices
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   fromDate query string false "First day (YYYY-MM-DD), defaults to the start of the month"
// @Param   toDate query string false "Last day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.FiscalBookResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /companies/{company_id}/fiscal-books/sales [get]
// @Router /companies/{company_id}/fiscal-books/purchases [get]
func (h *invoiceHandler) fiscalBook(bookType domain.InvoiceType) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		book, err := h.invoiceService.FiscalBook(c.Request.Context(), companyID(c), bookType, from, to, userID)
		if err != nil {
			respondWithError(c, logger, err, "Failed to build fiscal book")
			return
		}
		c.JSON(http.StatusOK, dto.ToFiscalBookResponse(book))
	}
}
