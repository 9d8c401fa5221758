package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davidkaruri/billify-api/internal/application/service"
	"github.com/davidkaruri/billify-api/internal/domain/enum"
	"github.com/davidkaruri/billify-api/internal/domain/repository"
	"github.com/davidkaruri/billify-api/internal/presentation/http/dto/response"
	"github.com/davidkaruri/billify-api/pkg/optional"
	"github.com/davidkaruri/billify-api/pkg/pagination"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// CreateInvoiceRequest represents the create invoice request body
type CreateInvoiceRequest struct {
	ClientID     string                `json:"client_id" binding:"required"`
	IssueDate    string                `json:"issue_date" binding:"required"`
	DueDate      *string               `json:"due_date"`
	Currency     string                `json:"currency"`
	ExchangeRate *decimal.Decimal      `json:"exchange_rate"`
	Notes        *string               `json:"notes"`
	Terms        *string               `json:"terms"`
	Items        []DocumentItemRequest `json:"items" binding:"required,min=1"`
}

// UpdateInvoiceRequest represents the update invoice request body.
// Absent fields keep their stored values; the items array, when present,
// replaces the item set wholesale.
type UpdateInvoiceRequest struct {
	ClientID     *string                         `json:"client_id"`
	IssueDate    *string                         `json:"issue_date"`
	DueDate      *string                         `json:"due_date"`
	Currency     *string                         `json:"currency"`
	ExchangeRate optional.Value[decimal.Decimal] `json:"exchange_rate"`
	Notes        *string                         `json:"notes"`
	Terms        *string                         `json:"terms"`
	Items        *[]DocumentItemRequest          `json:"items"`
}

// List handles listing invoices
// @Summary List Invoices
// @Description Get all invoices with pagination and filtering
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Search by number or client name"
// @Param status query string false "Status filter"
// @Param client_id query string false "Client filter"
// @Success 200 {object} response.APIResponse
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	params := &repository.InvoiceFilterParams{
		Pagination: parsePagination(c),
		Search:     c.Query("search"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}
	if s := c.Query("status"); s != "" {
		if status, ok := parseInvoiceStatus(s); ok {
			params.Status = &status
		}
	}
	if cid := c.Query("client_id"); cid != "" {
		if clientID, err := uuid.Parse(cid); err == nil {
			params.ClientID = &clientID
		}
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(invoices,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Get handles getting a single invoice with its items and payments
// @Summary Get Invoice
// @Description Get an invoice by ID
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Create handles creating an invoice
// @Summary Create Invoice
// @Description Create a new invoice with line items
// @Tags invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateInvoiceRequest true "Invoice data"
// @Success 201 {object} response.APIResponse
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		response.BadRequest(c, "Invalid client ID")
		return
	}
	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		response.BadRequest(c, "Invalid issue date. Use YYYY-MM-DD")
		return
	}
	dueDate, err := parseDatePtr(req.DueDate)
	if err != nil {
		response.BadRequest(c, "Invalid due date. Use YYYY-MM-DD")
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), &service.CreateInvoiceInput{
		UserID:       *userID,
		ClientID:     clientID,
		IssueDate:    issueDate,
		DueDate:      dueDate,
		Currency:     req.Currency,
		ExchangeRate: req.ExchangeRate,
		Notes:        req.Notes,
		Terms:        req.Terms,
		Items:        toItemInputs(req.Items),
		Status:       enum.InvoiceStatusDraft,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", invoice)
}

// Update handles updating an invoice
// @Summary Update Invoice
// @Description Update an existing invoice; paid invoices are immutable
// @Tags invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body UpdateInvoiceRequest true "Invoice data"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	clientID, err := parseUUIDPtr(req.ClientID)
	if err != nil {
		response.BadRequest(c, "Invalid client ID")
		return
	}
	issueDate, err := parseDatePtr(req.IssueDate)
	if err != nil {
		response.BadRequest(c, "Invalid issue date. Use YYYY-MM-DD")
		return
	}
	dueDate, err := parseDatePtr(req.DueDate)
	if err != nil {
		response.BadRequest(c, "Invalid due date. Use YYYY-MM-DD")
		return
	}

	input := &service.UpdateInvoiceInput{
		UserID:       *userID,
		ID:           id,
		ClientID:     clientID,
		IssueDate:    issueDate,
		DueDate:      dueDate,
		Currency:     req.Currency,
		ExchangeRate: req.ExchangeRate,
		Notes:        req.Notes,
		Terms:        req.Terms,
	}
	if req.Items != nil {
		input.Items = toItemInputs(*req.Items)
		input.HasItems = true
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", invoice)
}

// Send handles moving a draft invoice to sent
// @Summary Send Invoice
// @Description Mark a draft invoice as sent
// @Tags invoices
// @Security BearerAuth
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id}/send [post]
func (h *InvoiceHandler) Send(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.Send(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice sent successfully", invoice)
}

// Delete handles deleting an invoice with its items and payments
// @Summary Delete Invoice
// @Description Delete an invoice, its items and its payments
// @Tags invoices
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 204
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), *userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
