package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davidkaruri/billify-api/internal/application/service"
	"github.com/davidkaruri/billify-api/internal/domain/repository"
	"github.com/davidkaruri/billify-api/internal/presentation/http/dto/response"
	"github.com/davidkaruri/billify-api/pkg/optional"
	"github.com/davidkaruri/billify-api/pkg/pagination"
)

// QuotationHandler handles quotation-related HTTP requests
type QuotationHandler struct {
	quotationService *service.QuotationService
}

// NewQuotationHandler creates a new quotation handler
func NewQuotationHandler(quotationService *service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// CreateQuotationRequest represents the create quotation request body
type CreateQuotationRequest struct {
	ClientID     string                `json:"client_id" binding:"required"`
	IssueDate    string                `json:"issue_date" binding:"required"`
	ExpiryDate   string                `json:"expiry_date" binding:"required"`
	Currency     string                `json:"currency"`
	ExchangeRate *decimal.Decimal      `json:"exchange_rate"`
	Notes        *string               `json:"notes"`
	Terms        *string               `json:"terms"`
	Items        []DocumentItemRequest `json:"items" binding:"required,min=1"`
}

// UpdateQuotationRequest represents the update quotation request body.
// Absent fields keep their stored values; the items array, when present,
// replaces the item set wholesale.
type UpdateQuotationRequest struct {
	ClientID     *string                         `json:"client_id"`
	IssueDate    *string                         `json:"issue_date"`
	ExpiryDate   *string                         `json:"expiry_date"`
	Currency     *string                         `json:"currency"`
	ExchangeRate optional.Value[decimal.Decimal] `json:"exchange_rate"`
	Notes        *string                         `json:"notes"`
	Terms        *string                         `json:"terms"`
	Items        *[]DocumentItemRequest          `json:"items"`
}

// UpdateQuotationStatusRequest carries a quotation status transition
type UpdateQuotationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ConvertQuotationRequest carries the dates for quotation conversion
type ConvertQuotationRequest struct {
	IssueDate string  `json:"issue_date" binding:"required"`
	DueDate   *string `json:"due_date"`
}

// List handles listing quotations
// @Summary List Quotations
// @Description Get all quotations with pagination and filtering
// @Tags quotations
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Search by number or client name"
// @Param status query string false "Status filter"
// @Param client_id query string false "Client filter"
// @Success 200 {object} response.APIResponse
// @Router /quotations [get]
func (h *QuotationHandler) List(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	params := &repository.QuotationFilterParams{
		Pagination: parsePagination(c),
		Search:     c.Query("search"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}
	if s := c.Query("status"); s != "" {
		if status, ok := parseQuotationStatus(s); ok {
			params.Status = &status
		}
	}
	if cid := c.Query("client_id"); cid != "" {
		if clientID, err := uuid.Parse(cid); err == nil {
			params.ClientID = &clientID
		}
	}

	quotations, total, err := h.quotationService.List(c.Request.Context(), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(quotations,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, 200, "Quotations retrieved successfully", result)
}

// Get handles getting a single quotation with its items
// @Summary Get Quotation
// @Description Get a quotation by ID
// @Tags quotations
// @Security BearerAuth
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} response.APIResponse
// @Router /quotations/{id} [get]
func (h *QuotationHandler) Get(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid quotation ID")
		return
	}

	quotation, err := h.quotationService.GetByID(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation retrieved successfully", quotation)
}

// Create handles creating a quotation
// @Summary Create Quotation
// @Description Create a new quotation with line items
// @Tags quotations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateQuotationRequest true "Quotation data"
// @Success 201 {object} response.APIResponse
// @Router /quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateQuotationRequest
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
	expiryDate, err := parseDate(req.ExpiryDate)
	if err != nil {
		response.BadRequest(c, "Invalid expiry date. Use YYYY-MM-DD")
		return
	}

	quotation, err := h.quotationService.Create(c.Request.Context(), &service.CreateQuotationInput{
		UserID:       *userID,
		ClientID:     clientID,
		IssueDate:    issueDate,
		ExpiryDate:   expiryDate,
		Currency:     req.Currency,
		ExchangeRate: req.ExchangeRate,
		Notes:        req.Notes,
		Terms:        req.Terms,
		Items:        toItemInputs(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quotation created successfully", quotation)
}

// Update handles updating a quotation
// @Summary Update Quotation
// @Description Update an existing quotation; the number never changes
// @Tags quotations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body UpdateQuotationRequest true "Quotation data"
// @Success 200 {object} response.APIResponse
// @Router /quotations/{id} [put]
func (h *QuotationHandler) Update(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid quotation ID")
		return
	}

	var req UpdateQuotationRequest
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
	expiryDate, err := parseDatePtr(req.ExpiryDate)
	if err != nil {
		response.BadRequest(c, "Invalid expiry date. Use YYYY-MM-DD")
		return
	}

	input := &service.UpdateQuotationInput{
		UserID:       *userID,
		ID:           id,
		ClientID:     clientID,
		IssueDate:    issueDate,
		ExpiryDate:   expiryDate,
		Currency:     req.Currency,
		ExchangeRate: req.ExchangeRate,
		Notes:        req.Notes,
		Terms:        req.Terms,
	}
	if req.Items != nil {
		input.Items = toItemInputs(*req.Items)
		input.HasItems = true
	}

	quotation, err := h.quotationService.Update(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation updated successfully", quotation)
}

// UpdateStatus handles quotation status transitions
// @Summary Update Quotation Status
// @Description Move a quotation through its lifecycle
// @Tags quotations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body UpdateQuotationStatusRequest true "Target status"
// @Success 200 {object} response.APIResponse
// @Router /quotations/{id}/status [post]
func (h *QuotationHandler) UpdateStatus(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid quotation ID")
		return
	}

	var req UpdateQuotationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	status, ok := parseQuotationStatus(req.Status)
	if !ok {
		response.BadRequest(c, "Unknown quotation status: "+req.Status)
		return
	}

	quotation, err := h.quotationService.UpdateStatus(c.Request.Context(), *userID, id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation status updated successfully", quotation)
}

// Convert handles converting a quotation into an invoice
// @Summary Convert Quotation
// @Description Create an invoice from a quotation and mark it accepted
// @Tags quotations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body ConvertQuotationRequest true "Invoice dates"
// @Success 201 {object} response.APIResponse
// @Router /quotations/{id}/convert [post]
func (h *QuotationHandler) Convert(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid quotation ID")
		return
	}

	var req ConvertQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
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

	invoice, err := h.quotationService.ConvertToInvoice(c.Request.Context(), &service.ConvertInput{
		UserID:      *userID,
		QuotationID: id,
		IssueDate:   issueDate,
		DueDate:     dueDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quotation converted successfully", invoice)
}

// Delete handles deleting a quotation
// @Summary Delete Quotation
// @Description Delete a quotation and its items
// @Tags quotations
// @Security BearerAuth
// @Param id path string true "Quotation ID"
// @Success 204
// @Router /quotations/{id} [delete]
func (h *QuotationHandler) Delete(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid quotation ID")
		return
	}

	if err := h.quotationService.Delete(c.Request.Context(), *userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
