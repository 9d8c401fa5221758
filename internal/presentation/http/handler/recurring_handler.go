package handler

import (
	"strconv"
	"time"

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

// RecurringHandler handles recurring invoice template HTTP requests
type RecurringHandler struct {
	recurringService *service.RecurringService
}

// NewRecurringHandler creates a new recurring invoice handler
func NewRecurringHandler(recurringService *service.RecurringService) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// CreateRecurringRequest represents the create template request body
type CreateRecurringRequest struct {
	ClientID     string                `json:"client_id" binding:"required"`
	Frequency    string                `json:"frequency" binding:"required"`
	StartDate    string                `json:"start_date" binding:"required"`
	EndDate      *string               `json:"end_date"`
	DueDateDays  int                   `json:"due_date_days"`
	AutoBill     *string               `json:"auto_bill"`
	Currency     string                `json:"currency"`
	ExchangeRate *decimal.Decimal      `json:"exchange_rate"`
	Notes        *string               `json:"notes"`
	Terms        *string               `json:"terms"`
	Items        []DocumentItemRequest `json:"items" binding:"required,min=1"`
}

// UpdateRecurringRequest represents the update template request body.
// An explicit null end_date clears the end date; an absent one keeps it.
type UpdateRecurringRequest struct {
	ClientID     *string                         `json:"client_id"`
	Frequency    *string                         `json:"frequency"`
	StartDate    *string                         `json:"start_date"`
	EndDate      optional.Value[string]          `json:"end_date"`
	DueDateDays  *int                            `json:"due_date_days"`
	AutoBill     *string                         `json:"auto_bill"`
	Currency     *string                         `json:"currency"`
	ExchangeRate optional.Value[decimal.Decimal] `json:"exchange_rate"`
	Notes        *string                         `json:"notes"`
	Terms        *string                         `json:"terms"`
	Items        *[]DocumentItemRequest          `json:"items"`
}

// List handles listing recurring invoice templates
// @Summary List Recurring Invoices
// @Description Get all recurring invoice templates with pagination
// @Tags recurring-invoices
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param status query string false "Status filter (active, stopped)"
// @Param client_id query string false "Client filter"
// @Success 200 {object} response.APIResponse
// @Router /recurring-invoices [get]
func (h *RecurringHandler) List(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	params := &repository.RecurringFilterParams{
		Pagination: parsePagination(c),
	}
	if s := c.Query("status"); s == string(enum.RecurringStatusActive) || s == string(enum.RecurringStatusStopped) {
		status := enum.RecurringStatus(s)
		params.Status = &status
	}
	if cid := c.Query("client_id"); cid != "" {
		if clientID, err := uuid.Parse(cid); err == nil {
			params.ClientID = &clientID
		}
	}

	templates, total, err := h.recurringService.List(c.Request.Context(), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(templates,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total))
	response.SuccessWithPagination(c, 200, "Recurring invoices retrieved successfully", result)
}

// Get handles getting a single template with its items
// @Summary Get Recurring Invoice
// @Description Get a recurring invoice template by ID
// @Tags recurring-invoices
// @Security BearerAuth
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} response.APIResponse
// @Router /recurring-invoices/{id} [get]
func (h *RecurringHandler) Get(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid recurring invoice ID")
		return
	}

	template, err := h.recurringService.GetByID(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Recurring invoice retrieved successfully", template)
}

// Create handles creating a recurring invoice template
// @Summary Create Recurring Invoice
// @Description Create a stopped template; call start to begin generation
// @Tags recurring-invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateRecurringRequest true "Template data"
// @Success 201 {object} response.APIResponse
// @Router /recurring-invoices [post]
func (h *RecurringHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		response.BadRequest(c, "Invalid client ID")
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		response.BadRequest(c, "Invalid start date. Use YYYY-MM-DD")
		return
	}
	endDate, err := parseDatePtr(req.EndDate)
	if err != nil {
		response.BadRequest(c, "Invalid end date. Use YYYY-MM-DD")
		return
	}

	var autoBill enum.AutoBillPolicy
	if req.AutoBill != nil {
		autoBill = enum.AutoBillPolicy(*req.AutoBill)
	}

	template, err := h.recurringService.Create(c.Request.Context(), &service.CreateRecurringInput{
		UserID:       *userID,
		ClientID:     clientID,
		Frequency:    req.Frequency,
		StartDate:    startDate,
		EndDate:      endDate,
		DueDateDays:  req.DueDateDays,
		AutoBill:     autoBill,
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

	response.Created(c, "Recurring invoice created successfully", template)
}

// Update handles updating a recurring invoice template
// @Summary Update Recurring Invoice
// @Description Update a template; a running schedule keeps its anchor
// @Tags recurring-invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body UpdateRecurringRequest true "Template data"
// @Success 200 {object} response.APIResponse
// @Router /recurring-invoices/{id} [put]
func (h *RecurringHandler) Update(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid recurring invoice ID")
		return
	}

	var req UpdateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	clientID, err := parseUUIDPtr(req.ClientID)
	if err != nil {
		response.BadRequest(c, "Invalid client ID")
		return
	}
	startDate, err := parseDatePtr(req.StartDate)
	if err != nil {
		response.BadRequest(c, "Invalid start date. Use YYYY-MM-DD")
		return
	}

	input := &service.UpdateRecurringInput{
		UserID:       *userID,
		ID:           id,
		ClientID:     clientID,
		Frequency:    req.Frequency,
		StartDate:    startDate,
		DueDateDays:  req.DueDateDays,
		Currency:     req.Currency,
		ExchangeRate: req.ExchangeRate,
		Notes:        req.Notes,
		Terms:        req.Terms,
	}
	if req.EndDate.Present() {
		if req.EndDate.IsNull() {
			input.EndDate = optional.Null[time.Time]()
		} else {
			raw, _ := req.EndDate.Get()
			endDate, err := parseDate(raw)
			if err != nil {
				response.BadRequest(c, "Invalid end date. Use YYYY-MM-DD")
				return
			}
			input.EndDate = optional.Set(endDate)
		}
	}
	if req.AutoBill != nil {
		policy := enum.AutoBillPolicy(*req.AutoBill)
		input.AutoBill = &policy
	}
	if req.Items != nil {
		input.Items = toItemInputs(*req.Items)
		input.HasItems = true
	}

	template, err := h.recurringService.Update(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Recurring invoice updated successfully", template)
}

// Start handles activating a template's schedule
// @Summary Start Recurring Invoice
// @Description Activate a template; generation anchors at the start date
// @Tags recurring-invoices
// @Security BearerAuth
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} response.APIResponse
// @Router /recurring-invoices/{id}/start [post]
func (h *RecurringHandler) Start(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid recurring invoice ID")
		return
	}

	template, err := h.recurringService.Start(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Recurring invoice started successfully", template)
}

// Stop handles deactivating a template's schedule
// @Summary Stop Recurring Invoice
// @Description Stop a template; already generated invoices are untouched
// @Tags recurring-invoices
// @Security BearerAuth
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} response.APIResponse
// @Router /recurring-invoices/{id}/stop [post]
func (h *RecurringHandler) Stop(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid recurring invoice ID")
		return
	}

	template, err := h.recurringService.Stop(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Recurring invoice stopped successfully", template)
}

// Preview handles previewing upcoming generation dates
// @Summary Preview Schedule
// @Description List the next generation dates without creating invoices
// @Tags recurring-invoices
// @Security BearerAuth
// @Produce json
// @Param id path string true "Template ID"
// @Param count query int false "Number of occurrences (1-24, default 6)"
// @Success 200 {object} response.APIResponse
// @Router /recurring-invoices/{id}/preview [get]
func (h *RecurringHandler) Preview(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid recurring invoice ID")
		return
	}

	count, _ := strconv.Atoi(c.Query("count"))

	occurrences, err := h.recurringService.PreviewSchedule(c.Request.Context(), *userID, id, count)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Schedule preview generated successfully", occurrences)
}

// Generate handles a manual generation pass across all due templates.
// The scheduler runs the same pass on its interval; this is the
// operational escape hatch when a run needs forcing.
// @Summary Generate Due Invoices
// @Description Run a generation pass over all active templates now
// @Tags recurring-invoices
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /recurring-invoices/generate [post]
func (h *RecurringHandler) Generate(c *gin.Context) {
	if !IsSuperAdmin(c) {
		response.Forbidden(c, "Insufficient permissions")
		return
	}

	generated, err := h.recurringService.GenerateDueInvoices(c.Request.Context(), time.Now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Generation pass completed", gin.H{"generated": generated})
}

// Delete handles deleting a template
// @Summary Delete Recurring Invoice
// @Description Delete a template; generated invoices keep their backlink
// @Tags recurring-invoices
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Success 204
// @Router /recurring-invoices/{id} [delete]
func (h *RecurringHandler) Delete(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid recurring invoice ID")
		return
	}

	if err := h.recurringService.Delete(c.Request.Context(), *userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
