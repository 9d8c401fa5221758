package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/davidkaruri/billify-api/internal/application/service"
	"github.com/davidkaruri/billify-api/internal/presentation/http/dto/response"
	"github.com/davidkaruri/billify-api/pkg/pagination"
)

// ClientHandler handles client-related HTTP requests
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// CreateClientRequest represents the create client request body
type CreateClientRequest struct {
	Name      string  `json:"name" binding:"required"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone"`
	Company   *string `json:"company"`
	VATNumber *string `json:"vat_number"`
	Address   *string `json:"address"`
	Notes     *string `json:"notes"`
}

// UpdateClientRequest represents the update client request body
type UpdateClientRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone"`
	Company   *string `json:"company"`
	VATNumber *string `json:"vat_number"`
	Address   *string `json:"address"`
	Notes     *string `json:"notes"`
}

// List handles listing clients
// @Summary List Clients
// @Description Get all clients with pagination and search
// @Tags clients
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Search term"
// @Success 200 {object} response.APIResponse
// @Router /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	params := parsePagination(c)
	clients, total, err := h.clientService.List(c.Request.Context(), *userID, params, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(clients, pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Clients retrieved successfully", result)
}

// Get handles getting a single client
// @Summary Get Client
// @Description Get a client by ID
// @Tags clients
// @Security BearerAuth
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} response.APIResponse
// @Router /clients/{id} [get]
func (h *ClientHandler) Get(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid client ID")
		return
	}

	client, err := h.clientService.GetByID(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client retrieved successfully", client)
}

// Create handles creating a client
// @Summary Create Client
// @Description Create a new client
// @Tags clients
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateClientRequest true "Client data"
// @Success 201 {object} response.APIResponse
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), &service.CreateClientInput{
		UserID:    *userID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		VATNumber: req.VATNumber,
		Address:   req.Address,
		Notes:     req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Client created successfully", client)
}

// Update handles updating a client
// @Summary Update Client
// @Description Update an existing client
// @Tags clients
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param request body UpdateClientRequest true "Client data"
// @Success 200 {object} response.APIResponse
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid client ID")
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), &service.UpdateClientInput{
		UserID:    *userID,
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		VATNumber: req.VATNumber,
		Address:   req.Address,
		Notes:     req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client updated successfully", client)
}

// Delete handles deleting a client
// @Summary Delete Client
// @Description Delete a client with no invoices or quotations
// @Tags clients
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 204
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid client ID")
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), *userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
