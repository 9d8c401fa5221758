package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davidkaruri/billify-api/internal/application/service"
	"github.com/davidkaruri/billify-api/internal/presentation/http/dto/response"
	"github.com/davidkaruri/billify-api/pkg/pagination"
)

// CatalogHandler handles catalog item HTTP requests
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// CreateCatalogItemRequest represents the create catalog item request body
type CreateCatalogItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description *string         `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
}

// UpdateCatalogItemRequest represents the update catalog item request body
type UpdateCatalogItemRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	TaxPercent  *decimal.Decimal `json:"tax_percent"`
}

// List handles listing catalog items
// @Summary List Catalog Items
// @Description Get all catalog items with pagination and search
// @Tags catalog
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Search term"
// @Success 200 {object} response.APIResponse
// @Router /catalog-items [get]
func (h *CatalogHandler) List(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	params := parsePagination(c)
	items, total, err := h.catalogService.List(c.Request.Context(), *userID, params, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(items, pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Catalog items retrieved successfully", result)
}

// Get handles getting a single catalog item
// @Summary Get Catalog Item
// @Description Get a catalog item by ID
// @Tags catalog
// @Security BearerAuth
// @Produce json
// @Param id path string true "Catalog item ID"
// @Success 200 {object} response.APIResponse
// @Router /catalog-items/{id} [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid catalog item ID")
		return
	}

	item, err := h.catalogService.GetByID(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Catalog item retrieved successfully", item)
}

// Create handles creating a catalog item
// @Summary Create Catalog Item
// @Description Create a new reusable line item
// @Tags catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateCatalogItemRequest true "Catalog item data"
// @Success 201 {object} response.APIResponse
// @Router /catalog-items [post]
func (h *CatalogHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.catalogService.Create(c.Request.Context(), &service.CreateCatalogItemInput{
		UserID:      *userID,
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		TaxPercent:  req.TaxPercent,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Catalog item created successfully", item)
}

// Update handles updating a catalog item
// @Summary Update Catalog Item
// @Description Update an existing catalog item; documents keep their snapshots
// @Tags catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Catalog item ID"
// @Param request body UpdateCatalogItemRequest true "Catalog item data"
// @Success 200 {object} response.APIResponse
// @Router /catalog-items/{id} [put]
func (h *CatalogHandler) Update(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid catalog item ID")
		return
	}

	var req UpdateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.catalogService.Update(c.Request.Context(), &service.UpdateCatalogItemInput{
		UserID:      *userID,
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		TaxPercent:  req.TaxPercent,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Catalog item updated successfully", item)
}

// Delete handles deleting a catalog item
// @Summary Delete Catalog Item
// @Description Delete a catalog item
// @Tags catalog
// @Security BearerAuth
// @Param id path string true "Catalog item ID"
// @Success 204
// @Router /catalog-items/{id} [delete]
func (h *CatalogHandler) Delete(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid catalog item ID")
		return
	}

	if err := h.catalogService.Delete(c.Request.Context(), *userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
