package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/davidkaruri/billify-api/internal/application/service"
	"github.com/davidkaruri/billify-api/internal/presentation/http/dto/response"
	"github.com/davidkaruri/billify-api/pkg/optional"
)

// SettingsHandler handles settings-related HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// UpdateSettingsRequest represents the update settings request body.
// Absent fields keep their stored values; nullable defaults accept an
// explicit null to clear them.
type UpdateSettingsRequest struct {
	BaseCurrency      optional.Value[string]          `json:"base_currency"`
	DefaultCurrency   optional.Value[string]          `json:"default_currency"`
	InvoicePrefix     optional.Value[string]          `json:"invoice_prefix"`
	QuotationPrefix   optional.Value[string]          `json:"quotation_prefix"`
	DefaultTaxName    optional.Value[string]          `json:"default_tax_name"`
	DefaultTaxPercent optional.Value[decimal.Decimal] `json:"default_tax_percent"`
	DefaultDueDays    optional.Value[int]             `json:"default_due_days"`
	DefaultNotes      optional.Value[string]          `json:"default_notes"`
	DefaultTerms      optional.Value[string]          `json:"default_terms"`
}

// GetSettings retrieves the user's settings, creating defaults on first use
// @Summary Get Settings
// @Description Get the current user's settings
// @Tags settings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	settings, err := h.settingsService.Get(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// UpdateSettings applies a sparse update to the user's settings
// @Summary Update Settings
// @Description Update the current user's settings
// @Tags settings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body UpdateSettingsRequest true "Settings data"
// @Success 200 {object} response.APIResponse
// @Router /settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), &service.UpdateSettingsInput{
		UserID:            *userID,
		BaseCurrency:      req.BaseCurrency,
		DefaultCurrency:   req.DefaultCurrency,
		InvoicePrefix:     req.InvoicePrefix,
		QuotationPrefix:   req.QuotationPrefix,
		DefaultTaxName:    req.DefaultTaxName,
		DefaultTaxPercent: req.DefaultTaxPercent,
		DefaultDueDays:    req.DefaultDueDays,
		DefaultNotes:      req.DefaultNotes,
		DefaultTerms:      req.DefaultTerms,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}
