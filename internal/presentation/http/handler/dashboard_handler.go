package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/davidkaruri/billify-api/internal/application/service"
	"github.com/davidkaruri/billify-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetSummary handles getting the receivables summary
// @Summary Dashboard Summary
// @Description Get outstanding, overdue and paid-this-month figures
// @Tags dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /dashboard [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	userID := scopeUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	summary, err := h.dashboardService.Summary(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard summary retrieved successfully", summary)
}
