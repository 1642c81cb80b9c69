package handler

import (
	stockapp "github.com/partshub/backend/internal/application/stock"
	"github.com/partshub/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AlertHandler handles reorder alert API endpoints
type AlertHandler struct {
	BaseHandler
	alertService *stockapp.AlertService
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(alertService *stockapp.AlertService) *AlertHandler {
	return &AlertHandler{
		alertService: alertService,
	}
}

// alertNotesRequest carries optional operator notes for a state transition
type alertNotesRequest struct {
	Notes string `json:"notes" binding:"max=500"`
}

// SetThreshold godoc
// @ID           setReorderThreshold
// @Summary      Configure reorder alerting for a component-location pair
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Param        request body stockapp.SetThresholdRequest true "Threshold configuration"
// @Success      200 {object} APIResponse[stockapp.SetThresholdResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /alerts/thresholds [put]
func (h *AlertHandler) SetThreshold(c *gin.Context) {
	var req stockapp.SetThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.alertService.SetThreshold(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// BulkSetThreshold godoc
// @ID           bulkSetReorderThreshold
// @Summary      Apply a threshold configuration to multiple component-location pairs
// @Description  Each pair is updated independently; failures are reported per pair
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Param        request body stockapp.BulkSetThresholdRequest true "Bulk threshold configuration"
// @Success      200 {object} APIResponse[[]stockapp.BulkSetThresholdResult]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /alerts/thresholds/bulk [post]
func (h *AlertHandler) BulkSetThreshold(c *gin.Context) {
	var req stockapp.BulkSetThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	results := h.alertService.BulkSetThreshold(c.Request.Context(), req)
	h.Success(c, results)
}

// ListActive godoc
// @ID           listActiveAlerts
// @Summary      List active reorder alerts
// @Tags         alerts
// @Produce      json
// @Param        component_id query string false "Filter by component" format(uuid)
// @Param        location_id query string false "Filter by location" format(uuid)
// @Param        severity query string false "Filter by severity" Enums(critical,high,medium,low)
// @Param        min_shortage query int false "Minimum shortage amount"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]stockapp.AlertResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /alerts [get]
func (h *AlertHandler) ListActive(c *gin.Context) {
	var filter stockapp.AlertListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.alertService.ListActive(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// History godoc
// @ID           listAlertHistory
// @Summary      List reorder alerts of any status
// @Tags         alerts
// @Produce      json
// @Param        status query string false "Filter by status" Enums(active,dismissed,ordered,resolved)
// @Param        component_id query string false "Filter by component" format(uuid)
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]stockapp.AlertResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /alerts/history [get]
func (h *AlertHandler) History(c *gin.Context) {
	var filter stockapp.AlertListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.alertService.History(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID godoc
// @ID           getAlertById
// @Summary      Get a reorder alert by ID
// @Tags         alerts
// @Produce      json
// @Param        id path string true "Alert ID" format(uuid)
// @Success      200 {object} APIResponse[stockapp.AlertResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /alerts/{id} [get]
func (h *AlertHandler) GetByID(c *gin.Context) {
	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid alert ID format")
		return
	}

	resp, err := h.alertService.Get(c.Request.Context(), alertID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Dismiss godoc
// @ID           dismissAlert
// @Summary      Dismiss an active alert
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Param        id path string true "Alert ID" format(uuid)
// @Param        request body alertNotesRequest false "Optional notes"
// @Success      200 {object} APIResponse[stockapp.AlertResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /alerts/{id}/dismiss [post]
func (h *AlertHandler) Dismiss(c *gin.Context) {
	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid alert ID format")
		return
	}

	var req alertNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.alertService.Dismiss(c.Request.Context(), alertID, req.Notes)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkOrdered godoc
// @ID           markAlertOrdered
// @Summary      Mark an active alert as ordered
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Param        id path string true "Alert ID" format(uuid)
// @Param        request body alertNotesRequest false "Optional notes"
// @Success      200 {object} APIResponse[stockapp.AlertResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /alerts/{id}/order [post]
func (h *AlertHandler) MarkOrdered(c *gin.Context) {
	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid alert ID format")
		return
	}

	var req alertNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.alertService.MarkOrdered(c.Request.Context(), alertID, req.Notes)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// LowStockReport godoc
// @ID           lowStockReport
// @Summary      List component locations currently below their reorder threshold
// @Tags         alerts
// @Produce      json
// @Param        component_id query string false "Filter by component" format(uuid)
// @Param        location_id query string false "Filter by location" format(uuid)
// @Success      200 {object} APIResponse[[]stockapp.LowStockEntry]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /alerts/low-stock [get]
func (h *AlertHandler) LowStockReport(c *gin.Context) {
	filter := shared.DefaultFilter()
	// The report is unpaginated; it reflects the complete current state
	filter.Page = 0
	filter.PageSize = 0

	if raw := c.Query("component_id"); raw != "" {
		componentID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid component ID format")
			return
		}
		filter.Filters["component_id"] = componentID
	}
	if raw := c.Query("location_id"); raw != "" {
		locationID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid location ID format")
			return
		}
		filter.Filters["location_id"] = locationID
	}

	entries, err := h.alertService.LowStockReport(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entries)
}

// Statistics godoc
// @ID           alertStatistics
// @Summary      Aggregate alert counts for dashboards
// @Tags         alerts
// @Produce      json
// @Success      200 {object} APIResponse[stockapp.AlertStatisticsResponse]
// @Security     BearerAuth
// @Router       /alerts/statistics [get]
func (h *AlertHandler) Statistics(c *gin.Context) {
	resp, err := h.alertService.Statistics(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
