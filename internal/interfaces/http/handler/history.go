package handler

import (
	"fmt"

	stockapp "github.com/partshub/backend/internal/application/stock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HistoryHandler handles stock transaction history API endpoints
type HistoryHandler struct {
	BaseHandler
	historyService *stockapp.HistoryService
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(historyService *stockapp.HistoryService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
	}
}

// List godoc
// @ID           listStockHistory
// @Summary      List a component's stock transaction history
// @Description  Paginated audit trail of every add, remove and move for a component, newest first by default
// @Tags         history
// @Produce      json
// @Param        id path string true "Component ID" format(uuid)
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        sort_by query string false "Sort column" Enums(transaction_date,transaction_type,quantity_change,created_at)
// @Param        sort_order query string false "Sort direction" Enums(asc,desc)
// @Success      200 {object} APIResponse[[]stockapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /components/{id}/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	componentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid component ID format")
		return
	}

	var filter stockapp.HistoryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.historyService.List(c.Request.Context(), componentID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Export godoc
// @ID           exportStockHistory
// @Summary      Export a component's stock transaction history
// @Description  Renders the complete history in csv, xlsx or json. Row order matches the list endpoint for the same sort parameters.
// @Tags         history
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      json
// @Param        id path string true "Component ID" format(uuid)
// @Param        format query string true "Export format" Enums(csv,xlsx,json)
// @Param        sort_by query string false "Sort column"
// @Param        sort_order query string false "Sort direction" Enums(asc,desc)
// @Success      200 {file} file
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /components/{id}/history/export [get]
func (h *HistoryHandler) Export(c *gin.Context) {
	componentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid component ID format")
		return
	}

	format := stockapp.ExportFormat(c.DefaultQuery("format", "csv"))
	if !format.IsValid() {
		h.BadRequest(c, "Unsupported export format: "+string(format))
		return
	}

	var filter stockapp.HistoryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	result, err := h.historyService.Export(c.Request.Context(), componentID, format, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(200, result.ContentType, result.Data)
}
