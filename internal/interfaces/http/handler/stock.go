package handler

import (
	stockapp "github.com/partshub/backend/internal/application/stock"
	"github.com/gin-gonic/gin"
)

// StockHandler handles stock ledger API endpoints
type StockHandler struct {
	BaseHandler
	ledgerService *stockapp.LedgerService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(ledgerService *stockapp.LedgerService) *StockHandler {
	return &StockHandler{
		ledgerService: ledgerService,
	}
}

// AddStock godoc
// @ID           addStock
// @Summary      Add stock at a location
// @Description  Increase the on-hand quantity of a component at a location, creating the location row if it does not exist
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body stockapp.AddStockRequest true "Add stock request"
// @Success      200 {object} APIResponse[stockapp.AddStockResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/add [post]
func (h *StockHandler) AddStock(c *gin.Context) {
	var req stockapp.AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.Actor = getActor(c)

	resp, err := h.ledgerService.AddStock(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveStock godoc
// @ID           removeStock
// @Summary      Remove stock from a location
// @Description  Decrease the on-hand quantity at a location. Removals are capped at the available quantity; a row reaching zero is deleted.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body stockapp.RemoveStockRequest true "Remove stock request"
// @Success      200 {object} APIResponse[stockapp.RemoveStockResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/remove [post]
func (h *StockHandler) RemoveStock(c *gin.Context) {
	var req stockapp.RemoveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.Actor = getActor(c)

	resp, err := h.ledgerService.RemoveStock(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// MoveStock godoc
// @ID           moveStock
// @Summary      Move stock between locations
// @Description  Transfer quantity from a source location to a destination location atomically
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body stockapp.MoveStockRequest true "Move stock request"
// @Success      200 {object} APIResponse[stockapp.MoveStockResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/move [post]
func (h *StockHandler) MoveStock(c *gin.Context) {
	var req stockapp.MoveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.Actor = getActor(c)

	resp, err := h.ledgerService.MoveStock(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
