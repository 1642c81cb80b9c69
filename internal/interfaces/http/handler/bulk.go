package handler

import (
	bulkapp "github.com/partshub/backend/internal/application/bulk"
	"github.com/gin-gonic/gin"
)

// BulkHandler handles all-or-nothing bulk operations over components
type BulkHandler struct {
	BaseHandler
	bulkService *bulkapp.Service
}

// NewBulkHandler creates a new BulkHandler
func NewBulkHandler(bulkService *bulkapp.Service) *BulkHandler {
	return &BulkHandler{
		bulkService: bulkService,
	}
}

// AddTags godoc
// @ID           bulkAddTags
// @Summary      Add tags to multiple components
// @Description  Applies all tags to all components or none; per-component failures roll the whole batch back
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        request body bulkapp.TagsRequest true "Components and tags"
// @Success      200 {object} APIResponse[bulkapp.OperationResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /bulk/tags/add [post]
func (h *BulkHandler) AddTags(c *gin.Context) {
	var req bulkapp.TagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.bulkService.AddTags(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveTags godoc
// @ID           bulkRemoveTags
// @Summary      Remove tags from multiple components
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        request body bulkapp.TagsRequest true "Components and tags"
// @Success      200 {object} APIResponse[bulkapp.OperationResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /bulk/tags/remove [post]
func (h *BulkHandler) RemoveTags(c *gin.Context) {
	var req bulkapp.TagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.bulkService.RemoveTags(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// PreviewTags godoc
// @ID           bulkPreviewTags
// @Summary      Preview the tag sets that a bulk add/remove would produce
// @Description  Read-only projection; nothing is persisted
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        request body bulkapp.PreviewTagsRequest true "Components with tags to add and remove"
// @Success      200 {object} APIResponse[bulkapp.PreviewTagsResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /bulk/tags/preview [post]
func (h *BulkHandler) PreviewTags(c *gin.Context) {
	var req bulkapp.PreviewTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.bulkService.PreviewTags(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// AssignToProject godoc
// @ID           bulkAssignToProject
// @Summary      Assign quantities of multiple components to a project
// @Description  Upserts project allocations for every component or none
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        request body bulkapp.AssignToProjectRequest true "Project and component quantities"
// @Success      200 {object} APIResponse[bulkapp.OperationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /bulk/projects/assign [post]
func (h *BulkHandler) AssignToProject(c *gin.Context) {
	var req bulkapp.AssignToProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.bulkService.AssignToProject(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// DeleteComponents godoc
// @ID           bulkDeleteComponents
// @Summary      Delete multiple components with their dependent rows
// @Description  Removes components, their tags links, allocations and stock locations. Requires administrator privileges.
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        request body bulkapp.DeleteComponentsRequest true "Components to delete"
// @Success      200 {object} APIResponse[bulkapp.OperationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /bulk/components/delete [post]
func (h *BulkHandler) DeleteComponents(c *gin.Context) {
	var req bulkapp.DeleteComponentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.bulkService.DeleteComponents(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
