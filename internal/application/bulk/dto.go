package bulk

import (
	"github.com/google/uuid"
)

// ErrorType classifies why a single component failed within a bulk operation
type ErrorType string

const (
	ErrorTypeNotFound               ErrorType = "not_found"
	ErrorTypeConcurrentModification ErrorType = "concurrent_modification"
	ErrorTypeValidation             ErrorType = "validation_error"
	ErrorTypePermissionDenied       ErrorType = "permission_denied"
)

// OperationError describes one component's failure inside a bulk operation
type OperationError struct {
	ComponentID uuid.UUID `json:"component_id"`
	ErrorType   ErrorType `json:"error_type"`
	Message     string    `json:"message"`
}

// OperationResponse is the uniform result envelope for bulk operations.
// AffectedCount is the full batch size on success and zero on failure;
// partial application never happens.
type OperationResponse struct {
	Success       bool             `json:"success"`
	AffectedCount int              `json:"affected_count"`
	Errors        []OperationError `json:"errors,omitempty"`
}

// TagsRequest represents a bulk tag add or remove over a set of components
type TagsRequest struct {
	ComponentIDs []uuid.UUID `json:"component_ids" binding:"required,min=1"`
	Tags         []string    `json:"tags" binding:"required,min=1"`
}

// PreviewTagsRequest projects the tag sets that would result from applying
// adds and removes, without persisting anything
type PreviewTagsRequest struct {
	ComponentIDs []uuid.UUID `json:"component_ids" binding:"required,min=1"`
	AddTags      []string    `json:"add_tags"`
	RemoveTags   []string    `json:"remove_tags"`
}

// TagPreview is the projected outcome for one component
type TagPreview struct {
	ComponentID   uuid.UUID `json:"component_id"`
	ComponentName string    `json:"component_name"`
	CurrentTags   []string  `json:"current_tags"`
	ResultingTags []string  `json:"resulting_tags"`
}

// PreviewTagsResponse carries the projected outcome for every component found
type PreviewTagsResponse struct {
	Previews []TagPreview     `json:"previews"`
	Errors   []OperationError `json:"errors,omitempty"`
}

// AssignToProjectRequest assigns quantities of multiple components to a project
type AssignToProjectRequest struct {
	ProjectID  uuid.UUID        `json:"project_id" binding:"required"`
	Components []AssignmentItem `json:"components" binding:"required,min=1"`
}

// AssignmentItem is one component-quantity pair in a project assignment
type AssignmentItem struct {
	ComponentID uuid.UUID `json:"component_id" binding:"required"`
	Quantity    int64     `json:"quantity" binding:"required"`
}

// DeleteComponentsRequest deletes a set of components with all their
// dependent rows
type DeleteComponentsRequest struct {
	ComponentIDs []uuid.UUID `json:"component_ids" binding:"required,min=1"`
}
