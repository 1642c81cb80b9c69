package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/shared"
)

// Project groups components that are reserved for a build.
type Project struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Project) TableName() string {
	return "projects"
}

// NewProject creates a new project
func NewProject(name string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Project name cannot be empty")
	}
	return &Project{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}

// ProjectAllocation reserves a quantity of one component for one project.
// The (project, component) pair is unique; repeated assignment updates the
// quantity in place.
type ProjectAllocation struct {
	shared.BaseEntity
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_component,priority:1"`
	ComponentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_component,priority:2"`
	Quantity    int64     `gorm:"not null;check:quantity > 0"`
}

// TableName returns the table name for GORM
func (ProjectAllocation) TableName() string {
	return "project_allocations"
}

// NewProjectAllocation creates an allocation of a component to a project
func NewProjectAllocation(projectID, componentID uuid.UUID, quantity int64) (*ProjectAllocation, error) {
	if projectID == uuid.Nil || componentID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Project and component IDs cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Allocation quantity must be a positive integer")
	}
	return &ProjectAllocation{
		BaseEntity:  shared.NewBaseEntity(),
		ProjectID:   projectID,
		ComponentID: componentID,
		Quantity:    quantity,
	}, nil
}

// SetQuantity updates the reserved quantity
func (a *ProjectAllocation) SetQuantity(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Allocation quantity must be a positive integer")
	}
	a.Quantity = quantity
	a.UpdatedAt = time.Now()
	return nil
}
