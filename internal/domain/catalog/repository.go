package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/shared"
)

// ComponentRepository defines the interface for component persistence
type ComponentRepository interface {
	// FindByID finds a component by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Component, error)

	// FindByIDs finds multiple components by their IDs, tags preloaded.
	// Missing IDs are simply absent from the result, not an error.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Component, error)

	// FindAll finds all components matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Component, error)

	// Save creates or updates a component without a version check
	Save(ctx context.Context, component *Component) error

	// SaveWithLock updates a component only if its version matches the
	// expected value, returning shared.ErrConcurrencyConflict otherwise
	SaveWithLock(ctx context.Context, component *Component, expectedVersion int) error

	// ReplaceTags replaces the component's tag associations
	ReplaceTags(ctx context.Context, component *Component, tags []Tag) error

	// Delete deletes a component and its tag associations
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteWithLock deletes a component only if its version matches the
	// expected value, returning shared.ErrConcurrencyConflict otherwise
	DeleteWithLock(ctx context.Context, id uuid.UUID, expectedVersion int) error

	// Count counts components matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// TagRepository defines the interface for tag persistence
type TagRepository interface {
	// FindByID finds a tag by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tag, error)

	// FindByName finds a tag by its unique name
	FindByName(ctx context.Context, name string) (*Tag, error)

	// GetOrCreateByName returns the tag with the given name, creating it
	// atomically when it does not exist yet
	GetOrCreateByName(ctx context.Context, name string) (*Tag, error)

	// FindAll finds all tags matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Tag, error)

	// Save creates or updates a tag
	Save(ctx context.Context, tag *Tag) error

	// Delete deletes a tag
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	// FindByID finds a project by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)

	// FindAll finds all projects matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Project, error)

	// Save creates or updates a project
	Save(ctx context.Context, project *Project) error

	// Delete deletes a project
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProjectAllocationRepository defines the interface for allocation persistence
type ProjectAllocationRepository interface {
	// FindByProjectAndComponent finds the allocation for a pair
	FindByProjectAndComponent(ctx context.Context, projectID, componentID uuid.UUID) (*ProjectAllocation, error)

	// FindByProject finds all allocations for a project
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]ProjectAllocation, error)

	// Upsert creates the allocation or updates its quantity when the
	// (project, component) pair already exists
	Upsert(ctx context.Context, allocation *ProjectAllocation) error

	// DeleteByComponent removes all allocations for a component
	DeleteByComponent(ctx context.Context, componentID uuid.UUID) error
}
