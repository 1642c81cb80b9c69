package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/catalog"
	"github.com/partshub/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectAllocationRepository implements ProjectAllocationRepository using GORM
type GormProjectAllocationRepository struct {
	db *gorm.DB
}

// NewGormProjectAllocationRepository creates a new GormProjectAllocationRepository
func NewGormProjectAllocationRepository(db *gorm.DB) *GormProjectAllocationRepository {
	return &GormProjectAllocationRepository{db: db}
}

// FindByProjectAndComponent finds the allocation for a (project, component) pair
func (r *GormProjectAllocationRepository) FindByProjectAndComponent(ctx context.Context, projectID, componentID uuid.UUID) (*catalog.ProjectAllocation, error) {
	var allocation catalog.ProjectAllocation
	if err := r.db.WithContext(ctx).
		Where("project_id = ? AND component_id = ?", projectID, componentID).
		First(&allocation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &allocation, nil
}

// FindByProject finds all allocations for a project
func (r *GormProjectAllocationRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]catalog.ProjectAllocation, error) {
	var allocations []catalog.ProjectAllocation
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

// Upsert creates the allocation or updates its quantity when the
// (project, component) pair already exists
func (r *GormProjectAllocationRepository) Upsert(ctx context.Context, allocation *catalog.ProjectAllocation) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "component_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(allocation).Error
}

// DeleteByComponent removes all allocations for a component
func (r *GormProjectAllocationRepository) DeleteByComponent(ctx context.Context, componentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&catalog.ProjectAllocation{}, "component_id = ?", componentID).Error
}

// Ensure GormProjectAllocationRepository implements ProjectAllocationRepository
var _ catalog.ProjectAllocationRepository = (*GormProjectAllocationRepository)(nil)
