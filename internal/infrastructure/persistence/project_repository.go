package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/catalog"
	"github.com/partshub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProjectRepository implements ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByID finds a project by its ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Project, error) {
	var project catalog.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// FindAll finds all projects matching the filter
func (r *GormProjectRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Project, error) {
	var projects []catalog.Project
	query := r.db.WithContext(ctx).Model(&catalog.Project{})

	if name, ok := filter.Filters["name"]; ok {
		query = query.Where("name LIKE ?", "%"+toString(name)+"%")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ProjectSortFields, "created_at")
	orderDir := "ASC"
	if strings.ToLower(filter.OrderDir) != "asc" {
		orderDir = "DESC"
	}
	query = query.Order(orderBy + " " + orderDir)

	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Save creates or updates a project
func (r *GormProjectRepository) Save(ctx context.Context, project *catalog.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// Delete deletes a project and its allocations
func (r *GormProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&catalog.ProjectAllocation{}, "project_id = ?", id).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&catalog.Project{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormProjectRepository implements ProjectRepository
var _ catalog.ProjectRepository = (*GormProjectRepository)(nil)
