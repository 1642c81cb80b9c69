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

// GormComponentRepository implements ComponentRepository using GORM
type GormComponentRepository struct {
	db *gorm.DB
}

// NewGormComponentRepository creates a new GormComponentRepository
func NewGormComponentRepository(db *gorm.DB) *GormComponentRepository {
	return &GormComponentRepository{db: db}
}

// FindByID finds a component by its ID with tags preloaded
func (r *GormComponentRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Component, error) {
	var component catalog.Component
	if err := r.db.WithContext(ctx).
		Preload("Tags").
		First(&component, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &component, nil
}

// FindByIDs finds multiple components by their IDs with tags preloaded.
// Missing IDs are simply absent from the result.
func (r *GormComponentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Component, error) {
	if len(ids) == 0 {
		return []catalog.Component{}, nil
	}

	var components []catalog.Component
	if err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("id IN ?", ids).
		Find(&components).Error; err != nil {
		return nil, err
	}
	return components, nil
}

// FindAll finds all components matching the filter
func (r *GormComponentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Component, error) {
	var components []catalog.Component
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&catalog.Component{}).Preload("Tags"),
		filter,
	)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ComponentSortFields, "created_at")
	orderDir := "ASC"
	if strings.ToLower(filter.OrderDir) != "asc" {
		orderDir = "DESC"
	}
	query = query.Order(orderBy + " " + orderDir)

	if err := query.Find(&components).Error; err != nil {
		return nil, err
	}
	return components, nil
}

// Save creates or updates a component without a version check
func (r *GormComponentRepository) Save(ctx context.Context, component *catalog.Component) error {
	return r.db.WithContext(ctx).Omit("Tags").Save(component).Error
}

// SaveWithLock updates a component only if the stored version still matches
// the expected value. Tag membership changes go through ReplaceTags; this
// update covers the scalar columns and the version bump.
func (r *GormComponentRepository) SaveWithLock(ctx context.Context, component *catalog.Component, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&catalog.Component{}).
		Where("id = ? AND version = ?", component.ID, expectedVersion).
		Updates(map[string]interface{}{
			"name":         component.Name,
			"part_number":  component.PartNumber,
			"manufacturer": component.Manufacturer,
			"description":  component.Description,
			"version":      component.Version,
			"updated_at":   component.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// ReplaceTags replaces the component's tag associations
func (r *GormComponentRepository) ReplaceTags(ctx context.Context, component *catalog.Component, tags []catalog.Tag) error {
	return r.db.WithContext(ctx).Model(component).Association("Tags").Replace(&tags)
}

// Delete deletes a component and its tag associations
func (r *GormComponentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Exec("DELETE FROM component_tags WHERE component_id = ?", id).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&catalog.Component{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteWithLock deletes a component only if the stored version still matches
// the expected value
func (r *GormComponentRepository) DeleteWithLock(ctx context.Context, id uuid.UUID, expectedVersion int) error {
	if err := r.db.WithContext(ctx).
		Exec("DELETE FROM component_tags WHERE component_id = ?", id).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Delete(&catalog.Component{}, "id = ? AND version = ?", id, expectedVersion)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts components matching the filter
func (r *GormComponentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&catalog.Component{}),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilterWithoutPagination applies the component filter keys to the query
func (r *GormComponentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "name":
			query = query.Where("name LIKE ?", "%"+toString(value)+"%")
		case "part_number":
			query = query.Where("part_number = ?", value)
		case "manufacturer":
			query = query.Where("manufacturer = ?", value)
		}
	}
	return query
}

// toString renders a filter value for use in a LIKE pattern
func toString(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

// Ensure GormComponentRepository implements ComponentRepository
var _ catalog.ComponentRepository = (*GormComponentRepository)(nil)
