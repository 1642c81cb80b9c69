package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/shared"
	"github.com/partshub/backend/internal/domain/stock"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// belowThresholdCond selects enabled locations whose on-hand quantity has
// dropped below a positive reorder threshold.
const belowThresholdCond = "reorder_enabled = ? AND reorder_threshold > 0 AND quantity_on_hand < reorder_threshold"

// GormComponentLocationRepository implements ComponentLocationRepository using GORM
type GormComponentLocationRepository struct {
	db *gorm.DB
}

// NewGormComponentLocationRepository creates a new GormComponentLocationRepository
func NewGormComponentLocationRepository(db *gorm.DB) *GormComponentLocationRepository {
	return &GormComponentLocationRepository{db: db}
}

// FindByID finds a component location by its ID
func (r *GormComponentLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.ComponentLocation, error) {
	var loc stock.ComponentLocation
	if err := r.db.WithContext(ctx).First(&loc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loc, nil
}

// FindByComponentAndLocation finds the stock row for a component-location pair
func (r *GormComponentLocationRepository) FindByComponentAndLocation(ctx context.Context, componentID, locationID uuid.UUID) (*stock.ComponentLocation, error) {
	var loc stock.ComponentLocation
	if err := r.db.WithContext(ctx).
		Where("component_id = ? AND location_id = ?", componentID, locationID).
		First(&loc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loc, nil
}

// FindForUpdate finds the stock row for a component-location pair with
// SELECT ... FOR UPDATE. The row lock is held until the surrounding
// transaction commits, so concurrent mutations of the same pair serialize.
// Waiting longer than the configured lock_timeout fails with LOCK_TIMEOUT.
func (r *GormComponentLocationRepository) FindForUpdate(ctx context.Context, componentID, locationID uuid.UUID) (*stock.ComponentLocation, error) {
	var loc stock.ComponentLocation
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("component_id = ? AND location_id = ?", componentID, locationID).
		First(&loc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, translateLockError(err)
	}
	return &loc, nil
}

// FindByComponent finds all stock rows for a component across locations
func (r *GormComponentLocationRepository) FindByComponent(ctx context.Context, componentID uuid.UUID) ([]stock.ComponentLocation, error) {
	var locs []stock.ComponentLocation
	if err := r.db.WithContext(ctx).
		Where("component_id = ?", componentID).
		Order("created_at ASC").
		Find(&locs).Error; err != nil {
		return nil, err
	}
	return locs, nil
}

// FindBelowThreshold finds enabled locations whose quantity is below threshold
func (r *GormComponentLocationRepository) FindBelowThreshold(ctx context.Context, filter shared.Filter) ([]stock.ComponentLocation, error) {
	var locs []stock.ComponentLocation
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.ComponentLocation{}).
			Where(belowThresholdCond, true),
		filter,
	)

	if err := query.Find(&locs).Error; err != nil {
		return nil, err
	}
	return locs, nil
}

// SumQuantityByComponent sums on-hand quantity for a component across all locations
func (r *GormComponentLocationRepository) SumQuantityByComponent(ctx context.Context, componentID uuid.UUID) (int64, error) {
	var result struct {
		Total int64
	}
	if err := r.db.WithContext(ctx).
		Model(&stock.ComponentLocation{}).
		Select("COALESCE(SUM(quantity_on_hand), 0) as total").
		Where("component_id = ?", componentID).
		Scan(&result).Error; err != nil {
		return 0, err
	}
	return result.Total, nil
}

// Save creates or updates a component location
func (r *GormComponentLocationRepository) Save(ctx context.Context, loc *stock.ComponentLocation) error {
	return r.db.WithContext(ctx).Save(loc).Error
}

// Delete removes a component location row
func (r *GormComponentLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&stock.ComponentLocation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByComponent removes all stock rows for a component. Deleting a
// component that holds no stock is not an error.
func (r *GormComponentLocationRepository) DeleteByComponent(ctx context.Context, componentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&stock.ComponentLocation{}, "component_id = ?", componentID).Error
}

// CountBelowThreshold counts enabled locations below their threshold
func (r *GormComponentLocationRepository) CountBelowThreshold(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&stock.ComponentLocation{}).
		Where(belowThresholdCond, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormComponentLocationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "component_id":
			query = query.Where("component_id = ?", value)
		case "location_id":
			query = query.Where("location_id = ?", value)
		}
	}

	// PageSize <= 0 disables pagination (full result for reports)
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ComponentLocationSortFields, "created_at")
	orderDir := "ASC"
	if strings.ToLower(filter.OrderDir) != "asc" {
		orderDir = "DESC"
	}
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormComponentLocationRepository implements ComponentLocationRepository
var _ stock.ComponentLocationRepository = (*GormComponentLocationRepository)(nil)
