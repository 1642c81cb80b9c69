package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/shared"
	"github.com/partshub/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormReorderAlertRepository implements ReorderAlertRepository using GORM
type GormReorderAlertRepository struct {
	db *gorm.DB
}

// NewGormReorderAlertRepository creates a new GormReorderAlertRepository
func NewGormReorderAlertRepository(db *gorm.DB) *GormReorderAlertRepository {
	return &GormReorderAlertRepository{db: db}
}

// FindByID finds an alert by its ID
func (r *GormReorderAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.ReorderAlert, error) {
	var alert stock.ReorderAlert
	if err := r.db.WithContext(ctx).First(&alert, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// FindActiveByPair finds the single active alert for a component-location
// pair. The engine maintains at most one active alert per pair.
func (r *GormReorderAlertRepository) FindActiveByPair(ctx context.Context, componentID, locationID uuid.UUID) (*stock.ReorderAlert, error) {
	var alert stock.ReorderAlert
	if err := r.db.WithContext(ctx).
		Where("component_id = ? AND location_id = ? AND status = ?", componentID, locationID, stock.AlertStatusActive).
		First(&alert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// FindAll finds alerts matching the filter
func (r *GormReorderAlertRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.ReorderAlert, error) {
	var alerts []stock.ReorderAlert
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&stock.ReorderAlert{}),
		filter,
	)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ReorderAlertSortFields, "created_at")
	orderDir := "ASC"
	if strings.ToLower(filter.OrderDir) != "asc" {
		orderDir = "DESC"
	}
	query = query.Order(orderBy + " " + orderDir)

	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// Count counts alerts matching the filter
func (r *GormReorderAlertRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&stock.ReorderAlert{}),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus returns alert counts grouped by status
func (r *GormReorderAlertRepository) CountByStatus(ctx context.Context) (map[stock.AlertStatus]int64, error) {
	var rows []struct {
		Status stock.AlertStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&stock.ReorderAlert{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[stock.AlertStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountActiveBySeverity returns active alert counts grouped by severity
func (r *GormReorderAlertRepository) CountActiveBySeverity(ctx context.Context) (map[stock.AlertSeverity]int64, error) {
	var rows []struct {
		Severity stock.AlertSeverity
		Count    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&stock.ReorderAlert{}).
		Select("severity, count(*) as count").
		Where("status = ?", stock.AlertStatusActive).
		Group("severity").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[stock.AlertSeverity]int64, len(rows))
	for _, row := range rows {
		counts[row.Severity] = row.Count
	}
	return counts, nil
}

// SumActiveShortage sums shortage amounts across active alerts
func (r *GormReorderAlertRepository) SumActiveShortage(ctx context.Context) (int64, error) {
	var result struct {
		Total int64
	}
	if err := r.db.WithContext(ctx).
		Model(&stock.ReorderAlert{}).
		Select("COALESCE(SUM(shortage_amount), 0) as total").
		Where("status = ?", stock.AlertStatusActive).
		Scan(&result).Error; err != nil {
		return 0, err
	}
	return result.Total, nil
}

// Save creates or updates an alert
func (r *GormReorderAlertRepository) Save(ctx context.Context, alert *stock.ReorderAlert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

// DeleteByComponent removes all alerts for a component
func (r *GormReorderAlertRepository) DeleteByComponent(ctx context.Context, componentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&stock.ReorderAlert{}, "component_id = ?", componentID).Error
}

// applyFilterWithoutPagination applies the alert filter keys to the query
func (r *GormReorderAlertRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "severity":
			query = query.Where("severity = ?", value)
		case "component_id":
			query = query.Where("component_id = ?", value)
		case "location_id":
			query = query.Where("location_id = ?", value)
		case "min_shortage":
			query = query.Where("shortage_amount >= ?", value)
		}
	}
	return query
}

// Ensure GormReorderAlertRepository implements ReorderAlertRepository
var _ stock.ReorderAlertRepository = (*GormReorderAlertRepository)(nil)
