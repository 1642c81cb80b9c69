package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/shared"
)

// ComponentLocationRepository defines the interface for component location persistence
type ComponentLocationRepository interface {
	// FindByID finds a component location by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ComponentLocation, error)

	// FindByComponentAndLocation finds the stock row for a component-location pair
	FindByComponentAndLocation(ctx context.Context, componentID, locationID uuid.UUID) (*ComponentLocation, error)

	// FindForUpdate finds the stock row for a component-location pair while
	// holding an exclusive row lock until the surrounding transaction commits.
	// Must be called inside a transaction scope.
	FindForUpdate(ctx context.Context, componentID, locationID uuid.UUID) (*ComponentLocation, error)

	// FindByComponent finds all stock rows for a component across locations
	FindByComponent(ctx context.Context, componentID uuid.UUID) ([]ComponentLocation, error)

	// FindBelowThreshold finds enabled locations whose quantity is below threshold
	FindBelowThreshold(ctx context.Context, filter shared.Filter) ([]ComponentLocation, error)

	// SumQuantityByComponent sums on-hand quantity for a component across all locations
	SumQuantityByComponent(ctx context.Context, componentID uuid.UUID) (int64, error)

	// Save creates or updates a component location
	Save(ctx context.Context, loc *ComponentLocation) error

	// Delete removes a component location row (quantity reached zero)
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByComponent removes all stock rows for a component (cascade delete)
	DeleteByComponent(ctx context.Context, componentID uuid.UUID) error

	// CountBelowThreshold counts enabled locations below their threshold
	CountBelowThreshold(ctx context.Context) (int64, error)
}

// StockTransactionRepository defines the interface for the append-only audit log.
// Transactions are never updated or deleted.
type StockTransactionRepository interface {
	// FindByID finds a transaction by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockTransaction, error)

	// FindByComponent finds transactions for a component with pagination and sorting
	FindByComponent(ctx context.Context, componentID uuid.UUID, filter shared.Filter) ([]StockTransaction, error)

	// CountByComponent counts transactions for a component
	CountByComponent(ctx context.Context, componentID uuid.UUID) (int64, error)

	// Create appends a new transaction record
	Create(ctx context.Context, tx *StockTransaction) error

	// CreateBatch appends multiple transaction records
	CreateBatch(ctx context.Context, txs []*StockTransaction) error
}

// ReorderAlertRepository defines the interface for reorder alert persistence
type ReorderAlertRepository interface {
	// FindByID finds an alert by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ReorderAlert, error)

	// FindActiveByPair finds the single active alert for a component-location
	// pair, or shared.ErrNotFound when none exists
	FindActiveByPair(ctx context.Context, componentID, locationID uuid.UUID) (*ReorderAlert, error)

	// FindAll finds alerts matching the filter (status, severity, component,
	// location, min_shortage)
	FindAll(ctx context.Context, filter shared.Filter) ([]ReorderAlert, error)

	// Count counts alerts matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus returns alert counts grouped by status
	CountByStatus(ctx context.Context) (map[AlertStatus]int64, error)

	// CountActiveBySeverity returns active alert counts grouped by severity
	CountActiveBySeverity(ctx context.Context) (map[AlertSeverity]int64, error)

	// SumActiveShortage sums shortage amounts across active alerts
	SumActiveShortage(ctx context.Context) (int64, error)

	// Save creates or updates an alert
	Save(ctx context.Context, alert *ReorderAlert) error

	// DeleteByComponent removes all alerts for a component (cascade delete)
	DeleteByComponent(ctx context.Context, componentID uuid.UUID) error
}
