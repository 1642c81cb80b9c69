package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// AddStockRequest represents a request to add stock at a location
type AddStockRequest struct {
	ComponentID  uuid.UUID        `json:"component_id" binding:"required"`
	LocationID   uuid.UUID        `json:"location_id" binding:"required"`
	Quantity     int64            `json:"quantity" binding:"required"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit"`
	LotID        *string          `json:"lot_id"`
	Comments     string           `json:"comments"`
	Actor        string           `json:"-"`
}

// AddStockResponse represents the outcome of an add operation
type AddStockResponse struct {
	ComponentID      uuid.UUID `json:"component_id"`
	LocationID       uuid.UUID `json:"location_id"`
	PreviousQuantity int64     `json:"previous_quantity"`
	NewQuantity      int64     `json:"new_quantity"`
	TotalStock       int64     `json:"total_stock"`
	TransactionID    uuid.UUID `json:"transaction_id"`
}

// RemoveStockRequest represents a request to remove stock from a location
type RemoveStockRequest struct {
	ComponentID uuid.UUID `json:"component_id" binding:"required"`
	LocationID  uuid.UUID `json:"location_id" binding:"required"`
	Quantity    int64     `json:"quantity" binding:"required"`
	Reason      string    `json:"reason"`
	Actor       string    `json:"-"`
}

// RemoveStockResponse represents the outcome of a remove operation.
// Capped reports that the requested quantity exceeded what was available
// and the removal was reduced to the on-hand amount.
type RemoveStockResponse struct {
	ComponentID      uuid.UUID `json:"component_id"`
	LocationID       uuid.UUID `json:"location_id"`
	QuantityRemoved  int64     `json:"quantity_removed"`
	Capped           bool      `json:"capped"`
	PreviousQuantity int64     `json:"previous_quantity"`
	NewQuantity      int64     `json:"new_quantity"`
	LocationDeleted  bool      `json:"location_deleted"`
	TransactionID    uuid.UUID `json:"transaction_id"`
}

// MoveStockRequest represents a request to move stock between locations
type MoveStockRequest struct {
	ComponentID           uuid.UUID `json:"component_id" binding:"required"`
	SourceLocationID      uuid.UUID `json:"source_location_id" binding:"required"`
	DestinationLocationID uuid.UUID `json:"destination_location_id" binding:"required"`
	Quantity              int64     `json:"quantity" binding:"required"`
	Comments              string    `json:"comments"`
	Actor                 string    `json:"-"`
}

// MoveStockResponse represents the outcome of a move operation
type MoveStockResponse struct {
	ComponentID                uuid.UUID `json:"component_id"`
	SourceLocationID           uuid.UUID `json:"source_location_id"`
	DestinationLocationID      uuid.UUID `json:"destination_location_id"`
	QuantityMoved              int64     `json:"quantity_moved"`
	Capped                     bool      `json:"capped"`
	SourceNewQuantity          int64     `json:"source_new_quantity"`
	SourceLocationDeleted      bool      `json:"source_location_deleted"`
	DestinationNewQuantity     int64     `json:"destination_new_quantity"`
	DestinationLocationCreated bool      `json:"destination_location_created"`
	PricingInherited           bool      `json:"pricing_inherited"`
}

// SetThresholdRequest represents a request to configure reorder alerting
// for a component-location pair
type SetThresholdRequest struct {
	ComponentID uuid.UUID `json:"component_id" binding:"required"`
	LocationID  uuid.UUID `json:"location_id" binding:"required"`
	Threshold   int64     `json:"threshold"`
	Enabled     bool      `json:"enabled"`
}

// SetThresholdResponse represents the outcome of a threshold change
type SetThresholdResponse struct {
	ComponentID  uuid.UUID `json:"component_id"`
	LocationID   uuid.UUID `json:"location_id"`
	Threshold    int64     `json:"threshold"`
	Enabled      bool      `json:"enabled"`
	AlertCreated bool      `json:"alert_created"`
}

// BulkSetThresholdRequest applies the same threshold configuration to a list
// of component-location pairs, each in its own transaction
type BulkSetThresholdRequest struct {
	Pairs     []ThresholdPair `json:"pairs" binding:"required,min=1"`
	Threshold int64           `json:"threshold"`
	Enabled   bool            `json:"enabled"`
}

// ThresholdPair identifies one component-location pair in a bulk threshold request
type ThresholdPair struct {
	ComponentID uuid.UUID `json:"component_id" binding:"required"`
	LocationID  uuid.UUID `json:"location_id" binding:"required"`
}

// BulkSetThresholdResult reports the per-pair outcome of a bulk threshold change
type BulkSetThresholdResult struct {
	ComponentID uuid.UUID `json:"component_id"`
	LocationID  uuid.UUID `json:"location_id"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
}

// AlertResponse represents a reorder alert in API responses
type AlertResponse struct {
	ID                 uuid.UUID  `json:"id"`
	ComponentID        uuid.UUID  `json:"component_id"`
	LocationID         uuid.UUID  `json:"location_id"`
	Status             string     `json:"status"`
	Severity           string     `json:"severity"`
	CurrentQuantity    int64      `json:"current_quantity"`
	ReorderThreshold   int64      `json:"reorder_threshold"`
	ShortageAmount     int64      `json:"shortage_amount"`
	ShortagePercentage float64    `json:"shortage_percentage"`
	Notes              string     `json:"notes,omitempty"`
	DismissedAt        *time.Time `json:"dismissed_at,omitempty"`
	OrderedAt          *time.Time `json:"ordered_at,omitempty"`
	ResolvedAt         *time.Time `json:"resolved_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NewAlertResponse maps a domain alert to its API representation
func NewAlertResponse(a *stock.ReorderAlert) AlertResponse {
	return AlertResponse{
		ID:                 a.ID,
		ComponentID:        a.ComponentID,
		LocationID:         a.LocationID,
		Status:             a.Status.String(),
		Severity:           a.Severity.String(),
		CurrentQuantity:    a.CurrentQuantity,
		ReorderThreshold:   a.ReorderThreshold,
		ShortageAmount:     a.ShortageAmount,
		ShortagePercentage: a.ShortagePercentage,
		Notes:              a.Notes,
		DismissedAt:        a.DismissedAt,
		OrderedAt:          a.OrderedAt,
		ResolvedAt:         a.ResolvedAt,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// AlertListFilter represents filter options for alert queries
type AlertListFilter struct {
	ComponentID  *uuid.UUID `form:"component_id"`
	LocationID   *uuid.UUID `form:"location_id"`
	Status       string     `form:"status" binding:"omitempty,oneof=active dismissed ordered resolved"`
	Severity     string     `form:"severity" binding:"omitempty,oneof=critical high medium low"`
	MinShortage  *int64     `form:"min_shortage"`
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LowStockEntry is one row of the low stock report
type LowStockEntry struct {
	ComponentID        uuid.UUID `json:"component_id"`
	LocationID         uuid.UUID `json:"location_id"`
	QuantityOnHand     int64     `json:"quantity_on_hand"`
	ReorderThreshold   int64     `json:"reorder_threshold"`
	ShortageAmount     int64     `json:"shortage_amount"`
	ShortagePercentage float64   `json:"shortage_percentage"`
	Severity           string    `json:"severity"`
}

// AlertStatisticsResponse aggregates alert counts for dashboards
type AlertStatisticsResponse struct {
	TotalByStatus           map[string]int64 `json:"total_by_status"`
	ActiveBySeverity        map[string]int64 `json:"active_by_severity"`
	TotalActiveShortage     int64            `json:"total_active_shortage"`
	LocationsBelowThreshold int64            `json:"locations_below_threshold"`
}

// TransactionResponse represents a stock transaction in API responses
type TransactionResponse struct {
	ID               uuid.UUID        `json:"id"`
	ComponentID      uuid.UUID        `json:"component_id"`
	TransactionType  string           `json:"transaction_type"`
	QuantityChange   int64            `json:"quantity_change"`
	PreviousQuantity int64            `json:"previous_quantity"`
	NewQuantity      int64            `json:"new_quantity"`
	FromLocationID   *uuid.UUID       `json:"from_location_id,omitempty"`
	ToLocationID     *uuid.UUID       `json:"to_location_id,omitempty"`
	LotID            *string          `json:"lot_id,omitempty"`
	PricePerUnit     *decimal.Decimal `json:"price_per_unit,omitempty"`
	TotalPrice       *decimal.Decimal `json:"total_price,omitempty"`
	Actor            string           `json:"actor"`
	Comments         string           `json:"comments,omitempty"`
	TransactionDate  time.Time        `json:"transaction_date"`
}

// NewTransactionResponse maps a domain transaction to its API representation
func NewTransactionResponse(t *stock.StockTransaction) TransactionResponse {
	return TransactionResponse{
		ID:               t.ID,
		ComponentID:      t.ComponentID,
		TransactionType:  t.TransactionType.String(),
		QuantityChange:   t.QuantityChange,
		PreviousQuantity: t.PreviousQuantity,
		NewQuantity:      t.NewQuantity,
		FromLocationID:   t.FromLocationID,
		ToLocationID:     t.ToLocationID,
		LotID:            t.LotID,
		PricePerUnit:     t.PricePerUnit,
		TotalPrice:       t.TotalPrice,
		Actor:            t.Actor,
		Comments:         t.Comments,
		TransactionDate:  t.TransactionDate,
	}
}

// HistoryListFilter represents filter options for the stock history list
type HistoryListFilter struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}
