package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ComponentLocation represents the stock of one component held at one storage
// location. It is the aggregate root for all quantity-affecting operations.
// The composite identifier is ComponentID + LocationID.
type ComponentLocation struct {
	shared.BaseAggregateRoot
	ComponentID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_component_location,priority:1"`
	LocationID       uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_component_location,priority:2"`
	QuantityOnHand   int64            `gorm:"not null;default:0;check:quantity_on_hand >= 0"`
	ReorderThreshold int64            `gorm:"not null;default:0"`
	ReorderEnabled   bool             `gorm:"not null;default:false"`
	LotID            *string          `gorm:"type:varchar(100)"`
	PricePerUnit     *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (ComponentLocation) TableName() string {
	return "component_locations"
}

// NewComponentLocation creates an empty stock row for a component-location pair
func NewComponentLocation(componentID, locationID uuid.UUID) (*ComponentLocation, error) {
	if componentID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Component ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Location ID cannot be empty")
	}
	return &ComponentLocation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ComponentID:       componentID,
		LocationID:        locationID,
	}, nil
}

// Add increases the quantity on hand. Quantity must be a positive integer.
func (l *ComponentLocation) Add(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be a positive integer")
	}
	l.QuantityOnHand += quantity
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// Remove decreases the quantity on hand, capping the removal at what is
// available. Over-removal is not an error: the result reports the quantity
// actually removed and whether capping occurred.
func (l *ComponentLocation) Remove(requested int64) (removed int64, capped bool, err error) {
	if requested <= 0 {
		return 0, false, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be a positive integer")
	}
	removed = requested
	if removed > l.QuantityOnHand {
		removed = l.QuantityOnHand
		capped = true
	}
	l.QuantityOnHand -= removed
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return removed, capped, nil
}

// SetPricing records lot and per-unit pricing metadata for the location
func (l *ComponentLocation) SetPricing(pricePerUnit *decimal.Decimal, lotID *string) {
	if pricePerUnit != nil {
		p := *pricePerUnit
		l.PricePerUnit = &p
	}
	if lotID != nil {
		id := *lotID
		l.LotID = &id
	}
	l.UpdatedAt = time.Now()
}

// SetThreshold updates the reorder configuration for this location
func (l *ComponentLocation) SetThreshold(threshold int64, enabled bool) error {
	if threshold < 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Reorder threshold cannot be negative")
	}
	l.ReorderThreshold = threshold
	l.ReorderEnabled = enabled
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// IsEmpty returns true when no stock remains at this location
func (l *ComponentLocation) IsEmpty() bool {
	return l.QuantityOnHand == 0
}

// IsBelowThreshold returns true when reorder alerting is enabled and the
// on-hand quantity has dropped below the configured threshold
func (l *ComponentLocation) IsBelowThreshold() bool {
	return l.ReorderEnabled && l.QuantityOnHand < l.ReorderThreshold
}

// ShortageAmount returns threshold minus on-hand quantity. Only meaningful
// when the location is below threshold.
func (l *ComponentLocation) ShortageAmount() int64 {
	return l.ReorderThreshold - l.QuantityOnHand
}

// ShortagePercentage returns the shortage as a percentage of the threshold
func (l *ComponentLocation) ShortagePercentage() float64 {
	if l.ReorderThreshold <= 0 {
		return 0
	}
	return float64(l.ShortageAmount()) / float64(l.ReorderThreshold) * 100
}
