package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of stock transaction
type TransactionType string

const (
	// TransactionTypeAdd represents stock added to a location
	TransactionTypeAdd TransactionType = "add"
	// TransactionTypeRemove represents stock removed from a location
	TransactionTypeRemove TransactionType = "remove"
	// TransactionTypeMove represents stock moved between locations
	TransactionTypeMove TransactionType = "move"
	// TransactionTypeAdjust represents a stock-taking correction
	TransactionTypeAdjust TransactionType = "adjust"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeAdd, TransactionTypeRemove, TransactionTypeMove, TransactionTypeAdjust:
		return true
	}
	return false
}

// StockTransaction is an immutable audit record of a single quantity change.
// Once created, transactions are never updated or deleted - corrections are
// made with new transactions.
type StockTransaction struct {
	shared.BaseEntity
	ComponentID      uuid.UUID        `gorm:"type:uuid;not null;index:idx_stock_tx_component_time,priority:1"`
	TransactionType  TransactionType  `gorm:"type:varchar(10);not null;index"`
	QuantityChange   int64            `gorm:"not null"` // signed: add positive, remove negative
	PreviousQuantity int64            `gorm:"not null"`
	NewQuantity      int64            `gorm:"not null"`
	FromLocationID   *uuid.UUID       `gorm:"type:uuid;index"`
	ToLocationID     *uuid.UUID       `gorm:"type:uuid;index"`
	LotID            *string          `gorm:"type:varchar(100)"`
	PricePerUnit     *decimal.Decimal `gorm:"type:decimal(18,4)"`
	TotalPrice       *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Actor            string           `gorm:"type:varchar(100);not null"`
	Comments         string           `gorm:"type:varchar(500)"`
	TransactionDate  time.Time        `gorm:"type:timestamptz;not null;index:idx_stock_tx_component_time,priority:2"`
}

// TableName returns the table name for GORM
func (StockTransaction) TableName() string {
	return "stock_transactions"
}

// NewStockTransaction creates a new stock transaction record.
// The quantity invariant newQuantity - previousQuantity == quantityChange
// is enforced here so no inconsistent audit row can be constructed.
func NewStockTransaction(
	componentID uuid.UUID,
	txType TransactionType,
	quantityChange int64,
	previousQuantity int64,
	newQuantity int64,
	actor string,
) (*StockTransaction, error) {
	if componentID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Component ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid transaction type")
	}
	if newQuantity-previousQuantity != quantityChange {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity change does not match previous and new quantities")
	}
	if previousQuantity < 0 || newQuantity < 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantities cannot be negative")
	}
	if actor == "" {
		actor = "system"
	}

	return &StockTransaction{
		BaseEntity:       shared.NewBaseEntity(),
		ComponentID:      componentID,
		TransactionType:  txType,
		QuantityChange:   quantityChange,
		PreviousQuantity: previousQuantity,
		NewQuantity:      newQuantity,
		Actor:            actor,
		TransactionDate:  time.Now(),
	}, nil
}

// WithFromLocation sets the source location for the transaction
func (t *StockTransaction) WithFromLocation(locationID uuid.UUID) *StockTransaction {
	t.FromLocationID = &locationID
	return t
}

// WithToLocation sets the destination location for the transaction
func (t *StockTransaction) WithToLocation(locationID uuid.UUID) *StockTransaction {
	t.ToLocationID = &locationID
	return t
}

// WithLotID sets the lot identifier
func (t *StockTransaction) WithLotID(lotID string) *StockTransaction {
	t.LotID = &lotID
	return t
}

// WithPricing sets per-unit pricing; the total is derived from the absolute
// quantity change
func (t *StockTransaction) WithPricing(pricePerUnit decimal.Decimal) *StockTransaction {
	qty := t.QuantityChange
	if qty < 0 {
		qty = -qty
	}
	total := pricePerUnit.Mul(decimal.NewFromInt(qty))
	t.PricePerUnit = &pricePerUnit
	t.TotalPrice = &total
	return t
}

// WithComments sets a free-form comment on the transaction
func (t *StockTransaction) WithComments(comments string) *StockTransaction {
	t.Comments = comments
	return t
}

// IsIncrease returns true if the transaction increased the quantity
func (t *StockTransaction) IsIncrease() bool {
	return t.QuantityChange > 0
}
