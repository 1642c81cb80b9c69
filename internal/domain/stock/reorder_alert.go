package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/shared"
)

// AlertStatus represents the lifecycle state of a reorder alert
type AlertStatus string

const (
	// AlertStatusActive is the only non-terminal status
	AlertStatusActive AlertStatus = "active"
	// AlertStatusDismissed means a user explicitly dismissed the alert
	AlertStatusDismissed AlertStatus = "dismissed"
	// AlertStatusOrdered means a user marked replacement stock as ordered
	AlertStatusOrdered AlertStatus = "ordered"
	// AlertStatusResolved means stock rose back to or above the threshold
	AlertStatusResolved AlertStatus = "resolved"
)

// String returns the string representation of AlertStatus
func (s AlertStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s AlertStatus) IsValid() bool {
	switch s {
	case AlertStatusActive, AlertStatusDismissed, AlertStatusOrdered, AlertStatusResolved:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that end an alert lifecycle instance
func (s AlertStatus) IsTerminal() bool {
	return s != AlertStatusActive
}

// AlertSeverity classifies how severe a shortage is
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityHigh     AlertSeverity = "high"
	SeverityMedium   AlertSeverity = "medium"
	SeverityLow      AlertSeverity = "low"
)

// String returns the string representation of AlertSeverity
func (s AlertSeverity) String() string {
	return string(s)
}

// SeverityForShortage maps a shortage percentage to a severity tier.
// Severity is a pure function of the shortage percentage.
func SeverityForShortage(shortagePercentage float64) AlertSeverity {
	switch {
	case shortagePercentage > 80:
		return SeverityCritical
	case shortagePercentage > 50:
		return SeverityHigh
	case shortagePercentage > 20:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// ReorderAlert tracks one shortage lifecycle for a component-location pair.
// At most one alert with status=active may exist per pair; terminal alerts
// are kept as history and a fresh instance is created on a later re-breach.
type ReorderAlert struct {
	shared.BaseEntity
	ComponentID        uuid.UUID     `gorm:"type:uuid;not null;index:idx_reorder_alert_pair,priority:1"`
	LocationID         uuid.UUID     `gorm:"type:uuid;not null;index:idx_reorder_alert_pair,priority:2"`
	Status             AlertStatus   `gorm:"type:varchar(10);not null;index"`
	Severity           AlertSeverity `gorm:"type:varchar(10);not null;index"`
	CurrentQuantity    int64         `gorm:"not null"`
	ReorderThreshold   int64         `gorm:"not null"`
	ShortageAmount     int64         `gorm:"not null"`
	ShortagePercentage float64       `gorm:"not null"`
	Notes              string        `gorm:"type:varchar(500)"`
	DismissedAt        *time.Time
	OrderedAt          *time.Time
	ResolvedAt         *time.Time
}

// TableName returns the table name for GORM
func (ReorderAlert) TableName() string {
	return "reorder_alerts"
}

// NewReorderAlert creates an active alert for a location below its threshold
func NewReorderAlert(componentID, locationID uuid.UUID, currentQuantity, threshold int64) (*ReorderAlert, error) {
	if componentID == uuid.Nil || locationID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Component and location IDs cannot be empty")
	}
	if threshold <= 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Reorder threshold must be positive for an alert")
	}
	if currentQuantity >= threshold {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity is not below the reorder threshold")
	}

	a := &ReorderAlert{
		BaseEntity:       shared.NewBaseEntity(),
		ComponentID:      componentID,
		LocationID:       locationID,
		Status:           AlertStatusActive,
		ReorderThreshold: threshold,
	}
	a.recalculate(currentQuantity)
	return a, nil
}

// recalculate refreshes the shortage fields and severity from a new quantity
func (a *ReorderAlert) recalculate(currentQuantity int64) {
	a.CurrentQuantity = currentQuantity
	a.ShortageAmount = a.ReorderThreshold - currentQuantity
	a.ShortagePercentage = float64(a.ShortageAmount) / float64(a.ReorderThreshold) * 100
	a.Severity = SeverityForShortage(a.ShortagePercentage)
	a.UpdatedAt = time.Now()
}

// Refresh updates an active alert in place after a quantity change that
// leaves the location still below threshold
func (a *ReorderAlert) Refresh(currentQuantity int64) error {
	if a.Status != AlertStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active alerts can be refreshed")
	}
	a.recalculate(currentQuantity)
	return nil
}

// Resolve transitions an active alert to resolved when stock recovers
func (a *ReorderAlert) Resolve(currentQuantity int64) error {
	if a.Status != AlertStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active alerts can be resolved")
	}
	now := time.Now()
	a.Status = AlertStatusResolved
	a.CurrentQuantity = currentQuantity
	a.ResolvedAt = &now
	a.UpdatedAt = now
	return nil
}

// Dismiss transitions an active alert to dismissed on explicit user action
func (a *ReorderAlert) Dismiss(notes string) error {
	if a.Status != AlertStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active alerts can be dismissed")
	}
	now := time.Now()
	a.Status = AlertStatusDismissed
	a.DismissedAt = &now
	a.UpdatedAt = now
	if notes != "" {
		a.Notes = notes
	}
	return nil
}

// MarkOrdered transitions an active alert to ordered on explicit user action
func (a *ReorderAlert) MarkOrdered(notes string) error {
	if a.Status != AlertStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active alerts can be marked as ordered")
	}
	now := time.Now()
	a.Status = AlertStatusOrdered
	a.OrderedAt = &now
	a.UpdatedAt = now
	if notes != "" {
		a.Notes = notes
	}
	return nil
}

// IsActive returns true for the single non-terminal status
func (a *ReorderAlert) IsActive() bool {
	return a.Status == AlertStatusActive
}
