package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/shared"
)

// Component represents an electronic part in the catalog.
// It is the aggregate root for bulk operations: tag membership, project
// assignment and deletion all go through the component and bump its version.
type Component struct {
	shared.BaseAggregateRoot
	Name         string `gorm:"type:varchar(200);not null;index"`
	PartNumber   string `gorm:"type:varchar(100);index"`
	Manufacturer string `gorm:"type:varchar(200)"`
	Description  string `gorm:"type:text"`
	Tags         []Tag  `gorm:"many2many:component_tags"`
}

// TableName returns the table name for GORM
func (Component) TableName() string {
	return "components"
}

// NewComponent creates a new component
func NewComponent(name string) (*Component, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Component name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Component name cannot exceed 200 characters")
	}
	return &Component{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
	}, nil
}

// HasTag reports whether the component already carries the given tag
func (c *Component) HasTag(tagID uuid.UUID) bool {
	for _, t := range c.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}

// AddTag attaches a tag to the component. Adding a tag the component
// already has is a no-op; the returned bool reports whether membership
// actually changed.
func (c *Component) AddTag(tag Tag) bool {
	if c.HasTag(tag.ID) {
		return false
	}
	c.Tags = append(c.Tags, tag)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return true
}

// RemoveTag detaches a tag from the component. Removing a tag the
// component does not have is a no-op.
func (c *Component) RemoveTag(tagID uuid.UUID) bool {
	for i, t := range c.Tags {
		if t.ID == tagID {
			c.Tags = append(c.Tags[:i], c.Tags[i+1:]...)
			c.UpdatedAt = time.Now()
			c.IncrementVersion()
			return true
		}
	}
	return false
}

// TagNames returns the component's current tag names in attachment order
func (c *Component) TagNames() []string {
	names := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		names = append(names, t.Name)
	}
	return names
}
