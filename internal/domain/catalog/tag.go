package catalog

import (
	"strings"

	"github.com/partshub/backend/internal/domain/shared"
)

// Tag is a free-form label attached to components. Tags are identified by
// their unique name; bulk operations resolve names to rows with find-or-create
// semantics.
type Tag struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Tag) TableName() string {
	return "tags"
}

// NewTag creates a new tag
func NewTag(name string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Tag name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Tag name cannot exceed 100 characters")
	}
	return &Tag{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}
