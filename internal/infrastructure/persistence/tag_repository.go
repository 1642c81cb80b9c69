package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/partshub/backend/internal/domain/catalog"
	"github.com/partshub/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTagRepository implements TagRepository using GORM
type GormTagRepository struct {
	db *gorm.DB
}

// NewGormTagRepository creates a new GormTagRepository
func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// FindByID finds a tag by its ID
func (r *GormTagRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Tag, error) {
	var tag catalog.Tag
	if err := r.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// FindByName finds a tag by its unique name
func (r *GormTagRepository) FindByName(ctx context.Context, name string) (*catalog.Tag, error) {
	var tag catalog.Tag
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// GetOrCreateByName returns the tag with the given name, creating it when it
// does not exist yet
func (r *GormTagRepository) GetOrCreateByName(ctx context.Context, name string) (*catalog.Tag, error) {
	tag, err := r.FindByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	tag, err = catalog.NewTag(name)
	if err != nil {
		return nil, err
	}

	// ON CONFLICT absorbs races with a concurrent insert of the same name
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(tag)
	if result.Error != nil {
		return nil, result.Error
	}

	// Lost the race: fetch the row the other transaction created
	if result.RowsAffected == 0 {
		return r.FindByName(ctx, name)
	}

	return tag, nil
}

// FindAll finds all tags matching the filter
func (r *GormTagRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Tag, error) {
	var tags []catalog.Tag
	query := r.db.WithContext(ctx).Model(&catalog.Tag{})

	if name, ok := filter.Filters["name"]; ok {
		query = query.Where("name LIKE ?", "%"+toString(name)+"%")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, TagSortFields, "name")
	orderDir := "DESC"
	if strings.ToLower(filter.OrderDir) != "desc" {
		orderDir = "ASC"
	}
	query = query.Order(orderBy + " " + orderDir)

	if err := query.Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Save creates or updates a tag
func (r *GormTagRepository) Save(ctx context.Context, tag *catalog.Tag) error {
	return r.db.WithContext(ctx).Save(tag).Error
}

// Delete deletes a tag and detaches it from all components
func (r *GormTagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Exec("DELETE FROM component_tags WHERE tag_id = ?", id).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&catalog.Tag{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTagRepository implements TagRepository
var _ catalog.TagRepository = (*GormTagRepository)(nil)
