package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	gormModels "farhold/quarterdeck/internal/models/gorm"
)

// ItemRepository handles the equipment catalog.
type ItemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// SlugExists reports whether a slug is already in use.
func (r *ItemRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Item{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new item.
func (r *ItemRepository) Create(ctx context.Context, item *gormModels.Item) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// FindByID retrieves an item by primary key. Returns (nil, nil) when missing.
func (r *ItemRepository) FindByID(ctx context.Context, id uint) (*gormModels.Item, error) {
	var item gormModels.Item
	err := r.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch item: %w", err)
	}
	return &item, nil
}

// FindBySlug retrieves an item by slug. Returns (nil, nil) when missing.
func (r *ItemRepository) FindBySlug(ctx context.Context, slug string) (*gormModels.Item, error) {
	var item gormModels.Item
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch item: %w", err)
	}
	return &item, nil
}

// List returns a page of items with optional category and search filters.
func (r *ItemRepository) List(ctx context.Context, page, limit int, category, search string) ([]gormModels.Item, int64, error) {
	query := r.db.WithContext(ctx).Model(&gormModels.Item{})

	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?)", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	var items []gormModels.Item
	err := query.
		Order("name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list items: %w", err)
	}

	return items, total, nil
}

// Save persists all fields of an existing item.
func (r *ItemRepository) Save(ctx context.Context, item *gormModels.Item) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}
	return nil
}

// Delete removes an item.
func (r *ItemRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&gormModels.Item{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
