package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	gormModels "farhold/quarterdeck/internal/models/gorm"
)

// FleetRepository handles ships owned by org members.
type FleetRepository struct {
	db *gorm.DB
}

// NewFleetRepository creates a new fleet repository
func NewFleetRepository(db *gorm.DB) *FleetRepository {
	return &FleetRepository{db: db}
}

// Create inserts a fleet entry.
func (r *FleetRepository) Create(ctx context.Context, ship *gormModels.FleetShip) error {
	if err := r.db.WithContext(ctx).Create(ship).Error; err != nil {
		return fmt.Errorf("failed to create fleet ship: %w", err)
	}
	return nil
}

// FindByID retrieves a fleet entry with its catalog ship. Returns (nil, nil)
// when missing.
func (r *FleetRepository) FindByID(ctx context.Context, id uint) (*gormModels.FleetShip, error) {
	var ship gormModels.FleetShip
	err := r.db.WithContext(ctx).
		Preload("Ship").
		Preload("Ship.Manufacturer").
		First(&ship, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch fleet ship: %w", err)
	}
	return &ship, nil
}

// List returns a page of fleet entries with optional owner and status
// filters.
func (r *FleetRepository) List(ctx context.Context, page, limit int, ownerID uint, status string) ([]gormModels.FleetShip, int64, error) {
	query := r.db.WithContext(ctx).Model(&gormModels.FleetShip{})

	if ownerID != 0 {
		query = query.Where("owner_id = ?", ownerID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count fleet ships: %w", err)
	}

	var ships []gormModels.FleetShip
	err := query.
		Preload("Ship").
		Preload("Ship.Manufacturer").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&ships).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list fleet ships: %w", err)
	}

	return ships, total, nil
}

// Save persists all fields of an existing fleet entry.
func (r *FleetRepository) Save(ctx context.Context, ship *gormModels.FleetShip) error {
	if err := r.db.WithContext(ctx).Save(ship).Error; err != nil {
		return fmt.Errorf("failed to save fleet ship: %w", err)
	}
	return nil
}

// Delete removes a fleet entry.
func (r *FleetRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&gormModels.FleetShip{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete fleet ship: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByCatalogShip counts fleet entries referencing a catalog ship. A
// nonzero count blocks catalog deletions.
func (r *FleetRepository) CountByCatalogShip(ctx context.Context, shipID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.FleetShip{}).
		Where("ship_id = ?", shipID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count fleet ships: %w", err)
	}
	return count, nil
}
