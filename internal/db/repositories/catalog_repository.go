package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	gormModels "farhold/quarterdeck/internal/models/gorm"
)

// CatalogRepository handles manufacturers, ships, and ship components.
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// GetOrCreateManufacturer finds a manufacturer by code or inserts the given
// row. Existing rows are returned untouched: a later ship carrying different
// manufacturer details never rewrites an earlier one.
func (r *CatalogRepository) GetOrCreateManufacturer(ctx context.Context, mfr *gormModels.Manufacturer) (*gormModels.Manufacturer, bool, error) {
	var existing gormModels.Manufacturer
	err := r.db.WithContext(ctx).
		Where("code = ?", mfr.Code).
		First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, fmt.Errorf("failed to fetch manufacturer: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(mfr).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create manufacturer: %w", err)
	}
	return mfr, true, nil
}

// FindShipByExternalID retrieves a ship by its upstream identifier. Returns
// (nil, nil) when missing.
func (r *CatalogRepository) FindShipByExternalID(ctx context.Context, externalID int64) (*gormModels.Ship, error) {
	var ship gormModels.Ship
	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&ship).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch ship: %w", err)
	}
	return &ship, nil
}

// FindShipByNaturalKey retrieves a ship by manufacturer and model. Returns
// (nil, nil) when missing.
func (r *CatalogRepository) FindShipByNaturalKey(ctx context.Context, manufacturerID uint, model string) (*gormModels.Ship, error) {
	var ship gormModels.Ship
	err := r.db.WithContext(ctx).
		Where("manufacturer_id = ? AND model = ?", manufacturerID, model).
		First(&ship).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch ship: %w", err)
	}
	return &ship, nil
}

// CreateShip inserts a new ship.
func (r *CatalogRepository) CreateShip(ctx context.Context, ship *gormModels.Ship) error {
	if err := r.db.WithContext(ctx).Create(ship).Error; err != nil {
		return fmt.Errorf("failed to create ship: %w", err)
	}
	return nil
}

// SaveShip overwrites all fields of an existing ship.
func (r *CatalogRepository) SaveShip(ctx context.Context, ship *gormModels.Ship) error {
	if err := r.db.WithContext(ctx).Save(ship).Error; err != nil {
		return fmt.Errorf("failed to save ship: %w", err)
	}
	return nil
}

// GetShipByID retrieves a ship with its manufacturer and components.
func (r *CatalogRepository) GetShipByID(ctx context.Context, id uint) (*gormModels.Ship, error) {
	var ship gormModels.Ship
	err := r.db.WithContext(ctx).
		Preload("Manufacturer").
		Preload("Components").
		First(&ship, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch ship: %w", err)
	}
	return &ship, nil
}

// ListShips returns a page of ships with optional filters.
func (r *CatalogRepository) ListShips(ctx context.Context, page, limit int, manufacturerCode, size, search string, flightReadyOnly bool) ([]gormModels.Ship, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&gormModels.Ship{}).
		Joins("JOIN ship_manufacturers ON ship_manufacturers.id = ships.manufacturer_id")

	if manufacturerCode != "" {
		query = query.Where("ship_manufacturers.code = ?", manufacturerCode)
	}
	if size != "" {
		query = query.Where("ships.size = ?", size)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(ships.name) LIKE LOWER(?) OR LOWER(ships.model) LIKE LOWER(?)", pattern, pattern)
	}
	if flightReadyOnly {
		query = query.Where("ships.is_flight_ready = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count ships: %w", err)
	}

	var ships []gormModels.Ship
	err := query.
		Preload("Manufacturer").
		Order("ships.name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&ships).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ships: %w", err)
	}

	return ships, total, nil
}

// ListManufacturers returns all manufacturers ordered by name.
func (r *CatalogRepository) ListManufacturers(ctx context.Context) ([]gormModels.Manufacturer, error) {
	var manufacturers []gormModels.Manufacturer
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&manufacturers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list manufacturers: %w", err)
	}
	return manufacturers, nil
}

// CountShips returns the total number of catalog ships.
func (r *CatalogRepository) CountShips(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gormModels.Ship{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count ships: %w", err)
	}
	return count, nil
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *CatalogRepository) WithTx(tx *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: tx}
}

// DB exposes the underlying handle for transaction scoping.
func (r *CatalogRepository) DB() *gorm.DB {
	return r.db
}
