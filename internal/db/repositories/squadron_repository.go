package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	gormModels "farhold/quarterdeck/internal/models/gorm"
)

// SquadronRepository handles squadrons and their membership rows.
type SquadronRepository struct {
	db *gorm.DB
}

// NewSquadronRepository creates a new squadron repository
func NewSquadronRepository(db *gorm.DB) *SquadronRepository {
	return &SquadronRepository{db: db}
}

// Create inserts a squadron.
func (r *SquadronRepository) Create(ctx context.Context, squadron *gormModels.Squadron) error {
	if err := r.db.WithContext(ctx).Create(squadron).Error; err != nil {
		return fmt.Errorf("failed to create squadron: %w", err)
	}
	return nil
}

// FindBySlug retrieves a squadron. Returns (nil, nil) when missing.
func (r *SquadronRepository) FindBySlug(ctx context.Context, slug string) (*gormModels.Squadron, error) {
	var squadron gormModels.Squadron
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&squadron).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch squadron: %w", err)
	}
	return &squadron, nil
}

// FindByID retrieves a squadron by primary key. Returns (nil, nil) when
// missing.
func (r *SquadronRepository) FindByID(ctx context.Context, id uint) (*gormModels.Squadron, error) {
	var squadron gormModels.Squadron
	err := r.db.WithContext(ctx).First(&squadron, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch squadron: %w", err)
	}
	return &squadron, nil
}

// SlugExists reports whether a slug is already in use.
func (r *SquadronRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Squadron{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return count > 0, nil
}

// List returns squadrons, optionally restricted to active ones.
func (r *SquadronRepository) List(ctx context.Context, activeOnly bool) ([]gormModels.Squadron, error) {
	query := r.db.WithContext(ctx).Model(&gormModels.Squadron{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var squadrons []gormModels.Squadron
	err := query.Order("name ASC").Find(&squadrons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list squadrons: %w", err)
	}
	return squadrons, nil
}

// Save persists all fields of an existing squadron.
func (r *SquadronRepository) Save(ctx context.Context, squadron *gormModels.Squadron) error {
	if err := r.db.WithContext(ctx).Save(squadron).Error; err != nil {
		return fmt.Errorf("failed to save squadron: %w", err)
	}
	return nil
}

// FindMembership retrieves the membership row for a user in a squadron,
// active or not. Returns (nil, nil) when the user never joined.
func (r *SquadronRepository) FindMembership(ctx context.Context, squadronID, userID uint) (*gormModels.SquadronMember, error) {
	var membership gormModels.SquadronMember
	err := r.db.WithContext(ctx).
		Where("squadron_id = ? AND user_id = ?", squadronID, userID).
		First(&membership).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch squadron membership: %w", err)
	}
	return &membership, nil
}

// CountActiveMembers counts active members of a squadron.
func (r *SquadronRepository) CountActiveMembers(ctx context.Context, squadronID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.SquadronMember{}).
		Where("squadron_id = ? AND is_active = ?", squadronID, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count squadron members: %w", err)
	}
	return count, nil
}

// CreateMembership inserts a membership row.
func (r *SquadronRepository) CreateMembership(ctx context.Context, membership *gormModels.SquadronMember) error {
	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return fmt.Errorf("failed to create squadron membership: %w", err)
	}
	return nil
}

// SaveMembership persists all fields of a membership row.
func (r *SquadronRepository) SaveMembership(ctx context.Context, membership *gormModels.SquadronMember) error {
	if err := r.db.WithContext(ctx).Save(membership).Error; err != nil {
		return fmt.Errorf("failed to save squadron membership: %w", err)
	}
	return nil
}

// ListActiveMembers returns the active membership rows of a squadron.
func (r *SquadronRepository) ListActiveMembers(ctx context.Context, squadronID uint) ([]gormModels.SquadronMember, error) {
	var members []gormModels.SquadronMember
	err := r.db.WithContext(ctx).
		Where("squadron_id = ? AND is_active = ?", squadronID, true).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list squadron members: %w", err)
	}
	return members, nil
}
