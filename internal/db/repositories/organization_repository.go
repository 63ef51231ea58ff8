package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	gormModels "farhold/quarterdeck/internal/models/gorm"
)

// OrganizationRepository handles the organization record and its roster.
type OrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// FindBySID retrieves an organization by its spectrum identifier. Returns
// (nil, nil) when missing.
func (r *OrganizationRepository) FindBySID(ctx context.Context, sid string) (*gormModels.Organization, error) {
	var org gormModels.Organization
	err := r.db.WithContext(ctx).
		Where("sid = ?", sid).
		First(&org).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch organization: %w", err)
	}
	return &org, nil
}

// Upsert inserts or refreshes an organization keyed by sid.
// ON CONFLICT (sid) DO UPDATE
func (r *OrganizationRepository) Upsert(ctx context.Context, org *gormModels.Organization) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sid"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "archetype", "commitment", "description",
				"member_count", "banner_url", "logo_url", "url",
				"api_data", "last_synced",
			}),
		}).
		Create(org).Error
	if err != nil {
		return fmt.Errorf("failed to upsert organization: %w", err)
	}
	return nil
}

// FindMemberByHandle retrieves a roster entry. Returns (nil, nil) when
// missing.
func (r *OrganizationRepository) FindMemberByHandle(ctx context.Context, orgID uint, handle string) (*gormModels.OrganizationMember, error) {
	var member gormModels.OrganizationMember
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND handle = ?", orgID, handle).
		First(&member).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch organization member: %w", err)
	}
	return &member, nil
}

// CreateMember inserts a roster entry.
func (r *OrganizationRepository) CreateMember(ctx context.Context, member *gormModels.OrganizationMember) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return fmt.Errorf("failed to create organization member: %w", err)
	}
	return nil
}

// SaveMember overwrites all fields of a roster entry.
func (r *OrganizationRepository) SaveMember(ctx context.Context, member *gormModels.OrganizationMember) error {
	if err := r.db.WithContext(ctx).Save(member).Error; err != nil {
		return fmt.Errorf("failed to save organization member: %w", err)
	}
	return nil
}

// CountMembers counts the stored roster for an organization.
func (r *OrganizationRepository) CountMembers(ctx context.Context, orgID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.OrganizationMember{}).
		Where("organization_id = ?", orgID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count organization members: %w", err)
	}
	return count, nil
}

// UpdateMemberCount stores the recomputed roster size on the organization.
func (r *OrganizationRepository) UpdateMemberCount(ctx context.Context, orgID uint, count int) error {
	return r.db.WithContext(ctx).
		Model(&gormModels.Organization{}).
		Where("id = ?", orgID).
		Update("member_count", count).Error
}

// ListMembers returns a page of roster entries with an optional handle search.
func (r *OrganizationRepository) ListMembers(ctx context.Context, orgID uint, page, limit int, search string) ([]gormModels.OrganizationMember, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&gormModels.OrganizationMember{}).
		Where("organization_id = ?", orgID)

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(handle) LIKE LOWER(?) OR LOWER(display_name) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count organization members: %w", err)
	}

	var members []gormModels.OrganizationMember
	err := query.
		Order("handle ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&members).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list organization members: %w", err)
	}

	return members, total, nil
}
