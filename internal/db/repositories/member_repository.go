package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	gormModels "farhold/quarterdeck/internal/models/gorm"
)

// MemberRepository handles member profiles in the app-scope database.
type MemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// FindByDiscordID retrieves a profile by Discord snowflake. Returns (nil, nil)
// when missing.
func (r *MemberRepository) FindByDiscordID(ctx context.Context, discordID string) (*gormModels.Member, error) {
	var member gormModels.Member
	err := r.db.WithContext(ctx).
		Where("discord_id = ?", discordID).
		First(&member).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch member: %w", err)
	}
	return &member, nil
}

// Upsert inserts or refreshes a profile keyed by discord_id.
// ON CONFLICT (discord_id) DO UPDATE
func (r *MemberRepository) Upsert(ctx context.Context, member *gormModels.Member) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "discord_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "avatar_url", "updated_at"}),
		}).
		Create(member).Error
	if err != nil {
		return fmt.Errorf("failed to upsert member: %w", err)
	}
	return nil
}

// Save persists all fields of an existing profile.
func (r *MemberRepository) Save(ctx context.Context, member *gormModels.Member) error {
	if err := r.db.WithContext(ctx).Save(member).Error; err != nil {
		return fmt.Errorf("failed to save member: %w", err)
	}
	return nil
}

// List returns a page of member profiles ordered by display name.
func (r *MemberRepository) List(ctx context.Context, page, limit int, search string) ([]gormModels.Member, int64, error) {
	query := r.db.WithContext(ctx).Model(&gormModels.Member{})

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(display_name) LIKE LOWER(?)", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}

	var members []gormModels.Member
	err := query.
		Order("display_name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&members).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}

	return members, total, nil
}
