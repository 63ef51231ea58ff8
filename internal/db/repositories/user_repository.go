package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"farhold/quarterdeck/internal/constants"
	gormModels "farhold/quarterdeck/internal/models/gorm"
)

// UserRepository handles account rows in the auth-scope database.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new auth-scope user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID retrieves a user by primary key. Returns (nil, nil) when missing.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*gormModels.User, error) {
	var user gormModels.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// FindByDiscordID retrieves a user by Discord snowflake. Returns (nil, nil)
// when missing.
func (r *UserRepository) FindByDiscordID(ctx context.Context, discordID string) (*gormModels.User, error) {
	var user gormModels.User
	err := r.db.WithContext(ctx).
		Where("discord_id = ?", discordID).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// FindByUsername retrieves a user by exact username. Returns (nil, nil) when
// missing.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*gormModels.User, error) {
	var user gormModels.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// UsernameTaken reports whether another account already holds the username.
func (r *UserRepository) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("username = ? AND id != ?", username, excludeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new account.
func (r *UserRepository) Create(ctx context.Context, user *gormModels.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Save persists all fields of an existing account.
func (r *UserRepository) Save(ctx context.Context, user *gormModels.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// List returns a page of accounts with optional role and search filters.
// Search matches username or email, case-insensitive.
func (r *UserRepository) List(ctx context.Context, page, limit int, role, search string) ([]gormModels.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&gormModels.User{})

	if role != "" {
		query = query.Where("role = ?", role)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(username) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []gormModels.User
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// UpdateRole changes an account's role.
func (r *UserRepository) UpdateRole(ctx context.Context, id uint, role constants.Role) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("id = ?", id).
		Update("role", role)
	if result.Error != nil {
		return fmt.Errorf("failed to update role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateRankImage changes an account's rank insignia.
func (r *UserRepository) UpdateRankImage(ctx context.Context, id uint, rankImage *string) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("id = ?", id).
		Update("rank_image", rankImage)
	if result.Error != nil {
		return fmt.Errorf("failed to update rank image: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Deactivate soft deletes an account by flipping is_active. The row stays so
// historical references keep resolving.
func (r *UserRepository) Deactivate(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TouchLastLogin records a successful authentication.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id uint) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("id = ?", id).
		Update("last_login", &now).Error
}

// ListDiscordLinked returns all accounts carrying a Discord identity.
func (r *UserRepository) ListDiscordLinked(ctx context.Context) ([]gormModels.User, error) {
	var users []gormModels.User
	err := r.db.WithContext(ctx).
		Where("discord_id IS NOT NULL").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list discord-linked users: %w", err)
	}
	return users, nil
}

// CountActiveAdmins counts active admin accounts, used to guard against
// removing the last administrator.
func (r *UserRepository) CountActiveAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("role = ? AND is_active = ?", constants.RoleAdmin, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}
