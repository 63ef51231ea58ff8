package services

import (
	"context"
	"errors"

	"farhold/quarterdeck/internal/constants"
	"farhold/quarterdeck/internal/db/repositories"
	"farhold/quarterdeck/internal/logging"
	gormModels "farhold/quarterdeck/internal/models/gorm"
)

// ErrSelfModification blocks admins from demoting or deactivating their own
// account.
var ErrSelfModification = errors.New("cannot modify your own account")

// ErrUserNotFound marks a missing target account.
var ErrUserNotFound = errors.New("user not found")

// ErrInvalidRole rejects roles outside the known set.
var ErrInvalidRole = errors.New("invalid role")

// ErrUserInactive rejects role and rank changes on deactivated accounts.
var ErrUserInactive = errors.New("cannot modify inactive user")

// AdminUserService implements the admin user-management operations. It spans
// both stores: accounts live in the auth scope, member profiles in the app
// scope.
type AdminUserService struct {
	users   *repositories.UserRepository
	members *repositories.MemberRepository
}

// NewAdminUserService creates a new admin user service
func NewAdminUserService(users *repositories.UserRepository, members *repositories.MemberRepository) *AdminUserService {
	return &AdminUserService{users: users, members: members}
}

// ListUsers returns a page of accounts with role and search filters.
func (s *AdminUserService) ListUsers(ctx context.Context, page, limit int, role, search string) ([]gormModels.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.users.List(ctx, page, limit, role, search)
}

// GetUser retrieves one account.
func (s *AdminUserService) GetUser(ctx context.Context, id uint) (*gormModels.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateRole changes a user's role. Admins cannot change their own role, so
// the org can never lock itself out by a stray click.
func (s *AdminUserService) UpdateRole(ctx context.Context, actorID, targetID uint, role string) error {
	if actorID == targetID {
		return ErrSelfModification
	}

	parsed := constants.Role(role)
	if !parsed.Valid() {
		return ErrInvalidRole
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}
	if !target.IsActive {
		return ErrUserInactive
	}

	if err := s.users.UpdateRole(ctx, targetID, parsed); err != nil {
		return err
	}
	logging.Info("Role updated", "actor_id", actorID, "target_id", targetID, "role", role)
	return nil
}

// UpdateRank changes a user's rank insignia in the auth store and, when the
// account is linked to Discord, the rank on the member profile.
func (s *AdminUserService) UpdateRank(ctx context.Context, targetID uint, rankImage, rank *string) error {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}
	if !target.IsActive {
		return ErrUserInactive
	}

	if err := s.users.UpdateRankImage(ctx, targetID, rankImage); err != nil {
		return err
	}

	if rank == nil || target.DiscordID == nil {
		return nil
	}
	profile, err := s.members.FindByDiscordID(ctx, *target.DiscordID)
	if err != nil {
		return err
	}
	if profile == nil {
		return nil
	}
	profile.Rank = *rank
	if err := s.members.Save(ctx, profile); err != nil {
		return err
	}
	logging.Info("Rank updated", "target_id", targetID, "rank", *rank)
	return nil
}

// DeactivateUser soft deletes an account. Self-deactivation is blocked.
func (s *AdminUserService) DeactivateUser(ctx context.Context, actorID, targetID uint) error {
	if actorID == targetID {
		return ErrSelfModification
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	if err := s.users.Deactivate(ctx, targetID); err != nil {
		return err
	}
	logging.Info("Account deactivated", "actor_id", actorID, "target_id", targetID)
	return nil
}
