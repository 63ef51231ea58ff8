package services

import (
	"context"
	"errors"
	"testing"

	"farhold/quarterdeck/internal/constants"
	"farhold/quarterdeck/internal/db/repositories"
	gormModels "farhold/quarterdeck/internal/models/gorm"
)

func newTestAdminService(t *testing.T) (*AdminUserService, *repositories.UserRepository, *repositories.MemberRepository) {
	t.Helper()
	users := repositories.NewUserRepository(setupAuthDB(t))
	members := repositories.NewMemberRepository(setupMemberDB(t))
	return NewAdminUserService(users, members), users, members
}

func seedAccount(t *testing.T, users *repositories.UserRepository, username string, role constants.Role) *gormModels.User {
	t.Helper()
	user := &gormModels.User{Username: username, Role: role, IsActive: true}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to seed %s: %v", username, err)
	}
	return user
}

func TestAdminUserService_UpdateRole(t *testing.T) {
	svc, users, _ := newTestAdminService(t)
	ctx := context.Background()
	admin := seedAccount(t, users, "admin", constants.RoleAdmin)
	target := seedAccount(t, users, "stanton_jack", constants.RoleMember)

	if err := svc.UpdateRole(ctx, admin.ID, target.ID, "admin"); err != nil {
		t.Fatalf("Promote failed: %v", err)
	}
	reloaded, _ := users.FindByID(ctx, target.ID)
	if reloaded.Role != constants.RoleAdmin {
		t.Errorf("Role = %s, want admin", reloaded.Role)
	}

	if err := svc.UpdateRole(ctx, admin.ID, target.ID, "galactic_emperor"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("Unknown role: err = %v, want ErrInvalidRole", err)
	}
	if err := svc.UpdateRole(ctx, admin.ID, 9999, "member"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Missing target: err = %v, want ErrUserNotFound", err)
	}
}

// Admins can never change their own role or deactivate themselves; the last
// admin locking themselves out is unrecoverable without database surgery.
func TestAdminUserService_SelfProtection(t *testing.T) {
	svc, users, _ := newTestAdminService(t)
	ctx := context.Background()
	admin := seedAccount(t, users, "admin", constants.RoleAdmin)

	if err := svc.UpdateRole(ctx, admin.ID, admin.ID, "member"); !errors.Is(err, ErrSelfModification) {
		t.Errorf("Self demote: err = %v, want ErrSelfModification", err)
	}
	if err := svc.DeactivateUser(ctx, admin.ID, admin.ID); !errors.Is(err, ErrSelfModification) {
		t.Errorf("Self deactivate: err = %v, want ErrSelfModification", err)
	}

	reloaded, _ := users.FindByID(ctx, admin.ID)
	if reloaded.Role != constants.RoleAdmin || !reloaded.IsActive {
		t.Errorf("Self-protection mutated the account: %+v", reloaded)
	}
}

func TestAdminUserService_DeactivateUser(t *testing.T) {
	svc, users, _ := newTestAdminService(t)
	ctx := context.Background()
	admin := seedAccount(t, users, "admin", constants.RoleAdmin)
	target := seedAccount(t, users, "stanton_jack", constants.RoleMember)

	if err := svc.DeactivateUser(ctx, admin.ID, target.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	// Soft delete: the row survives with is_active false
	reloaded, err := users.FindByID(ctx, target.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("Deactivated row gone: %v", err)
	}
	if reloaded.IsActive {
		t.Error("Expected is_active false")
	}

	if err := svc.DeactivateUser(ctx, admin.ID, 9999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Missing target: err = %v, want ErrUserNotFound", err)
	}
}

func TestAdminUserService_UpdateRank(t *testing.T) {
	svc, users, _ := newTestAdminService(t)
	ctx := context.Background()
	target := seedAccount(t, users, "stanton_jack", constants.RoleMember)

	rankImage := "/ranks/commander.png"
	if err := svc.UpdateRank(ctx, target.ID, &rankImage, nil); err != nil {
		t.Fatalf("Rank update failed: %v", err)
	}
	reloaded, _ := users.FindByID(ctx, target.ID)
	if reloaded.RankImage == nil || *reloaded.RankImage != rankImage {
		t.Errorf("RankImage = %v", reloaded.RankImage)
	}

	// Clearing the rank stores NULL
	if err := svc.UpdateRank(ctx, target.ID, nil, nil); err != nil {
		t.Fatalf("Rank clear failed: %v", err)
	}
	reloaded, _ = users.FindByID(ctx, target.ID)
	if reloaded.RankImage != nil {
		t.Errorf("RankImage = %v, want nil", reloaded.RankImage)
	}
}

// A rank change lands in both stores: the insignia on the account and the
// rank on the linked member profile.
func TestAdminUserService_UpdateRankReachesMemberProfile(t *testing.T) {
	svc, users, members := newTestAdminService(t)
	ctx := context.Background()

	discordID := "190573"
	target := &gormModels.User{
		Username:  "stanton_jack",
		Role:      constants.RoleMember,
		IsActive:  true,
		DiscordID: &discordID,
	}
	if err := users.Create(ctx, target); err != nil {
		t.Fatalf("Failed to seed account: %v", err)
	}
	if err := members.Upsert(ctx, &gormModels.Member{
		DiscordID:   discordID,
		DisplayName: "Jack",
		Rank:        "recruit",
	}); err != nil {
		t.Fatalf("Failed to seed member: %v", err)
	}

	rankImage := "/ranks/commodore.png"
	rank := "Commodore"
	if err := svc.UpdateRank(ctx, target.ID, &rankImage, &rank); err != nil {
		t.Fatalf("Rank update failed: %v", err)
	}

	account, _ := users.FindByID(ctx, target.ID)
	if account.RankImage == nil || *account.RankImage != rankImage {
		t.Errorf("RankImage = %v", account.RankImage)
	}
	profile, _ := members.FindByDiscordID(ctx, discordID)
	if profile == nil || profile.Rank != "Commodore" {
		t.Errorf("Member rank = %+v, want Commodore", profile)
	}
}

func TestAdminUserService_InactiveTargetRejected(t *testing.T) {
	svc, users, _ := newTestAdminService(t)
	ctx := context.Background()
	admin := seedAccount(t, users, "admin", constants.RoleAdmin)

	target := seedAccount(t, users, "ghost", constants.RoleMember)
	if err := users.Deactivate(ctx, target.ID); err != nil {
		t.Fatalf("Failed to deactivate target: %v", err)
	}

	if err := svc.UpdateRole(ctx, admin.ID, target.ID, "admin"); !errors.Is(err, ErrUserInactive) {
		t.Errorf("Role change on inactive target: err = %v, want ErrUserInactive", err)
	}
	rank := "Commodore"
	if err := svc.UpdateRank(ctx, target.ID, nil, &rank); !errors.Is(err, ErrUserInactive) {
		t.Errorf("Rank change on inactive target: err = %v, want ErrUserInactive", err)
	}

	reloaded, _ := users.FindByID(ctx, target.ID)
	if reloaded.Role != constants.RoleMember {
		t.Errorf("Inactive target mutated: %+v", reloaded)
	}
}

func TestAdminUserService_ListUsersClampsPaging(t *testing.T) {
	svc, users, _ := newTestAdminService(t)
	ctx := context.Background()
	for _, name := range []string{"alfa", "bravo", "charlie"} {
		seedAccount(t, users, name, constants.RoleMember)
	}

	list, total, err := svc.ListUsers(ctx, -5, 0, "", "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 3 || len(list) != 3 {
		t.Errorf("total = %d, len = %d, want 3", total, len(list))
	}

	list, _, err = svc.ListUsers(ctx, 1, 10, "", "brav")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(list) != 1 || list[0].Username != "bravo" {
		t.Errorf("Search returned %+v", list)
	}
}
