package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"farhold/quarterdeck/internal/auth"
	"farhold/quarterdeck/internal/constants"
	"farhold/quarterdeck/internal/db/repositories"
	gormModels "farhold/quarterdeck/internal/models/gorm"
	"farhold/quarterdeck/internal/providers"
)

func setupMemberDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to access underlying database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(&gormModels.Member{}); err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}
	return gdb
}

// fakeDiscord serves the token exchange and profile endpoints. The profile
// body can be swapped between calls to simulate upstream changes.
func fakeDiscord(profile *string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth2/token":
			fmt.Fprint(w, `{"access_token": "tok", "token_type": "Bearer"}`)
		case "/users/@me":
			fmt.Fprint(w, *profile)
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestIdentityService(t *testing.T, serverURL string) (*IdentityService, *repositories.UserRepository, *repositories.MemberRepository) {
	t.Helper()
	users := repositories.NewUserRepository(setupAuthDB(t))
	members := repositories.NewMemberRepository(setupMemberDB(t))
	discord := &providers.DiscordProvider{
		BaseURL:      serverURL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost:8080/callback",
		Client:       &http.Client{},
	}
	tokens := auth.NewTokenService("test-secret", 24*time.Hour)
	return NewIdentityService(users, members, discord, tokens), users, members
}

func TestIdentityService_FirstLoginCreatesBothStores(t *testing.T) {
	profile := `{"id": "190573", "username": "stanton_jack", "global_name": "Jack", "avatar": "abc123", "email": "jack@example.com"}`
	server := fakeDiscord(&profile)
	defer server.Close()

	svc, users, members := newTestIdentityService(t, server.URL)
	ctx := context.Background()

	user, token, err := svc.HandleCallback(ctx, "auth-code")
	if err != nil {
		t.Fatalf("Callback failed: %v", err)
	}
	if token == "" {
		t.Error("Expected a session token")
	}
	if user.DiscordID == nil || *user.DiscordID != "190573" {
		t.Errorf("DiscordID = %v", user.DiscordID)
	}
	if user.Role != constants.RoleMember {
		t.Errorf("Role = %s, want member", user.Role)
	}

	account, err := users.FindByDiscordID(ctx, "190573")
	if err != nil || account == nil {
		t.Fatalf("Account missing: %v", err)
	}
	if account.Username != "stanton_jack" {
		t.Errorf("Username = %q", account.Username)
	}

	member, err := members.FindByDiscordID(ctx, "190573")
	if err != nil || member == nil {
		t.Fatalf("Member profile missing: %v", err)
	}
	if member.DisplayName != "Jack" {
		t.Errorf("DisplayName = %q, want the global name", member.DisplayName)
	}
	if member.AvatarURL == nil || *member.AvatarURL != "https://cdn.discordapp.com/avatars/190573/abc123.png" {
		t.Errorf("AvatarURL = %v", member.AvatarURL)
	}
}

func TestIdentityService_RepeatLoginUpdatesInPlace(t *testing.T) {
	profile := `{"id": "190573", "username": "stanton_jack", "global_name": "Jack", "avatar": "abc123"}`
	server := fakeDiscord(&profile)
	defer server.Close()

	svc, users, members := newTestIdentityService(t, server.URL)
	ctx := context.Background()

	first, _, err := svc.HandleCallback(ctx, "code-1")
	if err != nil {
		t.Fatalf("First callback failed: %v", err)
	}

	profile = `{"id": "190573", "username": "stanton_jack", "global_name": "Captain Jack", "avatar": "def456", "email": "jack@example.com"}`
	second, _, err := svc.HandleCallback(ctx, "code-2")
	if err != nil {
		t.Fatalf("Second callback failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("Repeat login created a new account: %d -> %d", first.ID, second.ID)
	}
	if second.Email == nil || *second.Email != "jack@example.com" {
		t.Errorf("Email = %v, want refreshed value", second.Email)
	}

	_, total, err := users.List(ctx, 1, 10, "", "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 {
		t.Errorf("Total accounts = %d, want 1", total)
	}

	member, _ := members.FindByDiscordID(ctx, "190573")
	if member == nil || member.DisplayName != "Captain Jack" {
		t.Errorf("Member profile not refreshed: %+v", member)
	}
	memberRows, memberTotal, _ := members.List(ctx, 1, 10, "")
	if memberTotal != 1 {
		t.Errorf("Total member profiles = %d, want 1 (%+v)", memberTotal, memberRows)
	}
}

func TestIdentityService_DisabledAccountRejected(t *testing.T) {
	profile := `{"id": "190573", "username": "stanton_jack"}`
	server := fakeDiscord(&profile)
	defer server.Close()

	svc, users, _ := newTestIdentityService(t, server.URL)
	ctx := context.Background()

	user, _, err := svc.HandleCallback(ctx, "code-1")
	if err != nil {
		t.Fatalf("Seed callback failed: %v", err)
	}
	if err := users.Deactivate(ctx, user.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	if _, _, err := svc.HandleCallback(ctx, "code-2"); !errors.Is(err, ErrAccountDisabled) {
		t.Errorf("err = %v, want ErrAccountDisabled", err)
	}
}

func TestIdentityService_UsernameCollisionGetsSuffix(t *testing.T) {
	profile := `{"id": "190573", "username": "stanton_jack"}`
	server := fakeDiscord(&profile)
	defer server.Close()

	svc, users, _ := newTestIdentityService(t, server.URL)
	ctx := context.Background()

	// A local account already owns the plain username
	if err := users.Create(ctx, &gormModels.User{
		Username: "stanton_jack",
		Role:     constants.RoleMember,
		IsActive: true,
	}); err != nil {
		t.Fatalf("Failed to seed local user: %v", err)
	}

	user, _, err := svc.HandleCallback(ctx, "code")
	if err != nil {
		t.Fatalf("Callback failed: %v", err)
	}
	if user.Username != "stanton_jack_190573" {
		t.Errorf("Username = %q, want snowflake suffix", user.Username)
	}
}

func TestIdentityService_ReconcileProfiles(t *testing.T) {
	profile := `{"id": "190573", "username": "stanton_jack"}`
	server := fakeDiscord(&profile)
	defer server.Close()

	svc, users, members := newTestIdentityService(t, server.URL)
	ctx := context.Background()

	// Two linked accounts, one local-only account
	for _, id := range []string{"190573", "555001"} {
		discordID := id
		if err := users.Create(ctx, &gormModels.User{
			Username:  "user_" + id,
			DiscordID: &discordID,
			Role:      constants.RoleMember,
			IsActive:  true,
		}); err != nil {
			t.Fatalf("Failed to seed user: %v", err)
		}
	}
	if err := users.Create(ctx, &gormModels.User{
		Username: "local_only",
		Role:     constants.RoleAdmin,
		IsActive: true,
	}); err != nil {
		t.Fatalf("Failed to seed local user: %v", err)
	}

	// One of the two already has a profile
	if err := members.Upsert(ctx, &gormModels.Member{
		DiscordID:   "190573",
		DisplayName: "Jack",
		Rank:        "member",
	}); err != nil {
		t.Fatalf("Failed to seed member: %v", err)
	}

	repaired, err := svc.ReconcileProfiles(ctx)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if repaired != 1 {
		t.Errorf("Repaired = %d, want 1", repaired)
	}

	missing, _ := members.FindByDiscordID(ctx, "555001")
	if missing == nil {
		t.Fatal("Expected the missing profile to be created")
	}
	if missing.DisplayName != "user_555001" {
		t.Errorf("DisplayName = %q, want the account username", missing.DisplayName)
	}

	// A second pass has nothing to do
	repaired, err = svc.ReconcileProfiles(ctx)
	if err != nil {
		t.Fatalf("Second reconcile failed: %v", err)
	}
	if repaired != 0 {
		t.Errorf("Second pass repaired = %d, want 0", repaired)
	}
}
