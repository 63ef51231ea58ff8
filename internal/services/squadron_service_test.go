package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"farhold/quarterdeck/internal/db/repositories"
	gormModels "farhold/quarterdeck/internal/models/gorm"
)

func newTestSquadronService(t *testing.T) (*SquadronService, *repositories.SquadronRepository) {
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

	if err := gdb.AutoMigrate(&gormModels.Squadron{}, &gormModels.SquadronMember{}); err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}

	repo := repositories.NewSquadronRepository(gdb)
	return NewSquadronService(repo), repo
}

func TestSquadronService_CreateSquadron_Slugs(t *testing.T) {
	svc, repo := newTestSquadronService(t)
	ctx := context.Background()

	first := &gormModels.Squadron{Name: "Red Talon Wing", IsRecruiting: true}
	if err := svc.CreateSquadron(ctx, first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.Slug != "red-talon-wing" {
		t.Errorf("Slug = %q", first.Slug)
	}
	if first.Focus != "mixed" {
		t.Errorf("Focus = %q, want default mixed", first.Focus)
	}

	// Same name gets a counter suffix, never a collision
	second := &gormModels.Squadron{Name: "Red Talon Wing", Callsign: "RTW2", IsRecruiting: true}
	if err := svc.CreateSquadron(ctx, second); err != nil {
		t.Fatalf("Second create failed: %v", err)
	}
	if second.Slug != "red-talon-wing-1" {
		t.Errorf("Second slug = %q", second.Slug)
	}

	found, err := repo.FindBySlug(ctx, "red-talon-wing-1")
	if err != nil || found == nil {
		t.Fatalf("Suffixed squadron not findable: %v", err)
	}
}

func TestSquadronService_JoinRules(t *testing.T) {
	svc, repo := newTestSquadronService(t)
	ctx := context.Background()

	max := 2
	squadron := &gormModels.Squadron{Name: "Escort Flight", IsRecruiting: true, MaxMembers: &max}
	if err := svc.CreateSquadron(ctx, squadron); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Join(ctx, squadron.ID, 1); err != nil {
		t.Fatalf("First join failed: %v", err)
	}
	if err := svc.Join(ctx, squadron.ID, 1); !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("Duplicate join: err = %v, want ErrAlreadyMember", err)
	}
	if err := svc.Join(ctx, squadron.ID, 2); err != nil {
		t.Fatalf("Second join failed: %v", err)
	}
	if err := svc.Join(ctx, squadron.ID, 3); !errors.Is(err, ErrSquadronFull) {
		t.Errorf("Join past cap: err = %v, want ErrSquadronFull", err)
	}

	// A leaver frees a slot
	if err := svc.Leave(ctx, squadron.ID, 2); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if err := svc.Join(ctx, squadron.ID, 3); err != nil {
		t.Errorf("Join after slot freed failed: %v", err)
	}

	if err := svc.Join(ctx, 9999, 1); !errors.Is(err, ErrSquadronNotFound) {
		t.Errorf("Unknown squadron: err = %v, want ErrSquadronNotFound", err)
	}

	squadron.IsRecruiting = false
	if err := repo.Save(ctx, squadron); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := svc.Leave(ctx, squadron.ID, 3); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if err := svc.Join(ctx, squadron.ID, 3); !errors.Is(err, ErrSquadronClosed) {
		t.Errorf("Join while closed: err = %v, want ErrSquadronClosed", err)
	}
}

func TestSquadronService_LeaveIsSoft(t *testing.T) {
	svc, repo := newTestSquadronService(t)
	ctx := context.Background()

	squadron := &gormModels.Squadron{Name: "Recon Wing", IsRecruiting: true}
	if err := svc.CreateSquadron(ctx, squadron); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := svc.Join(ctx, squadron.ID, 7); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	if err := svc.Leave(ctx, squadron.ID, 7); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if err := svc.Leave(ctx, squadron.ID, 7); !errors.Is(err, ErrNotMember) {
		t.Errorf("Second leave: err = %v, want ErrNotMember", err)
	}

	// The membership row survives the leave
	membership, err := repo.FindMembership(ctx, squadron.ID, 7)
	if err != nil || membership == nil {
		t.Fatalf("Membership row gone after leave: %v", err)
	}
	if membership.IsActive {
		t.Error("Expected is_active false after leave")
	}
	if membership.LeftAt == nil {
		t.Error("Expected left_at to be set")
	}

	// Rejoining reactivates the same row
	if err := svc.Join(ctx, squadron.ID, 7); err != nil {
		t.Fatalf("Rejoin failed: %v", err)
	}
	rejoined, _ := repo.FindMembership(ctx, squadron.ID, 7)
	if rejoined == nil || rejoined.ID != membership.ID {
		t.Error("Rejoin created a new membership row")
	}
	if !rejoined.IsActive || rejoined.LeftAt != nil {
		t.Errorf("Rejoined membership = %+v, want active with left_at cleared", rejoined)
	}
}
