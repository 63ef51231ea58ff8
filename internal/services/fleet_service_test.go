package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"farhold/quarterdeck/internal/constants"
	"farhold/quarterdeck/internal/db/repositories"
	gormModels "farhold/quarterdeck/internal/models/gorm"
)

func newTestFleetService(t *testing.T) (*FleetService, *gormModels.Ship) {
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

	if err := gdb.AutoMigrate(
		&gormModels.Manufacturer{},
		&gormModels.Ship{},
		&gormModels.ShipComponent{},
		&gormModels.FleetShip{},
	); err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}

	mfr := &gormModels.Manufacturer{Code: "RSI", Name: "Roberts Space Industries"}
	if err := gdb.Create(mfr).Error; err != nil {
		t.Fatalf("Failed to seed manufacturer: %v", err)
	}
	ship := &gormModels.Ship{ManufacturerID: mfr.ID, Model: "Aurora MR", Name: "Aurora MR"}
	if err := gdb.Create(ship).Error; err != nil {
		t.Fatalf("Failed to seed catalog ship: %v", err)
	}

	fleet := repositories.NewFleetRepository(gdb)
	catalog := repositories.NewCatalogRepository(gdb)
	return NewFleetService(fleet, catalog), ship
}

func TestFleetService_AddShip(t *testing.T) {
	svc, ship := newTestFleetService(t)
	ctx := context.Background()

	entry := &gormModels.FleetShip{ShipID: ship.ID, OwnerID: 7}
	if err := svc.AddShip(ctx, entry); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if entry.Status != constants.FleetStatusActive {
		t.Errorf("Status = %q, want default active", entry.Status)
	}
	if entry.Name != "Aurora MR" {
		t.Errorf("Name = %q, want catalog fallback", entry.Name)
	}

	missing := &gormModels.FleetShip{ShipID: 9999, OwnerID: 7}
	if err := svc.AddShip(ctx, missing); !errors.Is(err, ErrShipNotFound) {
		t.Errorf("Unknown catalog ship: err = %v, want ErrShipNotFound", err)
	}

	bad := &gormModels.FleetShip{ShipID: ship.ID, OwnerID: 7, Status: "scuttled"}
	if err := svc.AddShip(ctx, bad); !errors.Is(err, ErrInvalidFleetStatus) {
		t.Errorf("Unknown status: err = %v, want ErrInvalidFleetStatus", err)
	}
}

func TestFleetService_OwnershipRules(t *testing.T) {
	svc, ship := newTestFleetService(t)
	ctx := context.Background()

	entry := &gormModels.FleetShip{ShipID: ship.ID, OwnerID: 7, Name: "Old Reliable"}
	if err := svc.AddShip(ctx, entry); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	rename := func(f *gormModels.FleetShip) { f.Name = "New Name" }

	if _, err := svc.UpdateShip(ctx, entry.ID, 8, false, rename); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Stranger update: err = %v, want ErrNotOwner", err)
	}
	if _, err := svc.UpdateShip(ctx, entry.ID, 7, false, rename); err != nil {
		t.Errorf("Owner update failed: %v", err)
	}
	if _, err := svc.UpdateShip(ctx, entry.ID, 8, true, func(f *gormModels.FleetShip) {
		f.Status = constants.FleetStatusSold
	}); err != nil {
		t.Errorf("Admin update failed: %v", err)
	}

	if _, err := svc.UpdateShip(ctx, entry.ID, 7, false, func(f *gormModels.FleetShip) {
		f.Status = "scuttled"
	}); !errors.Is(err, ErrInvalidFleetStatus) {
		t.Errorf("Bad status update: err = %v, want ErrInvalidFleetStatus", err)
	}

	if err := svc.RemoveShip(ctx, entry.ID, 8, false); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Stranger remove: err = %v, want ErrNotOwner", err)
	}
	if err := svc.RemoveShip(ctx, entry.ID, 7, false); err != nil {
		t.Errorf("Owner remove failed: %v", err)
	}
	if err := svc.RemoveShip(ctx, entry.ID, 7, false); !errors.Is(err, ErrFleetShipNotFound) {
		t.Errorf("Double remove: err = %v, want ErrFleetShipNotFound", err)
	}
}
