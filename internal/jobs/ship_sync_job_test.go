package jobs

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	gormModels "farhold/quarterdeck/internal/models/gorm"
	"farhold/quarterdeck/internal/providers"
)

func setupSyncDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to access underlying database: %v", err)
	}
	// A second connection would see a fresh empty in-memory database
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(
		&gormModels.Manufacturer{},
		&gormModels.Ship{},
		&gormModels.ShipComponent{},
		&gormModels.Organization{},
		&gormModels.OrganizationMember{},
	); err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}
	return gdb
}

func newTestProvider(serverURL string) *providers.StarCitizenProvider {
	return &providers.StarCitizenProvider{
		BaseURL: serverURL,
		APIKey:  "test-key",
		Client:  &http.Client{},
	}
}

func shipCatalogServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/test-key/v1/cache/ships" {
			t.Errorf("Unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
}

const twoShipPayload = `{"success": 1, "data": [
	{"id": "101", "name": "Aurora MR", "production_status": "flight-ready",
	 "size": "small", "cargo": "3", "mass": "25172",
	 "manufacturer": {"code": "RSI", "name": "Roberts Space Industries"}},
	{"id": 102, "name": "Carrack", "production_status": "flight-ready",
	 "size": "large", "cargo": 456,
	 "manufacturer": {"code": "ANVL", "name": "Anvil Aerospace"}}
]}`

func TestShipSyncJob_CreatesAndSkips(t *testing.T) {
	server := shipCatalogServer(t, twoShipPayload)
	defer server.Close()

	gdb := setupSyncDB(t)
	job := NewShipSyncJob(newTestProvider(server.URL), gdb, nil)
	ctx := context.Background()

	result, err := job.Run(ctx, false)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	if result.Created != 2 || result.Updated != 0 || result.Skipped != 0 || result.Errored != 0 {
		t.Errorf("First run = %+v, want 2 created", result)
	}

	var shipCount, mfrCount int64
	gdb.Model(&gormModels.Ship{}).Count(&shipCount)
	gdb.Model(&gormModels.Manufacturer{}).Count(&mfrCount)
	if shipCount != 2 {
		t.Errorf("Stored %d ships, want 2", shipCount)
	}
	if mfrCount != 2 {
		t.Errorf("Stored %d manufacturers, want 2", mfrCount)
	}

	// Second run without force leaves everything untouched
	result, err = job.Run(ctx, false)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if result.Created != 0 || result.Skipped != 2 {
		t.Errorf("Second run = %+v, want 2 skipped", result)
	}
}

func TestShipSyncJob_ForceOverwritesInPlace(t *testing.T) {
	server := shipCatalogServer(t, twoShipPayload)
	defer server.Close()

	gdb := setupSyncDB(t)
	job := NewShipSyncJob(newTestProvider(server.URL), gdb, nil)
	ctx := context.Background()

	if _, err := job.Run(ctx, false); err != nil {
		t.Fatalf("Seed run failed: %v", err)
	}

	var before gormModels.Ship
	if err := gdb.Where("name = ?", "Aurora MR").First(&before).Error; err != nil {
		t.Fatalf("Seed ship missing: %v", err)
	}
	// Local drift that the forced run should stomp
	gdb.Model(&before).Update("description", "locally edited")

	result, err := job.Run(ctx, true)
	if err != nil {
		t.Fatalf("Forced run failed: %v", err)
	}
	if result.Updated != 2 || result.Created != 0 {
		t.Errorf("Forced run = %+v, want 2 updated", result)
	}

	var after gormModels.Ship
	if err := gdb.Where("name = ?", "Aurora MR").First(&after).Error; err != nil {
		t.Fatalf("Ship missing after forced run: %v", err)
	}
	if after.ID != before.ID {
		t.Errorf("Forced update replaced the row: id %d -> %d", before.ID, after.ID)
	}
	if after.Description == "locally edited" {
		t.Error("Forced update kept the local edit")
	}

	var shipCount int64
	gdb.Model(&gormModels.Ship{}).Count(&shipCount)
	if shipCount != 2 {
		t.Errorf("Stored %d ships after forced run, want 2", shipCount)
	}
}

func TestShipSyncJob_ExternalIDWinsOverNaturalKey(t *testing.T) {
	// First payload has no numeric id, so the ship lands on the natural key
	// alone. The second payload carries one and a renamed model; without the
	// external id match this would create a duplicate.
	first := `{"success": 1, "data": [
		{"name": "Cutlass Black", "manufacturer": {"code": "DRAK", "name": "Drake Interplanetary"}}
	]}`
	second := `{"success": 1, "data": [
		{"id": 77, "name": "Cutlass Black", "manufacturer": {"code": "DRAK", "name": "Drake Interplanetary"}}
	]}`

	payload := first
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, payload)
	}))
	defer server.Close()

	gdb := setupSyncDB(t)
	job := NewShipSyncJob(newTestProvider(server.URL), gdb, nil)
	ctx := context.Background()

	if _, err := job.Run(ctx, false); err != nil {
		t.Fatalf("First run failed: %v", err)
	}

	payload = second
	result, err := job.Run(ctx, true)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if result.Updated != 1 {
		t.Errorf("Second run = %+v, want 1 updated", result)
	}

	var shipCount int64
	gdb.Model(&gormModels.Ship{}).Count(&shipCount)
	if shipCount != 1 {
		t.Errorf("Stored %d ships, want 1", shipCount)
	}

	var ship gormModels.Ship
	gdb.First(&ship)
	if ship.ExternalID == nil || *ship.ExternalID != 77 {
		t.Errorf("ExternalID = %v, want 77", ship.ExternalID)
	}
}

func TestShipSyncJob_BadRecordDoesNotAbortRun(t *testing.T) {
	// The middle entry is not an object, so it never decodes into a ship;
	// both neighbors still sync and the bad entry lands in Errored.
	payload := `{"success": 1, "data": [
		{"name": "Gladius", "manufacturer": {"code": "AEGS", "name": "Aegis Dynamics"}},
		"not-a-ship",
		{"name": "Sabre", "manufacturer": {"code": "AEGS", "name": "Aegis Dynamics"}}
	]}`
	server := shipCatalogServer(t, payload)
	defer server.Close()

	gdb := setupSyncDB(t)
	job := NewShipSyncJob(newTestProvider(server.URL), gdb, nil)

	result, err := job.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Created != 2 {
		t.Errorf("Created = %d, want 2", result.Created)
	}
	if result.Errored != 1 {
		t.Errorf("Errored = %d, want 1 for the malformed entry", result.Errored)
	}

	var mfrCount int64
	gdb.Model(&gormModels.Manufacturer{}).Count(&mfrCount)
	if mfrCount != 1 {
		t.Errorf("Stored %d manufacturers, want 1 shared Aegis row", mfrCount)
	}
}

func TestShipSyncJob_UpstreamFailureReturnsError(t *testing.T) {
	server := shipCatalogServer(t, `{"success": 0, "message": "maintenance window"}`)
	defer server.Close()

	gdb := setupSyncDB(t)
	job := NewShipSyncJob(newTestProvider(server.URL), gdb, nil)

	if _, err := job.Run(context.Background(), false); err == nil {
		t.Fatal("Expected error for upstream failure envelope")
	}

	var shipCount int64
	gdb.Model(&gormModels.Ship{}).Count(&shipCount)
	if shipCount != 0 {
		t.Errorf("Stored %d ships after failed run, want 0", shipCount)
	}
}

func TestNormalizeSize(t *testing.T) {
	cases := map[string]string{
		"Small":        "small",
		" LARGE ":      "large",
		"snub fighter": "snub",
		"capital":      "capital",
		"gigantic":     "",
		"":             "",
	}
	for input, want := range cases {
		if got := NormalizeSize(input); got != want {
			t.Errorf("NormalizeSize(%q) = %q, want %q", input, got, want)
		}
	}
}
