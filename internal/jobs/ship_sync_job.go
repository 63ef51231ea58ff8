package jobs

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"

	"farhold/quarterdeck/internal/constants"
	"farhold/quarterdeck/internal/db/repositories"
	"farhold/quarterdeck/internal/logging"
	"farhold/quarterdeck/internal/metrics"
	"farhold/quarterdeck/internal/models/dtos"
	gormModels "farhold/quarterdeck/internal/models/gorm"
	"farhold/quarterdeck/internal/providers"
)

// ShipSyncJob pulls the upstream ship catalog into the local tables.
type ShipSyncJob struct {
	provider   *providers.StarCitizenProvider
	db         *gorm.DB
	metricsReg *metrics.MetricsRegistry
}

// NewShipSyncJob creates a ship sync job. metricsReg may be nil for CLI runs.
func NewShipSyncJob(provider *providers.StarCitizenProvider, db *gorm.DB, metricsReg *metrics.MetricsRegistry) *ShipSyncJob {
	return &ShipSyncJob{
		provider:   provider,
		db:         db,
		metricsReg: metricsReg,
	}
}

// Run fetches all ships and merges them. One bad record never aborts the
// run: each ship commits in its own transaction and failures land in
// Errored.
func (j *ShipSyncJob) Run(ctx context.Context, force bool) (*SyncResult, error) {
	start := time.Now()

	ships, undecodable, err := j.provider.GetShips(ctx)
	if err != nil {
		j.recordRun("ship_sync", "failed", start)
		return nil, err
	}

	// Entries the provider could not decode still count against the run
	result := &SyncResult{Errored: undecodable}
	for _, ship := range ships {
		outcome, err := j.syncShip(ctx, ship, force)
		if err != nil {
			result.Errored++
			logging.Error("Failed to sync ship", "ship", ship.Name, "error", err)
			continue
		}
		result.count(outcome)
	}

	j.recordRun("ship_sync", "ok", start)
	j.recordOutcomes("ship_sync", result)
	if j.metricsReg != nil {
		var count int64
		if err := j.db.WithContext(ctx).Model(&gormModels.Ship{}).Count(&count).Error; err == nil {
			j.metricsReg.CatalogShipsStored.Set(float64(count))
		}
	}

	logging.Info("Ship sync complete",
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errored", result.Errored,
		"duration", time.Since(start).String(),
	)
	return result, nil
}

func (j *ShipSyncJob) syncShip(ctx context.Context, data dtos.SCShip, force bool) (Outcome, error) {
	var outcome Outcome

	err := j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewCatalogRepository(tx)

		mfr, _, err := repo.GetOrCreateManufacturer(ctx, manufacturerFromData(data.Manufacturer))
		if err != nil {
			return err
		}

		model := data.Model
		if model == "" {
			model = data.Name
		}
		if model == "" {
			model = "Unknown"
		}

		// External numeric id wins ties when present, the natural key
		// covers records that never carried one
		var existing *gormModels.Ship
		if data.ID != nil {
			existing, err = repo.FindShipByExternalID(ctx, int64(*data.ID))
			if err != nil {
				return err
			}
		}
		if existing == nil {
			existing, err = repo.FindShipByNaturalKey(ctx, mfr.ID, model)
			if err != nil {
				return err
			}
		}

		outcome = Reconcile(existing != nil, force)
		switch outcome {
		case OutcomeCreate:
			ship := shipFromData(data, mfr.ID, model)
			return repo.CreateShip(ctx, ship)
		case OutcomeUpdate:
			ship := shipFromData(data, mfr.ID, model)
			ship.ID = existing.ID
			ship.CreatedAt = existing.CreatedAt
			return repo.SaveShip(ctx, ship)
		default:
			return nil
		}
	})
	if err != nil {
		return outcome, err
	}
	return outcome, nil
}

func (j *ShipSyncJob) recordRun(job, outcome string, start time.Time) {
	if j.metricsReg == nil {
		return
	}
	j.metricsReg.SyncRunsTotal.WithLabelValues(job, outcome).Inc()
	j.metricsReg.SyncJobDuration.WithLabelValues(job).Observe(time.Since(start).Seconds())
}

func (j *ShipSyncJob) recordOutcomes(job string, result *SyncResult) {
	if j.metricsReg == nil {
		return
	}
	j.metricsReg.SyncRecordsTotal.WithLabelValues(job, "created").Add(float64(result.Created))
	j.metricsReg.SyncRecordsTotal.WithLabelValues(job, "updated").Add(float64(result.Updated))
	j.metricsReg.SyncRecordsTotal.WithLabelValues(job, "skipped").Add(float64(result.Skipped))
	j.metricsReg.SyncRecordsTotal.WithLabelValues(job, "errored").Add(float64(result.Errored))
}

func manufacturerFromData(data dtos.SCManufacturer) *gormModels.Manufacturer {
	code := data.Code
	if code == "" {
		code = "UNK"
	}
	name := data.Name
	if name == "" {
		name = "Unknown"
	}

	raw, _ := json.Marshal(data)
	return &gormModels.Manufacturer{
		Code:        code,
		Name:        name,
		Description: data.Description,
		LogoURL:     data.Logo,
		APIData:     raw,
	}
}

func shipFromData(data dtos.SCShip, manufacturerID uint, model string) *gormModels.Ship {
	status := strings.ToLower(data.ProductionStatus)

	ship := &gormModels.Ship{
		ManufacturerID: manufacturerID,
		Model:          model,
		Name:           data.Name,
		Type:           data.Type,
		Size:           NormalizeSize(data.Size),
		Focus:          data.Focus,
		Description:    data.Description,
		Length:         flexFloatPtr(data.Length),
		Beam:           flexFloatPtr(data.Beam),
		Height:         flexFloatPtr(data.Height),
		Mass:           flexFloatPtr(data.Mass),
		CrewMin:        flexIntPtr(data.Crew.Min),
		CrewMax:        flexIntPtr(data.Crew.Max),
		CargoCapacity:  flexIntPtr(data.Cargo),
		MaxSpeed:       flexIntPtr(data.MaxSpeed),
		Price:          flexFloatPtr(data.Price),
		ImageURL:       data.Media.Image,
		StoreURL:       data.StoreURL,
		IsFlightReady:  status == constants.ProductionFlightReady,
		IsConcept:      status == constants.ProductionConcept,
		APIData:        data.Raw,
	}
	if data.ID != nil {
		id := int64(*data.ID)
		ship.ExternalID = &id
	}
	return ship
}

// NormalizeSize maps the loose upstream size strings onto the fixed set of
// hull classes. Unknown values map to empty.
func NormalizeSize(size string) string {
	if normalized, ok := constants.ShipSizeMap[strings.ToLower(strings.TrimSpace(size))]; ok {
		return normalized
	}
	return ""
}

func flexFloatPtr(v *dtos.FlexFloat) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

func flexIntPtr(v *dtos.FlexInt) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}
