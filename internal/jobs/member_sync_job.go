package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"farhold/quarterdeck/internal/db/repositories"
	"farhold/quarterdeck/internal/logging"
	"farhold/quarterdeck/internal/metrics"
	"farhold/quarterdeck/internal/models/dtos"
	gormModels "farhold/quarterdeck/internal/models/gorm"
	"farhold/quarterdeck/internal/providers"
)

// MemberSyncJob pulls the live organization roster into the local tables.
type MemberSyncJob struct {
	provider   *providers.StarCitizenProvider
	db         *gorm.DB
	metricsReg *metrics.MetricsRegistry
}

// NewMemberSyncJob creates a roster sync job. metricsReg may be nil for CLI
// runs.
func NewMemberSyncJob(provider *providers.StarCitizenProvider, db *gorm.DB, metricsReg *metrics.MetricsRegistry) *MemberSyncJob {
	return &MemberSyncJob{
		provider:   provider,
		db:         db,
		metricsReg: metricsReg,
	}
}

// Run fetches the roster and merges it. The organization must already be
// synced; the run finishes by recomputing member_count from stored rows so
// the figure reflects what the portal actually serves.
func (j *MemberSyncJob) Run(ctx context.Context, sid string, force bool) (*SyncResult, error) {
	start := time.Now()
	sid = normalizeSID(sid)

	repo := repositories.NewOrganizationRepository(j.db)
	org, err := repo.FindBySID(ctx, sid)
	if err != nil {
		j.recordRun("member_sync", "failed", start)
		return nil, err
	}
	if org == nil {
		j.recordRun("member_sync", "failed", start)
		return nil, fmt.Errorf("organization %s not found, sync the organization first", sid)
	}

	members, undecodable, err := j.provider.GetOrganizationMembers(ctx, sid)
	if err != nil {
		j.recordRun("member_sync", "failed", start)
		return nil, err
	}

	// Entries the provider could not decode still count against the run
	result := &SyncResult{Errored: undecodable}
	for _, member := range members {
		handle := strings.TrimSpace(member.Handle)
		if handle == "" {
			// The handle is the natural key; an entry without one is an error,
			// not a silent drop
			result.Errored++
			logging.Error("Roster entry missing handle", "sid", sid)
			continue
		}

		outcome, err := j.syncMember(ctx, org.ID, handle, member, force)
		if err != nil {
			result.Errored++
			logging.Error("Failed to sync member", "handle", handle, "error", err)
			continue
		}
		result.count(outcome)
	}

	count, err := repo.CountMembers(ctx, org.ID)
	if err != nil {
		j.recordRun("member_sync", "failed", start)
		return result, err
	}
	if err := repo.UpdateMemberCount(ctx, org.ID, int(count)); err != nil {
		j.recordRun("member_sync", "failed", start)
		return result, err
	}

	j.recordRun("member_sync", "ok", start)
	j.recordOutcomes("member_sync", result)
	logging.Info("Member sync complete",
		"sid", sid,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errored", result.Errored,
		"member_count", count,
	)
	return result, nil
}

func (j *MemberSyncJob) syncMember(ctx context.Context, orgID uint, handle string, data dtos.SCOrgMember, force bool) (Outcome, error) {
	var outcome Outcome

	err := j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewOrganizationRepository(tx)

		existing, err := repo.FindMemberByHandle(ctx, orgID, handle)
		if err != nil {
			return err
		}

		outcome = Reconcile(existing != nil, force)
		switch outcome {
		case OutcomeCreate:
			member := orgMemberFromData(orgID, handle, data)
			return repo.CreateMember(ctx, member)
		case OutcomeUpdate:
			member := orgMemberFromData(orgID, handle, data)
			member.ID = existing.ID
			member.CreatedAt = existing.CreatedAt
			return repo.SaveMember(ctx, member)
		default:
			return nil
		}
	})
	if err != nil {
		return outcome, err
	}
	return outcome, nil
}

func (j *MemberSyncJob) recordRun(job, outcome string, start time.Time) {
	if j.metricsReg == nil {
		return
	}
	j.metricsReg.SyncRunsTotal.WithLabelValues(job, outcome).Inc()
	j.metricsReg.SyncJobDuration.WithLabelValues(job).Observe(time.Since(start).Seconds())
}

func (j *MemberSyncJob) recordOutcomes(job string, result *SyncResult) {
	if j.metricsReg == nil {
		return
	}
	j.metricsReg.SyncRecordsTotal.WithLabelValues(job, "created").Add(float64(result.Created))
	j.metricsReg.SyncRecordsTotal.WithLabelValues(job, "updated").Add(float64(result.Updated))
	j.metricsReg.SyncRecordsTotal.WithLabelValues(job, "skipped").Add(float64(result.Skipped))
	j.metricsReg.SyncRecordsTotal.WithLabelValues(job, "errored").Add(float64(result.Errored))
}

func orgMemberFromData(orgID uint, handle string, data dtos.SCOrgMember) *gormModels.OrganizationMember {
	displayName := data.DisplayName
	if displayName == "" {
		displayName = handle
	}

	member := &gormModels.OrganizationMember{
		OrganizationID: orgID,
		Handle:         handle,
		DisplayName:    displayName,
		Rank:           data.Rank,
		AvatarURL:      data.Image,
		APIData:        data.Raw,
	}
	if data.Stars != nil {
		member.Stars = int(*data.Stars)
	}
	return member
}

func normalizeSID(sid string) string {
	return strings.ToUpper(strings.TrimSpace(sid))
}
