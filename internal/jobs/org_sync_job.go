package jobs

import (
	"context"
	"time"

	"gorm.io/gorm"

	"farhold/quarterdeck/internal/db/repositories"
	"farhold/quarterdeck/internal/logging"
	"farhold/quarterdeck/internal/metrics"
	"farhold/quarterdeck/internal/models/dtos"
	gormModels "farhold/quarterdeck/internal/models/gorm"
	"farhold/quarterdeck/internal/providers"
)

// OrgSyncJob refreshes the organization record from upstream.
type OrgSyncJob struct {
	provider   *providers.StarCitizenProvider
	db         *gorm.DB
	metricsReg *metrics.MetricsRegistry
}

// NewOrgSyncJob creates an organization sync job. metricsReg may be nil for
// CLI runs.
func NewOrgSyncJob(provider *providers.StarCitizenProvider, db *gorm.DB, metricsReg *metrics.MetricsRegistry) *OrgSyncJob {
	return &OrgSyncJob{
		provider:   provider,
		db:         db,
		metricsReg: metricsReg,
	}
}

// Run fetches the organization and upserts it by SID. The org record always
// refreshes: it is a single row, so the force/skip dance buys nothing here.
func (j *OrgSyncJob) Run(ctx context.Context, sid string) (*SyncResult, error) {
	start := time.Now()

	data, err := j.provider.GetOrganization(ctx, sid)
	if err != nil {
		j.recordRun("org_sync", "failed", start)
		return nil, err
	}

	result := &SyncResult{}
	repo := repositories.NewOrganizationRepository(j.db)

	existing, err := repo.FindBySID(ctx, normalizeSID(sid))
	if err != nil {
		j.recordRun("org_sync", "failed", start)
		return nil, err
	}

	org := organizationFromData(normalizeSID(sid), data)
	if err := repo.Upsert(ctx, org); err != nil {
		j.recordRun("org_sync", "failed", start)
		return nil, err
	}

	if existing == nil {
		result.Created++
	} else {
		result.Updated++
	}

	j.recordRun("org_sync", "ok", start)
	logging.Info("Organization sync complete",
		"sid", normalizeSID(sid),
		"name", org.Name,
		"member_count", org.MemberCount,
	)
	return result, nil
}

func (j *OrgSyncJob) recordRun(job, outcome string, start time.Time) {
	if j.metricsReg == nil {
		return
	}
	j.metricsReg.SyncRunsTotal.WithLabelValues(job, outcome).Inc()
	j.metricsReg.SyncJobDuration.WithLabelValues(job).Observe(time.Since(start).Seconds())
}

func organizationFromData(sid string, data *dtos.SCOrganization) *gormModels.Organization {
	name := data.Name
	if name == "" {
		name = sid
	}

	org := &gormModels.Organization{
		SID:         sid,
		Name:        name,
		Archetype:   data.Archetype,
		Commitment:  data.Commitment,
		Description: data.Description,
		BannerURL:   data.Banner,
		LogoURL:     data.Logo,
		URL:         data.URL,
		APIData:     data.Raw,
	}
	if data.Members != nil {
		org.MemberCount = int(*data.Members)
	}
	return org
}
