package api

import (
	"net/http"
	"time"

	"farhold/quarterdeck/internal/jobs"
	"farhold/quarterdeck/internal/logging"
	"farhold/quarterdeck/internal/models/dtos/responses"
	"farhold/quarterdeck/internal/providers"
)

// JobsHandlers exposes admin endpoints for triggering synchronizer runs.
type JobsHandlers struct {
	shipSync   *jobs.ShipSyncJob
	orgSync    *jobs.OrgSyncJob
	memberSync *jobs.MemberSyncJob
	provider   *providers.StarCitizenProvider
}

// NewJobsHandlers creates the jobs handler set.
func NewJobsHandlers(shipSync *jobs.ShipSyncJob, orgSync *jobs.OrgSyncJob, memberSync *jobs.MemberSyncJob, provider *providers.StarCitizenProvider) *JobsHandlers {
	return &JobsHandlers{
		shipSync:   shipSync,
		orgSync:    orgSync,
		memberSync: memberSync,
		provider:   provider,
	}
}

// TriggerShipSync handles POST /admin/jobs/sync-ships?force=true&clear_cache=true.
func (h *JobsHandlers) TriggerShipSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		force := r.URL.Query().Get("force") == "true"
		if r.URL.Query().Get("clear_cache") == "true" {
			h.provider.ClearCache()
		}

		start := time.Now()
		result, err := h.shipSync.Run(r.Context(), force)
		if err != nil {
			logging.Error("Ship sync trigger failed", "error", err)
			respondWithError(w, http.StatusBadGateway, err.Error())
			return
		}

		resp := syncResultResponse("ship_sync", result, time.Since(start))
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// TriggerOrgSync handles POST /admin/jobs/sync-organization?sid=SID.
func (h *JobsHandlers) TriggerOrgSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := r.URL.Query().Get("sid")
		if sid == "" {
			sid = defaultOrgSID()
		}
		if sid == "" {
			respondWithError(w, http.StatusBadRequest, "sid is required")
			return
		}

		start := time.Now()
		result, err := h.orgSync.Run(r.Context(), sid)
		if err != nil {
			logging.Error("Organization sync trigger failed", "sid", sid, "error", err)
			respondWithError(w, http.StatusBadGateway, err.Error())
			return
		}

		resp := syncResultResponse("org_sync", result, time.Since(start))
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// TriggerMemberSync handles POST /admin/jobs/sync-members?sid=SID&force=true.
func (h *JobsHandlers) TriggerMemberSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := r.URL.Query().Get("sid")
		if sid == "" {
			sid = defaultOrgSID()
		}
		if sid == "" {
			respondWithError(w, http.StatusBadRequest, "sid is required")
			return
		}
		force := r.URL.Query().Get("force") == "true"

		start := time.Now()
		result, err := h.memberSync.Run(r.Context(), sid, force)
		if err != nil {
			logging.Error("Member sync trigger failed", "sid", sid, "error", err)
			respondWithError(w, http.StatusBadGateway, err.Error())
			return
		}

		resp := syncResultResponse("member_sync", result, time.Since(start))
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

func syncResultResponse(job string, result *jobs.SyncResult, elapsed time.Duration) responses.SyncResultResponse {
	return responses.SyncResultResponse{
		Job:      job,
		Created:  result.Created,
		Updated:  result.Updated,
		Skipped:  result.Skipped,
		Errored:  result.Errored,
		Duration: elapsed.Round(time.Millisecond).String(),
	}
}
