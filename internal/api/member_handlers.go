package api

import (
	"net/http"
	"os"

	"farhold/quarterdeck/internal/auth"
	"farhold/quarterdeck/internal/db/repositories"
	gormModels "farhold/quarterdeck/internal/models/gorm"
	"farhold/quarterdeck/internal/models/dtos/requests"
	"farhold/quarterdeck/internal/services"
)

// MemberHandlers serves member profiles and the synced org roster.
type MemberHandlers struct {
	members     *repositories.MemberRepository
	orgs        *repositories.OrganizationRepository
	identitySvc *services.IdentityService
}

// NewMemberHandlers creates the member handler set.
func NewMemberHandlers(members *repositories.MemberRepository, orgs *repositories.OrganizationRepository, identitySvc *services.IdentityService) *MemberHandlers {
	return &MemberHandlers{members: members, orgs: orgs, identitySvc: identitySvc}
}

// ListMembers handles GET /members.
func (h *MemberHandlers) ListMembers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 50)
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 200 {
			limit = 50
		}

		members, total, err := h.members.List(r.Context(), page, limit, r.URL.Query().Get("search"))
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list members")
			return
		}

		type memberPage struct {
			Members []gormModels.Member `json:"members"`
			Total   int64               `json:"total"`
			Page    int                 `json:"page"`
			Limit   int                 `json:"limit"`
		}
		resp := memberPage{Members: members, Total: total, Page: page, Limit: limit}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// UpdateMyProfile handles PUT /members/me.
func (h *MemberHandlers) UpdateMyProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil || claims.DiscordID == "" {
			respondWithError(w, http.StatusBadRequest, "No member profile for this account")
			return
		}

		member, err := h.members.FindByDiscordID(r.Context(), claims.DiscordID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch profile")
			return
		}
		if member == nil {
			respondWithError(w, http.StatusNotFound, "Member profile not found")
			return
		}

		var req requests.MemberUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.DisplayName != nil && *req.DisplayName != "" {
			member.DisplayName = *req.DisplayName
		}
		if req.Bio != nil {
			member.Bio = req.Bio
		}
		if req.AvatarURL != nil {
			member.AvatarURL = req.AvatarURL
		}

		if err := h.members.Save(r.Context(), member); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		respondWithSuccess(w, http.StatusOK, member)
	}
}

// GetOrganization handles GET /organization/{sid}: the synced org record.
func (h *MemberHandlers) GetOrganization() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := r.URL.Query().Get("sid")
		if sid == "" {
			sid = defaultOrgSID()
		}

		org, err := h.orgs.FindBySID(r.Context(), sid)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch organization")
			return
		}
		if org == nil {
			respondWithError(w, http.StatusNotFound, "Organization not found")
			return
		}
		respondWithSuccess(w, http.StatusOK, org)
	}
}

// ListRoster handles GET /organization/roster: the synced upstream roster.
func (h *MemberHandlers) ListRoster() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := r.URL.Query().Get("sid")
		if sid == "" {
			sid = defaultOrgSID()
		}

		org, err := h.orgs.FindBySID(r.Context(), sid)
		if err != nil || org == nil {
			respondWithError(w, http.StatusNotFound, "Organization not found")
			return
		}

		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 50)
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 500 {
			limit = 50
		}

		roster, total, err := h.orgs.ListMembers(r.Context(), org.ID, page, limit, r.URL.Query().Get("search"))
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list roster")
			return
		}

		type rosterPage struct {
			Members []gormModels.OrganizationMember `json:"members"`
			Total   int64                           `json:"total"`
			Page    int                             `json:"page"`
			Limit   int                             `json:"limit"`
		}
		resp := rosterPage{Members: roster, Total: total, Page: page, Limit: limit}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

func defaultOrgSID() string {
	return os.Getenv("ORG_SID")
}

// RepairProfiles handles POST /admin/members/reconcile: recreates member
// profiles missing for Discord-linked accounts.
func (h *MemberHandlers) RepairProfiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		repaired, err := h.identitySvc.ReconcileProfiles(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Reconcile failed")
			return
		}

		type repairResult struct {
			Repaired int `json:"repaired"`
		}
		resp := repairResult{Repaired: repaired}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}
