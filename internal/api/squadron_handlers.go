package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"farhold/quarterdeck/internal/auth"
	"farhold/quarterdeck/internal/db/repositories"
	"farhold/quarterdeck/internal/models/dtos/requests"
	gormModels "farhold/quarterdeck/internal/models/gorm"
	"farhold/quarterdeck/internal/services"
)

// SquadronHandlers serves squadron listing, membership, and admin management.
type SquadronHandlers struct {
	squadronSvc *services.SquadronService
	squadrons   *repositories.SquadronRepository
}

// NewSquadronHandlers creates the squadron handler set.
func NewSquadronHandlers(squadronSvc *services.SquadronService, squadrons *repositories.SquadronRepository) *SquadronHandlers {
	return &SquadronHandlers{squadronSvc: squadronSvc, squadrons: squadrons}
}

// ListSquadrons handles GET /squadrons. Admins see inactive squadrons too.
func (h *SquadronHandlers) ListSquadrons() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		activeOnly := claims == nil || !claims.IsAdmin()

		squadrons, err := h.squadrons.List(r.Context(), activeOnly)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list squadrons")
			return
		}
		respondWithSuccess(w, http.StatusOK, &squadrons)
	}
}

// GetSquadron handles GET /squadrons/{slug} with its active roster.
func (h *SquadronHandlers) GetSquadron() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		squadron, err := h.squadrons.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch squadron")
			return
		}
		if squadron == nil {
			respondWithError(w, http.StatusNotFound, "Squadron not found")
			return
		}

		members, err := h.squadrons.ListActiveMembers(r.Context(), squadron.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch squadron")
			return
		}

		type squadronDetail struct {
			Squadron gormModels.Squadron       `json:"squadron"`
			Members  []gormModels.SquadronMember `json:"members"`
		}
		resp := squadronDetail{Squadron: *squadron, Members: members}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// CreateSquadron handles POST /admin/squadrons.
func (h *SquadronHandlers) CreateSquadron() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.SquadronRequest
		if err := decodeJSON(r, &req); err != nil ||
			strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Callsign) == "" {
			respondWithError(w, http.StatusBadRequest, "Name and callsign are required")
			return
		}

		squadron := &gormModels.Squadron{
			Name:        strings.TrimSpace(req.Name),
			Callsign:    strings.TrimSpace(req.Callsign),
			Description: req.Description,
			Motto:       req.Motto,
			Focus:       req.Focus,
			MaxMembers:  req.MaxMembers,
			LogoURL:     req.LogoURL,
			ColorCode:   req.ColorCode,
		}
		if req.IsRecruiting != nil {
			squadron.IsRecruiting = *req.IsRecruiting
		}

		if err := h.squadronSvc.CreateSquadron(r.Context(), squadron); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to create squadron")
			return
		}
		respondWithSuccess(w, http.StatusCreated, squadron)
	}
}

// UpdateSquadron handles PUT /admin/squadrons/{id}.
func (h *SquadronHandlers) UpdateSquadron() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid squadron id")
			return
		}

		squadron, err := h.squadrons.FindByID(r.Context(), id)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch squadron")
			return
		}
		if squadron == nil {
			respondWithError(w, http.StatusNotFound, "Squadron not found")
			return
		}

		var req requests.SquadronRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Name != "" {
			squadron.Name = strings.TrimSpace(req.Name)
		}
		if req.Callsign != "" {
			squadron.Callsign = strings.TrimSpace(req.Callsign)
		}
		if req.Focus != "" {
			squadron.Focus = req.Focus
		}
		squadron.Description = req.Description
		squadron.Motto = req.Motto
		squadron.MaxMembers = req.MaxMembers
		if req.LogoURL != "" {
			squadron.LogoURL = req.LogoURL
		}
		if req.ColorCode != "" {
			squadron.ColorCode = req.ColorCode
		}
		if req.IsRecruiting != nil {
			squadron.IsRecruiting = *req.IsRecruiting
		}

		if err := h.squadrons.Save(r.Context(), squadron); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to update squadron")
			return
		}
		respondWithSuccess(w, http.StatusOK, squadron)
	}
}

// Join handles POST /squadrons/{id}/join.
func (h *SquadronHandlers) Join() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid squadron id")
			return
		}

		err = h.squadronSvc.Join(r.Context(), id, claims.UserID)
		switch {
		case errors.Is(err, services.ErrSquadronNotFound):
			respondWithError(w, http.StatusNotFound, "Squadron not found")
		case errors.Is(err, services.ErrSquadronClosed):
			respondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, services.ErrSquadronFull):
			respondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, services.ErrAlreadyMember):
			respondWithError(w, http.StatusConflict, err.Error())
		case err != nil:
			respondWithError(w, http.StatusInternalServerError, "Failed to join squadron")
		default:
			msg := "Joined squadron"
			respondWithSuccess(w, http.StatusOK, &msg)
		}
	}
}

// Leave handles POST /squadrons/{id}/leave.
func (h *SquadronHandlers) Leave() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid squadron id")
			return
		}

		err = h.squadronSvc.Leave(r.Context(), id, claims.UserID)
		switch {
		case errors.Is(err, services.ErrSquadronNotFound):
			respondWithError(w, http.StatusNotFound, "Squadron not found")
		case errors.Is(err, services.ErrNotMember):
			respondWithError(w, http.StatusConflict, err.Error())
		case err != nil:
			respondWithError(w, http.StatusInternalServerError, "Failed to leave squadron")
		default:
			msg := "Left squadron"
			respondWithSuccess(w, http.StatusOK, &msg)
		}
	}
}
