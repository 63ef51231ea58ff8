package api

import (
	"errors"
	"net/http"

	"farhold/quarterdeck/internal/auth"
	"farhold/quarterdeck/internal/db/repositories"
	"farhold/quarterdeck/internal/models/dtos/requests"
	gormModels "farhold/quarterdeck/internal/models/gorm"
	"farhold/quarterdeck/internal/services"
)

// FleetHandlers serves the per-member fleet inventory.
type FleetHandlers struct {
	fleetSvc *services.FleetService
	fleet    *repositories.FleetRepository
}

// NewFleetHandlers creates the fleet handler set.
func NewFleetHandlers(fleetSvc *services.FleetService, fleet *repositories.FleetRepository) *FleetHandlers {
	return &FleetHandlers{fleetSvc: fleetSvc, fleet: fleet}
}

// ListFleet handles GET /fleet. ?mine=true restricts to the caller's ships.
func (h *FleetHandlers) ListFleet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 50)
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 200 {
			limit = 50
		}

		var ownerID uint
		if r.URL.Query().Get("mine") == "true" {
			claims := auth.GetUserClaims(r.Context())
			if claims == nil {
				respondWithError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			ownerID = claims.UserID
		}

		ships, total, err := h.fleet.List(r.Context(), page, limit, ownerID, r.URL.Query().Get("status"))
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list fleet")
			return
		}

		type fleetPage struct {
			Ships []gormModels.FleetShip `json:"ships"`
			Total int64                  `json:"total"`
			Page  int                    `json:"page"`
			Limit int                    `json:"limit"`
		}
		resp := fleetPage{Ships: ships, Total: total, Page: page, Limit: limit}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// AddShip handles POST /fleet.
func (h *FleetHandlers) AddShip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())

		var req requests.FleetShipRequest
		if err := decodeJSON(r, &req); err != nil || req.ShipID == 0 {
			respondWithError(w, http.StatusBadRequest, "ship_id is required")
			return
		}

		entry := &gormModels.FleetShip{
			ShipID:        req.ShipID,
			OwnerID:       claims.UserID,
			Name:          req.Name,
			PurchasedDate: req.PurchasedDate,
			Status:        req.Status,
			Notes:         req.Notes,
		}
		if req.IsAvailableForMissions != nil {
			entry.IsAvailableForMissions = *req.IsAvailableForMissions
		}

		err := h.fleetSvc.AddShip(r.Context(), entry)
		switch {
		case errors.Is(err, services.ErrShipNotFound):
			respondWithError(w, http.StatusNotFound, "Catalog ship not found")
		case errors.Is(err, services.ErrInvalidFleetStatus):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case err != nil:
			respondWithError(w, http.StatusInternalServerError, "Failed to add ship")
		default:
			respondWithSuccess(w, http.StatusCreated, entry)
		}
	}
}

// UpdateShip handles PUT /fleet/{id}.
func (h *FleetHandlers) UpdateShip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid fleet ship id")
			return
		}

		var req requests.FleetShipRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		entry, err := h.fleetSvc.UpdateShip(r.Context(), id, claims.UserID, claims.IsAdmin(), func(s *gormModels.FleetShip) {
			if req.Name != "" {
				s.Name = req.Name
			}
			if req.Status != "" {
				s.Status = req.Status
			}
			if req.PurchasedDate != nil {
				s.PurchasedDate = req.PurchasedDate
			}
			s.Notes = req.Notes
			if req.IsAvailableForMissions != nil {
				s.IsAvailableForMissions = *req.IsAvailableForMissions
			}
		})
		switch {
		case errors.Is(err, services.ErrFleetShipNotFound):
			respondWithError(w, http.StatusNotFound, "Fleet ship not found")
		case errors.Is(err, services.ErrNotOwner):
			respondWithError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, services.ErrInvalidFleetStatus):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case err != nil:
			respondWithError(w, http.StatusInternalServerError, "Failed to update ship")
		default:
			respondWithSuccess(w, http.StatusOK, entry)
		}
	}
}

// RemoveShip handles DELETE /fleet/{id}.
func (h *FleetHandlers) RemoveShip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid fleet ship id")
			return
		}

		err = h.fleetSvc.RemoveShip(r.Context(), id, claims.UserID, claims.IsAdmin())
		switch {
		case errors.Is(err, services.ErrFleetShipNotFound):
			respondWithError(w, http.StatusNotFound, "Fleet ship not found")
		case errors.Is(err, services.ErrNotOwner):
			respondWithError(w, http.StatusForbidden, err.Error())
		case err != nil:
			respondWithError(w, http.StatusInternalServerError, "Failed to remove ship")
		default:
			msg := "Ship removed"
			respondWithSuccess(w, http.StatusOK, &msg)
		}
	}
}
