package api

import (
	"net/http"

	"farhold/quarterdeck/internal/db/repositories"
	"farhold/quarterdeck/internal/logging"
	gormModels "farhold/quarterdeck/internal/models/gorm"
)

// CatalogHandlers serves the public ship catalog.
type CatalogHandlers struct {
	catalog *repositories.CatalogRepository
}

// NewCatalogHandlers creates the catalog handler set.
func NewCatalogHandlers(catalog *repositories.CatalogRepository) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalog}
}

type shipListPage struct {
	Ships []gormModels.Ship `json:"ships"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ListShips handles GET /ships with manufacturer, size, search, and
// flight_ready filters.
func (h *CatalogHandlers) ListShips() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 50)
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 200 {
			limit = 50
		}

		flightReadyOnly := r.URL.Query().Get("flight_ready") == "true"

		ships, total, err := h.catalog.ListShips(
			r.Context(), page, limit,
			r.URL.Query().Get("manufacturer"),
			r.URL.Query().Get("size"),
			r.URL.Query().Get("search"),
			flightReadyOnly,
		)
		if err != nil {
			logging.Error("Failed to list ships", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to list ships")
			return
		}

		resp := shipListPage{Ships: ships, Total: total, Page: page, Limit: limit}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// GetShip handles GET /ships/{id}.
func (h *CatalogHandlers) GetShip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid ship id")
			return
		}

		ship, err := h.catalog.GetShipByID(r.Context(), id)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch ship")
			return
		}
		if ship == nil {
			respondWithError(w, http.StatusNotFound, "Ship not found")
			return
		}

		respondWithSuccess(w, http.StatusOK, ship)
	}
}

// ListManufacturers handles GET /manufacturers.
func (h *CatalogHandlers) ListManufacturers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		manufacturers, err := h.catalog.ListManufacturers(r.Context())
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list manufacturers")
			return
		}
		respondWithSuccess(w, http.StatusOK, &manufacturers)
	}
}
