package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"farhold/quarterdeck/internal/auth"
	"farhold/quarterdeck/internal/logging"
	"farhold/quarterdeck/internal/models/dtos/requests"
	"farhold/quarterdeck/internal/models/dtos/responses"
	"farhold/quarterdeck/internal/services"
)

// AdminUserHandlers serves the admin user-management endpoints.
type AdminUserHandlers struct {
	adminSvc *services.AdminUserService
}

// NewAdminUserHandlers creates the admin user handler set.
func NewAdminUserHandlers(adminSvc *services.AdminUserService) *AdminUserHandlers {
	return &AdminUserHandlers{adminSvc: adminSvc}
}

// ListUsers handles GET /admin/users with page, limit, role, and search
// query params.
func (h *AdminUserHandlers) ListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 20)
		role := r.URL.Query().Get("role")
		search := r.URL.Query().Get("search")

		users, total, err := h.adminSvc.ListUsers(r.Context(), page, limit, role, search)
		if err != nil {
			logging.Error("Failed to list users", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to list users")
			return
		}

		resp := responses.UserListResponse{
			Users: make([]responses.UserResponse, 0, len(users)),
			Total: total,
			Page:  page,
			Limit: limit,
		}
		for i := range users {
			resp.Users = append(resp.Users, userToResponse(&users[i]))
		}

		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// GetUser handles GET /admin/users/{id}.
func (h *AdminUserHandlers) GetUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid user id")
			return
		}

		user, err := h.adminSvc.GetUser(r.Context(), id)
		if errors.Is(err, services.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch user")
			return
		}

		resp := userToResponse(user)
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// UpdateRole handles PUT /admin/users/{id}/role.
func (h *AdminUserHandlers) UpdateRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid user id")
			return
		}

		var req requests.RoleUpdateRequest
		if err := decodeJSON(r, &req); err != nil || req.Role == "" {
			respondWithError(w, http.StatusBadRequest, "Role is required")
			return
		}

		err = h.adminSvc.UpdateRole(r.Context(), claims.UserID, id, req.Role)
		switch {
		case errors.Is(err, services.ErrSelfModification):
			respondWithError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, services.ErrInvalidRole):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrUserInactive):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User not found")
		case err != nil:
			respondWithError(w, http.StatusInternalServerError, "Failed to update role")
		default:
			msg := "Role updated"
			respondWithSuccess(w, http.StatusOK, &msg)
		}
	}
}

// UpdateRank handles PUT /admin/users/{id}/rank.
func (h *AdminUserHandlers) UpdateRank() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid user id")
			return
		}

		var req requests.RankUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		err = h.adminSvc.UpdateRank(r.Context(), id, req.RankImage, req.Rank)
		switch {
		case errors.Is(err, services.ErrUserInactive):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User not found")
		case err != nil:
			respondWithError(w, http.StatusInternalServerError, "Failed to update rank")
		default:
			msg := "Rank updated"
			respondWithSuccess(w, http.StatusOK, &msg)
		}
	}
}

// DeactivateUser handles DELETE /admin/users/{id}.
func (h *AdminUserHandlers) DeactivateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		id, err := pathID(r, "id")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid user id")
			return
		}

		err = h.adminSvc.DeactivateUser(r.Context(), claims.UserID, id)
		switch {
		case errors.Is(err, services.ErrSelfModification):
			respondWithError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User not found")
		case err != nil:
			respondWithError(w, http.StatusInternalServerError, "Failed to deactivate user")
		default:
			msg := "User deactivated"
			respondWithSuccess(w, http.StatusOK, &msg)
		}
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func pathID(r *http.Request, key string) (uint, error) {
	raw := chi.URLParam(r, key)
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}
