package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"os"
	"time"

	"farhold/quarterdeck/internal/auth"
	"farhold/quarterdeck/internal/constants"
	"farhold/quarterdeck/internal/db/repositories"
	"farhold/quarterdeck/internal/logging"
	"farhold/quarterdeck/internal/metrics"
	"farhold/quarterdeck/internal/middleware"
	"farhold/quarterdeck/internal/models/dtos/requests"
	"farhold/quarterdeck/internal/models/dtos/responses"
	gormModels "farhold/quarterdeck/internal/models/gorm"
	"farhold/quarterdeck/internal/providers"
	"farhold/quarterdeck/internal/services"
)

// StateCookieName is the short-lived cookie binding one OAuth round trip.
const StateCookieName = "oauth_state"

// StateCookieMaxAge bounds how long a pending OAuth flow stays valid.
const StateCookieMaxAge = 5 * time.Minute

// AuthHandlers serves login, OAuth, and session endpoints.
type AuthHandlers struct {
	authSvc     *services.AuthService
	identitySvc *services.IdentityService
	discord     *providers.DiscordProvider
	tokens      *auth.TokenService
	users       *repositories.UserRepository
	members     *repositories.MemberRepository
	metricsReg  *metrics.MetricsRegistry
}

// NewAuthHandlers creates the auth handler set.
func NewAuthHandlers(
	authSvc *services.AuthService,
	identitySvc *services.IdentityService,
	discord *providers.DiscordProvider,
	tokens *auth.TokenService,
	users *repositories.UserRepository,
	members *repositories.MemberRepository,
	metricsReg *metrics.MetricsRegistry,
) *AuthHandlers {
	return &AuthHandlers{
		authSvc:     authSvc,
		identitySvc: identitySvc,
		discord:     discord,
		tokens:      tokens,
		users:       users,
		members:     members,
		metricsReg:  metricsReg,
	}
}

func secureCookies() bool {
	return os.Getenv("APP_ENV") == "production"
}

func frontendURL() string {
	if url := os.Getenv("FRONTEND_URL"); url != "" {
		return url
	}
	return "http://localhost:3000"
}

// DiscordLogin handles GET /auth/discord/login: plants the state cookie and
// redirects to the consent page.
func (h *AuthHandlers) DiscordLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.discord.Configured() {
			respondWithError(w, http.StatusServiceUnavailable, "Discord login is not configured")
			return
		}

		state, err := auth.GenerateState()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to start login")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     StateCookieName,
			Value:    state,
			Path:     "/",
			MaxAge:   int(StateCookieMaxAge.Seconds()),
			HttpOnly: true,
			Secure:   secureCookies(),
			SameSite: http.SameSiteLaxMode,
		})

		http.Redirect(w, r, h.discord.AuthorizeURL(state), http.StatusFound)
	}
}

// DiscordCallback handles GET /auth/discord/callback. A state mismatch stops
// the flow before anything touches the stores.
func (h *AuthHandlers) DiscordCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The state cookie is single-use, drop it regardless of outcome
		http.SetCookie(w, &http.Cookie{
			Name:     StateCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secureCookies(),
			SameSite: http.SameSiteLaxMode,
		})

		stateCookie, err := r.Cookie(StateCookieName)
		queryState := r.URL.Query().Get("state")
		if err != nil || queryState == "" ||
			subtle.ConstantTimeCompare([]byte(stateCookie.Value), []byte(queryState)) != 1 {
			h.countOAuth("state_mismatch")
			respondWithError(w, http.StatusBadRequest, "Invalid OAuth state")
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			h.countOAuth("missing_code")
			respondWithError(w, http.StatusBadRequest, "Missing authorization code")
			return
		}

		user, session, err := h.identitySvc.HandleCallback(r.Context(), code)
		if err != nil {
			if errors.Is(err, services.ErrAccountDisabled) {
				h.countOAuth("account_disabled")
				respondWithError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			h.countOAuth("exchange_failed")
			logging.Error("Discord callback failed", "error", err)
			respondWithError(w, http.StatusBadGateway, "Discord login failed")
			return
		}

		h.countOAuth("success")
		h.countLogin("discord")
		h.setSessionCookie(w, session)

		target := frontendURL() + "/user"
		if user.Role == constants.RoleAdmin {
			target = frontendURL() + "/admin"
		}
		http.Redirect(w, r, target, http.StatusFound)
	}
}

// Login handles POST /auth/login with local credentials. Every failure gets
// the same 401 body.
func (h *AuthHandlers) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.LoginRequest
		if err := decodeJSON(r, &req); err != nil || req.Username == "" || req.Password == "" {
			respondWithError(w, http.StatusBadRequest, "Username and password are required")
			return
		}

		user, token, err := h.authSvc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				if h.metricsReg != nil {
					h.metricsReg.LoginFailuresTotal.Inc()
				}
				respondWithError(w, http.StatusUnauthorized, services.ErrInvalidCredentials.Error())
				return
			}
			logging.Error("Login failed", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Login failed")
			return
		}

		h.countLogin("local")
		h.setSessionCookie(w, token)

		resp := responses.Token{
			AccessToken:        token,
			TokenType:          "bearer",
			Role:               user.Role.String(),
			MustChangePassword: user.MustChangePassword,
		}
		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// Logout handles POST /auth/logout by expiring the session cookie.
func (h *AuthHandlers) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secureCookies(),
			SameSite: http.SameSiteStrictMode,
		})
		msg := "Logged out"
		respondWithSuccess(w, http.StatusOK, &msg)
	}
}

// Me handles GET /auth/me: the combined account and member profile view.
func (h *AuthHandlers) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		user, err := h.users.FindByID(r.Context(), claims.UserID)
		if err != nil || user == nil {
			respondWithError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		resp := responses.UserProfileResponse{
			User:        userToResponse(user),
			DisplayName: user.Username,
			Rank:        user.Role.String(),
		}

		if user.DiscordID != nil {
			profile, err := h.members.FindByDiscordID(r.Context(), *user.DiscordID)
			if err == nil && profile != nil {
				resp.DisplayName = profile.DisplayName
				resp.Bio = profile.Bio
				resp.AvatarURL = profile.AvatarURL
				resp.Rank = profile.Rank
				resp.MissionsCompleted = profile.MissionsCompleted
				resp.TrainingsCompleted = profile.TrainingsCompleted
			}
		}

		respondWithSuccess(w, http.StatusOK, &resp)
	}
}

// ChangePassword handles POST /user/me/change-password.
func (h *AuthHandlers) ChangePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			respondWithError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		var req requests.PasswordChangeRequest
		if err := decodeJSON(r, &req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
			respondWithError(w, http.StatusBadRequest, "Current and new passwords are required")
			return
		}

		err := h.authSvc.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword)
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			respondWithError(w, http.StatusUnauthorized, "Current password is incorrect")
		case errors.Is(err, services.ErrWeakPassword):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrPasswordLoginUnavailable):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case err != nil:
			logging.Error("Password change failed", "user_id", claims.UserID, "error", err)
			respondWithError(w, http.StatusInternalServerError, "Password change failed")
		default:
			msg := "Password changed"
			respondWithSuccess(w, http.StatusOK, &msg)
		}
	}
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.Expiry().Seconds()),
		HttpOnly: true,
		Secure:   secureCookies(),
		SameSite: http.SameSiteStrictMode,
	})
	if h.metricsReg != nil {
		h.metricsReg.SessionsIssued.Inc()
	}
}

func (h *AuthHandlers) countOAuth(outcome string) {
	if h.metricsReg != nil {
		h.metricsReg.OAuthFlowsTotal.WithLabelValues(outcome).Inc()
	}
}

func (h *AuthHandlers) countLogin(method string) {
	if h.metricsReg != nil {
		h.metricsReg.LoginsTotal.WithLabelValues(method).Inc()
	}
}

func userToResponse(user *gormModels.User) responses.UserResponse {
	return responses.UserResponse{
		ID:                 user.ID,
		Username:           user.Username,
		Email:              user.Email,
		DiscordID:          user.DiscordID,
		Avatar:             user.Avatar,
		Role:               user.Role.String(),
		RankImage:          user.RankImage,
		MustChangePassword: user.MustChangePassword,
		IsActive:           user.IsActive,
		CreatedAt:          user.CreatedAt,
		LastLogin:          user.LastLogin,
	}
}
