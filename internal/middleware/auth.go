package middleware

import (
	"net/http"
	"strings"

	"farhold/quarterdeck/internal/auth"
	"farhold/quarterdeck/internal/constants"
	"farhold/quarterdeck/internal/db/repositories"
)

// SessionCookieName is the cookie carrying the portal session token.
const SessionCookieName = "access_token"

// AuthMiddleware verifies the session token from the access_token cookie or
// an Authorization bearer header and loads the account behind it. Inactive
// accounts are rejected the same way as missing tokens.
func AuthMiddleware(tokens *auth.TokenService, userRepo *repositories.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			tokenString := ""

			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				tokenString = cookie.Value
			}
			if tokenString == "" {
				authHeader := r.Header.Get("Authorization")
				if strings.HasPrefix(authHeader, "Bearer ") {
					tokenString = strings.TrimPrefix(authHeader, "Bearer ")
				}
			}

			if tokenString == "" {
				http.Error(w, "Not authenticated", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Parse(tokenString)
			if err != nil {
				http.Error(w, "Not authenticated", http.StatusUnauthorized)
				return
			}

			user, err := userRepo.FindByID(r.Context(), claims.UserID)
			if err != nil || user == nil || !user.IsActive {
				http.Error(w, "Not authenticated", http.StatusUnauthorized)
				return
			}

			// Role changes take effect on the next request, not at next login
			claims.Role = user.Role

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsAdminMiddleware restricts a route group to administrators. Runs behind
// AuthMiddleware, so claims are always present.
func IsAdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims := auth.GetUserClaims(r.Context())

			if claims == nil || claims.Role != constants.RoleAdmin {
				http.Error(w, "Admin privileges required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
