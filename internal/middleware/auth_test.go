package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"farhold/quarterdeck/internal/auth"
	"farhold/quarterdeck/internal/constants"
	"farhold/quarterdeck/internal/db/repositories"
	gormModels "farhold/quarterdeck/internal/models/gorm"
)

func setupUserRepo(t *testing.T) *repositories.UserRepository {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to access underlying database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(&gormModels.User{}); err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}
	return repositories.NewUserRepository(gdb)
}

func claimsEcho(captured **auth.SessionClaims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = auth.GetUserClaims(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	users := setupUserRepo(t)
	tokens := auth.NewTokenService("test-secret", time.Hour)

	user := &gormModels.User{Username: "stanton_jack", Role: constants.RoleMember, IsActive: true}
	if err := users.Create(t.Context(), user); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	token, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	var captured *auth.SessionClaims
	handler := AuthMiddleware(tokens, users)(claimsEcho(&captured))

	t.Run("no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Status = %d, want 401", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Status = %d, want 401", rec.Code)
		}
	})

	t.Run("cookie token accepted", func(t *testing.T) {
		captured = nil
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("Status = %d, want 200", rec.Code)
		}
		if captured == nil || captured.UserID != user.ID {
			t.Errorf("Claims = %+v", captured)
		}
	})

	t.Run("bearer header accepted", func(t *testing.T) {
		captured = nil
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("Status = %d, want 200", rec.Code)
		}
		if captured == nil || captured.Username() != "stanton_jack" {
			t.Errorf("Claims = %+v", captured)
		}
	})

	t.Run("role changes apply without reissuing the token", func(t *testing.T) {
		if err := users.UpdateRole(t.Context(), user.ID, constants.RoleAdmin); err != nil {
			t.Fatalf("Role update failed: %v", err)
		}
		captured = nil
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("Status = %d, want 200", rec.Code)
		}
		if captured == nil || captured.Role != constants.RoleAdmin {
			t.Errorf("Claims role = %v, want live admin role", captured)
		}
	})

	t.Run("deactivated account rejected with valid token", func(t *testing.T) {
		if err := users.Deactivate(t.Context(), user.ID); err != nil {
			t.Fatalf("Deactivate failed: %v", err)
		}
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Status = %d, want 401", rec.Code)
		}
	})
}

func TestIsAdminMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := IsAdminMiddleware()(next)

	t.Run("no claims", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		if rec.Code != http.StatusForbidden {
			t.Errorf("Status = %d, want 403", rec.Code)
		}
	})

	t.Run("member claims", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		ctx := auth.SetUserClaims(req.Context(), &auth.SessionClaims{UserID: 1, Role: constants.RoleMember})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		if rec.Code != http.StatusForbidden {
			t.Errorf("Status = %d, want 403", rec.Code)
		}
	})

	t.Run("admin claims", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		ctx := auth.SetUserClaims(req.Context(), &auth.SessionClaims{UserID: 1, Role: constants.RoleAdmin})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		if rec.Code != http.StatusOK {
			t.Errorf("Status = %d, want 200", rec.Code)
		}
	})
}
