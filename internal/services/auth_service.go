package services

import (
	"context"
	"errors"
	"os"

	"golang.org/x/crypto/bcrypt"

	"farhold/quarterdeck/internal/auth"
	"farhold/quarterdeck/internal/constants"
	"farhold/quarterdeck/internal/db/repositories"
	"farhold/quarterdeck/internal/logging"
	gormModels "farhold/quarterdeck/internal/models/gorm"
)

// ErrInvalidCredentials is returned for every local login failure. One error
// for unknown user, wrong password, and disabled account keeps responses
// from leaking which usernames exist.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// ErrWeakPassword rejects passwords under the minimum length.
var ErrWeakPassword = errors.New("password must be at least 8 characters")

// ErrPasswordLoginUnavailable marks accounts that only authenticate through
// Discord.
var ErrPasswordLoginUnavailable = errors.New("password login is not available for this account")

// AuthService handles local username/password authentication.
type AuthService struct {
	users  *repositories.UserRepository
	tokens *auth.TokenService
}

// NewAuthService creates a new auth service
func NewAuthService(users *repositories.UserRepository, tokens *auth.TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*gormModels.User, string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if user == nil || user.HashedPassword == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.HashedPassword), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		logging.Warn("Failed to record last login", "user_id", user.ID, "error", err)
	}

	return user, token, nil
}

// ChangePassword verifies the current password and stores a new hash,
// clearing the forced-change flag.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidCredentials
	}
	if user.HashedPassword == nil {
		return ErrPasswordLoginUnavailable
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.HashedPassword), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashedStr := string(hashed)

	user.HashedPassword = &hashedStr
	user.MustChangePassword = false
	return s.users.Save(ctx, user)
}

// SeedDefaultAdmin creates the bootstrap administrator when no account with
// the configured username exists. With no DEFAULT_ADMIN_PASSWORD set the
// seed is skipped with a warning rather than inventing a credential.
func (s *AuthService) SeedDefaultAdmin(ctx context.Context) error {
	username := os.Getenv("DEFAULT_ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("DEFAULT_ADMIN_PASSWORD")
	if password == "" {
		logging.Warn("DEFAULT_ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		logging.Debug("Default admin already present", "username", username)
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashedStr := string(hashed)

	admin := &gormModels.User{
		Username:           username,
		HashedPassword:     &hashedStr,
		Role:               constants.RoleAdmin,
		MustChangePassword: true,
		IsActive:           true,
	}
	if email := os.Getenv("DEFAULT_ADMIN_EMAIL"); email != "" {
		admin.Email = &email
	}

	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}
	logging.Info("Seeded default admin account", "username", username)
	return nil
}
