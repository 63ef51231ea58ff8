package auth

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	gormModels "farhold/quarterdeck/internal/models/gorm"
)

// DefaultExpirationDays is the session lifetime when JWT_EXPIRATION_DAYS is
// unset.
const DefaultExpirationDays = 7

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService signs and verifies portal session tokens with HS256.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

// NewTokenService builds a service from an explicit secret.
func NewTokenService(secret string, expiry time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), expiry: expiry}
}

// NewTokenServiceFromEnv builds a service from JWT_SECRET_KEY and
// JWT_EXPIRATION_DAYS. A missing secret is a hard error: issuing sessions
// with a guessable default key is worse than refusing to start.
func NewTokenServiceFromEnv() (*TokenService, error) {
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		return nil, errors.New("JWT_SECRET_KEY environment variable is not set")
	}

	days := DefaultExpirationDays
	if v := os.Getenv("JWT_EXPIRATION_DAYS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_DAYS: %q", v)
		}
		days = parsed
	}

	return NewTokenService(secret, time.Duration(days)*24*time.Hour), nil
}

// Expiry returns the configured session lifetime.
func (s *TokenService) Expiry() time.Duration {
	return s.expiry
}

// Issue creates a signed session token for the given account.
func (s *TokenService) Issue(user *gormModels.User) (string, error) {
	now := time.Now().UTC()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		UserID: user.ID,
		Role:   user.Role,
	}
	if user.DiscordID != nil {
		claims.DiscordID = *user.DiscordID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns its claims. Only HS256 is accepted.
func (s *TokenService) Parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
