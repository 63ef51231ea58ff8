package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"farhold/quarterdeck/internal/constants"
)

// SessionClaims is the payload carried by a portal session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID    uint           `json:"user_id"`
	Role      constants.Role `json:"role"`
	DiscordID string         `json:"discord_id,omitempty"`
}

// Username returns the token subject.
func (c *SessionClaims) Username() string {
	return c.Subject
}

// IsAdmin reports whether the session belongs to an administrator.
func (c *SessionClaims) IsAdmin() bool {
	return c.Role == constants.RoleAdmin
}
