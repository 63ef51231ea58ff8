package responses

import (
	"encoding/json"
	"time"
)

// UserResponse is the account view returned to admins and to the user itself.
type UserResponse struct {
	ID                 uint       `json:"id"`
	Username           string     `json:"username"`
	Email              *string    `json:"email,omitempty"`
	DiscordID          *string    `json:"discord_id,omitempty"`
	Avatar             *string    `json:"avatar,omitempty"`
	Role               string     `json:"role"`
	RankImage          *string    `json:"rank_image,omitempty"`
	MustChangePassword bool       `json:"must_change_password"`
	IsActive           bool       `json:"is_active"`
	CreatedAt          time.Time  `json:"created_at"`
	LastLogin          *time.Time `json:"last_login,omitempty"`
}

// UserListResponse is a paginated admin listing of accounts.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// UserProfileResponse merges the auth account with the member profile so the
// portal can render one combined view.
type UserProfileResponse struct {
	User               UserResponse    `json:"user"`
	DisplayName        string          `json:"display_name"`
	Bio                *string         `json:"bio,omitempty"`
	AvatarURL          *string         `json:"avatar_url,omitempty"`
	Rank               string          `json:"rank"`
	MissionsCompleted  json.RawMessage `json:"missions_completed"`
	TrainingsCompleted json.RawMessage `json:"trainings_completed"`
}

// Token is the login response body.
type Token struct {
	AccessToken        string `json:"access_token"`
	TokenType          string `json:"token_type"`
	Role               string `json:"role"`
	MustChangePassword bool   `json:"must_change_password"`
}
