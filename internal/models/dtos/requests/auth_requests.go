package requests

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

type RoleUpdateRequest struct {
	Role string `json:"role" validate:"required"`
}

type RankUpdateRequest struct {
	Rank      *string `json:"rank"`
	RankImage *string `json:"rank_image"`
}

type MemberUpdateRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
}
