package gorm

import (
	"time"

	"farhold/quarterdeck/internal/constants"
)

// User is an auth principal, stored in the auth database scope.
// DiscordID is nullable but unique when present; accounts created by
// administrative bootstrap have no Discord binding and carry a password hash
// instead. Users are never hard-deleted, only deactivated.
type User struct {
	ID                 uint           `gorm:"column:id;primaryKey;autoIncrement"`
	DiscordID          *string        `gorm:"column:discord_id;uniqueIndex;size:100"`
	Username           string         `gorm:"column:username;uniqueIndex;size:100"`
	Discriminator      *string        `gorm:"column:discriminator;size:10"`
	Avatar             *string        `gorm:"column:avatar;size:255"`
	Email              *string        `gorm:"column:email;uniqueIndex;size:255"`
	HashedPassword     *string        `gorm:"column:hashed_password;size:255"`
	Role               constants.Role `gorm:"column:role;index;size:20;default:member"`
	RankImage          *string        `gorm:"column:rank_image;size:500"`
	MustChangePassword bool           `gorm:"column:must_change_password;default:false"`
	IsActive           bool           `gorm:"column:is_active;default:true"`
	CreatedAt          time.Time      `gorm:"column:created_at;autoCreateTime"`
	LastLogin          *time.Time     `gorm:"column:last_login"`
}

func (User) TableName() string {
	return "users"
}
