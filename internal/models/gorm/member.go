package gorm

import (
	"encoding/json"
	"time"
)

// Member is the organization-facing profile, stored in the app database
// scope. It shares the discord_id natural key with the auth User but there is
// no foreign key between the two: the stores are independent and kept
// consistent by the login flow plus an idempotent reconciliation pass.
type Member struct {
	ID                 uint            `gorm:"column:id;primaryKey;autoIncrement"`
	DiscordID          string          `gorm:"column:discord_id;uniqueIndex;size:100"`
	DisplayName        string          `gorm:"column:display_name;size:255"`
	Bio                *string         `gorm:"column:bio"`
	AvatarURL          *string         `gorm:"column:avatar_url;size:500"`
	Rank               string          `gorm:"column:rank;index;size:50;default:member"`
	MissionsCompleted  json.RawMessage `gorm:"column:missions_completed;type:jsonb"`
	TrainingsCompleted json.RawMessage `gorm:"column:trainings_completed;type:jsonb"`
	Stats              json.RawMessage `gorm:"column:stats;type:jsonb"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Member) TableName() string {
	return "members"
}
