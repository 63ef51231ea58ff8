package gorm

import (
	"encoding/json"
	"time"
)

// Organization is synced from the catalog API, keyed by SID.
// MemberCount is recomputed from stored member rows after every member sync,
// not trusted from upstream.
type Organization struct {
	ID          uint            `gorm:"column:id;primaryKey;autoIncrement"`
	SID         string          `gorm:"column:sid;uniqueIndex;size:20"`
	Name        string          `gorm:"column:name;index;size:200"`
	Archetype   string          `gorm:"column:archetype;size:50"`
	Commitment  string          `gorm:"column:commitment;size:50"`
	Description string          `gorm:"column:description"`
	MemberCount int             `gorm:"column:member_count;default:0"`
	BannerURL   string          `gorm:"column:banner_url;size:500"`
	LogoURL     string          `gorm:"column:logo_url;size:500"`
	URL         string          `gorm:"column:url;size:500"`
	APIData     json.RawMessage `gorm:"column:api_data;type:jsonb"`
	LastSynced  time.Time       `gorm:"column:last_synced;autoUpdateTime"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`

	Members []OrganizationMember `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
}

func (Organization) TableName() string {
	return "organizations"
}

// OrganizationMember is a roster entry synced from the catalog API.
// Natural key is (organization, handle).
type OrganizationMember struct {
	ID             uint            `gorm:"column:id;primaryKey;autoIncrement"`
	OrganizationID uint            `gorm:"column:organization_id;uniqueIndex:idx_org_members_handle"`
	Handle         string          `gorm:"column:handle;uniqueIndex:idx_org_members_handle;size:100"`
	DisplayName    string          `gorm:"column:display_name;size:200"`
	Rank           string          `gorm:"column:rank;size:100"`
	Stars          int             `gorm:"column:stars;default:0"`
	AvatarURL      string          `gorm:"column:avatar_url;size:500"`
	APIData        json.RawMessage `gorm:"column:api_data;type:jsonb"`
	LastSynced     time.Time       `gorm:"column:last_synced;autoUpdateTime"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (OrganizationMember) TableName() string {
	return "organization_members"
}
