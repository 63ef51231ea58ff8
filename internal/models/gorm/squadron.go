package gorm

import "time"

// Squadron is a sub-group within the organization. MaxMembers nil means
// unlimited capacity.
type Squadron struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string    `gorm:"column:name;uniqueIndex;size:100"`
	Slug         string    `gorm:"column:slug;uniqueIndex;size:100"`
	Callsign     string    `gorm:"column:callsign;uniqueIndex;size:50"`
	Description  string    `gorm:"column:description"`
	Motto        string    `gorm:"column:motto;size:200"`
	CommanderID  *uint     `gorm:"column:commander_id"`
	Focus        string    `gorm:"column:focus;size:50;default:mixed"`
	IsActive     bool      `gorm:"column:is_active;index;default:true"`
	IsRecruiting bool      `gorm:"column:is_recruiting;default:false"`
	MaxMembers   *int      `gorm:"column:max_members"`
	LogoURL      string    `gorm:"column:logo_url;size:500"`
	ColorCode    string    `gorm:"column:color_code;size:7;default:#55E6A5"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Members []SquadronMember `gorm:"foreignKey:SquadronID;constraint:OnDelete:CASCADE"`
}

func (Squadron) TableName() string {
	return "squadrons"
}

// SquadronMember assigns a user to a squadron. Leaving is a soft transition:
// is_active flips false and left_at is set, the row is never deleted.
type SquadronMember struct {
	ID         uint       `gorm:"column:id;primaryKey;autoIncrement"`
	SquadronID uint       `gorm:"column:squadron_id;uniqueIndex:idx_squadron_user;index:idx_squadron_active"`
	UserID     uint       `gorm:"column:user_id;uniqueIndex:idx_squadron_user"`
	Role       string     `gorm:"column:role;size:50;default:member"`
	IsActive   bool       `gorm:"column:is_active;index:idx_squadron_active;default:true"`
	JoinedAt   time.Time  `gorm:"column:joined_at;autoCreateTime"`
	LeftAt     *time.Time `gorm:"column:left_at"`
	Notes      string     `gorm:"column:notes"`
}

func (SquadronMember) TableName() string {
	return "squadron_members"
}
