package gorm

import "time"

// BlogPost is an org news article. Slug is derived from the title at create
// time and disambiguated with a numeric suffix on collision.
type BlogPost struct {
	ID          uint       `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string     `gorm:"column:title;size:200"`
	Slug        string     `gorm:"column:slug;uniqueIndex;size:220"`
	Summary     string     `gorm:"column:summary;size:500"`
	Content     string     `gorm:"column:content"`
	CoverURL    string     `gorm:"column:cover_url;size:500"`
	AuthorID    *uint      `gorm:"column:author_id;index"`
	AuthorName  string     `gorm:"column:author_name;size:100"`
	IsPublished bool       `gorm:"column:is_published;index;default:false"`
	PublishedAt *time.Time `gorm:"column:published_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}
