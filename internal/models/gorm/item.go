package gorm

import "time"

// Item is a tradeable/equipable catalog entry shown on the items page.
type Item struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;index;size:150"`
	Slug        string    `gorm:"column:slug;uniqueIndex;size:170"`
	Category    string    `gorm:"column:category;index;size:50"`
	SubCategory string    `gorm:"column:sub_category;size:50"`
	Description string    `gorm:"column:description"`
	Size        *int      `gorm:"column:size"`
	Grade       string    `gorm:"column:grade;size:10"`
	Price       *float64  `gorm:"column:price"`
	ImageURL    string    `gorm:"column:image_url;size:500"`
	IsAvailable bool      `gorm:"column:is_available;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Item) TableName() string {
	return "items"
}
