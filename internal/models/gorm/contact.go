package gorm

import "time"

// ContactSubmission stores a message sent through the public contact form.
type ContactSubmission struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;size:100"`
	Email     string    `gorm:"column:email;size:254"`
	Subject   string    `gorm:"column:subject;size:200"`
	Message   string    `gorm:"column:message"`
	Status    string    `gorm:"column:status;index;size:20;default:new"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ContactSubmission) TableName() string {
	return "contact_submissions"
}
