package models

import "time"

// ContactMessage is a message sent through the public contact form.
type ContactMessage struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Email     string `gorm:"size:255;not null"`
	Subject   string `gorm:"size:150;not null"`
	Message   string `gorm:"size:2000;not null"`
	CreatedAt time.Time
}

// TableName specifies the database table name for the ContactMessage model.
func (ContactMessage) TableName() string {
	return "contact_messages"
}
