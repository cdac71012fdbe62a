package models

import "time"

// Comment is a short text a user left on a book.
type Comment struct {
	ID     uint   `gorm:"primaryKey"`
	BookID uint   `gorm:"not null;index"`
	Book   Book   `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
	UserID uint64 `gorm:"not null;index"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Body is stored html escaped.
	Body      string `gorm:"size:500;not null"`
	CreatedAt time.Time
}

// TableName specifies the database table name for the Comment model.
func (Comment) TableName() string {
	return "comments"
}
