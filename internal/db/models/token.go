package models

import "time"

// APIToken authenticates REST requests via "Authorization: Token <Key>".
// A user owns at most one token.
type APIToken struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"size:40;uniqueIndex;not null"`
	UserID    uint64 `gorm:"uniqueIndex;not null"`
	User      User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// TableName specifies the database table name for the APIToken model.
func (APIToken) TableName() string {
	return "api_tokens"
}
