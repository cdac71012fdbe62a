package models

import "time"

// Profile stores the role of exactly one user.
// It is created by the registration hook in the same transaction as the user
// and only changes through an explicit role assignment.
type Profile struct {
	// ID is the unique identifier for the profile.
	ID uint64 `gorm:"primaryKey"`
	// UserID references the owning user, at most one profile per user.
	UserID uint64 `gorm:"uniqueIndex;not null"`
	// Role is the permission level of the user.
	Role Role `gorm:"type:varchar(20);not null;default:'Member'"`
	// CreatedAt is the timestamp when the profile was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the profile was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Profile model.
func (Profile) TableName() string {
	return "profiles"
}
