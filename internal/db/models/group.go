package models

import "time"

// Group bundles users that share a set of grants.
type Group struct {
	// ID is the unique identifier for the group.
	ID uint `gorm:"primaryKey"`
	// Name is the unique display name of the group (e.g. "Editors").
	Name string `gorm:"unique;size:150;not null"`
	// Description provides a human-readable explanation of the group's purpose.
	Description string `gorm:"size:255"`
	// Grants are the permissions every member of the group receives.
	Grants []Grant `gorm:"many2many:group_grants;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the group was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the group was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Group model.
func (Group) TableName() string {
	return "groups"
}
