package models

import "time"

// Grant is a named permission to perform one action on one resource type,
// e.g. codename "can_edit" on resource type "book".
type Grant struct {
	// ID is the unique identifier for the grant.
	ID uint `gorm:"primaryKey"`
	// Codename is "can_" followed by the action.
	Codename string `gorm:"size:100;not null;uniqueIndex:idx_grant_resource_codename"`
	// ResourceType is the kind of resource the grant applies to.
	ResourceType string `gorm:"size:50;not null;uniqueIndex:idx_grant_resource_codename"`
	// Action is the action allowed on the resource type.
	Action string `gorm:"size:20;not null"`
	// Name is a human readable description ("Can edit book").
	Name string `gorm:"size:255"`
	// CreatedAt is the timestamp when the grant was created (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the Grant model.
func (Grant) TableName() string {
	return "grants"
}
