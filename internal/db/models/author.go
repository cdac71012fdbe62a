package models

import "time"

// Author writes books. Deleting an author deletes their books.
type Author struct {
	ID uint `gorm:"primaryKey"`
	// Name is stored html escaped.
	Name string `gorm:"size:100;not null;index"`
	// SearchKey is the plain lower case name matched by searches.
	SearchKey string `gorm:"size:100;not null;default:'';index" json:"-"`
	Books     []Book `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Author model.
func (Author) TableName() string {
	return "authors"
}
