package models

import "time"

// Library holds a set of books and has at most one librarian.
type Library struct {
	ID        uint       `gorm:"primaryKey"`
	Name      string     `gorm:"size:100;not null"`
	Books     []Book     `gorm:"many2many:library_books;constraint:OnDelete:CASCADE"`
	Librarian *Librarian `gorm:"foreignKey:LibraryID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Library model.
func (Library) TableName() string {
	return "libraries"
}

// Librarian runs exactly one library.
type Librarian struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	LibraryID uint   `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

// TableName specifies the database table name for the Librarian model.
func (Librarian) TableName() string {
	return "librarians"
}
