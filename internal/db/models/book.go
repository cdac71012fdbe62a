package models

import "time"

// Book is unique by title, author and publication year.
type Book struct {
	ID uint `gorm:"primaryKey"`
	// Title is stored html escaped, never empty.
	Title string `gorm:"size:200;not null;uniqueIndex:idx_book_identity"`
	// SearchKey is the plain lower case title matched by searches.
	SearchKey string `gorm:"size:200;not null;default:'';index" json:"-"`
	AuthorID  uint   `gorm:"not null;uniqueIndex:idx_book_identity"`
	Author    Author `gorm:"foreignKey:AuthorID"`
	// PublicationYear lies between 1000 and the current year.
	PublicationYear int    `gorm:"not null;uniqueIndex:idx_book_identity"`
	ISBN            string `gorm:"column:isbn;size:13"`
	Description     string `gorm:"size:2000"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the database table name for the Book model.
func (Book) TableName() string {
	return "books"
}
