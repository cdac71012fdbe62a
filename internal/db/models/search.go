package models

import (
	"html"
	"strings"

	"gorm.io/gorm"
)

// FoldSearch returns the form of s stored in search key columns: entities decoded and
// lower cased with full unicode case mapping.
func FoldSearch(s string) string {
	return strings.ToLower(html.UnescapeString(s))
}

// BeforeSave keeps SearchKey in step with Title.
func (b *Book) BeforeSave(*gorm.DB) error {
	b.SearchKey = FoldSearch(b.Title)
	return nil
}

// BeforeSave keeps SearchKey in step with Name.
func (a *Author) BeforeSave(*gorm.DB) error {
	a.SearchKey = FoldSearch(a.Name)
	return nil
}
