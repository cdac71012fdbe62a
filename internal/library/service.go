// Package library stores and queries authors, books, libraries and the
// comments and contact messages around them. Text values reaching this
// package are already sanitized by the validate package.
package library

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/gobookshelf/gobookshelf/internal/db/models"
)

// Service implements the catalogue operations.
type Service struct {
	db *gorm.DB
}

// NewService creates a catalogue service on db.
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return &Service{db: db}, nil
}

// notFound maps gorm.ErrRecordNotFound to sentinel.
func notFound(err, sentinel error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}

	return fmt.Errorf("failed to load %s: %w", what, err)
}

// likeEscape is the escape character used in LIKE patterns.
const likeEscape = "!"

// containsPattern builds a LIKE pattern matching v literally against a search key column.
func containsPattern(v string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return "%" + r.Replace(models.FoldSearch(v)) + "%"
}
