package library

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gobookshelf/gobookshelf/internal/db/models"
)

// AuthorSummary is an author with statistics about their books.
type AuthorSummary struct {
	models.Author
	BookCount             int64 `json:"book_count"`
	LatestPublicationYear *int  `json:"latest_publication_year"`
}

type authorRow struct {
	ID                    uint
	Name                  string
	CreatedAt             time.Time
	UpdatedAt             time.Time
	BookCount             int64
	LatestPublicationYear *int
}

// CreateAuthor stores a new author.
func (s *Service) CreateAuthor(ctx context.Context, name string) (*models.Author, error) {
	author := models.Author{Name: name}

	if err := s.db.WithContext(ctx).Omit("Books").Create(&author).Error; err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	return &author, nil
}

// GetOrCreateAuthor returns the author called name, creating it if needed.
func (s *Service) GetOrCreateAuthor(ctx context.Context, name string) (*models.Author, error) {
	var author *models.Author

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		author, err = getOrCreateAuthor(tx, name)

		return err
	})
	if err != nil {
		return nil, err
	}

	return author, nil
}

// GetAuthor loads an author with their books ordered by title.
func (s *Service) GetAuthor(ctx context.Context, id uint) (*AuthorSummary, error) {
	var author models.Author

	err := s.db.WithContext(ctx).
		Preload("Books", func(db *gorm.DB) *gorm.DB { return db.Order("title, id") }).
		First(&author, id).Error
	if err != nil {
		return nil, notFound(err, ErrAuthorNotFound, "author")
	}

	summary := AuthorSummary{Author: author, BookCount: int64(len(author.Books))}

	for _, b := range author.Books {
		if summary.LatestPublicationYear == nil || b.PublicationYear > *summary.LatestPublicationYear {
			year := b.PublicationYear
			summary.LatestPublicationYear = &year
		}
	}

	return &summary, nil
}

// ListAuthors returns all authors ordered by name, optionally filtered by a name substring.
func (s *Service) ListAuthors(ctx context.Context, name string) ([]AuthorSummary, error) {
	var rows []authorRow

	query := s.db.WithContext(ctx).Model(&models.Author{}).
		Select("authors.*, " +
			"(SELECT COUNT(*) FROM books WHERE books.author_id = authors.id) AS book_count, " +
			"(SELECT MAX(publication_year) FROM books WHERE books.author_id = authors.id) AS latest_publication_year")

	if name != "" {
		query = query.Where("authors.search_key LIKE ? ESCAPE '"+likeEscape+"'", containsPattern(name))
	}

	if err := query.Order("authors.name, authors.id").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}

	summaries := make([]AuthorSummary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, AuthorSummary{
			Author:                models.Author{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
			BookCount:             r.BookCount,
			LatestPublicationYear: r.LatestPublicationYear,
		})
	}

	return summaries, nil
}

func getOrCreateAuthor(tx *gorm.DB, name string) (*models.Author, error) {
	var author models.Author

	err := tx.Where(&models.Author{Name: name}).
		Attrs(models.Author{Name: name}).
		FirstOrCreate(&author).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get or create author: %w", err)
	}

	return &author, nil
}
