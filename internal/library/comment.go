package library

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gobookshelf/gobookshelf/internal/db/models"
)

// AddComment stores a comment of user on a book.
func (s *Service) AddComment(ctx context.Context, bookID uint, userID uint64, body string) (*models.Comment, error) {
	comment := models.Comment{BookID: bookID, UserID: userID, Body: body}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Book{}).Where("id = ?", bookID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to load book: %w", err)
		}

		if count == 0 {
			return ErrBookNotFound
		}

		if err := tx.Omit(clause.Associations).Create(&comment).Error; err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// ListComments returns the comments of a book, newest first.
func (s *Service) ListComments(ctx context.Context, bookID uint) ([]models.Comment, error) {
	var comments []models.Comment

	err := s.db.WithContext(ctx).
		Preload("User").
		Where("book_id = ?", bookID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}
