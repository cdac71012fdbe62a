package library

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gobookshelf/gobookshelf/internal/db/models"
)

// BookInput is a validated book. Either AuthorID or AuthorName identifies the author;
// an unknown AuthorName creates the author.
type BookInput struct {
	Title           string
	AuthorID        uint
	AuthorName      string
	PublicationYear int
	ISBN            string
	Description     string
}

// BookChanges is a validated partial update; nil fields stay unchanged.
type BookChanges struct {
	Title           *string
	AuthorID        *uint
	AuthorName      *string
	PublicationYear *int
	ISBN            *string
	Description     *string
}

// CreateBook stores a new book.
func (s *Service) CreateBook(ctx context.Context, in BookInput) (*models.Book, error) {
	book := models.Book{
		Title:           in.Title,
		PublicationYear: in.PublicationYear,
		ISBN:            in.ISBN,
		Description:     in.Description,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		authorID, err := resolveAuthor(tx, in.AuthorID, in.AuthorName)
		if err != nil {
			return err
		}

		book.AuthorID = authorID

		if err = ensureUniqueBook(tx, &book); err != nil {
			return err
		}

		return createBook(tx, &book)
	})
	if err != nil {
		return nil, err
	}

	return s.GetBook(ctx, book.ID)
}

// GetBook loads a book with its author.
func (s *Service) GetBook(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book

	if err := s.db.WithContext(ctx).Preload("Author").First(&book, id).Error; err != nil {
		return nil, notFound(err, ErrBookNotFound, "book")
	}

	return &book, nil
}

// UpdateBook applies ch to the book with id.
func (s *Service) UpdateBook(ctx context.Context, id uint, ch BookChanges) (*models.Book, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.First(&book, id).Error; err != nil {
			return notFound(err, ErrBookNotFound, "book")
		}

		if ch.AuthorID != nil || ch.AuthorName != nil {
			var (
				authorID   uint
				authorName string
			)

			if ch.AuthorID != nil {
				authorID = *ch.AuthorID
			}

			if ch.AuthorName != nil {
				authorName = *ch.AuthorName
			}

			resolved, err := resolveAuthor(tx, authorID, authorName)
			if err != nil {
				return err
			}

			book.AuthorID = resolved
		}

		if ch.Title != nil {
			book.Title = *ch.Title
		}

		if ch.PublicationYear != nil {
			book.PublicationYear = *ch.PublicationYear
		}

		if ch.ISBN != nil {
			book.ISBN = *ch.ISBN
		}

		if ch.Description != nil {
			book.Description = *ch.Description
		}

		if err := ensureUniqueBook(tx, &book); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Save(&book).Error; err != nil {
			return translateBookErr(err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetBook(ctx, id)
}

// DeleteBook removes a book with its comments and library memberships and returns it.
func (s *Service) DeleteBook(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Author").First(&book, id).Error; err != nil {
			return notFound(err, ErrBookNotFound, "book")
		}

		if err := tx.Where("book_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}

		if err := tx.Exec("DELETE FROM library_books WHERE book_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to remove book from libraries: %w", err)
		}

		return tx.Delete(&models.Book{}, id).Error
	})
	if err != nil {
		return nil, err
	}

	return &book, nil
}

// resolveAuthor returns the id of the author given by id or, if id is 0, by name.
func resolveAuthor(tx *gorm.DB, id uint, name string) (uint, error) {
	if id != 0 {
		var count int64
		if err := tx.Model(&models.Author{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return 0, fmt.Errorf("failed to load author: %w", err)
		}

		if count == 0 {
			return 0, ErrAuthorNotFound
		}

		return id, nil
	}

	author, err := getOrCreateAuthor(tx, name)
	if err != nil {
		return 0, err
	}

	return author.ID, nil
}

// ensureUniqueBook rejects a second book with the same identity.
func ensureUniqueBook(tx *gorm.DB, book *models.Book) error {
	var count int64

	query := tx.Model(&models.Book{}).
		Where("title = ? AND author_id = ? AND publication_year = ?", book.Title, book.AuthorID, book.PublicationYear)
	if book.ID != 0 {
		query = query.Where("id <> ?", book.ID)
	}

	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check duplicate book: %w", err)
	}

	if count > 0 {
		return ErrDuplicateBook
	}

	return nil
}

func createBook(tx *gorm.DB, book *models.Book) error {
	if err := tx.Omit(clause.Associations).Create(book).Error; err != nil {
		return translateBookErr(err)
	}

	return nil
}

// translateBookErr maps the unique index violation of a concurrent insert.
func translateBookErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateBook
	}

	return fmt.Errorf("failed to save book: %w", err)
}
