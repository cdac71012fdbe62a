package library

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gobookshelf/gobookshelf/internal/db/models"
)

// CreateLibrary stores a new, empty library.
func (s *Service) CreateLibrary(ctx context.Context, name string) (*models.Library, error) {
	lib := models.Library{Name: name}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&lib).Error; err != nil {
		return nil, fmt.Errorf("failed to create library: %w", err)
	}

	return &lib, nil
}

// GetLibrary loads a library with its books, their authors and its librarian.
func (s *Service) GetLibrary(ctx context.Context, id uint) (*models.Library, error) {
	var lib models.Library

	err := s.db.WithContext(ctx).
		Preload("Books", func(db *gorm.DB) *gorm.DB { return db.Order("books.title, books.id") }).
		Preload("Books.Author").
		Preload("Librarian").
		First(&lib, id).Error
	if err != nil {
		return nil, notFound(err, ErrLibraryNotFound, "library")
	}

	return &lib, nil
}

// ListLibraries returns all libraries with their librarian ordered by name.
func (s *Service) ListLibraries(ctx context.Context) ([]models.Library, error) {
	var libs []models.Library

	if err := s.db.WithContext(ctx).Preload("Librarian").Order("name, id").Find(&libs).Error; err != nil {
		return nil, fmt.Errorf("failed to list libraries: %w", err)
	}

	return libs, nil
}

// AddBook puts a book into a library. Adding a book twice is a no-op.
func (s *Service) AddBook(ctx context.Context, libraryID, bookID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lib, book, err := loadMembership(tx, libraryID, bookID)
		if err != nil {
			return err
		}

		if err = tx.Model(lib).Association("Books").Append(book); err != nil {
			return fmt.Errorf("failed to add book to library: %w", err)
		}

		return nil
	})
}

// RemoveBook takes a book out of a library.
func (s *Service) RemoveBook(ctx context.Context, libraryID, bookID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lib, book, err := loadMembership(tx, libraryID, bookID)
		if err != nil {
			return err
		}

		if err = tx.Model(lib).Association("Books").Delete(book); err != nil {
			return fmt.Errorf("failed to remove book from library: %w", err)
		}

		return nil
	})
}

// AssignLibrarian sets the librarian of a library, replacing the current one.
func (s *Service) AssignLibrarian(ctx context.Context, libraryID uint, name string) (*models.Librarian, error) {
	librarian := models.Librarian{Name: name, LibraryID: libraryID}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Library{}).Where("id = ?", libraryID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to load library: %w", err)
		}

		if count == 0 {
			return ErrLibraryNotFound
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "library_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).Create(&librarian).Error
	})
	if err != nil {
		return nil, err
	}

	return &librarian, nil
}

func loadMembership(tx *gorm.DB, libraryID, bookID uint) (*models.Library, *models.Book, error) {
	var (
		lib  models.Library
		book models.Book
	)

	if err := tx.First(&lib, libraryID).Error; err != nil {
		return nil, nil, notFound(err, ErrLibraryNotFound, "library")
	}

	if err := tx.First(&book, bookID).Error; err != nil {
		return nil, nil, notFound(err, ErrBookNotFound, "book")
	}

	return &lib, &book, nil
}
