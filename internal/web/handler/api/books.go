package api

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/gobookshelf/gobookshelf/internal/auth"
	"github.com/gobookshelf/gobookshelf/internal/library"
	"github.com/gobookshelf/gobookshelf/internal/validate"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
)

// searchFields names what a search term is matched against.
var searchFields = []string{"title", "author__name"}

// ListBooks returns a filtered page of books.
func (s *Service) ListBooks(c fiber.Ctx) error {
	filter, err := handler.BookFilter(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	page, err := s.deps.Library.ListBooks(c.Context(), filter)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.JSON(c, fiber.StatusOK, "Books retrieved successfully", bookList{
		Count:          page.Count,
		Page:           page.Page,
		PageSize:       page.PageSize,
		Results:        presentBooks(page.Books),
		AppliedFilters: page.Applied,
	})
}

// CreateBook validates and stores a new book.
func (s *Service) CreateBook(c fiber.Ctx) error {
	var form library.BookForm
	if err := s.bind(c, &form); err != nil {
		return err
	}

	input, err := library.CleanBook(s.deps.Validator, form)
	if err != nil {
		return err //nolint:wrapcheck
	}

	book, err := s.deps.Library.CreateBook(c.Context(), input)
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint("book_id", book.ID).Uint64("user_id", auth.PrincipalFrom(c).UserID).Msg("book created")

	return handler.JSON(c, fiber.StatusCreated, "Book created successfully", presentBook(book))
}

// SearchBooks matches the search term against title and author name.
func (s *Service) SearchBooks(c fiber.Ctx) error {
	term, err := s.deps.Validator.Validate(validate.FieldSearch, c.Query("search"))
	if err != nil {
		return err //nolint:wrapcheck
	}

	books, err := s.deps.Library.SearchBooks(c.Context(), term)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.JSON(c, fiber.StatusOK, fmt.Sprintf("Found %d book(s)", len(books)), searchResult{
		SearchTerm:   term,
		ResultCount:  len(books),
		Results:      presentBooks(books),
		SearchFields: searchFields,
	})
}

// GetBook returns one book.
func (s *Service) GetBook(c fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err //nolint:wrapcheck
	}

	book, err := s.deps.Library.GetBook(c.Context(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.JSON(c, fiber.StatusOK, "Book retrieved successfully", presentBook(book))
}

// ReplaceBook updates every field of a book.
func (s *Service) ReplaceBook(c fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err //nolint:wrapcheck
	}

	var form library.BookForm
	if err = s.bind(c, &form); err != nil {
		return err
	}

	input, err := library.CleanBook(s.deps.Validator, form)
	if err != nil {
		return err //nolint:wrapcheck
	}

	changes := library.BookChanges{
		Title:           &input.Title,
		PublicationYear: &input.PublicationYear,
		ISBN:            &input.ISBN,
		Description:     &input.Description,
	}

	if input.AuthorID != 0 {
		changes.AuthorID = &input.AuthorID
	} else {
		changes.AuthorName = &input.AuthorName
	}

	return s.updateBook(c, id, changes)
}

// PatchBook updates the fields present in the body.
func (s *Service) PatchBook(c fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err //nolint:wrapcheck
	}

	var patch library.BookPatch
	if err = c.Bind().Body(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	changes, err := library.CleanBookPatch(s.deps.Validator, patch)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return s.updateBook(c, id, changes)
}

func (s *Service) updateBook(c fiber.Ctx, id uint, changes library.BookChanges) error {
	book, err := s.deps.Library.UpdateBook(c.Context(), id, changes)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.JSON(c, fiber.StatusOK, "Book updated successfully", presentBook(book))
}

// DeleteBook removes a book.
func (s *Service) DeleteBook(c fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err //nolint:wrapcheck
	}

	book, err := s.deps.Library.DeleteBook(c.Context(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint("book_id", book.ID).Uint64("user_id", auth.PrincipalFrom(c).UserID).Msg("book deleted")

	return handler.JSON(c, fiber.StatusOK, fmt.Sprintf("Book \"%s\" deleted successfully", validate.Plain(book.Title)), nil)
}
