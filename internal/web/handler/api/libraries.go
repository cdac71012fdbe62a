package api

import (
	"github.com/gofiber/fiber/v3"

	"github.com/gobookshelf/gobookshelf/internal/library"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
)

type libraryForm struct {
	Name string `json:"name" form:"name" validate:"required"`
}

// ListLibraries returns all libraries with their librarian.
func (s *Service) ListLibraries(c fiber.Ctx) error {
	libs, err := s.deps.Library.ListLibraries(c.Context())
	if err != nil {
		return err //nolint:wrapcheck
	}

	out := make([]libraryJSON, 0, len(libs))
	for i := range libs {
		out = append(out, presentLibrary(&libs[i]))
	}

	return handler.JSON(c, fiber.StatusOK, "Libraries retrieved successfully", fiber.Map{
		"count":   len(out),
		"results": out,
	})
}

// CreateLibrary stores a new library.
func (s *Service) CreateLibrary(c fiber.Ctx) error {
	var form libraryForm
	if err := s.bind(c, &form); err != nil {
		return err
	}

	name, err := library.CleanLibrary(s.deps.Validator, form.Name)
	if err != nil {
		return err //nolint:wrapcheck
	}

	lib, err := s.deps.Library.CreateLibrary(c.Context(), name)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.JSON(c, fiber.StatusCreated, "Library created successfully", presentLibrary(lib))
}

// GetLibrary returns a library with its books and librarian.
func (s *Service) GetLibrary(c fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err //nolint:wrapcheck
	}

	lib, err := s.deps.Library.GetLibrary(c.Context(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.JSON(c, fiber.StatusOK, "Library retrieved successfully", presentLibrary(lib))
}

// AssignLibrarian sets the librarian of a library.
func (s *Service) AssignLibrarian(c fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err //nolint:wrapcheck
	}

	var form libraryForm
	if err = s.bind(c, &form); err != nil {
		return err
	}

	name, err := library.CleanAuthor(s.deps.Validator, form.Name)
	if err != nil {
		return err //nolint:wrapcheck
	}

	librarian, err := s.deps.Library.AssignLibrarian(c.Context(), id, name)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.JSON(c, fiber.StatusOK, "Librarian assigned successfully",
		librarianJSON{ID: librarian.ID, Name: librarian.Name})
}

// AddLibraryBook puts a book into a library.
func (s *Service) AddLibraryBook(c fiber.Ctx) error {
	libraryID, bookID, err := membershipIDs(c)
	if err != nil {
		return err
	}

	if err = s.deps.Library.AddBook(c.Context(), libraryID, bookID); err != nil {
		return err //nolint:wrapcheck
	}

	return handler.JSON(c, fiber.StatusOK, "Book added to library", nil)
}

// RemoveLibraryBook takes a book out of a library.
func (s *Service) RemoveLibraryBook(c fiber.Ctx) error {
	libraryID, bookID, err := membershipIDs(c)
	if err != nil {
		return err
	}

	if err = s.deps.Library.RemoveBook(c.Context(), libraryID, bookID); err != nil {
		return err //nolint:wrapcheck
	}

	return handler.JSON(c, fiber.StatusOK, "Book removed from library", nil)
}

func membershipIDs(c fiber.Ctx) (uint, uint, error) {
	libraryID, err := handler.ParamID(c, "id")
	if err != nil {
		return 0, 0, err //nolint:wrapcheck
	}

	bookID, err := handler.ParamID(c, "bookID")
	if err != nil {
		return 0, 0, err //nolint:wrapcheck
	}

	return libraryID, bookID, nil
}
