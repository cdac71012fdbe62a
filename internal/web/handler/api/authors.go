package api

import (
	"github.com/gofiber/fiber/v3"

	"github.com/gobookshelf/gobookshelf/internal/library"
	"github.com/gobookshelf/gobookshelf/internal/validate"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
)

type authorForm struct {
	Name string `json:"name" form:"name" validate:"required"`
}

// ListAuthors returns all authors, optionally filtered by ?name=.
func (s *Service) ListAuthors(c fiber.Ctx) error {
	authors, err := s.deps.Library.ListAuthors(c.Context(), validate.Sanitize(c.Query("name")))
	if err != nil {
		return err //nolint:wrapcheck
	}

	out := make([]authorJSON, 0, len(authors))
	for i := range authors {
		out = append(out, presentAuthor(&authors[i]))
	}

	return handler.JSON(c, fiber.StatusOK, "Authors retrieved successfully", fiber.Map{
		"count":   len(out),
		"results": out,
	})
}

// CreateAuthor stores a new author.
func (s *Service) CreateAuthor(c fiber.Ctx) error {
	var form authorForm
	if err := s.bind(c, &form); err != nil {
		return err
	}

	name, err := library.CleanAuthor(s.deps.Validator, form.Name)
	if err != nil {
		return err //nolint:wrapcheck
	}

	author, err := s.deps.Library.CreateAuthor(c.Context(), name)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.JSON(c, fiber.StatusCreated, "Author created successfully",
		presentAuthor(&library.AuthorSummary{Author: *author}))
}

// GetAuthor returns an author with their books.
func (s *Service) GetAuthor(c fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err //nolint:wrapcheck
	}

	author, err := s.deps.Library.GetAuthor(c.Context(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.JSON(c, fiber.StatusOK, "Author retrieved successfully", presentAuthor(author))
}
