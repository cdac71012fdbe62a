// Package books provides the html pages to browse, search and maintain books.
package books

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/gobookshelf/gobookshelf/internal/auth"
	"github.com/gobookshelf/gobookshelf/internal/ratelimit"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
)

const (
	// Path is the root of the book pages.
	Path = handler.RootPath + "books"

	// ListTemplate renders the filtered book list.
	ListTemplate = "books/list"
	// DetailTemplate renders a book with its comments.
	DetailTemplate = "books/detail"
	// FormTemplate renders the create and edit form.
	FormTemplate = "books/form"
	// DeleteTemplate renders the delete confirmation.
	DeleteTemplate = "books/delete"
	// SearchTemplate renders the search results.
	SearchTemplate = "books/search"
)

// Service is the book pages handler service.
type Service struct {
	deps *handler.Deps
}

// Init initializes the book pages. Static paths are registered before the id routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrDepsIncomplete
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps

	var (
		view   = auth.RequirePermission(deps.Gate, auth.ActionView, auth.ResourceBook)
		create = auth.RequirePermission(deps.Gate, auth.ActionCreate, auth.ResourceBook)
		edit   = auth.RequirePermission(deps.Gate, auth.ActionEdit, auth.ResourceBook)
		del    = auth.RequirePermission(deps.Gate, auth.ActionDelete, auth.ResourceBook)
		limit  = ratelimit.Middleware(deps.Limiter, handler.ClientKey(deps.Sessions.CookieName()))
	)

	app.Get(Path+"/", view, s.List)
	app.Get(Path+"/create/", create, s.New)
	app.Post(Path+"/create/", create, s.Create)
	app.Get(Path+"/search/", view, limit, s.Search)
	app.Get(Path+"/:id", view, s.Detail)
	app.Get(Path+"/:id/edit", edit, s.Edit)
	app.Post(Path+"/:id/edit", edit, s.Update)
	app.Get(Path+"/:id/delete", del, s.ConfirmDelete)
	app.Post(Path+"/:id/delete", del, s.Delete)
	app.Post(Path+"/:id/comments", view, s.Comment)

	return nil
}

// DetailPath returns the page of book id.
func DetailPath(id uint) string {
	return Path + "/" + strconv.FormatUint(uint64(id), 10)
}

// permissions tells the templates which actions to offer.
func (s *Service) permissions(c fiber.Ctx) fiber.Map {
	return fiber.Map{
		"CanCreate": auth.Can(c, s.deps.Gate, auth.ActionCreate, auth.ResourceBook),
		"CanEdit":   auth.Can(c, s.deps.Gate, auth.ActionEdit, auth.ResourceBook),
		"CanDelete": auth.Can(c, s.deps.Gate, auth.ActionDelete, auth.ResourceBook),
	}
}
