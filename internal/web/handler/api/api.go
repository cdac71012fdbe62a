// Package api provides the json REST interface. Requests authenticate with
// "Authorization: Token <key>" or the browser session.
package api

import (
	"github.com/gofiber/fiber/v3"

	"github.com/gobookshelf/gobookshelf/internal/auth"
	"github.com/gobookshelf/gobookshelf/internal/ratelimit"
	"github.com/gobookshelf/gobookshelf/internal/validate"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
)

const (
	// TokenPath exchanges credentials for an api token.
	TokenPath = handler.APIPrefix + "-token-auth/"

	// BooksPath is the book collection.
	BooksPath = handler.APIPrefix + "/books"
	// AuthorsPath is the author collection.
	AuthorsPath = handler.APIPrefix + "/authors"
	// LibrariesPath is the library collection.
	LibrariesPath = handler.APIPrefix + "/libraries"
	// UsersPath is the user collection.
	UsersPath = handler.APIPrefix + "/users"
)

// Service is the REST handler service.
type Service struct {
	deps *handler.Deps
}

// Init registers every api route. Permission middleware runs before any lookup.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrDepsIncomplete
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps

	perm := func(action auth.Action, rt auth.ResourceType) fiber.Handler {
		return auth.RequirePermission(deps.Gate, action, rt)
	}
	limit := ratelimit.Middleware(deps.Limiter, handler.ClientKey(deps.Sessions.CookieName()))

	app.Post(TokenPath, s.ObtainToken)

	app.Get(BooksPath+"/", perm(auth.ActionView, auth.ResourceBook), s.ListBooks)
	app.Post(BooksPath+"/", perm(auth.ActionCreate, auth.ResourceBook), s.CreateBook)
	app.Get(BooksPath+"/search/", perm(auth.ActionView, auth.ResourceBook), limit, s.SearchBooks)
	app.Get(BooksPath+"/:id", perm(auth.ActionView, auth.ResourceBook), s.GetBook)
	app.Put(BooksPath+"/:id", perm(auth.ActionEdit, auth.ResourceBook), s.ReplaceBook)
	app.Patch(BooksPath+"/:id", perm(auth.ActionEdit, auth.ResourceBook), s.PatchBook)
	app.Delete(BooksPath+"/:id", perm(auth.ActionDelete, auth.ResourceBook), s.DeleteBook)

	app.Get(AuthorsPath+"/", perm(auth.ActionView, auth.ResourceAuthor), s.ListAuthors)
	app.Post(AuthorsPath+"/", perm(auth.ActionCreate, auth.ResourceAuthor), s.CreateAuthor)
	app.Get(AuthorsPath+"/:id", perm(auth.ActionView, auth.ResourceAuthor), s.GetAuthor)

	app.Get(LibrariesPath+"/", perm(auth.ActionView, auth.ResourceLibrary), s.ListLibraries)
	app.Post(LibrariesPath+"/", perm(auth.ActionCreate, auth.ResourceLibrary), s.CreateLibrary)
	app.Get(LibrariesPath+"/:id", perm(auth.ActionView, auth.ResourceLibrary), s.GetLibrary)
	app.Put(LibrariesPath+"/:id/librarian", perm(auth.ActionEdit, auth.ResourceLibrary), s.AssignLibrarian)
	app.Post(LibrariesPath+"/:id/books/:bookID", perm(auth.ActionEdit, auth.ResourceLibrary), s.AddLibraryBook)
	app.Delete(LibrariesPath+"/:id/books/:bookID", perm(auth.ActionEdit, auth.ResourceLibrary), s.RemoveLibraryBook)

	app.Get(UsersPath+"/me", auth.RequireAuthenticated(), s.Me)
	app.Put(UsersPath+"/:id/role", auth.RequireAuthenticated(), s.AssignRole)

	return nil
}

// bind decodes the json body into dto and checks its struct tags.
func (s *Service) bind(c fiber.Ctx, dto any) error {
	if err := c.Bind().Body(dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	if err := s.deps.Shape.Struct(dto); err != nil {
		if _, ok := validate.Fields(err); ok {
			return err //nolint:wrapcheck
		}

		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	return nil
}
