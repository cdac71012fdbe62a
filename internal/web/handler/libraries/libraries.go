// Package libraries provides the html pages listing libraries and their books.
package libraries

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/gobookshelf/gobookshelf/internal/auth"
	"github.com/gobookshelf/gobookshelf/internal/validate"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
	"github.com/gobookshelf/gobookshelf/internal/web/navigation"
)

const (
	// Path is the root of the library pages.
	Path = handler.RootPath + "libraries"

	// ListTemplate renders all libraries.
	ListTemplate = "libraries/list"
	// DetailTemplate renders a library with its librarian and books.
	DetailTemplate = "libraries/detail"
)

// Service is the library pages handler service.
type Service struct {
	deps *handler.Deps
}

// Init initializes the library pages.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrDepsIncomplete
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps

	view := auth.RequirePermission(deps.Gate, auth.ActionView, auth.ResourceLibrary)

	app.Get(Path+"/", view, s.List)
	app.Get(Path+"/:id", view, s.Detail)

	return nil
}

// DetailPath returns the page of library id.
func DetailPath(id uint) string {
	return Path + "/" + strconv.FormatUint(uint64(id), 10)
}

// List renders all libraries.
func (s *Service) List(c fiber.Ctx) error {
	libs, err := s.deps.Library.ListLibraries(c.Context())
	if err != nil {
		return err //nolint:wrapcheck
	}

	nav := navigation.New("Libraries", navigation.SectionLibraries).Add("Libraries", Path+"/")

	return handler.Render(c, s.deps, ListTemplate, nav, fiber.Map{"Libraries": libs})
}

// Detail renders one library with its books.
func (s *Service) Detail(c fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err //nolint:wrapcheck
	}

	lib, err := s.deps.Library.GetLibrary(c.Context(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	name := validate.Plain(lib.Name)
	nav := navigation.New(name, navigation.SectionLibraries).
		Add("Libraries", Path+"/").
		Add(name, DetailPath(lib.ID))

	return handler.Render(c, s.deps, DetailTemplate, nav, fiber.Map{"Library": lib})
}
