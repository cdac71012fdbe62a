// Package dashboard provides the role dashboards. Each dashboard is open to a single role.
package dashboard

import (
	"github.com/gofiber/fiber/v3"

	"github.com/gobookshelf/gobookshelf/internal/auth"
	"github.com/gobookshelf/gobookshelf/internal/db/models"
	"github.com/gobookshelf/gobookshelf/internal/library"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
	"github.com/gobookshelf/gobookshelf/internal/web/navigation"
)

const (
	// Path redirects to the dashboard of the role of the user.
	Path = handler.RootPath + "dashboard/"
	// AdminPath is the admin dashboard.
	AdminPath = handler.RootPath + "admin-dashboard/"
	// LibrarianPath is the librarian dashboard.
	LibrarianPath = handler.RootPath + "librarian-dashboard/"
	// MemberPath is the member dashboard.
	MemberPath = handler.RootPath + "member-dashboard/"

	// templates, one per dashboard
	AdminTemplate     = "dashboard/admin"
	LibrarianTemplate = "dashboard/librarian"
	MemberTemplate    = "dashboard/member"
)

// pathOf maps each role to its dashboard.
var pathOf = map[models.Role]string{ //nolint:gochecknoglobals
	models.RoleAdmin:     AdminPath,
	models.RoleLibrarian: LibrarianPath,
	models.RoleMember:    MemberPath,
}

// Service is the dashboard handler service.
type Service struct {
	deps *handler.Deps
}

// Init initializes the dashboards.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrDepsIncomplete
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps

	app.Get(Path, s.Redirect)
	app.Get(AdminPath, s.Admin)
	app.Get(LibrarianPath, s.Librarian)
	app.Get(MemberPath, s.Member)

	return nil
}

// Redirect sends the user to the dashboard of their role.
func (s *Service) Redirect(c fiber.Ctx) error {
	role, err := s.deps.Gate.RequireRole(c.Context(), auth.PrincipalFrom(c), models.Roles()...)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.Redirect().Status(fiber.StatusFound).To(pathOf[role])
}

// Admin renders catalogue totals.
func (s *Service) Admin(c fiber.Ctx) error {
	if _, err := s.deps.Gate.RequireRole(c.Context(), auth.PrincipalFrom(c), models.RoleAdmin); err != nil {
		return err //nolint:wrapcheck
	}

	books, err := s.deps.Library.ListBooks(c.Context(), library.BookFilter{PageSize: 1})
	if err != nil {
		return err //nolint:wrapcheck
	}

	authors, err := s.deps.Library.ListAuthors(c.Context(), "")
	if err != nil {
		return err //nolint:wrapcheck
	}

	libs, err := s.deps.Library.ListLibraries(c.Context())
	if err != nil {
		return err //nolint:wrapcheck
	}

	return s.render(c, AdminTemplate, "Admin dashboard", AdminPath, fiber.Map{
		"BookCount":    books.Count,
		"AuthorCount":  len(authors),
		"LibraryCount": len(libs),
	})
}

// Librarian renders the libraries and who runs them.
func (s *Service) Librarian(c fiber.Ctx) error {
	if _, err := s.deps.Gate.RequireRole(c.Context(), auth.PrincipalFrom(c), models.RoleLibrarian); err != nil {
		return err //nolint:wrapcheck
	}

	libs, err := s.deps.Library.ListLibraries(c.Context())
	if err != nil {
		return err //nolint:wrapcheck
	}

	return s.render(c, LibrarianTemplate, "Librarian dashboard", LibrarianPath, fiber.Map{"Libraries": libs})
}

// Member renders the groups of the member.
func (s *Service) Member(c fiber.Ctx) error {
	p := auth.PrincipalFrom(c)

	if _, err := s.deps.Gate.RequireRole(c.Context(), p, models.RoleMember); err != nil {
		return err //nolint:wrapcheck
	}

	groups, err := s.deps.Accounts.GetUserGroups(c.Context(), p.UserID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return s.render(c, MemberTemplate, "Member dashboard", MemberPath, fiber.Map{"Groups": groups})
}

func (s *Service) render(c fiber.Ctx, template, title, path string, bind fiber.Map) error {
	nav := navigation.New(title, navigation.SectionDashboard).Add(title, path)

	return handler.Render(c, s.deps, template, nav, bind)
}
