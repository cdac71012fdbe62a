package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/csrf"

	"github.com/gobookshelf/gobookshelf/internal/auth"
	"github.com/gobookshelf/gobookshelf/internal/web/navigation"
)

// Render renders template inside the base layout. bind is extended with the
// site title, the principal, the navigation context and the csrf token.
func Render(c fiber.Ctx, d *Deps, template string, nav *navigation.Context, bind fiber.Map) error {
	if bind == nil {
		bind = fiber.Map{}
	}

	bind["SiteTitle"] = d.Cfg.Title
	bind["User"] = auth.PrincipalFrom(c)
	bind["Navigation"] = nav
	bind["CSRFToken"] = csrf.TokenFromContext(c)

	return c.Render(template, bind, BaseLayout)
}
