package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/extractors"
	"github.com/gofiber/fiber/v3/middleware/csrf"
)

const (
	// CSRFField is the form field carrying the csrf token.
	CSRFField = "csrf_token"
	// CSRFCookie is the cookie the csrf token is checked against.
	CSRFCookie = "csrftoken"
)

// CSRF protects the html forms. Unsafe requests need a CSRFField matching the
// CSRFCookie; failures answer 403. The json api authenticates with tokens and is
// skipped, as are requests below skipPrefixes.
func CSRF(d *Deps, skipPrefixes ...string) fiber.Handler {
	return csrf.New(csrf.Config{
		CookieName:        CSRFCookie,
		CookieSameSite:    fiber.CookieSameSiteLaxMode,
		CookieHTTPOnly:    true,
		CookieSecure:      !d.Cfg.DevMode,
		CookieSessionOnly: true,
		Extractor:         extractors.FromForm(CSRFField),
		Next: func(c fiber.Ctx) bool {
			if IsAPI(c) {
				return true
			}

			for _, prefix := range skipPrefixes {
				if strings.HasPrefix(c.Path(), prefix) {
					return true
				}
			}

			return false
		},
	})
}
