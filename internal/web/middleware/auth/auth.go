package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	coreauth "github.com/gobookshelf/gobookshelf/internal/auth"
	"github.com/gobookshelf/gobookshelf/internal/web/session"
)

// tokenScheme is the Authorization scheme of API tokens.
const tokenScheme = "Token"

// Config holds the dependencies of the middleware.
type Config struct {
	// Sessions resolves the session cookie.
	Sessions *session.Manager
	// Tokens resolves the Authorization header.
	Tokens *coreauth.TokenService
	// Users reloads the user of a session.
	Users *coreauth.LocalProvider
	// Skip disables the middleware for matching requests, e.g. static files.
	Skip func(c fiber.Ctx) bool
}

// New creates the authentication middleware.
func New(cfg Config) fiber.Handler {
	return func(c fiber.Ctx) error {
		if cfg.Skip != nil && cfg.Skip(c) {
			return c.Next()
		}

		if header := c.Get(fiber.HeaderAuthorization); header != "" {
			key, ok := parseToken(header)
			if !ok {
				return coreauth.ErrInvalidToken
			}

			user, err := cfg.Tokens.Lookup(c.Context(), key)
			if err != nil {
				return err //nolint:wrapcheck
			}

			coreauth.SetPrincipal(c, coreauth.NewPrincipal(user))

			return c.Next()
		}

		data, err := cfg.Sessions.Read(c)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				log.Error().Err(err).Msg("failed to read session")
			}

			return c.Next()
		}

		user, err := cfg.Users.GetUserByID(c.Context(), data.UserID)
		if err != nil || !user.Active {
			// a deleted or disabled user ends the session
			if errDestroy := cfg.Sessions.Destroy(c); errDestroy != nil {
				log.Error().Err(errDestroy).Msg("failed to destroy session")
			}

			return c.Next()
		}

		coreauth.SetPrincipal(c, coreauth.NewPrincipal(user))

		return c.Next()
	}
}

// parseToken extracts the key of "Token <key>".
func parseToken(header string) (string, bool) {
	scheme, key, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, tokenScheme) {
		return "", false
	}

	key = strings.TrimSpace(key)

	return key, key != ""
}
