package handler

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/gobookshelf/gobookshelf/internal/auth"
	"github.com/gobookshelf/gobookshelf/internal/library"
	"github.com/gobookshelf/gobookshelf/internal/ratelimit"
	"github.com/gobookshelf/gobookshelf/internal/validate"
	"github.com/gobookshelf/gobookshelf/internal/web/navigation"
)

// LoginPath is where anonymous html requests are sent.
const LoginPath = "/login"

const internalErrorMessage = "internal server error"

// Failure is the status and client message an error maps to.
type Failure struct {
	Status  int
	Message string
	Details map[string]string
}

// Classify maps err to the response a client gets. Unknown errors become 500
// without leaking their text.
func Classify(err error) Failure {
	var fiberErr *fiber.Error

	if fe, ok := validate.Fields(err); ok {
		return Failure{Status: fiber.StatusBadRequest, Message: "validation failed", Details: fe}
	}

	switch {
	case errors.Is(err, auth.ErrAuthenticationRequired):
		return Failure{Status: fiber.StatusUnauthorized, Message: err.Error()}
	case errors.Is(err, auth.ErrInvalidToken):
		return Failure{Status: fiber.StatusUnauthorized, Message: "Invalid token."}
	case errors.Is(err, auth.ErrPermissionDenied), errors.Is(err, auth.ErrNoProfile):
		return Failure{Status: fiber.StatusForbidden, Message: auth.ErrPermissionDenied.Error()}
	case errors.Is(err, library.ErrNotFound), errors.Is(err, auth.ErrUserNotFound):
		return Failure{Status: fiber.StatusNotFound, Message: "not found"}
	case errors.Is(err, library.ErrDuplicateBook):
		return Failure{Status: fiber.StatusConflict, Message: err.Error()}
	case errors.Is(err, ratelimit.ErrRateLimited):
		return Failure{Status: fiber.StatusTooManyRequests, Message: err.Error()}
	case errors.Is(err, validate.ErrHoneypot):
		return Failure{Status: fiber.StatusBadRequest, Message: err.Error()}
	case errors.As(err, &fiberErr):
		return Failure{Status: fiberErr.Code, Message: fiberErr.Message}
	}

	return Failure{Status: fiber.StatusInternalServerError, Message: internalErrorMessage}
}

// NewErrorHandler answers failed api requests with the error envelope and html
// requests with the error page or a redirect to the login page.
func NewErrorHandler(d *Deps) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		failure := Classify(err)

		if failure.Status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		}

		if IsAPI(c) {
			if failure.Status == fiber.StatusUnauthorized {
				c.Set(fiber.HeaderWWWAuthenticate, "Token")
			}

			return c.Status(failure.Status).JSON(ErrorEnvelope{Error: failure.Message, Details: failure.Details})
		}

		if failure.Status == fiber.StatusUnauthorized {
			return c.Redirect().Status(fiber.StatusFound).To(LoginPath + "?next=" + url.QueryEscape(c.OriginalURL()))
		}

		c.Status(failure.Status)

		return Render(c, d, ErrorTemplate, navigation.New("Error", ""), fiber.Map{
			"Status":  failure.Status,
			"error":   failure.Message,
			"Details": failure.Details,
		})
	}
}
