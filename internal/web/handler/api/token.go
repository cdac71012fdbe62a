package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/gobookshelf/gobookshelf/internal/auth"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
)

// errBadCredentials is answered for every failed token request.
var errBadCredentials = fiber.NewError(fiber.StatusBadRequest, "Unable to log in with provided credentials.")

type credentials struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// ObtainToken returns the api token of the user, creating it on first use.
func (s *Service) ObtainToken(c fiber.Ctx) error {
	var in credentials
	if err := s.bind(c, &in); err != nil {
		return err
	}

	user, err := s.deps.Users.Authenticate(c.Context(), in.Username, in.Password)
	if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, auth.ErrInvalidPassword) ||
		errors.Is(err, auth.ErrUserAccountDisabled) {
		return errBadCredentials
	}

	if err != nil {
		return err //nolint:wrapcheck
	}

	token, err := s.deps.Tokens.Obtain(c.Context(), user.ID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.JSON(c, fiber.StatusOK, "Token obtained successfully", fiber.Map{"token": token.Key})
}
