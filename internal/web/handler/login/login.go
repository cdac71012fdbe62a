package login

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/gobookshelf/gobookshelf/internal/auth"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
	"github.com/gobookshelf/gobookshelf/internal/web/navigation"
	"github.com/gobookshelf/gobookshelf/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = handler.LoginPath

	// TemplateName is the name of the login template.
	TemplateName = "login"

	// HomePath is where a successful login leads without a next parameter.
	HomePath = "/books/"
)

// Form is the login form.
type Form struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Next     string `form:"next"     json:"next"`
}

// Service is the login handler service.
type Service struct {
	deps *handler.Deps
}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrDepsIncomplete
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps

	app.Get(Path, s.Get)
	app.Post(Path, s.Post)

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c fiber.Ctx) error {
	if auth.PrincipalFrom(c).IsAuthenticated() {
		return c.Redirect().Status(fiber.StatusFound).To(HomePath)
	}

	return s.render(c, fiber.StatusOK, Form{Next: c.Query("next")}, nil)
}

// Post handles the login form submission.
func (s *Service) Post(c fiber.Ctx) error {
	var form Form

	if err := c.Bind().Body(&form); err != nil {
		return s.render(c, fiber.StatusBadRequest, form, ErrInvalidFormData)
	}

	user, err := s.deps.Users.Authenticate(c.Context(), form.Username, form.Password)

	switch {
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return s.render(c, fiber.StatusOK, form, ErrAccountDisabled)
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
		return s.render(c, fiber.StatusOK, form, ErrInvalidCredentials)
	case err != nil:
		log.Error().Err(err).Msg("failed to authenticate user")
		return s.render(c, fiber.StatusInternalServerError, form, ErrInternalServerError)
	}

	if err = s.deps.Sessions.Create(c, session.Data{UserID: user.ID, Username: user.Username}); err != nil {
		log.Error().Err(err).Msg("failed to create session")
		return s.render(c, fiber.StatusInternalServerError, form, ErrInternalServerError)
	}

	log.Info().Uint64("user_id", user.ID).Msg("user logged in")

	return c.Redirect().Status(fiber.StatusFound).To(handler.SafeRedirect(form.Next, HomePath))
}

func (s *Service) render(c fiber.Ctx, status int, form Form, formErr error) error {
	bind := fiber.Map{"Form": Form{Username: form.Username, Next: form.Next}}
	if formErr != nil {
		bind["error"] = formErr.Error()
	}

	c.Status(status)

	return handler.Render(c, s.deps, TemplateName, navigation.New("Log in", navigation.SectionAccount), bind)
}
