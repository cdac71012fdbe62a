// Package register lets visitors create a member account.
package register

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/gobookshelf/gobookshelf/internal/auth"
	"github.com/gobookshelf/gobookshelf/internal/validate"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
	"github.com/gobookshelf/gobookshelf/internal/web/navigation"
	"github.com/gobookshelf/gobookshelf/internal/web/session"
)

const (
	// Path is the path to the registration page.
	Path = handler.RootPath + "register"

	// TemplateName is the name of the registration template.
	TemplateName = "register"

	// SuccessPath is where a new member lands.
	SuccessPath = "/books/"
)

// Form is the registration form. Website is a honeypot hidden from humans.
type Form struct {
	Username        string `form:"username"         json:"username"         validate:"required"`
	Email           string `form:"email"            json:"email"            validate:"required,email"`
	FirstName       string `form:"first_name"       json:"first_name"`
	LastName        string `form:"last_name"        json:"last_name"`
	Password        string `form:"password"         json:"password"         validate:"required,min=8"`
	PasswordConfirm string `form:"password_confirm" json:"password_confirm" validate:"required,eqfield=Password"`
	Website         string `form:"website"          json:"website"`
}

// Service is the registration handler service.
type Service struct {
	deps *handler.Deps
}

// Init initializes the registration handler.
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

// Get renders the empty registration form.
func (s *Service) Get(c fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, Form{}, nil)
}

// Post creates the account, logs the new member in and redirects to the book list.
func (s *Service) Post(c fiber.Ctx) error {
	var form Form

	if err := c.Bind().Body(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form data")
	}

	if err := validate.CheckHoneypot(form.Website); err != nil {
		log.Warn().Str("ip", c.IP()).Msg("registration honeypot filled")
		return err //nolint:wrapcheck
	}

	if err := s.deps.Shape.Struct(form); err != nil {
		fe, ok := validate.Fields(err)
		if !ok {
			return err //nolint:wrapcheck
		}

		return s.render(c, fiber.StatusBadRequest, form, fe)
	}

	v := s.deps.Validator.NewForm()
	input := auth.RegisterInput{
		Username:  v.Text(validate.FieldUsername, form.Username),
		Email:     validate.Sanitize(form.Email),
		Password:  form.Password,
		FirstName: v.Text(validate.FieldFirstName, form.FirstName),
		LastName:  v.Text(validate.FieldLastName, form.LastName),
	}

	if err := v.Err(); err != nil {
		fe, _ := validate.Fields(err)
		return s.render(c, fiber.StatusBadRequest, form, fe)
	}

	user, err := s.deps.Registration.Register(c.Context(), input)
	if errors.Is(err, auth.ErrUserNameOrEmailExists) {
		return s.render(c, fiber.StatusBadRequest, form, validate.FieldErrors{
			validate.FieldUsername: "A user with that username or email already exists.",
		})
	}

	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint64("user_id", user.ID).Msg("user registered")

	if err = s.deps.Sessions.Create(c, session.Data{UserID: user.ID, Username: user.Username}); err != nil {
		return err //nolint:wrapcheck
	}

	return c.Redirect().Status(fiber.StatusFound).To(SuccessPath)
}

func (s *Service) render(c fiber.Ctx, status int, form Form, fe validate.FieldErrors) error {
	form.Password, form.PasswordConfirm = "", ""

	bind := fiber.Map{"Form": form, "Errors": fe}
	if len(fe) > 0 {
		bind["error"] = fe.Error()
	}

	c.Status(status)

	return handler.Render(c, s.deps, TemplateName, navigation.New("Register", navigation.SectionAccount), bind)
}
