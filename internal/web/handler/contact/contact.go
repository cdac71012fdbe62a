// Package contact provides the public contact form.
package contact

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/gobookshelf/gobookshelf/internal/library"
	"github.com/gobookshelf/gobookshelf/internal/validate"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
	"github.com/gobookshelf/gobookshelf/internal/web/navigation"
)

const (
	// Path is the path to the contact page.
	Path = handler.RootPath + "contact/"

	// TemplateName is the name of the contact template.
	TemplateName = "contact"

	// SuccessMessage confirms a stored message.
	SuccessMessage = "Thank you for your message. We will get back to you soon."
)

// Service is the contact handler service.
type Service struct {
	deps *handler.Deps
}

// Init initializes the contact handler.
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

// Get renders the empty contact form.
func (s *Service) Get(c fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, fiber.Map{"Form": library.ContactForm{}})
}

// Post validates and stores a contact message.
func (s *Service) Post(c fiber.Ctx) error {
	var form library.ContactForm

	if err := c.Bind().Body(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form data")
	}

	if err := validate.CheckHoneypot(form.Website); err != nil {
		log.Warn().Str("ip", c.IP()).Msg("contact honeypot filled")
		return err //nolint:wrapcheck
	}

	err := s.deps.Shape.Struct(form)
	if err == nil {
		var input library.ContactInput

		input, err = library.CleanContact(s.deps.Validator, form)
		if err == nil {
			if _, err = s.deps.Library.SaveContactMessage(c.Context(), input); err != nil {
				return err //nolint:wrapcheck
			}

			return s.render(c, fiber.StatusOK, fiber.Map{
				"Form":    library.ContactForm{},
				"Success": SuccessMessage,
			})
		}
	}

	fe, ok := validate.Fields(err)
	if !ok {
		return err //nolint:wrapcheck
	}

	return s.render(c, fiber.StatusBadRequest, fiber.Map{
		"Form":   form,
		"Errors": fe,
		"error":  fe.Error(),
	})
}

func (s *Service) render(c fiber.Ctx, status int, bind fiber.Map) error {
	c.Status(status)

	return handler.Render(c, s.deps, TemplateName, navigation.New("Contact", navigation.SectionContact), bind)
}
