package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/gobookshelf/gobookshelf/internal/auth"
	"github.com/gobookshelf/gobookshelf/internal/db/models"
	"github.com/gobookshelf/gobookshelf/internal/validate"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
)

type roleForm struct {
	Role string `json:"role" form:"role" validate:"required"`
}

// Me returns the current user with role, groups and grants.
func (s *Service) Me(c fiber.Ctx) error {
	p := auth.PrincipalFrom(c)

	user, err := s.deps.Users.GetUserByID(c.Context(), p.UserID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	out := userJSON{ID: user.ID, Username: user.Username, Email: user.Email, Groups: []string{}}

	role, err := s.deps.Gate.Roles().Resolve(c.Context(), p)

	switch {
	case err == nil:
		out.Role = string(role)
	case !errors.Is(err, auth.ErrNoProfile):
		return err //nolint:wrapcheck
	}

	groups, err := s.deps.Accounts.GetUserGroups(c.Context(), p.UserID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	for _, g := range groups {
		out.Groups = append(out.Groups, g.Name)
	}

	if out.Grants, err = s.deps.Accounts.GetUserGrants(c.Context(), p.UserID); err != nil {
		return err //nolint:wrapcheck
	}

	return handler.JSON(c, fiber.StatusOK, "User retrieved successfully", out)
}

// AssignRole changes the role of a user. Only admins may assign roles.
func (s *Service) AssignRole(c fiber.Ctx) error {
	p := auth.PrincipalFrom(c)

	if _, err := s.deps.Gate.RequireRole(c.Context(), p, models.RoleAdmin); err != nil {
		return err //nolint:wrapcheck
	}

	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err //nolint:wrapcheck
	}

	var form roleForm
	if err = s.bind(c, &form); err != nil {
		return err
	}

	role, err := models.ParseRole(form.Role)
	if err != nil {
		return &validate.ValidationError{Field: "role", Message: err.Error()}
	}

	if err = s.deps.Accounts.AssignRole(c.Context(), uint64(id), role); err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint64("user_id", uint64(id)).Str("role", string(role)).Uint64("by", p.UserID).Msg("role assigned")

	return handler.JSON(c, fiber.StatusOK, "Role updated successfully", fiber.Map{"id": id, "role": role})
}
