package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gobookshelf/gobookshelf/internal/auth"
	"github.com/gobookshelf/gobookshelf/internal/config"
	"github.com/gobookshelf/gobookshelf/internal/db/models"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
)

// AdminGroup is the group the seeded admin joins.
const AdminGroup = "Admins"

// Seed creates the configured admin account unless it exists.
// An empty admin username disables seeding.
func Seed(ctx context.Context, cfg config.Seed, deps *handler.Deps) error {
	if cfg.AdminUsername == "" {
		return nil
	}

	_, err := deps.Users.GetUserByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return nil
	}

	if !errors.Is(err, auth.ErrUserNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	admin, err := deps.Registration.Register(ctx, auth.RegisterInput{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Staff:    true,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	if err = deps.Accounts.AssignRole(ctx, admin.ID, models.RoleAdmin); err != nil {
		return fmt.Errorf("failed to assign admin role: %w", err)
	}

	if err = deps.Accounts.AddUserToGroup(ctx, admin.ID, AdminGroup); err != nil {
		return fmt.Errorf("failed to add admin to group: %w", err)
	}

	log.Warn().Str("username", admin.Username).Msg("admin account created, change its password")

	return nil
}
