package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gobookshelf/gobookshelf/internal/auth"
	"github.com/gobookshelf/gobookshelf/internal/daemon"
	"github.com/gobookshelf/gobookshelf/internal/db"
	"github.com/gobookshelf/gobookshelf/internal/db/models"
	"github.com/gobookshelf/gobookshelf/internal/validate"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
)

var (
	newUser  auth.RegisterInput
	userRole string
	groups   []string

	setupGroupsCmd = &cobra.Command{
		Use:   "setup-groups",
		Short: "Create the default groups and their grants",
		Args:  cobra.NoArgs,
		RunE: withDeps(func(ctx context.Context, cmd *cobra.Command, _ []string, deps *handler.Deps) error {
			if err := deps.Accounts.SetupGroups(ctx); err != nil {
				return err //nolint:wrapcheck
			}

			for _, g := range auth.DefaultGroups() {
				cmd.Printf("group %s: %s\n", g.Name, g.Description)
			}

			return nil
		}),
	}

	createUserCmd = &cobra.Command{
		Use:   "create-user",
		Short: "Create an account with a role",
		Args:  cobra.NoArgs,
		RunE: withDeps(func(ctx context.Context, cmd *cobra.Command, _ []string, deps *handler.Deps) error {
			role, err := models.ParseRole(userRole)
			if err != nil {
				return err //nolint:wrapcheck
			}

			username, err := deps.Validator.Validate(validate.FieldUsername, newUser.Username)
			if err != nil {
				return err //nolint:wrapcheck
			}

			newUser.Username = username

			user, err := deps.Registration.Register(ctx, newUser)
			if err != nil {
				return err //nolint:wrapcheck
			}

			if err = deps.Accounts.AssignRole(ctx, user.ID, role); err != nil {
				return err //nolint:wrapcheck
			}

			for _, group := range groups {
				if err = deps.Accounts.AddUserToGroup(ctx, user.ID, group); err != nil {
					return err //nolint:wrapcheck
				}
			}

			cmd.Printf("user %s created with id %d and role %s\n", user.Username, user.ID, role)

			return nil
		}),
	}

	assignRoleCmd = &cobra.Command{
		Use:   "assign-role <username> <role>",
		Short: "Change the role of an account",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: withDeps(func(ctx context.Context, cmd *cobra.Command, args []string, deps *handler.Deps) error {
			role, err := models.ParseRole(args[1])
			if err != nil {
				return err //nolint:wrapcheck
			}

			user, err := deps.Users.GetUserByUsername(ctx, args[0])
			if err != nil {
				return err //nolint:wrapcheck
			}

			if err = deps.Accounts.AssignRole(ctx, user.ID, role); err != nil {
				return err //nolint:wrapcheck
			}

			cmd.Printf("user %s now has role %s\n", user.Username, role)

			return nil
		}),
	}
)

// withDeps opens the database and builds the services for an account command.
func withDeps(
	run func(ctx context.Context, cmd *cobra.Command, args []string, deps *handler.Deps) error,
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		gdb, err := db.Open(&cfg)
		if err != nil {
			return err //nolint:wrapcheck
		}

		deps, err := daemon.NewDeps(&cfg, gdb)
		if err != nil {
			return fmt.Errorf("failed to build services: %w", err)
		}

		return run(cmd.Context(), cmd, args, deps)
	}
}

func init() { //nolint: gochecknoinits
	createUserCmd.Flags().StringVarP(&newUser.Username, "username", "u", "", "login name")
	createUserCmd.Flags().StringVarP(&newUser.Email, "email", "e", "", "email address")
	createUserCmd.Flags().StringVarP(&newUser.Password, "password", "p", "", "password")
	createUserCmd.Flags().StringVar(&newUser.FirstName, "first-name", "", "first name")
	createUserCmd.Flags().StringVar(&newUser.LastName, "last-name", "", "last name")
	createUserCmd.Flags().BoolVar(&newUser.Staff, "staff", false, "mark the account as staff")
	createUserCmd.Flags().StringVarP(&userRole, "role", "r", string(models.RoleMember), "Admin, Librarian or Member")
	createUserCmd.Flags().StringSliceVarP(&groups, "group", "g", nil, "group to join, repeatable")

	_ = createUserCmd.MarkFlagRequired("username")
	_ = createUserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(setupGroupsCmd, createUserCmd, assignRoleCmd)
}
