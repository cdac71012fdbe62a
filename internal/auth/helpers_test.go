package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gobookshelf/gobookshelf/internal/db/models"
)

// newUser registers an active user with a profile of role.
func newUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	user, err := NewRegistration(db, CreateProfileHook(role)).Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret-" + username,
	})
	require.NoError(t, err)

	return user
}

// newUserWithoutProfile creates a user bypassing the registration hooks.
func newUserWithoutProfile(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user, err := NewRegistration(db).Register(context.Background(), RegisterInput{
		Username: username,
		Password: "secret",
	})
	require.NoError(t, err)

	return user
}
