package auth

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobookshelf/gobookshelf/internal/db/models"
	"github.com/gobookshelf/gobookshelf/internal/db/testdb"
)

func TestGenerateKey(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{40}$`), key)

	other, err := GenerateKey()
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}

func TestTokenService(t *testing.T) {
	db := testdb.New(t)
	tokens := NewTokenService(db)
	ctx := context.Background()

	user := newUser(t, db, "api", models.RoleMember)

	first, err := tokens.Obtain(ctx, user.ID)
	require.NoError(t, err)

	second, err := tokens.Obtain(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Key, second.Key)

	owner, err := tokens.Lookup(ctx, first.Key)
	require.NoError(t, err)
	assert.Equal(t, user.ID, owner.ID)

	_, err = tokens.Lookup(ctx, "unknown")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Lookup(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, NewLocalProvider(db).SetActive(ctx, user.ID, false))

	_, err = tokens.Lookup(ctx, first.Key)
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, tokens.Revoke(ctx, user.ID))

	third, err := tokens.Obtain(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.Key, third.Key)
}
