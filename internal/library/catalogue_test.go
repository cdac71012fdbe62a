package library

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobookshelf/gobookshelf/internal/db/models"
)

func TestAuthors(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	empty, err := svc.CreateAuthor(ctx, "Nobody Yet")
	require.NoError(t, err)

	mustCreateBook(t, svc, "Django Basics", "Jane Doe", 2020)
	mustCreateBook(t, svc, "Advanced Django", "Jane Doe", 2022)

	jane, err := svc.GetOrCreateAuthor(ctx, "Jane Doe")
	require.NoError(t, err)

	summary, err := svc.GetAuthor(ctx, jane.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.BookCount)
	require.NotNil(t, summary.LatestPublicationYear)
	assert.Equal(t, 2022, *summary.LatestPublicationYear)
	assert.Equal(t, "Advanced Django", summary.Books[0].Title)

	authors, err := svc.ListAuthors(ctx, "")
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "Jane Doe", authors[0].Name)
	assert.EqualValues(t, 2, authors[0].BookCount)
	assert.Equal(t, empty.ID, authors[1].ID)
	assert.Nil(t, authors[1].LatestPublicationYear)

	authors, err = svc.ListAuthors(ctx, "DOE")
	require.NoError(t, err)
	assert.Len(t, authors, 1)

	_, err = svc.GetAuthor(ctx, 999)
	assert.ErrorIs(t, err, ErrAuthorNotFound)
}

func TestLibraries(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	book := mustCreateBook(t, svc, "Django Basics", "Jane Doe", 2020)

	lib, err := svc.CreateLibrary(ctx, "Central")
	require.NoError(t, err)

	require.NoError(t, svc.AddBook(ctx, lib.ID, book.ID))
	require.NoError(t, svc.AddBook(ctx, lib.ID, book.ID), "adding twice is a no-op")

	_, err = svc.AssignLibrarian(ctx, lib.ID, "Ann")
	require.NoError(t, err)
	_, err = svc.AssignLibrarian(ctx, lib.ID, "Ben")
	require.NoError(t, err)

	got, err := svc.GetLibrary(ctx, lib.ID)
	require.NoError(t, err)
	require.Len(t, got.Books, 1)
	assert.Equal(t, "Jane Doe", got.Books[0].Author.Name)
	require.NotNil(t, got.Librarian)
	assert.Equal(t, "Ben", got.Librarian.Name)

	var librarians int64
	require.NoError(t, svc.db.Model(&models.Librarian{}).Count(&librarians).Error)
	assert.EqualValues(t, 1, librarians)

	require.NoError(t, svc.RemoveBook(ctx, lib.ID, book.ID))

	got, err = svc.GetLibrary(ctx, lib.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Books)

	libs, err := svc.ListLibraries(ctx)
	require.NoError(t, err)
	assert.Len(t, libs, 1)

	assert.ErrorIs(t, svc.AddBook(ctx, 999, book.ID), ErrLibraryNotFound)
	assert.ErrorIs(t, svc.AddBook(ctx, lib.ID, 999), ErrBookNotFound)

	_, err = svc.AssignLibrarian(ctx, 999, "Nobody")
	assert.ErrorIs(t, err, ErrLibraryNotFound)
}

func TestComments(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	book := mustCreateBook(t, svc, "Django Basics", "Jane Doe", 2020)

	user := models.User{Username: "reader", Active: true}
	require.NoError(t, svc.db.Create(&user).Error)

	_, err := svc.AddComment(ctx, book.ID, user.ID, "First")
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, book.ID, user.ID, "Second")
	require.NoError(t, err)

	comments, err := svc.ListComments(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "reader", comments[0].User.Username)

	_, err = svc.AddComment(ctx, 999, user.ID, "Lost")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestSaveContactMessage(t *testing.T) {
	svc := newService(t)

	msg, err := svc.SaveContactMessage(context.Background(), ContactInput{
		Name:    "Jane",
		Email:   "jane@example.com",
		Subject: "Hello",
		Message: "I love this library.",
	})
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)
}
