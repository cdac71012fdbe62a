package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobookshelf/gobookshelf/internal/config"
	"github.com/gobookshelf/gobookshelf/internal/db/models"
)

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{DB: config.DB{
		GormEngine: config.EngineSQLite,
		Path:       filepath.Join(t.TempDir(), "data", "shelf.db"),
	}}

	gdb, err := Open(cfg)
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)

	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, table := range []any{&models.User{}, &models.Profile{}, &models.Book{}, &models.APIToken{}, &models.Session{}} {
		assert.True(t, gdb.Migrator().HasTable(table))
	}

	assert.True(t, gdb.Migrator().HasTable("library_books"))
	assert.True(t, gdb.Migrator().HasTable("group_grants"))
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(nil)
	assert.ErrorIs(t, err, ErrConfigNil)

	_, err = Open(&config.Config{DB: config.DB{GormEngine: "oracle"}})
	assert.ErrorIs(t, err, config.ErrUnsupportedGormEngine)
}

func TestMigrateBackfillsSearchKeys(t *testing.T) {
	cfg := &config.Config{DB: config.DB{
		GormEngine: config.EngineSQLite,
		Path:       filepath.Join(t.TempDir(), "shelf.db"),
	}}

	gdb, err := Open(cfg)
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)

	t.Cleanup(func() { _ = sqlDB.Close() })

	author := models.Author{Name: "Émile Zola"}
	require.NoError(t, gdb.Create(&author).Error)
	book := models.Book{Title: "O&#39;Reilly Guide", AuthorID: author.ID, PublicationYear: 1901}
	require.NoError(t, gdb.Omit("Author").Create(&book).Error)
	assert.Equal(t, "o'reilly guide", book.SearchKey)

	require.NoError(t, gdb.Exec("UPDATE authors SET search_key = ''").Error)
	require.NoError(t, gdb.Exec("UPDATE books SET search_key = ''").Error)
	require.NoError(t, Migrate(gdb))

	var gotAuthor models.Author
	require.NoError(t, gdb.First(&gotAuthor, author.ID).Error)
	assert.Equal(t, "émile zola", gotAuthor.SearchKey)

	var gotBook models.Book
	require.NoError(t, gdb.First(&gotBook, book.ID).Error)
	assert.Equal(t, "o'reilly guide", gotBook.SearchKey)
}
