// Package db opens the gorm connection selected by the configuration and migrates the schema.
package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gobookshelf/gobookshelf/internal/config"
	"github.com/gobookshelf/gobookshelf/internal/db/dsn"
	"github.com/gobookshelf/gobookshelf/internal/db/models"
)

// ErrConfigNil is returned if Open is called without configuration.
var ErrConfigNil = errors.New("db: config is nil")

// Dialector returns the gorm driver for the configured engine.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return mysql.Open(dsn.Create(cfg)), nil
	case config.EnginePostgres:
		return postgres.Open(dsn.CreatePostgres(cfg)), nil
	case config.EngineSQLite, "":
		if dir := filepath.Dir(cfg.DB.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:mnd
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}

		return sqlite.Open(dsn.CreateSQLite(cfg)), nil
	}

	return nil, fmt.Errorf("%w: %q", config.ErrUnsupportedGormEngine, cfg.DB.GormEngine)
}

// Open connects to the database and migrates the schema.
func Open(cfg *config.Config) (*gorm.DB, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{TranslateError: true}
	if !cfg.DevMode {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	gdb, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err = Migrate(gdb); err != nil {
		return nil, err
	}

	return gdb, nil
}

// Migrate creates or updates all tables.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Grant{},
		&models.Group{},
		&models.UserGroup{},
		&models.Author{},
		&models.Book{},
		&models.Library{},
		&models.Librarian{},
		&models.Comment{},
		&models.ContactMessage{},
		&models.APIToken{},
		&models.Session{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return backfillSearchKeys(gdb)
}

// backfillSearchKeys fills the search keys of rows written before the columns existed.
func backfillSearchKeys(gdb *gorm.DB) error {
	var authors []models.Author
	if err := gdb.Where("search_key = ?", "").Find(&authors).Error; err != nil {
		return fmt.Errorf("failed to load authors: %w", err)
	}

	for _, a := range authors {
		err := gdb.Model(&models.Author{}).Where("id = ?", a.ID).
			UpdateColumn("search_key", models.FoldSearch(a.Name)).Error
		if err != nil {
			return fmt.Errorf("failed to backfill author search key: %w", err)
		}
	}

	var books []models.Book
	if err := gdb.Where("search_key = ?", "").Find(&books).Error; err != nil {
		return fmt.Errorf("failed to load books: %w", err)
	}

	for _, b := range books {
		err := gdb.Model(&models.Book{}).Where("id = ?", b.ID).
			UpdateColumn("search_key", models.FoldSearch(b.Title)).Error
		if err != nil {
			return fmt.Errorf("failed to backfill book search key: %w", err)
		}
	}

	return nil
}
