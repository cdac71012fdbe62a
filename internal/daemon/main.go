// Package daemon wires database, services and the web server together.
package daemon

import (
	"context"
	"fmt"

	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gobookshelf/gobookshelf/internal/auth"
	"github.com/gobookshelf/gobookshelf/internal/config"
	"github.com/gobookshelf/gobookshelf/internal/db"
	"github.com/gobookshelf/gobookshelf/internal/db/dsn"
	"github.com/gobookshelf/gobookshelf/internal/db/models"
	"github.com/gobookshelf/gobookshelf/internal/library"
	"github.com/gobookshelf/gobookshelf/internal/ratelimit"
	"github.com/gobookshelf/gobookshelf/internal/validate"
	"github.com/gobookshelf/gobookshelf/internal/web"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
	"github.com/gobookshelf/gobookshelf/internal/web/session"
)

// sessionTable holds the sessions of the mysql and postgres storages.
const sessionTable = "sessions"

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start serves http until SIGINT or SIGTERM.
func (d *Daemon) Start() error {
	done := make(chan error, 1)

	go func() {
		done <- d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
	}()

	go d.webService.WaitShutdown()

	return <-done
}

// New creates a Daemon: it opens and migrates the database, creates the default
// groups, seeds the admin account and builds the web service.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, db.ErrConfigNil
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	deps, err := NewDeps(cfg, gdb)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	if err = deps.Accounts.SetupGroups(ctx); err != nil {
		return nil, fmt.Errorf("failed to set up groups: %w", err)
	}

	if err = Seed(ctx, cfg.Seed, deps); err != nil {
		return nil, err
	}

	webService, err := web.New(cfg, deps)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &Daemon{cfg: cfg, webService: webService}, nil
}

// NewDeps builds the handler dependencies on gdb.
func NewDeps(cfg *config.Config, gdb *gorm.DB) (*handler.Deps, error) {
	lib, err := library.NewService(gdb)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	sessions, err := session.NewManager(NewSessionStorage(cfg, gdb), cfg.Webserver.Session, cfg.DevMode)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &handler.Deps{
		Cfg:          cfg,
		Gate:         auth.NewGate(gdb),
		Accounts:     auth.NewService(gdb),
		Users:        auth.NewLocalProvider(gdb),
		Registration: auth.NewRegistration(gdb, auth.CreateProfileHook(models.RoleMember)),
		Tokens:       auth.NewTokenService(gdb),
		Library:      lib,
		Validator:    validate.New(validate.WithSpamPhrases(cfg.Validation.SpamPhrases)),
		Shape:        validate.NewShape(),
		Sessions:     sessions,
		Limiter:      ratelimit.New(cfg.RateLimit),
	}, nil
}

// NewSessionStorage returns the session storage of the configured engine.
// sqlite keeps sessions in the application database.
func NewSessionStorage(cfg *config.Config, gdb *gorm.DB) session.Storage {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
		})
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.CreatePostgres(cfg),
			Table:         sessionTable,
		})
	}

	storage := session.NewGormStorage(gdb)
	if err := storage.DeleteExpired(); err != nil {
		log.Warn().Err(err).Msg("failed to delete expired sessions")
	}

	return storage
}
