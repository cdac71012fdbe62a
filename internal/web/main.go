package web

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/gofiber/template/html/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/gobookshelf/gobookshelf/internal/config"
	fiberlogger "github.com/gobookshelf/gobookshelf/internal/logger/adapter/fiber"
	"github.com/gobookshelf/gobookshelf/internal/validate"
	"github.com/gobookshelf/gobookshelf/internal/web/handler"
	"github.com/gobookshelf/gobookshelf/internal/web/handler/api"
	"github.com/gobookshelf/gobookshelf/internal/web/handler/books"
	"github.com/gobookshelf/gobookshelf/internal/web/handler/contact"
	"github.com/gobookshelf/gobookshelf/internal/web/handler/dashboard"
	"github.com/gobookshelf/gobookshelf/internal/web/handler/libraries"
	"github.com/gobookshelf/gobookshelf/internal/web/handler/login"
	"github.com/gobookshelf/gobookshelf/internal/web/handler/logout"
	"github.com/gobookshelf/gobookshelf/internal/web/handler/register"
	authmiddleware "github.com/gobookshelf/gobookshelf/internal/web/middleware/auth"
)

// StaticPath is the url prefix of the embedded static files.
const StaticPath = "/static"

// ContentSecurityPolicy allows only same origin resources, no inline script and no framing.
const ContentSecurityPolicy = "default-src 'self'; script-src 'self'; style-src 'self'; img-src 'self' data:; " +
	"object-src 'none'; base-uri 'self'; form-action 'self'; frame-ancestors 'none'"

var (
	// ErrConfigNil is returned if New is called without configuration.
	ErrConfigNil = errors.New("web: config is nil")

	// ErrDepsNil is returned if New is called without handler dependencies.
	ErrDepsNil = errors.New("web: handler dependencies are nil")
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan error, 1)

	s.alive.Store(true)

	go func() {
		err := s.App.Listen(addr, fiber.ListenConfig{DisableStartupMessage: !s.cfg.DevMode})
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			doneFiber <- err
			return
		}

		doneFiber <- nil
	}()

	return <-doneFiber // wait for fiber to stop
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the web service down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// checkAlive answers load balancer probes, 503 while shutting down.
func (s *Service) checkAlive(c fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// NewTemplateEngine creates the html engine over the embedded templates.
// In dev mode the templates are read from disk on every render.
func NewTemplateEngine(devMode bool) *html.Engine {
	templateEngine := html.NewFileSystem(http.FS(templateEmbedFS{embeddedTemplates}), ".gohtml")

	if devMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.Reload(true)

		log.Warn().Msg("dev mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFunc("plain", validate.Plain)
	templateEngine.AddFunc("fieldError", func(fe validate.FieldErrors, field string) string {
		return fe[field]
	})
	templateEngine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	templateEngine.AddFunc("sub", func(a, b int) int {
		return a - b
	})

	return templateEngine
}

// New creates the web service with every handler service initialized.
func New(cfg *config.Config, deps *handler.Deps) (*Service, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	if deps == nil {
		return nil, ErrDepsNil
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Immutable:      true,
			Views:          NewTemplateEngine(cfg.DevMode),
			ErrorHandler:   handler.NewErrorHandler(deps),
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recoverer.New())
	}

	app.Use(helmet.New(helmet.Config{ContentSecurityPolicy: ContentSecurityPolicy}))

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: cfg.Webserver.CheckAliveURI,
	}))

	staticFiles, err := fs.Sub(embeddedStaticFiles, "static")
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	app.Get(StaticPath+"*", static.New("", static.Config{
		FS:     staticFiles,
		Browse: cfg.Webserver.BrowseStatic,
	}))

	service := &Service{
		cfg:          cfg,
		App:          app,
		fastShutDown: cfg.DevMode,
	}

	app.Get(cfg.Webserver.CheckAliveURI, service.checkAlive)
	app.Get(cfg.Webserver.MetricsURI, adaptor.HTTPHandler(promhttp.Handler()))

	// everything below knows the principal of the request
	app.Use(authmiddleware.New(authmiddleware.Config{
		Sessions: deps.Sessions,
		Tokens:   deps.Tokens,
		Users:    deps.Users,
		Skip: func(c fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), StaticPath+"/")
		},
	}))

	app.Use(handler.CSRF(deps, StaticPath+"/"))

	services := []handler.Service{
		&login.Service{},
		&logout.Service{},
		&register.Service{},
		&books.Service{},
		&libraries.Service{},
		&dashboard.Service{},
		&contact.Service{},
		&api.Service{},
	}

	for _, svc := range services {
		if err = svc.Init(app, deps); err != nil {
			return nil, err //nolint:wrapcheck
		}
	}

	// redirect root to the book list
	app.Get(handler.RootPath, func(c fiber.Ctx) error {
		return c.Redirect().Status(fiber.StatusFound).To(login.HomePath)
	})

	return service, nil
}
