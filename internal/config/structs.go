package config

import (
	"time"

	"github.com/gobookshelf/gobookshelf/internal/logger"
)

// Session settings.
type Session struct {
	CookieName string        // name of the session cookie
	ExpiryTime time.Duration // lifetime of a session and its cookie
}

// Config overall data structure.
type Config struct {
	DevMode    bool // enable dev mode for development
	DB         DB
	Log        logger.Log
	Title      string
	Webserver  Webserver
	RateLimit  RateLimit
	Validation Validation
	Seed       Seed
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool    // enable static file browsing (for development purposes only)
	DisableRecover bool    // disable recover middleware
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	CheckAliveURI  string  // liveness endpoint used by load balancers
	MetricsURI     string  // prometheus scrape endpoint
	Session        Session // session settings
}

// RateLimit settings for the search endpoints.
type RateLimit struct {
	Disabled bool
	Limit    int64         // requests allowed per Period and key
	Period   time.Duration // window of the limit
}

// Validation settings of the input validator.
type Validation struct {
	// SpamPhrases replaces the built-in spam phrase list if not empty.
	SpamPhrases []string
}

// Seed controls the bootstrap data written on first start.
type Seed struct {
	AdminUsername string
	AdminPassword string
	AdminEmail    string
}
