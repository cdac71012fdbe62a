// Package handler holds what the html and json handlers share: their
// dependencies, the response envelopes and the rendering helpers.
package handler

import (
	"errors"

	"github.com/gobookshelf/gobookshelf/internal/auth"
	"github.com/gobookshelf/gobookshelf/internal/config"
	"github.com/gobookshelf/gobookshelf/internal/library"
	"github.com/gobookshelf/gobookshelf/internal/ratelimit"
	"github.com/gobookshelf/gobookshelf/internal/validate"
	"github.com/gobookshelf/gobookshelf/internal/web/session"
)

// ErrDepsIncomplete is returned by Init if a required dependency is missing.
var ErrDepsIncomplete = errors.New("handler dependencies incomplete")

// Deps are the services handlers are built from.
type Deps struct {
	Cfg          *config.Config
	Gate         *auth.Gate
	Accounts     *auth.Service
	Users        *auth.LocalProvider
	Registration *auth.Registration
	Tokens       *auth.TokenService
	Library      *library.Service
	Validator    *validate.Validator
	Shape        *validate.Shape
	Sessions     *session.Manager
	Limiter      ratelimit.RateLimiter
}

// Check returns ErrDepsIncomplete if any dependency is nil.
func (d *Deps) Check() error {
	if d == nil || d.Cfg == nil || d.Gate == nil || d.Accounts == nil || d.Users == nil ||
		d.Registration == nil || d.Tokens == nil || d.Library == nil || d.Validator == nil ||
		d.Shape == nil || d.Sessions == nil || d.Limiter == nil {
		return ErrDepsIncomplete
	}

	return nil
}
