// Package ratelimit throttles requests per client key.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/gobookshelf/gobookshelf/internal/config"
)

// ErrRateLimited is returned when a key used up its requests for the current period.
var ErrRateLimited = errors.New("too many requests, please try again later")

// LimitError is the ErrRateLimited of a Store, carrying when the period of the key ends.
type LimitError struct {
	Reset time.Time
}

func (e *LimitError) Error() string { return ErrRateLimited.Error() }

func (e *LimitError) Unwrap() error { return ErrRateLimited }

// RetryAfter returns the whole seconds from now until the key resets, at least one.
func (e *LimitError) RetryAfter(now time.Time) int {
	secs := int(math.Ceil(e.Reset.Sub(now).Seconds()))
	if secs < 1 {
		return 1
	}

	return secs
}

// RateLimiter decides whether another request for key is allowed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) error
}

// Store counts requests in process memory; increments are atomic per key.
type Store struct {
	limiter *limiter.Limiter
}

// NewStore creates an in-memory limiter allowing limit requests per cfg.Period.
func NewStore(cfg config.RateLimit) *Store {
	rate := limiter.Rate{Period: cfg.Period, Limit: cfg.Limit}

	return &Store{limiter: limiter.New(memory.NewStore(), rate)}
}

// Allow implements RateLimiter.
func (s *Store) Allow(ctx context.Context, key string) error {
	state, err := s.limiter.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	if state.Reached {
		return &LimitError{Reset: time.Unix(state.Reset, 0)}
	}

	return nil
}

// Unlimited allows every request.
type Unlimited struct{}

// Allow implements RateLimiter.
func (Unlimited) Allow(context.Context, string) error { return nil }

// New returns the limiter selected by cfg.
func New(cfg config.RateLimit) RateLimiter {
	if cfg.Disabled {
		return Unlimited{}
	}

	return NewStore(cfg)
}

// KeyFunc extracts the client key of a request.
type KeyFunc func(c fiber.Ctx) string

// Middleware rejects requests with ErrRateLimited once the key of the request is exhausted.
func Middleware(l RateLimiter, key KeyFunc) fiber.Handler {
	return func(c fiber.Ctx) error {
		if err := l.Allow(c.Context(), key(c)); err != nil {
			var limited *LimitError
			if errors.As(err, &limited) {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(limited.RetryAfter(time.Now())))
			}

			return err
		}

		return c.Next()
	}
}
