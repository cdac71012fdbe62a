package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnsupportedGormEngine error if config db.gormEngine is none of sqlite, mysql or postgres.
	ErrUnsupportedGormEngine = errors.New("toml config db.gormEngine is not supported")

	// ErrSQLitePathEmpty error if the sqlite engine is selected without a database path.
	ErrSQLitePathEmpty = errors.New("toml config db.path can not be empty for sqlite")

	// ErrRateLimitInvalid error if an enabled rate limit has no positive limit or period.
	ErrRateLimitInvalid = errors.New("toml config rateLimit.limit and rateLimit.period must be positive")
)
