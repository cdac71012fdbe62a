// Package login provides the html login page.
package login

import "errors"

var (
	// ErrInvalidFormData is shown when the submitted login form cannot be parsed.
	ErrInvalidFormData = errors.New("invalid form data")

	// ErrInvalidCredentials is shown for unknown users and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountDisabled is shown when a disabled user logs in with the right password.
	ErrAccountDisabled = errors.New("this account is disabled")

	// ErrInternalServerError is shown for unexpected failures during the login.
	ErrInternalServerError = errors.New("internal server error")
)
