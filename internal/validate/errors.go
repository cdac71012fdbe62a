package validate

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrHoneypot is returned when the hidden honeypot field of a form was filled in.
	ErrHoneypot = errors.New("submission rejected")

	// ErrUnknownField is returned when no rule is registered for a field name.
	ErrUnknownField = errors.New("no validation rule for field")
)

// ValidationError describes why the value of one field was rejected.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldErrors maps field names to the message of their first failing check.
type FieldErrors map[string]string

// Error implements error.
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}

	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+fe[field])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the field errors carried by err, if any.
func Fields(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return FieldErrors{ve.Field: ve.Message}, true
	}

	return nil, false
}
