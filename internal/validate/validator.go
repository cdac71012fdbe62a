// Package validate sanitizes and checks free text input before it is persisted.
//
// Every value runs through the same pipeline: trim, html escape, length bounds,
// disallowed characters and, for prose fields, a spam phrase check. All checks
// are evaluated and the message of the first failing one is reported.
package validate

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Validator applies the registered field rules.
// It is immutable after New and safe for concurrent use.
type Validator struct {
	rules map[string]Rule
	spam  []string
	now   func() time.Time
}

// Option configures a Validator.
type Option func(v *Validator)

// WithClock replaces time.Now for the publication year check.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// WithSpamPhrases replaces DefaultSpamPhrases. An empty list keeps the defaults.
func WithSpamPhrases(phrases []string) Option {
	return func(v *Validator) {
		if len(phrases) > 0 {
			v.spam = phrases
		}
	}
}

// WithRule registers or replaces the rule of field.
func WithRule(field string, rule Rule) Option {
	return func(v *Validator) {
		v.rules[field] = rule
	}
}

// New creates a Validator with DefaultRules.
func New(opts ...Option) *Validator {
	v := &Validator{
		rules: DefaultRules(),
		spam:  DefaultSpamPhrases,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(v)
	}

	lowered := make([]string, 0, len(v.spam))
	for _, phrase := range v.spam {
		lowered = append(lowered, strings.ToLower(phrase))
	}

	v.spam = lowered

	return v
}

// Validate sanitizes raw and checks it against the rule of field.
// It returns the sanitized value or a *ValidationError.
func (v *Validator) Validate(field, raw string) (string, error) {
	rule, ok := v.rules[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	clean := Sanitize(raw)

	messages := []string{
		v.checkLength(rule, clean),
		checkDisallowed(rule, clean),
		v.checkSpam(rule, clean),
	}

	for _, msg := range messages {
		if msg != "" {
			return "", &ValidationError{Field: field, Message: msg}
		}
	}

	return clean, nil
}

func (v *Validator) checkLength(rule Rule, clean string) string {
	length := utf8.RuneCountInString(clean)

	switch {
	case length == 0 && rule.Min > 0:
		return rule.Label + " cannot be empty or just whitespace."
	case length > 0 && length < rule.Min:
		return fmt.Sprintf("%s must be at least %d characters long.", rule.Label, rule.Min)
	case rule.Max > 0 && length > rule.Max:
		return fmt.Sprintf("%s cannot exceed %d characters.", rule.Label, rule.Max)
	}

	return ""
}

func checkDisallowed(rule Rule, clean string) string {
	if rule.Disallowed == nil || !rule.Disallowed.MatchString(clean) {
		return ""
	}

	if rule.DisallowedMessage != "" {
		return rule.DisallowedMessage
	}

	return rule.Label + " contains invalid characters."
}

func (v *Validator) checkSpam(rule Rule, clean string) string {
	if !rule.Spam {
		return ""
	}

	lowered := strings.ToLower(clean)
	for _, phrase := range v.spam {
		if strings.Contains(lowered, phrase) {
			return rule.Label + " contains content that looks like spam."
		}
	}

	return ""
}

// ValidateYear checks that year lies in [MinYear, current year].
func (v *Validator) ValidateYear(field string, year int) (int, error) {
	current := v.now().Year()

	switch {
	case year > current:
		return 0, &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("Publication year cannot be in the future. Current year is %d, but got %d.", current, year),
		}
	case year < MinYear:
		return 0, &ValidationError{
			Field:   field,
			Message: "Publication year seems too old. Please provide a reasonable year.",
		}
	}

	return year, nil
}

// CheckHoneypot rejects a filled hidden form field.
func CheckHoneypot(value string) error {
	if value != "" {
		return ErrHoneypot
	}

	return nil
}
