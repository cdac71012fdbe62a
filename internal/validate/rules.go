package validate

import "regexp"

// Field names with a registered rule.
const (
	FieldTitle       = "title"
	FieldAuthor      = "author"
	FieldName        = "name"
	FieldLibraryName = "library_name"
	FieldSearch      = "search"
	FieldComment     = "comment"
	FieldDescription = "description"
	FieldISBN        = "isbn"
	FieldUsername    = "username"
	FieldSubject     = "subject"
	FieldMessage     = "message"
	FieldYear        = "publication_year"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
)

// MinYear is the oldest accepted publication year.
const MinYear = 1000

var (
	controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	usernameSet  = regexp.MustCompile(`[^\w.@+-]`)
	isbnSet      = regexp.MustCompile(`[^0-9Xx]`)
)

// DefaultSpamPhrases are matched case-insensitively on fields with spam checking.
var DefaultSpamPhrases = []string{ //nolint:gochecknoglobals
	"http://",
	"https://",
	"www.",
	"click here",
	"buy now",
	"free money",
	"limited time offer",
}

// Rule holds the checks applied to one field after sanitizing.
type Rule struct {
	// Label names the field in messages.
	Label string
	// Min and Max bound the rune length of the escaped value. Min 0 makes the field optional.
	Min, Max int
	// Disallowed rejects the value if it matches.
	Disallowed *regexp.Regexp
	// DisallowedMessage replaces the generic message for Disallowed matches.
	DisallowedMessage string
	// Spam enables the spam phrase check.
	Spam bool
}

func textRule(label string, minLen, maxLen int) Rule {
	return Rule{Label: label, Min: minLen, Max: maxLen, Disallowed: controlChars}
}

// DefaultRules returns the rule set of every known field.
func DefaultRules() map[string]Rule {
	comment := textRule("Comment", 1, 500)
	comment.Spam = true

	description := textRule("Description", 0, 2000)
	description.Spam = true

	subject := textRule("Subject", 1, 150)
	subject.Spam = true

	message := textRule("Message", 10, 2000)
	message.Spam = true

	return map[string]Rule{
		FieldTitle:       textRule("Title", 1, 200),
		FieldAuthor:      textRule("Author name", 2, 100),
		FieldName:        textRule("Name", 2, 100),
		FieldLibraryName: textRule("Library name", 2, 100),
		FieldSearch:      textRule("Search term", 1, 100),
		FieldFirstName:   textRule("First name", 0, 150),
		FieldLastName:    textRule("Last name", 0, 150),
		FieldComment:     comment,
		FieldDescription: description,
		FieldSubject:     subject,
		FieldMessage:     message,
		FieldISBN: {
			Label:             "ISBN",
			Max:               13,
			Disallowed:        isbnSet,
			DisallowedMessage: "ISBN may only contain digits and X.",
		},
		FieldUsername: {
			Label:             "Username",
			Min:               3,
			Max:               150,
			Disallowed:        usernameSet,
			DisallowedMessage: "Username may only contain letters, digits and @/./+/-/_ characters.",
		},
	}
}
