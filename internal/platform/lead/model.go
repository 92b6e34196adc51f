package lead

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// DefaultSource is recorded when the form does not say where it was submitted from
	DefaultSource = "website"

	MaxFieldLength   = 200
	MaxMessageLength = 2000
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Lead is a contact request submitted from the marketing pages
type Lead struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Company   string
	Message   string
	Source    string
	CreatedAt time.Time
}

// Normalize trims fields, lowercases the email and fills the default source
func (l *Lead) Normalize() {
	l.Name = strings.TrimSpace(l.Name)
	l.Email = strings.ToLower(strings.TrimSpace(l.Email))
	l.Company = strings.TrimSpace(l.Company)
	l.Message = strings.TrimSpace(l.Message)
	l.Source = strings.ToLower(strings.TrimSpace(l.Source))
	if l.Source == "" {
		l.Source = DefaultSource
	}
}

// Validate checks a normalized lead
func (l *Lead) Validate() error {
	if l.Name == "" {
		return ErrMissingName
	}
	if !emailRegex.MatchString(l.Email) {
		return ErrInvalidEmail
	}
	for _, f := range []string{l.Name, l.Email, l.Company, l.Source} {
		if utf8.RuneCountInString(f) > MaxFieldLength {
			return ErrFieldTooLong
		}
	}
	if utf8.RuneCountInString(l.Message) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}
