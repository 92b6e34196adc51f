package profile

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DefaultCurrency = "USD"
	DefaultLocale   = "en"

	MaxFullNameLength = 100
	MaxBioLength      = 500
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex    = regexp.MustCompile(`^\+?[0-9 ()\-]{5,20}$`)
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	localeRegex   = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)
)

// Profile holds the owner's personal details shown on the profile page
type Profile struct {
	OwnerKey     string
	FullName     string
	Email        string
	Phone        string
	Bio          string
	AvatarURL    string
	Currency     string
	Locale       string
	UpdatedAt    time.Time
	Achievements []Achievement
}

// Achievement is a read-only badge earned by the owner
type Achievement struct {
	Code        string
	Title       string
	Description string
	EarnedAt    time.Time
}

// Patch is a partial profile update. Nil fields are left unchanged; a
// pointer to "" clears the field.
type Patch struct {
	FullName  *string
	Email     *string
	Phone     *string
	Bio       *string
	AvatarURL *string
	Currency  *string
	Locale    *string
}

// IsEmpty reports whether the patch changes nothing
func (p Patch) IsEmpty() bool {
	return p.FullName == nil && p.Email == nil && p.Phone == nil && p.Bio == nil &&
		p.AvatarURL == nil && p.Currency == nil && p.Locale == nil
}

// Normalize trims every field and canonicalizes email, currency and locale case
func (p Patch) Normalize() Patch {
	out := Patch{
		FullName:  trimmed(p.FullName),
		Email:     trimmed(p.Email),
		Phone:     trimmed(p.Phone),
		Bio:       trimmed(p.Bio),
		AvatarURL: trimmed(p.AvatarURL),
		Currency:  trimmed(p.Currency),
		Locale:    trimmed(p.Locale),
	}
	if out.Email != nil {
		v := strings.ToLower(*out.Email)
		out.Email = &v
	}
	if out.Currency != nil {
		v := strings.ToUpper(*out.Currency)
		out.Currency = &v
	}
	if out.Locale != nil {
		v := canonicalLocale(*out.Locale)
		out.Locale = &v
	}
	return out
}

// Validate checks the fields the patch sets. Empty strings are allowed for
// clearable fields but not for currency or locale.
func (p Patch) Validate() error {
	if p.FullName != nil && utf8.RuneCountInString(*p.FullName) > MaxFullNameLength {
		return fmt.Errorf("full name: %w", ErrFieldTooLong)
	}
	if p.Bio != nil && utf8.RuneCountInString(*p.Bio) > MaxBioLength {
		return fmt.Errorf("bio: %w", ErrFieldTooLong)
	}
	if p.Email != nil && *p.Email != "" && !emailRegex.MatchString(*p.Email) {
		return ErrInvalidEmail
	}
	if p.Phone != nil && *p.Phone != "" && !phoneRegex.MatchString(*p.Phone) {
		return ErrInvalidPhone
	}
	if p.AvatarURL != nil && *p.AvatarURL != "" {
		u, err := url.Parse(*p.AvatarURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ErrInvalidAvatarURL
		}
	}
	if p.Currency != nil && !currencyRegex.MatchString(*p.Currency) {
		return ErrInvalidCurrency
	}
	if p.Locale != nil && !localeRegex.MatchString(*p.Locale) {
		return ErrInvalidLocale
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// canonicalLocale turns "en_us" or "EN-us" into "en-US"
func canonicalLocale(locale string) string {
	locale = strings.ReplaceAll(locale, "_", "-")
	lang, region, found := strings.Cut(locale, "-")
	if !found {
		return strings.ToLower(lang)
	}
	return strings.ToLower(lang) + "-" + strings.ToUpper(region)
}
