package profile

import "errors"

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrEmptyPatch       = errors.New("no profile fields to update")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrInvalidPhone     = errors.New("invalid phone number")
	ErrInvalidCurrency  = errors.New("currency must be a 3-letter ISO 4217 code")
	ErrInvalidLocale    = errors.New("locale must look like 'en' or 'en-US'")
	ErrInvalidAvatarURL = errors.New("avatar url must be an absolute http(s) url")
	ErrFieldTooLong     = errors.New("field is too long")
)
