package lead

import "errors"

var (
	ErrMissingName    = errors.New("name is required")
	ErrInvalidEmail   = errors.New("invalid email address")
	ErrMessageTooLong = errors.New("message is too long")
	ErrFieldTooLong   = errors.New("field is too long")
)
