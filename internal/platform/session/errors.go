package session

import "errors"

var (
	ErrMissingToken    = errors.New("missing session token")
	ErrInvalidToken    = errors.New("invalid or expired session token")
	ErrSessionRevoked  = errors.New("session has been revoked")
	ErrSessionMismatch = errors.New("session record does not match token")
	ErrNoSession       = errors.New("no session in context")
)
