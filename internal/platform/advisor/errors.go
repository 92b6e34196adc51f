package advisor

import "errors"

// Conversation validation errors
var (
	ErrNoMessages         = errors.New("at least one message is required")
	ErrTooManyMessages    = errors.New("too many messages in conversation")
	ErrInvalidRole        = errors.New("message role must be 'user' or 'assistant'")
	ErrEmptyMessage       = errors.New("message content must not be empty")
	ErrMessageTooLong     = errors.New("message content is too long")
	ErrLastMessageNotUser = errors.New("last message must be from the user")
	ErrAdvisorDisabled    = errors.New("advisor is not configured")
)
