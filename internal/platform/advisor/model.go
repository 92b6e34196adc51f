package advisor

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	MaxMessages      = 50
	MaxContentLength = 4000
)

// Message is one turn of the advisor conversation
type Message struct {
	Role    string
	Content string
}

// ValidateConversation trims and checks a conversation, returning the cleaned copy
func ValidateConversation(messages []Message) ([]Message, error) {
	if len(messages) == 0 {
		return nil, ErrNoMessages
	}
	if len(messages) > MaxMessages {
		return nil, ErrTooManyMessages
	}

	out := make([]Message, len(messages))
	for i, m := range messages {
		role := strings.ToLower(strings.TrimSpace(m.Role))
		if role != RoleUser && role != RoleAssistant {
			return nil, fmt.Errorf("message %d: %w", i, ErrInvalidRole)
		}
		content := strings.TrimSpace(m.Content)
		if content == "" {
			return nil, fmt.Errorf("message %d: %w", i, ErrEmptyMessage)
		}
		if utf8.RuneCountInString(content) > MaxContentLength {
			return nil, fmt.Errorf("message %d: %w", i, ErrMessageTooLong)
		}
		out[i] = Message{Role: role, Content: content}
	}

	if out[len(out)-1].Role != RoleUser {
		return nil, ErrLastMessageNotUser
	}
	return out, nil
}
