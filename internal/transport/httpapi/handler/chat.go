package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kislikjeka/finsight/internal/platform/advisor"
	"github.com/kislikjeka/finsight/internal/platform/session"
	"github.com/kislikjeka/finsight/pkg/logger"
)

// chatStreamTimeout bounds a single streamed reply, overriding the server's
// write timeout for this response only
const chatStreamTimeout = 2 * time.Minute

// AdvisorService streams advisor replies
type AdvisorService interface {
	Enabled() bool
	Stream(ctx context.Context, sess session.Session, messages []advisor.Message, emit func(chunk string) error) error
}

// ChatHandler proxies the advisor conversation as server-sent events
type ChatHandler struct {
	svc    AdvisorService
	logger *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(svc AdvisorService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, logger: log.WithComponent("chat_handler")}
}

// ChatMessage is one turn of the conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries the whole conversation so far
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

type chatDelta struct {
	Delta string `json:"delta"`
}

// Stream handles POST /chat.
//
// The reply is sent as text/event-stream: one "data: {"delta": ...}" event
// per chunk, then "event: done", or "event: error" if the model fails after
// streaming began. Errors found before streaming use ordinary JSON responses.
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	if !h.svc.Enabled() {
		respondError(w, advisor.ErrAdvisorDisabled.Error(), http.StatusServiceUnavailable)
		return
	}

	var req ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	messages := make([]advisor.Message, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = advisor.Message{Role: m.Role, Content: m.Content}
	}
	if _, err := advisor.ValidateConversation(messages); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Now().Add(chatStreamTimeout))

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	emit := func(chunk string) error {
		payload, err := json.Marshal(chatDelta{Delta: chunk})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		return rc.Flush()
	}

	if err := h.svc.Stream(r.Context(), sess, messages, emit); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		payload, _ := json.Marshal(ErrorResponse{Error: "the advisor could not finish its reply"})
		fmt.Fprintf(w, "event: error\ndata: %s\n\n", payload)
		rc.Flush()
		return
	}

	fmt.Fprint(w, "event: done\ndata: {}\n\n")
	rc.Flush()
}
