package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/kislikjeka/finsight/internal/platform/lead"
	"github.com/kislikjeka/finsight/pkg/logger"
)

// LeadService records contact requests
type LeadService interface {
	Submit(ctx context.Context, l lead.Lead) (*lead.Lead, error)
}

// LeadHandler handles the public contact form
type LeadHandler struct {
	svc    LeadService
	logger *logger.Logger
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(svc LeadService, log *logger.Logger) *LeadHandler {
	return &LeadHandler{svc: svc, logger: log.WithComponent("lead_handler")}
}

// SubmitLeadRequest represents the contact form body
type SubmitLeadRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

// LeadResponse acknowledges a stored lead
type LeadResponse struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
}

// Submit handles POST /leads
func (h *LeadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitLeadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	stored, err := h.svc.Submit(r.Context(), lead.Lead{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Message: req.Message,
		Source:  req.Source,
	})
	if err != nil {
		switch {
		case errors.Is(err, lead.ErrMissingName),
			errors.Is(err, lead.ErrInvalidEmail),
			errors.Is(err, lead.ErrMessageTooLong),
			errors.Is(err, lead.ErrFieldTooLong):
			respondError(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.WithContext(r.Context()).Error("failed to store lead", "error", err)
			respondError(w, "failed to submit", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, LeadResponse{ID: stored.ID.String(), CreatedAt: formatTime(stored.CreatedAt)}, http.StatusCreated)
}
