package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/kislikjeka/finsight/internal/platform/profile"
	"github.com/kislikjeka/finsight/pkg/logger"
)

// ProfileService defines the profile operations needed by ProfileHandler
type ProfileService interface {
	Get(ctx context.Context, ownerKey string) (*profile.Profile, error)
	Update(ctx context.Context, ownerKey string, patch profile.Patch) (*profile.Profile, error)
}

// ProfileHandler handles profile HTTP requests
type ProfileHandler struct {
	svc    ProfileService
	logger *logger.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(svc ProfileService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, logger: log.WithComponent("profile_handler")}
}

// UpdateProfileRequest is a partial update; omitted fields are unchanged
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
	Currency  *string `json:"currency"`
	Locale    *string `json:"locale"`
}

// AchievementResponse is a badge earned by the user
type AchievementResponse struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description"`
	EarnedAt    string `json:"earned_at"`
}

// ProfileResponse represents the profile page payload
type ProfileResponse struct {
	FullName     string                `json:"full_name"`
	Email        string                `json:"email"`
	Phone        string                `json:"phone"`
	Bio          string                `json:"bio"`
	AvatarURL    string                `json:"avatar_url"`
	Currency     string                `json:"currency"`
	Locale       string                `json:"locale"`
	UpdatedAt    string                `json:"updated_at"`
	Achievements []AchievementResponse `json:"achievements"`
}

func toProfileResponse(p *profile.Profile) ProfileResponse {
	achievements := make([]AchievementResponse, len(p.Achievements))
	for i, a := range p.Achievements {
		achievements[i] = AchievementResponse{
			Code:        a.Code,
			Title:       a.Title,
			Description: a.Description,
			EarnedAt:    formatTime(a.EarnedAt),
		}
	}
	return ProfileResponse{
		FullName:     p.FullName,
		Email:        p.Email,
		Phone:        p.Phone,
		Bio:          p.Bio,
		AvatarURL:    p.AvatarURL,
		Currency:     p.Currency,
		Locale:       p.Locale,
		UpdatedAt:    formatTime(p.UpdatedAt),
		Achievements: achievements,
	}
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Get(r.Context(), sess.OwnerKey)
	if err != nil {
		h.respondProfileError(w, r, err)
		return
	}

	respondJSON(w, toProfileResponse(p), http.StatusOK)
}

// UpdateProfile handles PATCH /profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Update(r.Context(), sess.OwnerKey, profile.Patch{
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
		Currency:  req.Currency,
		Locale:    req.Locale,
	})
	if err != nil {
		h.respondProfileError(w, r, err)
		return
	}

	respondJSON(w, toProfileResponse(p), http.StatusOK)
}

func (h *ProfileHandler) respondProfileError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		respondError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, profile.ErrEmptyPatch),
		errors.Is(err, profile.ErrInvalidEmail),
		errors.Is(err, profile.ErrInvalidPhone),
		errors.Is(err, profile.ErrInvalidCurrency),
		errors.Is(err, profile.ErrInvalidLocale),
		errors.Is(err, profile.ErrInvalidAvatarURL),
		errors.Is(err, profile.ErrFieldTooLong):
		respondError(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.WithContext(r.Context()).Error("profile request failed", "error", err)
		respondError(w, "internal server error", http.StatusInternalServerError)
	}
}
