package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/kislikjeka/finsight/internal/platform/session"
	"github.com/kislikjeka/finsight/internal/platform/user"
	"github.com/kislikjeka/finsight/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/finsight/pkg/logger"
)

// UserService defines the user operations needed by AuthHandler
type UserService interface {
	SignUp(ctx context.Context, username, password, fullName, email string) (*user.User, error)
	SignIn(ctx context.Context, username, password string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// SessionIssuer starts and ends sessions
type SessionIssuer interface {
	Issue(ctx context.Context, sub session.Subject) (string, session.Session, error)
	Revoke(ctx context.Context, token string) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	users    UserService
	sessions SessionIssuer
	logger   *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users UserService, sessions SessionIssuer, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		logger:   log.WithComponent("auth_handler"),
	}
}

// SignUpRequest represents the sign-up request body
type SignUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// SignInRequest represents the sign-in request body
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt string    `json:"expires_at"`
	User      *UserInfo `json:"user"`
}

// UserInfo represents user information (without sensitive data)
type UserInfo struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email,omitempty"`
	CreatedAt   string  `json:"created_at"`
	LastLoginAt *string `json:"last_login_at,omitempty"`
}

func toUserInfo(u *user.User) *UserInfo {
	info := &UserInfo{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: formatTime(u.CreatedAt),
	}
	if u.LastLoginAt != nil {
		at := formatTime(*u.LastLoginAt)
		info.LastLoginAt = &at
	}
	return info
}

// SignUp handles user registration (POST /auth/signup)
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" {
		respondError(w, "username is required", http.StatusBadRequest)
		return
	}
	if req.Password == "" {
		respondError(w, "password is required", http.StatusBadRequest)
		return
	}

	created, err := h.users.SignUp(r.Context(), req.Username, req.Password, req.FullName, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserAlreadyExists):
			respondError(w, err.Error(), http.StatusConflict)
		case errors.Is(err, user.ErrInvalidUsername),
			errors.Is(err, user.ErrInvalidEmail),
			errors.Is(err, user.ErrPasswordTooShort):
			respondError(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.WithContext(r.Context()).Error("sign up failed", "error", err)
			respondError(w, "failed to sign up", http.StatusInternalServerError)
		}
		return
	}

	h.respondWithSession(w, r, created, http.StatusCreated)
}

// SignIn handles user login (POST /auth/signin)
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		respondError(w, "username and password are required", http.StatusBadRequest)
		return
	}

	authenticated, err := h.users.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			respondError(w, err.Error(), http.StatusUnauthorized)
			return
		}
		h.logger.WithContext(r.Context()).Error("sign in failed", "error", err)
		respondError(w, "failed to sign in", http.StatusInternalServerError)
		return
	}

	h.respondWithSession(w, r, authenticated, http.StatusOK)
}

// SignOut revokes the caller's session (POST /auth/signout)
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.sessions.Revoke(r.Context(), token); err != nil {
		if errors.Is(err, session.ErrInvalidToken) {
			respondError(w, "invalid or expired session", http.StatusUnauthorized)
			return
		}
		h.logger.WithContext(r.Context()).Error("sign out failed", "error", err)
		respondError(w, "failed to sign out", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in user (GET /auth/me)
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	u, err := h.users.GetByID(r.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			respondError(w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.WithContext(r.Context()).Error("failed to load user", "error", err)
		respondError(w, "failed to load user", http.StatusInternalServerError)
		return
	}

	respondJSON(w, toUserInfo(u), http.StatusOK)
}

func (h *AuthHandler) respondWithSession(w http.ResponseWriter, r *http.Request, u *user.User, status int) {
	token, sess, err := h.sessions.Issue(r.Context(), session.Subject{UserID: u.ID, OwnerKey: u.OwnerKey()})
	if err != nil {
		h.logger.WithContext(r.Context()).Error("failed to issue session", "error", err)
		respondError(w, "failed to start session", http.StatusInternalServerError)
		return
	}

	respondJSON(w, AuthResponse{
		Token:     token,
		ExpiresAt: formatTime(sess.ExpiresAt),
		User:      toUserInfo(u),
	}, status)
}
