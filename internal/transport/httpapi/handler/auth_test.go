package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/finsight/internal/platform/session"
	"github.com/kislikjeka/finsight/internal/platform/user"
	"github.com/kislikjeka/finsight/internal/transport/httpapi/handler"
	"github.com/kislikjeka/finsight/pkg/logger"
)

// MockUserService is a mock implementation of handler.UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) SignUp(ctx context.Context, username, password, fullName, email string) (*user.User, error) {
	args := m.Called(ctx, username, password, fullName, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) SignIn(ctx context.Context, username, password string) (*user.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

// MockSessions is a mock implementation of handler.SessionIssuer
type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) Issue(ctx context.Context, sub session.Subject) (string, session.Session, error) {
	args := m.Called(ctx, sub)
	return args.String(0), args.Get(1).(session.Session), args.Error(2)
}

func (m *MockSessions) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func testUser() *user.User {
	return &user.User{
		ID:           testSession.UserID,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestAuthHandler_SignUp_Success(t *testing.T) {
	users := new(MockUserService)
	sessions := new(MockSessions)
	u := testUser()

	users.On("SignUp", mock.Anything, "alice", "SecureP@ss1", "Alice Smith", "alice@example.com").Return(u, nil)
	sessions.On("Issue", mock.Anything, session.Subject{UserID: u.ID, OwnerKey: "alice"}).Return("signed-token", testSession, nil)

	h := handler.NewAuthHandler(users, sessions, logger.Discard())
	w := httptest.NewRecorder()
	h.SignUp(w, newRequest(t, http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"username":  "alice",
		"password":  "SecureP@ss1",
		"full_name": "Alice Smith",
		"email":     "alice@example.com",
	}))

	require.Equal(t, http.StatusCreated, w.Code)

	var resp handler.AuthResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, "2024-06-16T10:00:00Z", resp.ExpiresAt)
	require.NotNil(t, resp.User)
	assert.Equal(t, u.ID.String(), resp.User.ID)
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotContains(t, w.Body.String(), "password")

	users.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestAuthHandler_SignUp_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		serviceErr error
		wantStatus int
	}{
		{"missing username", map[string]string{"password": "SecureP@ss1"}, nil, http.StatusBadRequest},
		{"missing password", map[string]string{"username": "alice"}, nil, http.StatusBadRequest},
		{"unknown field", map[string]string{"username": "alice", "password": "x", "role": "admin"}, nil, http.StatusBadRequest},
		{"duplicate", map[string]string{"username": "alice", "password": "SecureP@ss1"}, user.ErrUserAlreadyExists, http.StatusConflict},
		{"short password", map[string]string{"username": "alice", "password": "short"}, user.ErrPasswordTooShort, http.StatusBadRequest},
		{"bad username", map[string]string{"username": "a!", "password": "SecureP@ss1"}, user.ErrInvalidUsername, http.StatusBadRequest},
		{"store failure", map[string]string{"username": "alice", "password": "SecureP@ss1"}, assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserService)
			if tt.serviceErr != nil {
				users.On("SignUp", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.serviceErr)
			}

			h := handler.NewAuthHandler(users, new(MockSessions), logger.Discard())
			w := httptest.NewRecorder()
			h.SignUp(w, newRequest(t, http.MethodPost, "/api/v1/auth/signup", tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotEmpty(t, errorMessage(t, w))
		})
	}
}

func TestAuthHandler_SignIn_InvalidCredentials(t *testing.T) {
	users := new(MockUserService)
	users.On("SignIn", mock.Anything, "alice", "wrong-password").Return(nil, user.ErrInvalidCredentials)

	h := handler.NewAuthHandler(users, new(MockSessions), logger.Discard())
	w := httptest.NewRecorder()
	h.SignIn(w, newRequest(t, http.MethodPost, "/api/v1/auth/signin", map[string]string{
		"username": "alice",
		"password": "wrong-password",
	}))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, user.ErrInvalidCredentials.Error(), errorMessage(t, w))
}

func TestAuthHandler_SignIn_Success(t *testing.T) {
	users := new(MockUserService)
	sessions := new(MockSessions)
	u := testUser()
	users.On("SignIn", mock.Anything, "alice", "SecureP@ss1").Return(u, nil)
	sessions.On("Issue", mock.Anything, mock.Anything).Return("signed-token", testSession, nil)

	h := handler.NewAuthHandler(users, sessions, logger.Discard())
	w := httptest.NewRecorder()
	h.SignIn(w, newRequest(t, http.MethodPost, "/api/v1/auth/signin", map[string]string{
		"username": "alice",
		"password": "SecureP@ss1",
	}))

	require.Equal(t, http.StatusOK, w.Code)
	var resp handler.AuthResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "signed-token", resp.Token)
}

func TestAuthHandler_SignOut(t *testing.T) {
	sessions := new(MockSessions)
	sessions.On("Revoke", mock.Anything, "signed-token").Return(nil)

	h := handler.NewAuthHandler(new(MockUserService), sessions, logger.Discard())
	req := withSession(newRequest(t, http.MethodPost, "/api/v1/auth/signout", nil))
	req.Header.Set("Authorization", "Bearer signed-token")
	w := httptest.NewRecorder()
	h.SignOut(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	sessions.AssertExpectations(t)
}

func TestAuthHandler_SignOut_InvalidToken(t *testing.T) {
	sessions := new(MockSessions)
	sessions.On("Revoke", mock.Anything, "garbage").Return(session.ErrInvalidToken)

	h := handler.NewAuthHandler(new(MockUserService), sessions, logger.Discard())
	req := newRequest(t, http.MethodPost, "/api/v1/auth/signout", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	h.SignOut(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	users := new(MockUserService)
	u := testUser()
	lastLogin := time.Date(2024, 6, 14, 8, 0, 0, 0, time.UTC)
	u.LastLoginAt = &lastLogin
	users.On("GetByID", mock.Anything, testSession.UserID).Return(u, nil)

	h := handler.NewAuthHandler(users, new(MockSessions), logger.Discard())
	w := httptest.NewRecorder()
	h.Me(w, withSession(newRequest(t, http.MethodGet, "/api/v1/auth/me", nil)))

	require.Equal(t, http.StatusOK, w.Code)
	var resp handler.UserInfo
	decodeBody(t, w, &resp)
	assert.Equal(t, "alice", resp.Username)
	require.NotNil(t, resp.LastLoginAt)
	assert.Equal(t, "2024-06-14T08:00:00Z", *resp.LastLoginAt)
}

func TestAuthHandler_Me_UserGone(t *testing.T) {
	users := new(MockUserService)
	users.On("GetByID", mock.Anything, testSession.UserID).Return(nil, user.ErrUserNotFound)

	h := handler.NewAuthHandler(users, new(MockSessions), logger.Discard())
	w := httptest.NewRecorder()
	h.Me(w, withSession(newRequest(t, http.MethodGet, "/api/v1/auth/me", nil)))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
