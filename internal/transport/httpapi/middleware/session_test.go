package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/finsight/internal/platform/session"
	"github.com/kislikjeka/finsight/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/finsight/pkg/logger"
)

type stubResolver struct {
	sess session.Session
	err  error
	got  string
}

func (s *stubResolver) Resolve(_ context.Context, token string) (session.Session, error) {
	s.got = token
	return s.sess, s.err
}

func TestRequireSession_PlacesSessionInContext(t *testing.T) {
	want := session.Session{UserID: uuid.New(), OwnerKey: "alice", TokenID: uuid.New()}
	resolver := &stubResolver{sess: want}

	var gotSession session.Session
	var gotOwner interface{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession, _ = session.FromContext(r.Context())
		gotOwner = r.Context().Value(logger.OwnerKey)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	w := httptest.NewRecorder()
	middleware.RequireSession(resolver, logger.Discard())(next).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc.def.ghi", resolver.got)
	assert.Equal(t, want, gotSession)
	assert.Equal(t, "alice", gotOwner)
}

func TestRequireSession_Rejects(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		err        error
		wantStatus int
	}{
		{"no header", "", nil, http.StatusUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", nil, http.StatusUnauthorized},
		{"empty token", "Bearer   ", nil, http.StatusUnauthorized},
		{"invalid token", "Bearer x", errors.Join(session.ErrInvalidToken, errors.New("signature is invalid")), http.StatusUnauthorized},
		{"revoked", "Bearer x", session.ErrSessionRevoked, http.StatusUnauthorized},
		{"record mismatch", "Bearer x", session.ErrSessionMismatch, http.StatusUnauthorized},
		{"store down", "Bearer x", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

			req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			middleware.RequireSession(&stubResolver{err: tt.err}, logger.Discard())(next).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.False(t, called)
		})
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer token-value")

	token, ok := middleware.BearerToken(req)
	assert.True(t, ok)
	assert.Equal(t, "token-value", token)
}
