package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/finsight/internal/platform/session"
)

var testSession = session.Session{
	UserID:    uuid.MustParse("7d1c3c2e-5b9a-4b7e-9a52-3f1f3b0c2a11"),
	OwnerKey:  "alice",
	TokenID:   uuid.MustParse("0b8e7a36-2f4d-4a7e-8f0e-6a1b2c3d4e5f"),
	ExpiresAt: time.Date(2024, 6, 16, 10, 0, 0, 0, time.UTC),
}

func newRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withSession(req *http.Request) *http.Request {
	return req.WithContext(session.WithSession(req.Context(), testSession))
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), "body: %s", w.Body.String())
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	decodeBody(t, w, &resp)
	return resp["error"]
}
