package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/finsight/internal/module/dashboard"
	"github.com/kislikjeka/finsight/internal/platform/finance"
	"github.com/kislikjeka/finsight/internal/platform/rawdata"
	"github.com/kislikjeka/finsight/internal/platform/session"
	"github.com/kislikjeka/finsight/internal/platform/user"
	"github.com/kislikjeka/finsight/internal/transport/httpapi"
	"github.com/kislikjeka/finsight/internal/transport/httpapi/handler"
	"github.com/kislikjeka/finsight/pkg/logger"
)

const testSecret = "test-secret-key-minimum-32-characters-long-for-security"

// userStore is an in-memory user.Repository
type userStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func (s *userStore) Create(_ context.Context, u *user.User, _ user.InitialProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *userStore) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *userStore) GetByUsername(_ context.Context, username string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (s *userStore) Exists(ctx context.Context, username string) (bool, error) {
	_, err := s.GetByUsername(ctx, username)
	return err == nil, nil
}

func (s *userStore) UpdateLastLogin(context.Context, uuid.UUID, time.Time) error {
	return nil
}

// sessionStore is an in-memory session.Store
type sessionStore struct {
	mu   sync.Mutex
	live map[uuid.UUID]session.Session
}

func (s *sessionStore) Save(_ context.Context, sess session.Session, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[sess.TokenID] = sess
	return nil
}

func (s *sessionStore) Lookup(_ context.Context, id uuid.UUID) (session.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.live[id]
	return sess, ok, nil
}

func (s *sessionStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, id)
	return nil
}

func amountPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// The record repositories serve the same rows to every owner

type accountRepo struct{}

func (accountRepo) ListByOwner(context.Context, string) ([]rawdata.RawAccount, error) {
	return []rawdata.RawAccount{
		{ID: "a1", AccountName: "Checking", AccountType: "checking", Balance: amountPtr("2500")},
		{ID: "a2", Name: "Brokerage", Type: "investment", Balance: amountPtr("4000")},
	}, nil
}

type transactionRepo struct{}

func (transactionRepo) ListByOwner(context.Context, string) ([]rawdata.RawTransaction, error) {
	return []rawdata.RawTransaction{
		rawdata.FlatRawTransaction{ID: "t1", Amount: amountPtr("5000"), Type: "income", TransactionDate: "2024-06-01", Category: "Salary"},
		rawdata.LinkedRawTransaction{
			ID: "t2", Amount: amountPtr("-100"), Type: "expense", TransactionDate: "2024-06-03",
			Category: &rawdata.CategoryRef{ID: "c1", Name: "Food"},
		},
		rawdata.FlatRawTransaction{ID: "bad", Type: "income", TransactionDate: "2024-06-04"},
	}, nil
}

type investmentRepo struct{}

func (investmentRepo) ListByOwner(context.Context, string) ([]finance.Investment, error) {
	return []finance.Investment{
		{ID: "i1", Symbol: "AAPL", TotalValue: decimal.NewFromInt(1000), DayChange: decimal.NewFromInt(20), Sector: "Technology"},
	}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	log := logger.Discard()
	users := user.NewService(&userStore{users: make(map[uuid.UUID]*user.User)}, log)
	sessions := session.NewManager(testSecret, time.Hour, &sessionStore{live: make(map[uuid.UUID]session.Session)})
	dash := dashboard.NewService(accountRepo{}, transactionRepo{}, investmentRepo{}, nil, dashboard.Config{Months: 6}, log)
	now := func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }

	return httpapi.NewRouter(httpapi.Config{
		Logger:           log,
		AllowedOrigins:   []string{"http://localhost:3000"},
		AuthHandler:      handler.NewAuthHandler(users, sessions, log),
		DashboardHandler: handler.NewDashboardHandler(dash, now, log),
		HealthHandler:    handler.NewHealthHandler(nil, "test"),
		SessionResolver:  sessions,
	})
}

func do(t *testing.T, h http.Handler, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_SessionLifecycle(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "alice",
		"password": "SecureP@ss1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var auth handler.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &auth))
	require.NotEmpty(t, auth.Token)

	w = do(t, r, http.MethodGet, "/api/v1/auth/me", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)

	w = do(t, r, http.MethodPost, "/api/v1/auth/signout", auth.Token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/auth/me", auth.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_SignInWithWrongPassword(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "alice",
		"password": "SecureP@ss1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"username": "alice",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"username": "alice",
		"password": "SecureP@ss1",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Dashboard(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "alice",
		"password": "SecureP@ss1",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var auth handler.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &auth))

	w = do(t, r, http.MethodGet, "/api/v1/dashboard", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var summary handler.SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, "6500.00", summary.TotalBalance)
	assert.Equal(t, "5000.00", summary.MonthlyIncome)
	assert.Equal(t, "100.00", summary.MonthlyExpenses)
	assert.Equal(t, "98.00", summary.SavingsRatePercent)
	assert.Equal(t, "1000.00", summary.PortfolioValue)
	assert.Len(t, summary.Trends, 6)
	assert.Empty(t, summary.Unavailable)
	require.Len(t, summary.Sectors, 2)
	assert.Equal(t, "Accounts", summary.Sectors[0].Sector)
	assert.Equal(t, "Technology", summary.Sectors[1].Sector)

	w = do(t, r, http.MethodGet, "/api/v1/transactions", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var txns []handler.TransactionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &txns))
	assert.Len(t, txns, 2)

	w = do(t, r, http.MethodGet, "/api/v1/dashboard/cash-flow?months=3", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var months []handler.MonthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &months))
	assert.Len(t, months, 3)
}

func TestRouter_ProtectedRoutesNeedToken(t *testing.T) {
	r := newTestRouter(t)

	for _, target := range []string{
		"/api/v1/auth/me",
		"/api/v1/dashboard",
		"/api/v1/dashboard/trends",
		"/api/v1/accounts",
		"/api/v1/investments",
	} {
		w := do(t, r, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, target)
	}
}

func TestRouter_HealthAndNotFound(t *testing.T) {
	r := newTestRouter(t)

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/health/ready", "", nil).Code)

	w := do(t, r, http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}
