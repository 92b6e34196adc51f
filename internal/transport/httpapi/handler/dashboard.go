package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kislikjeka/finsight/internal/module/dashboard"
	"github.com/kislikjeka/finsight/internal/platform/finance"
	"github.com/kislikjeka/finsight/internal/platform/session"
	"github.com/kislikjeka/finsight/pkg/logger"
)

const (
	maxMonths = 36
	maxTop    = 20
)

// Clock returns the current time
type Clock func() time.Time

// DashboardService defines the dashboard operations needed by DashboardHandler
type DashboardService interface {
	GetSummary(ctx context.Context, sess session.Session, now time.Time) (*dashboard.Summary, error)
	GetCashFlow(ctx context.Context, sess session.Session, now time.Time, months int) ([]finance.MonthBucket, error)
	GetTrends(ctx context.Context, sess session.Session, now time.Time, months int) ([]finance.MonthBucket, error)
	GetCategoryBreakdown(ctx context.Context, sess session.Session, topK int) ([]finance.CategoryTotal, error)
	GetSectorBreakdown(ctx context.Context, sess session.Session, topK int) ([]finance.SectorTotal, error)
	ListAccounts(ctx context.Context, sess session.Session) ([]finance.Account, error)
	ListTransactions(ctx context.Context, sess session.Session) ([]finance.Transaction, error)
	ListInvestments(ctx context.Context, sess session.Session) ([]finance.Investment, error)
}

// DashboardHandler serves the dashboard panels and the raw record lists
type DashboardHandler struct {
	svc    DashboardService
	now    Clock
	logger *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler. A nil clock uses time.Now.
func NewDashboardHandler(svc DashboardService, now Clock, log *logger.Logger) *DashboardHandler {
	if now == nil {
		now = time.Now
	}
	return &DashboardHandler{
		svc:    svc,
		now:    now,
		logger: log.WithComponent("dashboard_handler"),
	}
}

// GetSummary handles GET /dashboard
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	summary, err := h.svc.GetSummary(r.Context(), sess, h.now())
	if err != nil {
		h.respondFetchError(w, r, err)
		return
	}

	respondJSON(w, toSummaryResponse(summary), http.StatusOK)
}

// GetCashFlow handles GET /dashboard/cash-flow?months=
func (h *DashboardHandler) GetCashFlow(w http.ResponseWriter, r *http.Request) {
	h.serveSeries(w, r, h.svc.GetCashFlow)
}

// GetTrends handles GET /dashboard/trends?months=
func (h *DashboardHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	h.serveSeries(w, r, h.svc.GetTrends)
}

type seriesFunc func(ctx context.Context, sess session.Session, now time.Time, months int) ([]finance.MonthBucket, error)

func (h *DashboardHandler) serveSeries(w http.ResponseWriter, r *http.Request, series seriesFunc) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	months, err := intQuery(r, "months", 1, maxMonths)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	buckets, err := series(r.Context(), sess, h.now(), months)
	if err != nil {
		h.respondFetchError(w, r, err)
		return
	}

	respondJSON(w, toMonthResponses(buckets), http.StatusOK)
}

// GetCategories handles GET /dashboard/categories?top=
func (h *DashboardHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	top, err := intQuery(r, "top", 1, maxTop)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	totals, err := h.svc.GetCategoryBreakdown(r.Context(), sess, top)
	if err != nil {
		h.respondFetchError(w, r, err)
		return
	}

	respondJSON(w, toCategoryResponses(totals), http.StatusOK)
}

// GetSectors handles GET /dashboard/sectors?top=
func (h *DashboardHandler) GetSectors(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	top, err := intQuery(r, "top", 1, maxTop)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	totals, err := h.svc.GetSectorBreakdown(r.Context(), sess, top)
	if err != nil {
		h.respondFetchError(w, r, err)
		return
	}

	respondJSON(w, toSectorResponses(totals), http.StatusOK)
}

// ListAccounts handles GET /accounts
func (h *DashboardHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	accounts, err := h.svc.ListAccounts(r.Context(), sess)
	if err != nil {
		h.respondFetchError(w, r, err)
		return
	}

	respondJSON(w, toAccountResponses(accounts), http.StatusOK)
}

// ListTransactions handles GET /transactions
func (h *DashboardHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	txns, err := h.svc.ListTransactions(r.Context(), sess)
	if err != nil {
		h.respondFetchError(w, r, err)
		return
	}

	respondJSON(w, toTransactionResponses(txns), http.StatusOK)
}

// ListInvestments handles GET /investments
func (h *DashboardHandler) ListInvestments(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	investments, err := h.svc.ListInvestments(r.Context(), sess)
	if err != nil {
		h.respondFetchError(w, r, err)
		return
	}

	respondJSON(w, toInvestmentResponses(investments), http.StatusOK)
}

func (h *DashboardHandler) respondFetchError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *dashboard.FetchError
	if errors.As(err, &fe) {
		h.logger.WithContext(r.Context()).Warn("record store unavailable", "resource", string(fe.Resource), "error", fe.Err)
		respondError(w, string(fe.Resource)+" are temporarily unavailable", http.StatusServiceUnavailable)
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		respondError(w, "request cancelled", http.StatusServiceUnavailable)
		return
	}
	h.logger.WithContext(r.Context()).Error("dashboard request failed", "error", err)
	respondError(w, "internal server error", http.StatusInternalServerError)
}
