package httpapi

import (
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kislikjeka/finsight/internal/transport/httpapi/handler"
	"github.com/kislikjeka/finsight/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/finsight/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger           *logger.Logger
	AllowedOrigins   []string
	RateLimitRPS     float64
	RateLimitBurst   int
	TrustedProxies   []netip.Prefix
	AuthHandler      *handler.AuthHandler
	DashboardHandler *handler.DashboardHandler
	ProfileHandler   *handler.ProfileHandler
	LeadHandler      *handler.LeadHandler
	ChatHandler      *handler.ChatHandler
	HealthHandler    *handler.HealthHandler
	SessionResolver  middleware.SessionResolver
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustedProxies...))
	}

	// Health check endpoints (no authentication required)
	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.GetHealth)
		r.Get("/health/live", cfg.HealthHandler.GetLiveness)
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		if cfg.AuthHandler != nil {
			r.Post("/auth/signup", cfg.AuthHandler.SignUp)
			r.Post("/auth/signin", cfg.AuthHandler.SignIn)
		}
		if cfg.LeadHandler != nil {
			r.Post("/leads", cfg.LeadHandler.Submit)
		}

		if cfg.SessionResolver == nil {
			return
		}

		// Protected routes (require a live session)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(cfg.SessionResolver, cfg.Logger))

			if cfg.AuthHandler != nil {
				r.Post("/auth/signout", cfg.AuthHandler.SignOut)
				r.Get("/auth/me", cfg.AuthHandler.Me)
			}

			if cfg.DashboardHandler != nil {
				r.Route("/dashboard", func(r chi.Router) {
					r.Get("/", cfg.DashboardHandler.GetSummary)
					r.Get("/cash-flow", cfg.DashboardHandler.GetCashFlow)
					r.Get("/trends", cfg.DashboardHandler.GetTrends)
					r.Get("/categories", cfg.DashboardHandler.GetCategories)
					r.Get("/sectors", cfg.DashboardHandler.GetSectors)
				})
				r.Get("/accounts", cfg.DashboardHandler.ListAccounts)
				r.Get("/transactions", cfg.DashboardHandler.ListTransactions)
				r.Get("/investments", cfg.DashboardHandler.ListInvestments)
			}

			if cfg.ProfileHandler != nil {
				r.Get("/profile", cfg.ProfileHandler.GetProfile)
				r.Patch("/profile", cfg.ProfileHandler.UpdateProfile)
			}

			if cfg.ChatHandler != nil {
				r.Post("/chat", cfg.ChatHandler.Stream)
			}
		})
	})

	// Unmatched routes get the same JSON error shape as everything else
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})

	return r
}
