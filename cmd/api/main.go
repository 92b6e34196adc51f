package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kislikjeka/finsight/internal/analytics"
	"github.com/kislikjeka/finsight/internal/infra/gateway/gemini"
	"github.com/kislikjeka/finsight/internal/infra/postgres"
	infraRedis "github.com/kislikjeka/finsight/internal/infra/redis"
	"github.com/kislikjeka/finsight/internal/module/dashboard"
	"github.com/kislikjeka/finsight/internal/platform/advisor"
	"github.com/kislikjeka/finsight/internal/platform/lead"
	"github.com/kislikjeka/finsight/internal/platform/profile"
	"github.com/kislikjeka/finsight/internal/platform/session"
	"github.com/kislikjeka/finsight/internal/platform/user"
	"github.com/kislikjeka/finsight/internal/transport/httpapi"
	"github.com/kislikjeka/finsight/internal/transport/httpapi/handler"
	"github.com/kislikjeka/finsight/pkg/config"
	"github.com/kislikjeka/finsight/pkg/logger"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewDefault(cfg.Env)
	log.Info("Starting Finsight API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"version", version,
	)

	// Initialize database connection pool
	db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Initialize Redis client for live sessions
	redisClient, err := infraRedis.NewClient(ctx, infraRedis.Config{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info("Redis connection established")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db.Pool)
	profileRepo := postgres.NewProfileRepository(db.Pool)
	leadRepo := postgres.NewLeadRepository(db.Pool)
	accountRepo := postgres.NewAccountRepository(db.Pool)
	transactionRepo := postgres.NewTransactionRepository(db.Pool)
	investmentRepo := postgres.NewInvestmentRepository(db.Pool)

	// Initialize services
	userSvc := user.NewService(userRepo, log)
	sessionMgr := session.NewManager(cfg.JWTSecret, cfg.SessionTTL, infraRedis.NewSessionStore(redisClient, log))
	profileSvc := profile.NewService(profileRepo)
	leadSvc := lead.NewService(leadRepo, log)
	dashboardSvc := dashboard.NewService(accountRepo, transactionRepo, investmentRepo, profileRepo, dashboard.Config{
		Locale:        cfg.DashboardLocale,
		Months:        analytics.DefaultMonths,
		TopCategories: analytics.DefaultTopCategories,
		TopSectors:    analytics.DefaultTopSectors,
	}, log)

	// Initialize the AI advisor (if a Gemini API key is configured)
	var model advisor.Model
	if cfg.AdvisorEnabled() {
		geminiClient, err := gemini.NewClient(ctx, gemini.Config{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		}, log)
		if err != nil {
			log.Error("Failed to create Gemini client", "error", err)
			os.Exit(1)
		}
		model = geminiClient
		log.Info("AI advisor enabled", "model", cfg.GeminiModel)
	} else {
		log.Warn("GEMINI_API_KEY not configured, AI advisor disabled")
	}
	advisorSvc := advisor.NewService(model, dashboardSvc, log)

	// Initialize HTTP handlers
	healthHandler := handler.NewHealthHandler(map[string]handler.Pinger{
		"database": db,
		"redis": handler.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}),
	}, version)

	r := httpapi.NewRouter(httpapi.Config{
		Logger:           log,
		AllowedOrigins:   cfg.AllowedOrigins,
		RateLimitRPS:     cfg.RateLimitRPS,
		RateLimitBurst:   cfg.RateLimitBurst,
		TrustedProxies:   cfg.TrustedProxyPrefixes(),
		AuthHandler:      handler.NewAuthHandler(userSvc, sessionMgr, log),
		DashboardHandler: handler.NewDashboardHandler(dashboardSvc, time.Now, log),
		ProfileHandler:   handler.NewProfileHandler(profileSvc, log),
		LeadHandler:      handler.NewLeadHandler(leadSvc, log),
		ChatHandler:      handler.NewChatHandler(advisorSvc, log),
		HealthHandler:    healthHandler,
		SessionResolver:  sessionMgr,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
