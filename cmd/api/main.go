package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/docassist/platform/internal/admin"
	"github.com/docassist/platform/internal/api/router"
	"github.com/docassist/platform/internal/appointments"
	"github.com/docassist/platform/internal/booking"
	"github.com/docassist/platform/internal/chatbot"
	appconfig "github.com/docassist/platform/internal/config"
	"github.com/docassist/platform/internal/doctors"
	"github.com/docassist/platform/internal/observability/metrics"
	"github.com/docassist/platform/internal/reconcile"
	"github.com/docassist/platform/internal/upstream"
	"github.com/docassist/platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting docassist patient gateway",
		"env", cfg.Env,
		"port", cfg.Port,
		"upstream", cfg.UpstreamBaseURL,
	)

	gatewayMetrics := metrics.NewGatewayMetrics(nil)
	client := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, logger.Named("upstream"))

	// Redis is optional; without it the doctor catalog reads through.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unreachable, doctor cache disabled", "error", err)
			rdb = nil
		}
	}

	// Postgres is optional; without it verification outcomes are not
	// kept for support lookups.
	var audit *reconcile.AuditStore
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Warn("postgres unreachable, verification audit disabled", "error", err)
		} else {
			audit = reconcile.NewAuditStore(pool)
			defer pool.Close()
		}
	}

	var llm chatbot.LLMClient
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := chatbot.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Warn("gemini unavailable, chatbot runs rule-based only", "error", err)
		} else {
			llm = geminiClient
		}
	}

	catalog := doctors.NewCatalog(client, rdb, cfg.DoctorCacheTTL, logger.Named("doctors"))
	reconciler := reconcile.NewReconciler(client, audit, logger.Named("reconcile"))
	chatService := chatbot.NewService(catalog, client, llm, logger.Named("chatbot"))

	routerCfg := &router.Config{
		Logger:              logger,
		BookingHandler:      booking.NewHandler(client, gatewayMetrics, logger.Named("booking")),
		AppointmentsHandler: appointments.NewHandler(client, gatewayMetrics, logger.Named("appointments")),
		ReconcileHandler:    reconcile.NewHandler(reconciler, gatewayMetrics, logger.Named("reconcile")),
		DoctorsHandler:      doctors.NewHandler(catalog, logger.Named("doctors")),
		ChatbotHandler:      chatbot.NewHandler(chatService, logger.Named("chatbot")),
		AdminHandler:        admin.NewHandler(client, catalog, logger.Named("admin")),
		MetricsHandler:      promhttp.Handler(),
		JWTSecret:           cfg.JWTSecret,
		AdminAuthSecret:     cfg.AdminJWTSecret,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
