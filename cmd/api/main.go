package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/scancerlabs/scancer-platform/internal/api/router"
	"github.com/scancerlabs/scancer-platform/internal/auth"
	"github.com/scancerlabs/scancer-platform/internal/chatbot"
	appconfig "github.com/scancerlabs/scancer-platform/internal/config"
	"github.com/scancerlabs/scancer-platform/internal/diagnosis"
	"github.com/scancerlabs/scancer-platform/internal/llm"
	"github.com/scancerlabs/scancer-platform/internal/observability/metrics"
	"github.com/scancerlabs/scancer-platform/internal/records"
	"github.com/scancerlabs/scancer-platform/internal/reservations"
	"github.com/scancerlabs/scancer-platform/internal/schedules"
	"github.com/scancerlabs/scancer-platform/internal/session"
	"github.com/scancerlabs/scancer-platform/internal/users"
	"github.com/scancerlabs/scancer-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting scancer-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenLifetime)

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	resolver := session.NewResolver(
		session.NewRedisStore(rdb, cfg.HistoryTTL),
		session.NewMemoryStore(),
		logger,
	)

	model := buildModelChain(ctx, cfg, logger)

	var reservationSvc reservations.Service
	switch cfg.ReservationBackend {
	case "rest":
		reservationSvc = reservations.NewRESTClient(cfg.ReservationAPIURL, issuer, nil)
		logger.Info("using REST reservation backend", "url", cfg.ReservationAPIURL)
	default:
		reservationSvc = reservations.NewPostgresStore(pool)
		logger.Info("using embedded Postgres reservation backend")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	chatMetrics := metrics.NewChatMetrics(registry)

	userRepo := users.NewRepository(pool)
	scheduleRepo := schedules.NewRepository(pool)
	recordRepo := records.NewRepository(pool)
	enricher := users.NewEnricher(userRepo, scheduleRepo)

	chatSvc := chatbot.NewService(resolver, reservationSvc, model, enricher, chatMetrics, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		Issuer:             issuer,
		ChatHandler:        chatbot.NewHandler(chatSvc, logger),
		AuthHandler:        users.NewAuthHandler(userRepo, issuer, logger),
		ProfileHandler:     users.NewHandler(userRepo, logger),
		ScheduleHandler:    schedules.NewHandler(scheduleRepo, logger),
		RecordHandler:      records.NewHandler(recordRepo, logger),
		DiagnosisHandler:   diagnosis.NewHandler(diagnosis.NewAnalyzer(model), recordRepo, cfg.UploadDir, cfg.MaxUploadSizeBytes, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildModelChain assembles the Gemini-primary, Bedrock-fallback chain.
// Either client alone is used directly when only one is configured.
func buildModelChain(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) llm.Client {
	var gemini llm.Client
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to create Gemini client", "error", err)
			os.Exit(1)
		}
		gemini = client
	}

	var bedrock llm.Client
	if cfg.AWSRegion != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		bedrock = llm.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID)
	}

	switch {
	case gemini != nil && bedrock != nil:
		logger.Info("model chain ready", "primary", "gemini", "fallback", "bedrock")
		return llm.NewFallbackClient(gemini, bedrock, logger)
	case gemini != nil:
		logger.Info("model chain ready", "primary", "gemini")
		return gemini
	case bedrock != nil:
		logger.Info("model chain ready", "primary", "bedrock")
		return bedrock
	default:
		logger.Error("no model configured: set GEMINI_API_KEY or AWS_REGION")
		os.Exit(1)
		return nil
	}
}
