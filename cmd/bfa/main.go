package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/araguaina/iptu-portal-bfa/internal/config"
	"github.com/araguaina/iptu-portal-bfa/internal/domain"
	"github.com/araguaina/iptu-portal-bfa/internal/handler"
	"github.com/araguaina/iptu-portal-bfa/internal/infra/cache"
	"github.com/araguaina/iptu-portal-bfa/internal/infra/observability"
	"github.com/araguaina/iptu-portal-bfa/internal/infra/resilience"
	"github.com/araguaina/iptu-portal-bfa/internal/infra/sig"
	"github.com/araguaina/iptu-portal-bfa/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("environment", cfg.Environment),
		zap.String("upstream_base_url", cfg.Upstream.BaseURL),
		zap.Bool("static_token", cfg.Upstream.StaticToken != ""),
		zap.Duration("upstream_timeout", cfg.Upstream.Timeout),
		zap.Duration("token_ttl", cfg.Upstream.TokenTTL),
		zap.Int("page_size", cfg.Upstream.PageSize),
		zap.Int("max_pages", cfg.Upstream.MaxPages),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
		zap.Int("fanout_concurrency", cfg.FanoutConcurrency),
	)
	if cfg.Upstream.StaticToken == "" && (cfg.Upstream.User == "" || cfg.Upstream.Password == "") {
		logger.Warn("PRODATA_USER/PRODATA_PASSWORD not set: upstream calls will fail until configured")
	}

	// --- Error reporting ---
	if err := observability.InitSentry(cfg.SentryDSN, cfg.Environment); err != nil {
		logger.Warn("failed to init sentry", zap.Error(err))
	}
	defer observability.FlushSentry()

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "iptu-portal-bfa")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- SIG Integração client ---
	httpClient := &http.Client{}
	tokens := sig.NewTokenSource(httpClient, sig.Credentials{
		BaseURL:     cfg.Upstream.BaseURL,
		AuthPath:    cfg.Upstream.AuthPath,
		User:        cfg.Upstream.User,
		Password:    cfg.Upstream.Password,
		StaticToken: cfg.Upstream.StaticToken,
		DefaultTTL:  cfg.Upstream.TokenTTL,
		Timeout:     cfg.Upstream.Timeout,
	}, cache.New[domain.AuthToken](), metrics, logger)

	cb := resilience.NewCircuitBreaker("sig-integracao", func(err error) bool { return !sig.CountsAsFailure(err) })
	bulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)

	sigClient := sig.NewClient(httpClient, cfg.Upstream.BaseURL, cfg.Upstream.Timeout, tokens, cb, bulkhead, metrics, logger)

	// --- Services ---
	propertySvc := service.NewPropertyService(
		sigClient,
		cfg.Upstream.Endpoints,
		service.PropertyOptions{
			PageSize: cfg.Upstream.PageSize,
			MaxPages: cfg.Upstream.MaxPages,
			Fanout:   cfg.FanoutConcurrency,
		},
		metrics,
		logger,
	)
	billingSvc := service.NewBillingService(sigClient, propertySvc, cfg.Upstream.Endpoints, cfg.MaxParcelas, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(propertySvc, billingSvc, metrics, cfg.CORSOrigins, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
