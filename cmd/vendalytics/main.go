package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lucasvilela/vendalytics/internal/config"
	"github.com/lucasvilela/vendalytics/internal/handler"
	"github.com/lucasvilela/vendalytics/internal/infra/observability"
	"github.com/lucasvilela/vendalytics/internal/resolver"
	"github.com/lucasvilela/vendalytics/internal/service"
	"github.com/lucasvilela/vendalytics/internal/sheet"
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
		zap.Int64("max_upload_bytes", cfg.MaxUploadBytes),
		zap.String("alias_config_path", cfg.AliasConfigPath),
		zap.Duration("cache_ttl", cfg.CacheTTL),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "vendalytics")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Alias tables ---
	aliases, err := resolver.Load(cfg.AliasConfigPath)
	if err != nil {
		logger.Fatal("failed to load alias tables", zap.Error(err))
	}

	// --- Service ---
	svc := service.NewAnalytics(
		sheet.NewDecoder(),
		sheet.NewEncoder(),
		aliases,
		cfg.CacheTTL,
		metrics,
		logger,
	)

	// --- Router ---
	router := handler.NewRouter(svc, cfg.MaxUploadBytes, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
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
