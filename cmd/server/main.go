// cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"brandpulse/internal/api"
	avgapi "brandpulse/internal/api/averages"
	resapi "brandpulse/internal/api/results"
	whapi "brandpulse/internal/api/webhook"
	"brandpulse/internal/average"
	"brandpulse/internal/cache"
	"brandpulse/internal/common/config"
	"brandpulse/internal/common/database"
	"brandpulse/internal/common/logger"
	"brandpulse/internal/common/observability"
	"brandpulse/internal/ingest"
	"brandpulse/internal/notion"
	"brandpulse/internal/resolver"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting result resolution server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Init Result Cache ---
	ttl := time.Duration(cfg.Cache.TTL) * time.Second
	var store cache.Store

	switch cfg.Cache.Backend {
	case "redis":
		var rdb *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Redis)
			if err != nil {
				return err
			}
			// Test the connection with context
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		zapLog.Info("Redis connected successfully")

		store = cache.NewRedisStore(rdb.Client, ttl, log)
	default:
		store = cache.NewMemoryStore(ttl, log)
	}
	zapLog.Info("Result cache initialized",
		zap.String("backend", cfg.Cache.Backend),
		zap.Duration("ttl", ttl),
	)

	// --- Background Sweep ---
	sweepInterval := time.Duration(cfg.Cache.SweepInterval) * time.Second
	go runSweeper(ctx, store, sweepInterval, log)

	// --- Upstream Record Store Client ---
	notionClient := notion.NewClient(cfg.Notion, log)
	zapLog.Info("Record store client initialized")

	// --- Core Components ---
	ingestor := ingest.NewIngestor(store, log)

	res := resolver.New(store, notionClient, &resolver.Config{
		MaxAttempts:     cfg.Resolver.MaxAttempts,
		RetryDelay:      time.Duration(cfg.Resolver.RetryDelay) * time.Millisecond,
		UpstreamTimeout: time.Duration(cfg.Resolver.UpstreamTimeout) * time.Millisecond,
	}, log)

	averager := average.New(notionClient, log)

	// --- HTTP Routes ---
	mux := http.NewServeMux()
	mux.Handle("/api/tally-webhook",
		api.Instrument("tally-webhook", log, obs, whapi.NewHandler(ingestor, log)))
	mux.Handle("/api/get-results",
		api.Instrument("get-results", log, obs, resapi.NewHandler(res, store, log)))
	mux.Handle("/api/notion-averages",
		api.Instrument("notion-averages", log, obs, avgapi.NewHandler(averager, log)))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Server stopped gracefully")
}

// runSweeper clears expired cache entries on a fixed interval until ctx is
// cancelled.
func runSweeper(ctx context.Context, store cache.Store, interval time.Duration, log logger.Logger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := store.Sweep(ctx); err != nil {
				log.WithError(err).Warn("cache sweep failed", nil)
			}
		case <-ctx.Done():
			return
		}
	}
}
