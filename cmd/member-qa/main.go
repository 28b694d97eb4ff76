// cmd/member-qa/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BalRam15/Assignment-qa-services/internal/common/config"
	"github.com/BalRam15/Assignment-qa-services/internal/common/database"
	"github.com/BalRam15/Assignment-qa-services/internal/common/logger"
	"github.com/BalRam15/Assignment-qa-services/internal/common/messageapi"
	"github.com/BalRam15/Assignment-qa-services/internal/common/observability"
	"github.com/BalRam15/Assignment-qa-services/internal/server"
	answerquestion "github.com/BalRam15/Assignment-qa-services/internal/workers/qa/answer-question"
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
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	zapLog.Info("Starting member QA service...",
		zap.String("version", cfg.App.Version),
		zap.String("messagesURL", cfg.Messages.URL),
	)

	obs := observability.New(cfg.App.Name, nil, log)

	var serverOpts []server.Option
	serverOpts = append(serverOpts, server.WithObservability(obs))

	var clientOpts []messageapi.Option

	// --- Init Redis fetch cache with retry ---
	var redis *database.RedisClient
	if cfg.Cache.Enabled {
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			zapLog.Fatal("redis client init failed", zap.Error(err))
		}
		err = retryWithBackoff(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return redis.Ping(ctx)
		}, 5, time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		zapLog.Info("Redis connected successfully", zap.String("address", cfg.Database.Redis.Address))

		clientOpts = append(clientOpts, messageapi.WithCache(redis))
		serverOpts = append(serverOpts, server.WithReadinessCheck("redis", redis.Ping))
	}

	messages := messageapi.NewClient(messageapi.Config{
		URL:        cfg.Messages.URL,
		Timeout:    config.GetDuration(cfg.Messages.Timeout),
		MaxRetries: cfg.Messages.MaxRetries,
		PageSize:   cfg.Messages.PageSize,
		MaxPages:   cfg.Messages.MaxPages,
		CacheTTL:   config.GetDuration(cfg.Cache.TTL),
	}, log, clientOpts...)

	workerCfg := answerquestion.LoadConfig()
	workerCfg.Timeout = config.GetDuration(cfg.Messages.Timeout)
	workerCfg.Location = cfg.Dates.Location()
	worker := answerquestion.NewHandler(workerCfg, messages, log)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.New(worker, log, serverOpts...).Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down metrics provider", zap.Error(err))
	}
	if redis != nil {
		if err := redis.Close(); err != nil {
			zapLog.Error("Error closing Redis client", zap.Error(err))
		}
	}

	zapLog.Info("Member QA service stopped gracefully")
}
