package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/zenith/config"
	"github.com/d60-Lab/zenith/internal/api"
	"github.com/d60-Lab/zenith/internal/api/handler"
	"github.com/d60-Lab/zenith/internal/api/middleware"
	"github.com/d60-Lab/zenith/internal/repository"
	"github.com/d60-Lab/zenith/internal/service"
	"github.com/d60-Lab/zenith/pkg/logger"
	"github.com/d60-Lab/zenith/pkg/tracing"
)

// @title ZENITH API
// @version 1.0
// @description Blog post and product store over a document or relational backend.
// @host localhost:3000
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer logger.Sync()
	gin.SetMode(cfg.Server.Mode)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, cfg.Sentry.Environment)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
		shutdownTracing = func(context.Context) error { return nil }
	}

	openCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	store, err := repository.Open(openCtx, cfg)
	cancel()
	if err != nil {
		logger.Fatal("failed to connect storage", zap.Error(err))
	}
	logger.Info("storage connected", zap.String("driver", string(store.Driver)))

	h := handler.NewHandler(
		service.NewPostService(store.Posts),
		service.NewProductService(store.Products),
		cfg.Server.StaticDir,
		store.Ping,
	)

	var limiter middleware.Limiter
	var rdb *redis.Client
	if cfg.RateLimit.Enabled {
		if cfg.Redis.Addr != "" {
			rdb = redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
		}
		limiter = middleware.NewLimiter(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.SetupRouter(cfg, h, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	stopCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(stopCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := store.Close(stopCtx); err != nil {
		logger.Error("storage close", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := shutdownTracing(stopCtx); err != nil {
		logger.Error("tracing shutdown", zap.Error(err))
	}
}
