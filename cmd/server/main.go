// Package main is the entry point for the fila HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gestorvip/fila/internal/config"
	"github.com/gestorvip/fila/internal/handler"
	"github.com/gestorvip/fila/internal/infrastructure/migrate"
	"github.com/gestorvip/fila/internal/middleware"
	"github.com/gestorvip/fila/internal/queue"
	"github.com/gestorvip/fila/internal/repository"
	"github.com/gestorvip/fila/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	repo, cleanup, err := buildRepository(cfg, redisClient, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage backend", zap.Error(err))
	}
	defer cleanup()

	store, err := queue.Load(ctx, repo.Clients(), queue.Options{
		MinPhoneDigits:      cfg.Queue.MinPhoneDigits,
		RequireIboForDelete: cfg.Queue.RequireIboForDelete,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to load client queue", zap.Error(err))
	}

	svc := service.NewService(cfg, store, repo, redisClient, logger)

	router := setupRouter(handler.NewHandler(svc, logger))

	middlewareConfig := &middleware.Config{
		Logger: logger,
		CORS: &middleware.CORSConfig{
			AllowedOrigins:   cfg.Middleware.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           86400,
		},
		RateLimit:      rate.Limit(cfg.Middleware.RateLimit),
		RateLimitBurst: cfg.Middleware.RateLimitBurst,
		RequestTimeout: 30 * time.Second,
	}

	finalHandler := middleware.Chain(middlewareConfig)(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      finalHandler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// The overdue sweep starts with the server; operators can pause it via
	// the scheduler endpoints.
	if err := svc.Scheduler.Start(); err != nil {
		logger.Error("Failed to start scheduler on startup", zap.Error(err))
	} else {
		logger.Info("Overdue sweep scheduler started")
	}

	go func() {
		logger.Info("Starting server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if svc.Scheduler.IsRunning() {
		if err := svc.Scheduler.Stop(); err != nil {
			logger.Error("Failed to stop scheduler", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// buildRepository selects the storage backend. Redis stores the queue as a
// single JSON blob; postgres runs its migrations before use.
func buildRepository(cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) (repository.Repository, func(), error) {
	switch cfg.Storage.Backend {
	case "postgres":
		runner := migrate.NewRunner(&migrate.Config{
			DatabaseURL:    cfg.Database.GetURL(),
			MigrationsPath: "./migrations",
		})
		if err := runner.Run(); err != nil {
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		cleanup := func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close database connection", zap.Error(err))
			}
		}
		return repository.NewPostgresRepository(db, cfg.Storage.SettingsKey), cleanup, nil

	default:
		return repository.NewRedisRepository(redisClient, cfg.Storage.DataKey, cfg.Storage.SettingsKey), func() {}, nil
	}
}
