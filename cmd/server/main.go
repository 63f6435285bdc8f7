package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/cache"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/config"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/events"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/handlers"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/services"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/utils"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/validator"
	"github.com/SAP-F-2025/quiz-evaluation-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.Environment, os.Stdout)
	slogLogger := utils.ToSlogLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "Failed to connect to database")
		os.Exit(1)
	}
	if err := pkg.Migrate(db); err != nil {
		logger.LogError(err, "Failed to migrate database")
		os.Exit(1)
	}

	cacheService := newCache(ctx, cfg, logger)

	publisher, err := cfg.Events.CreateEventPublisher(slogLogger)
	if err != nil {
		logger.LogError(err, "Failed to create event publisher, falling back to mock")
		publisher = events.NewMockEventPublisher(slogLogger)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.LogError(err, "Failed to close event publisher")
		}
	}()

	serviceManager := services.NewServiceManager(services.ManagerConfig{
		Repository: postgres.NewRepository(db),
		Cache:      cacheService,
		CacheTTL:   cfg.CacheTTL,
		Publisher:  publisher,
		Logger:     slogLogger,
		Validator:  validator.New(),
	})

	var auth gin.HandlerFunc
	if cfg.Auth.Enabled() {
		auth = handlers.AuthMiddleware(handlers.NewCasdoorAuthenticator(cfg.Auth), logger)
	} else {
		logger.Warn("Authentication disabled, CASDOOR_ENDPOINT is not set")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	handlers.NewHandlerManager(serviceManager, logger, auth).SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "HTTP server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.LogError(err, "Graceful shutdown failed")
	}
}

// newCache degrades to a no-op cache when redis is disabled or unreachable.
func newCache(ctx context.Context, cfg *config.Config, logger utils.Logger) cache.CacheService {
	if !cfg.CacheEnabled {
		return cache.NewNoopCache()
	}

	client, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, caching disabled", "error", err)
		return cache.NewNoopCache()
	}

	zapLogger, err := newZapLogger(cfg.Environment)
	if err != nil {
		zapLogger = zap.NewNop()
	}
	return cache.NewRedisCache(client, zapLogger)
}

func newZapLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
