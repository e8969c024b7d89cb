package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/drawlytics/powerball-edge/internal/api"
	"github.com/drawlytics/powerball-edge/internal/config"
	"github.com/drawlytics/powerball-edge/internal/database"
	"github.com/drawlytics/powerball-edge/internal/logging"
	"github.com/drawlytics/powerball-edge/internal/middleware"
	"github.com/drawlytics/powerball-edge/internal/services"
	"github.com/drawlytics/powerball-edge/internal/telemetry"
	"github.com/drawlytics/powerball-edge/pkg/lottofeed"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "seed" {
		runSeed(os.Args[2:])
		return
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.Environment)

	// Initialize telemetry
	ctx := context.Background()
	tracing, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Environment: cfg.Environment,
	})
	if err != nil {
		logger.WithError(err).Warn("Telemetry initialization failed, continuing without tracing")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("Telemetry shutdown failed")
		}
	}()

	// Structured log export; with telemetry disabled the bridge degrades to
	// JSON on stdout.
	otlpLogger, err := logging.NewOTLPLogger(logging.OTLPConfig{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		Environment:    cfg.Environment,
		LogLevel:       cfg.Telemetry.LogLevel,
	})
	if err != nil {
		logger.WithError(err).Warn("OTLP log export unavailable, continuing with local logging")
	} else {
		slog.SetDefault(otlpLogger.Logger())
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otlpLogger.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Warn("OTLP logger shutdown failed")
			}
		}()
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	repo := database.NewDrawRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to provision schema")
	}

	// Initialize Redis; sync metadata is optional, so a failure only warns.
	var redis *database.RedisClient
	if redisClient, err := database.NewRedisConnection(cfg.Redis); err != nil {
		logger.WithError(err).Warn("Redis unavailable, sync metadata disabled")
	} else {
		redis = redisClient
		defer redis.Close()
	}

	// Background drawing collector
	feedClient := lottofeed.NewClient(cfg.Feed.BaseURL, time.Duration(cfg.Feed.Timeout)*time.Second)
	collector := services.NewCollectorService(feedClient, repo, redis, cfg.Feed, logger)
	if err := collector.Start(); err != nil {
		logger.WithError(err).Fatal("Failed to start collector service")
	}
	defer collector.Stop()

	// Analysis pipeline; request handling reseeds nothing, each server run
	// gets its own random stream.
	analyzer := services.NewAnalyzer(cfg.Analysis, services.NewResampler(time.Now().UnixNano()), logger)
	predictor := services.NewPredictor(analyzer, time.Now().UnixNano(), logger)
	notifier := services.NewNotifierService(cfg.Telegram, logger)

	// Setup Gin router
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(telemetry.ServiceName))
	router.Use(middleware.TelemetryMiddleware())

	api.SetupRoutes(router, api.Dependencies{
		DB:        db,
		Redis:     redis,
		Repo:      repo,
		Analyzer:  analyzer,
		Predictor: predictor,
		Collector: collector,
		Notifier:  notifier,
		Config:    cfg,
		Logger:    logger,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
