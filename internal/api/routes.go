package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/drawlytics/powerball-edge/internal/api/handlers"
	"github.com/drawlytics/powerball-edge/internal/config"
	"github.com/drawlytics/powerball-edge/internal/database"
	"github.com/drawlytics/powerball-edge/internal/middleware"
	"github.com/drawlytics/powerball-edge/internal/services"
)

// Dependencies carries everything the route handlers need.
type Dependencies struct {
	DB        *database.PostgresDB
	Redis     *database.RedisClient
	Repo      handlers.DrawProvider
	Analyzer  *services.Analyzer
	Predictor *services.Predictor
	Collector *services.CollectorService
	Notifier  *services.NotifierService
	Config    *config.Config
	Logger    *logrus.Logger
}

// SetupRoutes registers all HTTP endpoints on the router.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	authMiddleware := middleware.NewAuthMiddleware(deps.Config.Auth.JWTSecret)
	adminMiddleware := middleware.NewAdminMiddleware(deps.Config.Auth.AdminKeyHash, authMiddleware)

	tokenTTL, err := time.ParseDuration(deps.Config.Auth.TokenTTL)
	if err != nil || tokenTTL <= 0 {
		tokenTTL = time.Hour
	}

	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Redis)

	var syncInfo handlers.SyncInfoProvider
	if deps.Collector != nil {
		syncInfo = deps.Collector
	}
	drawingsHandler := handlers.NewDrawingsHandler(deps.Repo, syncInfo, deps.Logger)
	analysisHandler := handlers.NewAnalysisHandler(deps.Repo, deps.Analyzer, deps.Logger)
	predictionsHandler := handlers.NewPredictionsHandler(deps.Repo, deps.Predictor, deps.Notifier, deps.Logger)
	authHandler := handlers.NewAuthHandler(authMiddleware, adminMiddleware, tokenTTL, deps.Logger)
	adminHandler := handlers.NewAdminHandler(deps.Collector, deps.Logger)

	// Health probes
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/status", drawingsHandler.GetStatus)
		v1.GET("/drawings", drawingsHandler.GetDrawings)
		v1.GET("/analysis", analysisHandler.GetAnalysis)
		v1.POST("/predictions", predictionsHandler.GeneratePredictions)

		auth := v1.Group("/auth")
		{
			auth.POST("/token", authHandler.IssueToken)
		}

		admin := v1.Group("/admin")
		admin.Use(adminMiddleware.RequireAdminAuth())
		{
			admin.POST("/sync", adminHandler.TriggerSync)
		}
	}
}
