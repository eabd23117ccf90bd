package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bgeheroes/risk-backend/internal/cache"
	"github.com/bgeheroes/risk-backend/internal/db"
	"github.com/bgeheroes/risk-backend/internal/handlers"
	"github.com/bgeheroes/risk-backend/internal/logger"
	"github.com/bgeheroes/risk-backend/internal/middleware"
	"github.com/bgeheroes/risk-backend/internal/observability"
	"github.com/bgeheroes/risk-backend/internal/repos"
	"github.com/bgeheroes/risk-backend/internal/riskconfig"
	"github.com/bgeheroes/risk-backend/internal/server"
	"github.com/bgeheroes/risk-backend/internal/services"
	"github.com/bgeheroes/risk-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdownOtel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "risk-backend",
		Environment: utils.GetEnv("DEPLOY_ENV", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
	})
	if shutdownOtel != nil {
		defer func() { _ = shutdownOtel(context.Background()) }()
	}

	// Risk model config
	log.Info("Loading risk model configuration...")
	cfg, err := riskconfig.Load()
	if err != nil {
		log.Error("Could not load risk configuration", "error", err)
		os.Exit(1)
	}

	// Database
	dbService, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Error("Database auto migration failed", "error", err)
		os.Exit(1)
	}
	theDB := dbService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	assessmentRepo := repos.NewAssessmentRepo(theDB, log)
	alertRepo := repos.NewAlertRepo(theDB, log)
	interventionRepo := repos.NewInterventionRepo(theDB, log)

	// Assessment cache
	var assessmentCache cache.AssessmentCache
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		redisCache, err := cache.NewRedisCache(log)
		if err != nil {
			log.Error("Could not init redis assessment cache", "error", err)
			os.Exit(1)
		}
		defer redisCache.Close()
		assessmentCache = redisCache
		log.Info("Using redis assessment cache")
	} else {
		assessmentCache = cache.NewMemoryCache()
		log.Info("Using in-process assessment cache")
	}

	// Metrics
	metrics := observability.NewMetrics()

	// Services
	log.Info("Setting up services from main...")
	alertService := services.NewAlertService(theDB, log, cfg, alertRepo, metrics)
	riskService := services.NewRiskService(theDB, log, cfg, assessmentCache, assessmentRepo, interventionRepo, alertService, metrics)
	interventionService := services.NewInterventionService(theDB, log, interventionRepo, assessmentCache, metrics)
	dashboardService := services.NewDashboardService(theDB, log, cfg, assessmentRepo, alertRepo, interventionRepo)
	reportService := services.NewReportService(theDB, log, cfg, assessmentRepo, alertRepo, interventionRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	riskHandler := handlers.NewRiskHandler(log, riskService)
	alertHandler := handlers.NewAlertHandler(alertService)
	interventionHandler := handlers.NewInterventionHandler(interventionService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	reportHandler := handlers.NewReportHandler(reportService)
	configHandler := handlers.NewConfigHandler(cfg)
	healthHandler := handlers.NewHealthHandler(assessmentRepo, alertRepo, interventionRepo)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, utils.GetEnv("RISK_API_JWT_SECRET", "", nil))
	if authMiddleware.Enabled() {
		log.Info("API token auth enabled")
	} else {
		log.Warn("RISK_API_JWT_SECRET not set, API runs without auth")
	}

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:      authMiddleware,
		RiskHandler:         riskHandler,
		AlertHandler:        alertHandler,
		InterventionHandler: interventionHandler,
		DashboardHandler:    dashboardHandler,
		ReportHandler:       reportHandler,
		ConfigHandler:       configHandler,
		HealthHandler:       healthHandler,
		Metrics:             metrics,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
