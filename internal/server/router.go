package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/bgeheroes/risk-backend/internal/handlers"
	"github.com/bgeheroes/risk-backend/internal/middleware"
	"github.com/bgeheroes/risk-backend/internal/observability"
)

type RouterConfig struct {
	AuthMiddleware      *middleware.AuthMiddleware
	RiskHandler         *handlers.RiskHandler
	AlertHandler        *handlers.AlertHandler
	InterventionHandler *handlers.InterventionHandler
	DashboardHandler    *handlers.DashboardHandler
	ReportHandler       *handlers.ReportHandler
	ConfigHandler       *handlers.ConfigHandler
	HealthHandler       *handlers.HealthHandler
	Metrics             *observability.Metrics
	AllowOrigins        []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("risk-backend"))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"https://heroesdelapatria.edu.mx",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// ===============
	// || API       ||
	// ===============
	api := router.Group("/api/risk")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		api.POST("/analyze", cfg.RiskHandler.Analyze)
		api.POST("/analyze-batch", cfg.RiskHandler.AnalyzeBatch)
		api.POST("/predict", cfg.RiskHandler.Predict)

		api.GET("/alerts", cfg.AlertHandler.List)

		api.POST("/intervention", cfg.InterventionHandler.Create)
		api.PUT("/intervention/:id", cfg.InterventionHandler.Update)
		api.GET("/interventions", cfg.InterventionHandler.List)

		api.GET("/dashboard", cfg.DashboardHandler.Dashboard)
		api.GET("/student/:studentId/profile", cfg.DashboardHandler.StudentProfile)

		api.GET("/reports/:type", cfg.ReportHandler.Generate)
		api.GET("/config", cfg.ConfigHandler.Get)
		api.GET("/health", cfg.HealthHandler.Health)
	}

	return router
}
