package router

import (
	"github.com/gin-gonic/gin"

	"argusai/internal/config"
	"argusai/internal/handler"
	"argusai/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	paperH *handler.PaperHandler,
	reportH *handler.ReportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	papers := v1.Group("/papers")
	papers.POST("/upload", paperH.Upload)
	papers.GET("", paperH.List)
	papers.GET("/:id", paperH.Get)
	papers.GET("/:id/analyses", paperH.ListAnalyses)

	reports := v1.Group("/reports")
	reports.GET("/analyses.csv", reportH.ExportCSV)
	reports.GET("/analyses.xlsx", reportH.ExportXLSX)

	return r
}
