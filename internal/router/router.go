package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "sdsposter/docs"
	"sdsposter/internal/config"
	"sdsposter/internal/handler"
	"sdsposter/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	extractionH *handler.ExtractionHandler,
	pictogramH *handler.PictogramHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Logger())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	extractions := v1.Group("/extractions")
	extractions.Use(middleware.Session())
	extractions.POST("", middleware.RateLimit(cfg.RateLimit), extractionH.Create)
	extractions.GET("/current", extractionH.Current)
	extractions.DELETE("/current", extractionH.Reset)

	pictograms := v1.Group("/pictograms")
	pictograms.GET("", pictogramH.List)
	pictograms.PUT("/:code", pictogramH.Upload)
	pictograms.DELETE("/:code", pictogramH.Delete)

	return r
}
