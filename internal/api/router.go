package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trafficlab/speeds-backend-go/internal/config"
	"github.com/trafficlab/speeds-backend-go/internal/handler"
	"github.com/trafficlab/speeds-backend-go/internal/middleware"
	"github.com/trafficlab/speeds-backend-go/internal/repository"
	"github.com/trafficlab/speeds-backend-go/internal/service"
)

// Services bundles the wired application services so main can share them
// with background loops (the periodic refresher runs outside the router).
type Services struct {
	Segments     *service.SegmentService
	Observations *service.ObservationService
	Latest       *service.LatestService
}

// NewServices wires repositories and services over the given database.
func NewServices(db *sql.DB, cfg *config.Config) *Services {
	segmentRepo := repository.NewSegmentRepository(db)
	observationRepo := repository.NewObservationRepository(db)

	return &Services{
		Segments:     service.NewSegmentService(segmentRepo),
		Observations: service.NewObservationService(segmentRepo, observationRepo, cfg.DefaultProvider),
		Latest:       service.NewLatestService(observationRepo),
	}
}

// SetupRouter builds the Gin engine with all routes and middleware.
func SetupRouter(cfg *config.Config, svc *Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPM, time.Minute)
	r.Use(middleware.RateLimit(limiter))

	segmentHandler := handler.NewSegmentHandler(svc.Segments)
	observationHandler := handler.NewObservationHandler(svc.Observations)
	latestHandler := handler.NewLatestHandler(svc.Latest)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Speeds Backend API is running",
		})
	})

	api := r.Group("/api/v1")
	{
		segments := api.Group("/segments")
		{
			segments.GET("", segmentHandler.List)
			segments.GET("/:id", segmentHandler.Get)
			segments.GET("/:id/observations", observationHandler.Query)
			segments.GET("/:id/latest", latestHandler.Get)

			// Registry mutations come from the admin/import process only.
			admin := segments.Group("", middleware.AdminAuth(cfg.JWTSecret))
			{
				admin.POST("", segmentHandler.Create)
				admin.POST("/import", segmentHandler.Import)
				admin.PUT("/:id", segmentHandler.Update)
			}
		}

		observations := api.Group("/observations")
		{
			observations.POST("", observationHandler.Record)
			observations.POST("/batch", observationHandler.RecordBatch)
		}

		latest := api.Group("/latest")
		{
			latest.GET("", latestHandler.GetAll)
			latest.GET("/stats", latestHandler.Stats)
			latest.POST("/refresh", latestHandler.Refresh)
		}
	}

	return r
}
