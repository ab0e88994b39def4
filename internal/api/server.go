package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/nexconsult/justice-tools/internal/api/handlers"
	"github.com/nexconsult/justice-tools/internal/api/middleware"
	"github.com/nexconsult/justice-tools/internal/config"
	"github.com/nexconsult/justice-tools/internal/models"
	"github.com/nexconsult/justice-tools/internal/services"
	"github.com/nexconsult/justice-tools/internal/tools"
)

// Server represents the HTTP server
type Server struct {
	Router      *gin.Engine
	config      *config.Config
	logger      *logrus.Logger
	services    *services.Container
	tools       *tools.Registry
	gatherer    prometheus.Gatherer
	rateLimiter *middleware.RateLimiter
}

// NewServer creates a new HTTP server. gatherer backs /metrics; the rate
// limiter forgets idle clients until ctx is done.
func NewServer(ctx context.Context, cfg *config.Config, logger *logrus.Logger, services *services.Container, gatherer prometheus.Gatherer) *Server {
	server := &Server{
		config:      cfg,
		logger:      logger,
		services:    services,
		tools:       tools.Default(services.ConsultationService),
		gatherer:    gatherer,
		rateLimiter: middleware.NewRateLimiter(ctx, cfg.Security.RateLimit),
	}

	server.setupRouter()
	return server
}

// Tools returns the agent tool registry served under /api/v1/tools
func (s *Server) Tools() *tools.Registry {
	return s.tools
}

// setupRouter configures the router with all routes and middleware
func (s *Server) setupRouter() {
	s.Router = gin.New()

	// Global middleware
	s.Router.Use(middleware.RequestID())
	s.Router.Use(middleware.Logger(s.logger))
	s.Router.Use(middleware.Recovery(s.logger))
	s.Router.Use(middleware.CORS(s.config.Security.CORS))
	s.Router.Use(middleware.Security())
	s.Router.Use(middleware.Metrics(s.services.GetMetrics()))

	// Health check endpoints (no auth, no rate limiting)
	healthHandler := handlers.NewHealthHandler(s.services, s.logger)
	s.Router.GET("/health", healthHandler.GetHealth)
	s.Router.GET("/health/ready", healthHandler.GetReadiness)
	s.Router.GET("/health/live", healthHandler.GetLiveness)

	// Prometheus metrics
	s.Router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	// Swagger documentation
	if !s.config.IsProduction() {
		s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		s.Router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})
	}

	// API v1 routes
	v1 := s.Router.Group("/api/v1")
	v1.Use(middleware.APIKeyAuth(s.config.Security.APIKeys))
	v1.Use(s.rateLimiter.Middleware())
	{
		consultationHandler := handlers.NewConsultationHandler(
			s.services.ConsultationService,
			s.services.BatchService,
			s.config.Batch.MaxItems,
			s.logger,
		)
		consultations := v1.Group("/consultations")
		{
			consultations.POST("/process", consultationHandler.ConsultProcess)
			consultations.POST("/document", consultationHandler.ConsultDocument)
			consultations.POST("/batch", consultationHandler.ConsultBatch)
		}

		identifierHandler := handlers.NewIdentifierHandler(s.logger)
		identifiers := v1.Group("/identifiers")
		{
			identifiers.POST("/extract", identifierHandler.Extract)
			identifiers.GET("/validate", identifierHandler.Validate)
		}

		toolsHandler := handlers.NewToolsHandler(s.tools, s.logger)
		agentTools := v1.Group("/tools")
		{
			agentTools.GET("", toolsHandler.List)
			agentTools.GET("/:name", toolsHandler.Get)
			agentTools.POST("/:name", toolsHandler.Execute)
		}

		cacheHandler := handlers.NewCacheHandler(s.services.CacheService, s.services.ConsultationService, s.logger)
		cache := v1.Group("/cache")
		{
			cache.GET("/stats", cacheHandler.GetStats)
			cache.DELETE("/clear", cacheHandler.Clear)
			cache.DELETE("/:identifier", cacheHandler.Delete)
		}

		statsHandler := handlers.NewStatsHandler(s.services.CacheService, s.services.BatchService, s.rateLimiter, s.logger)
		v1.GET("/stats", statsHandler.GetStats)
	}

	s.Router.HandleMethodNotAllowed = true

	// 404 handler
	s.Router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:     "Not Found",
			Message:   "The requested resource was not found",
			Code:      "NOT_FOUND",
			RequestID: c.GetString("request_id"),
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
	})

	// 405 handler
	s.Router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, models.ErrorResponse{
			Error:     "Method Not Allowed",
			Message:   "The requested method " + c.Request.Method + " is not allowed for this resource",
			Code:      "METHOD_NOT_ALLOWED",
			RequestID: c.GetString("request_id"),
			Timestamp: time.Now(),
			Path:      c.Request.URL.Path,
		})
	})
}
