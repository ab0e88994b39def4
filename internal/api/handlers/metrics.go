package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/justice-tools/internal/models"
	"github.com/nexconsult/justice-tools/internal/services"
)

// RateLimitStats is implemented by middleware.RateLimiter.
type RateLimitStats interface {
	GetStats() map[string]interface{}
}

// StatsHandler reports cache, worker pool, rate limiter and runtime
// statistics as JSON. Prometheus metrics are served separately on /metrics.
type StatsHandler struct {
	cacheService services.CacheServiceInterface
	batchService services.BatchServiceInterface
	rateLimiter  RateLimitStats
	logger       *logrus.Logger
	startTime    time.Time
}

// NewStatsHandler creates a new stats handler. rateLimiter may be nil.
func NewStatsHandler(cacheService services.CacheServiceInterface, batchService services.BatchServiceInterface, rateLimiter RateLimitStats, logger *logrus.Logger) *StatsHandler {
	return &StatsHandler{
		cacheService: cacheService,
		batchService: batchService,
		rateLimiter:  rateLimiter,
		logger:       logger,
		startTime:    time.Now(),
	}
}

// GetStats handles statistics request
// @Summary Get service statistics
// @Description Get cache, batch worker pool, rate limiter and runtime statistics
// @Tags Metrics
// @Produce json
// @Success 200 {object} models.StatsResponse
// @Security ApiKeyAuth
// @Router /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	cacheStats, err := h.cacheService.GetStats(c.Request.Context())
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"error":      err.Error(),
		}).Warn("Failed to get cache statistics")
		cacheStats = map[string]interface{}{"error": err.Error()}
	}

	response := models.StatsResponse{
		Cache: cacheStats,
		Batch: h.batchService.GetStats(),
		System: models.SystemMetrics{
			MemoryUsage: float64(m.Alloc) / 1024 / 1024, // MB
			Goroutines:  runtime.NumGoroutine(),
			Uptime:      time.Since(h.startTime).String(),
		},
		Timestamp: time.Now(),
	}
	if h.rateLimiter != nil {
		response.RateLimit = h.rateLimiter.GetStats()
	}

	c.JSON(http.StatusOK, response)
}
