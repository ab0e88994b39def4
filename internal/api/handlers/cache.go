package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/justice-tools/internal/identifier"
	"github.com/nexconsult/justice-tools/internal/services"
)

// CacheHandler handles cache management requests
type CacheHandler struct {
	cacheService        services.CacheServiceInterface
	consultationService services.ConsultationServiceInterface
	logger              *logrus.Logger
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(cacheService services.CacheServiceInterface, consultationService services.ConsultationServiceInterface, logger *logrus.Logger) *CacheHandler {
	return &CacheHandler{
		cacheService:        cacheService,
		consultationService: consultationService,
		logger:              logger,
	}
}

// GetStats handles cache statistics request
// @Summary Get cache statistics
// @Description Get response cache statistics and health
// @Tags Cache
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /cache/stats [get]
func (h *CacheHandler) GetStats(c *gin.Context) {
	requestID := c.GetString("request_id")

	stats, err := h.cacheService.GetStats(c.Request.Context())
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to get cache statistics")

		respondError(c, http.StatusInternalServerError, "Internal server error", "Failed to retrieve cache statistics", "CACHE_STATS_ERROR")
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"stats":     stats,
		"timestamp": time.Now(),
		"health":    h.cacheService.Health(),
	})
}

// Clear handles cache clear request
// @Summary Clear all cache
// @Description Drop every cached consultation result
// @Tags Cache
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /cache/clear [delete]
func (h *CacheHandler) Clear(c *gin.Context) {
	requestID := c.GetString("request_id")

	if err := h.cacheService.Clear(c.Request.Context()); err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to clear cache")

		respondError(c, http.StatusInternalServerError, "Internal server error", "Failed to clear cache", "CACHE_CLEAR_ERROR")
		return
	}

	h.logger.WithField("request_id", requestID).Info("Cache cleared successfully")

	c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Cache cleared successfully",
		"timestamp": time.Now(),
		"success":   true,
	})
}

// Delete handles specific cache entry deletion
// @Summary Delete a cached consultation
// @Description Drop the cached result for a CPF, CNPJ or CNJ process number
// @Tags Cache
// @Param identifier path string true "CPF, CNPJ or process number, digits only or formatted" example(52998224725)
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /cache/{identifier} [delete]
func (h *CacheHandler) Delete(c *gin.Context) {
	requestID := c.GetString("request_id")
	value := c.Param("identifier")

	dropped, err := h.consultationService.Forget(c.Request.Context(), value)
	if err != nil {
		var verr *identifier.ValidationError
		if errors.As(err, &verr) {
			respondError(c, http.StatusBadRequest, "Invalid identifier", verr.Error(), "INVALID_IDENTIFIER")
			return
		}

		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"identifier": value,
			"error":      err.Error(),
		}).Error("Failed to delete consultation from cache")

		respondError(c, http.StatusInternalServerError, "Internal server error", "Failed to delete from cache", "CACHE_DELETE_ERROR")
		return
	}

	if !dropped {
		respondError(c, http.StatusNotFound, "Not found", "Identifier not found in cache", "NOT_IN_CACHE")
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "Consultation deleted from cache successfully",
		"identifier": value,
		"timestamp":  time.Now(),
		"success":    true,
	})
}
