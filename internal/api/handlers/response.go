package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexconsult/justice-tools/internal/consultation"
	"github.com/nexconsult/justice-tools/internal/models"
)

// respondError writes a models.ErrorResponse
func respondError(c *gin.Context, status int, title, message, code string) {
	c.JSON(status, models.ErrorResponse{
		Error:     title,
		Message:   message,
		Code:      code,
		RequestID: c.GetString("request_id"),
		Timestamp: time.Now(),
		Path:      c.Request.URL.Path,
	})
}

// resultStatus maps a consultation result onto an HTTP status code
func resultStatus(result *consultation.Result) int {
	if result.Succeeded() {
		return http.StatusOK
	}
	if result == nil || result.Error == nil {
		return http.StatusInternalServerError
	}

	switch result.Error.Code {
	case consultation.CodeMissingInput:
		return http.StatusBadRequest
	case consultation.CodeNoIdentifier:
		return http.StatusUnprocessableEntity
	case consultation.CodeInitiationFailed, consultation.CodeConsultation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// cacheHeader marks whether a result came from the response cache
func cacheHeader(c *gin.Context, cached bool) {
	if cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.Header("Cache-Control", "no-store")
}
