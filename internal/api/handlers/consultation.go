package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/justice-tools/internal/consultation"
	"github.com/nexconsult/justice-tools/internal/identifier"
	"github.com/nexconsult/justice-tools/internal/models"
	"github.com/nexconsult/justice-tools/internal/services"
	"github.com/nexconsult/justice-tools/internal/tools"
	"github.com/nexconsult/justice-tools/internal/worker"
)

// ConsultationHandler handles consultation requests
type ConsultationHandler struct {
	service  services.ConsultationServiceInterface
	batch    services.BatchServiceInterface
	maxBatch int
	logger   *logrus.Logger
}

// NewConsultationHandler creates a new consultation handler. Batches longer
// than maxBatch are rejected.
func NewConsultationHandler(service services.ConsultationServiceInterface, batch services.BatchServiceInterface, maxBatch int, logger *logrus.Logger) *ConsultationHandler {
	return &ConsultationHandler{
		service:  service,
		batch:    batch,
		maxBatch: maxBatch,
		logger:   logger,
	}
}

// ConsultProcess handles process number consultation
// @Summary Consult a legal process
// @Description Extract the first CNJ process number from the text and return the process data from the Web Justice API
// @Tags Consultations
// @Accept json
// @Produce json
// @Param request body models.ConsultationRequest true "Free text containing a CNJ process number"
// @Success 200 {object} consultation.Result
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} consultation.Result
// @Failure 429 {object} models.ErrorResponse
// @Failure 502 {object} consultation.Result
// @Failure 500 {object} consultation.Result
// @Security ApiKeyAuth
// @Router /consultations/process [post]
func (h *ConsultationHandler) ConsultProcess(c *gin.Context) {
	h.consult(c, identifier.KindCNJ)
}

// ConsultDocument handles CPF/CNPJ consultation
// @Summary Consult the processes of a document
// @Description Extract the first CPF or CNPJ from the text and return every legal process linked to it
// @Tags Consultations
// @Accept json
// @Produce json
// @Param request body models.ConsultationRequest true "Free text containing a CPF or CNPJ"
// @Success 200 {object} consultation.Result
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} consultation.Result
// @Failure 429 {object} models.ErrorResponse
// @Failure 502 {object} consultation.Result
// @Failure 500 {object} consultation.Result
// @Security ApiKeyAuth
// @Router /consultations/document [post]
func (h *ConsultationHandler) ConsultDocument(c *gin.Context) {
	h.consult(c, identifier.KindDocument)
}

func (h *ConsultationHandler) consult(c *gin.Context, kind identifier.Kind) {
	start := time.Now()
	requestID := c.GetString("request_id")

	var request models.ConsultationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid consultation request format")

		respondError(c, http.StatusBadRequest, "Invalid request format", err.Error(), "INVALID_REQUEST")
		return
	}

	if strings.TrimSpace(request.Text) == "" {
		c.JSON(http.StatusBadRequest, tools.MissingInput(consultation.ToolFor(kind)))
		return
	}

	result, cached := h.service.Consult(c.Request.Context(), request.Text, kind)
	status := resultStatus(result)

	fields := logrus.Fields{
		"request_id": requestID,
		"tool":       result.Tool,
		"status":     status,
		"cached":     cached,
		"duration":   time.Since(start),
	}
	if result.Error != nil {
		fields["code"] = result.Error.Code
		h.logger.WithFields(fields).Warn("Consultation failed")
	} else {
		h.logger.WithFields(fields).Info("Consultation completed successfully")
	}

	cacheHeader(c, cached)
	c.JSON(status, result)
}

// ConsultBatch handles batch consultation
// @Summary Consult several identifiers
// @Description Run several consultations concurrently on the worker pool. Results keep the request order
// @Tags Consultations
// @Accept json
// @Produce json
// @Param request body models.BatchRequest true "Batch consultation request"
// @Success 200 {object} models.BatchResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /consultations/batch [post]
func (h *ConsultationHandler) ConsultBatch(c *gin.Context) {
	requestID := c.GetString("request_id")

	var request models.BatchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid batch request format")

		respondError(c, http.StatusBadRequest, "Invalid request format", err.Error(), "INVALID_REQUEST")
		return
	}

	if h.maxBatch > 0 && len(request.Items) > h.maxBatch {
		respondError(c, http.StatusBadRequest, "Batch too large",
			fmt.Sprintf("A batch accepts at most %d items, got %d", h.maxBatch, len(request.Items)), "BATCH_TOO_LARGE")
		return
	}

	items := make([]worker.Item, len(request.Items))
	for i, item := range request.Items {
		kind, err := identifier.ParseKind(item.Kind)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid identifier kind",
				fmt.Sprintf("items[%d]: %s", i, err.Error()), "INVALID_KIND")
			return
		}
		items[i] = worker.Item{Text: item.Text, Kind: kind}
	}

	h.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"items":      len(items),
	}).Info("Processing batch consultation")

	batch := h.batch.ProcessBatch(c.Request.Context(), items)

	h.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"total":      batch.Stats.Total,
		"success":    batch.Stats.Success,
		"errors":     batch.Stats.Errors,
		"cached":     batch.Stats.Cached,
		"duration":   batch.Stats.Duration,
	}).Info("Batch consultation completed")

	c.JSON(http.StatusOK, models.BatchResponse{
		Results:    batch.Results,
		Total:      batch.Stats.Total,
		Success:    batch.Stats.Success,
		Errors:     batch.Stats.Errors,
		Cached:     batch.Stats.Cached,
		DurationMs: batch.Stats.Duration.Milliseconds(),
		Timestamp:  time.Now(),
	})
}
