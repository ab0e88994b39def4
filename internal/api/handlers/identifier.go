package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/justice-tools/internal/identifier"
	"github.com/nexconsult/justice-tools/internal/models"
)

// IdentifierHandler extracts and validates identifiers without calling the
// remote API
type IdentifierHandler struct {
	logger *logrus.Logger
}

// NewIdentifierHandler creates a new identifier handler
func NewIdentifierHandler(logger *logrus.Logger) *IdentifierHandler {
	return &IdentifierHandler{logger: logger}
}

// Extract handles identifier extraction
// @Summary Extract identifiers
// @Description List every valid CPF, CNPJ or CNJ process number of the requested kind found in the text, in order of appearance
// @Tags Identifiers
// @Accept json
// @Produce json
// @Param request body models.ExtractRequest true "Text and kind (CPF, CNPJ, CNJ, DOCUMENT or ANY; defaults to ANY)"
// @Success 200 {object} models.ExtractResponse
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /identifiers/extract [post]
func (h *IdentifierHandler) Extract(c *gin.Context) {
	var request models.ExtractRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request format", err.Error(), "INVALID_REQUEST")
		return
	}

	kind, ok := h.kind(c, request.Kind)
	if !ok {
		return
	}

	ids := identifier.ExtractCandidates(request.Text, kind)
	if ids == nil {
		ids = []identifier.Identifier{}
	}

	h.logger.WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"kind":       kind.String(),
		"found":      len(ids),
	}).Debug("Identifiers extracted")

	c.JSON(http.StatusOK, models.ExtractResponse{
		Kind:        kind,
		Identifiers: ids,
		Count:       len(ids),
	})
}

// Validate handles identifier validation
// @Summary Validate an identifier
// @Description Check whether the value is a single valid identifier of the requested kind and return its canonical form
// @Tags Identifiers
// @Produce json
// @Param value query string true "Identifier to validate" example(529.982.247-25)
// @Param kind query string false "CPF, CNPJ, CNJ, DOCUMENT or ANY (default ANY)"
// @Success 200 {object} models.ValidateResponse
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /identifiers/validate [get]
func (h *IdentifierHandler) Validate(c *gin.Context) {
	value := c.Query("value")
	if strings.TrimSpace(value) == "" {
		respondError(c, http.StatusBadRequest, "Missing value", "query parameter value is required", "MISSING_VALUE")
		return
	}

	kind, ok := h.kind(c, c.Query("kind"))
	if !ok {
		return
	}

	response := models.ValidateResponse{
		Value: value,
		Kind:  kind,
		Valid: identifier.Validate(value, kind),
	}
	if response.Valid {
		if normalized, err := identifier.Normalize(value); err == nil {
			response.Normalized = normalized
		}
	}

	c.JSON(http.StatusOK, response)
}

// kind parses an optional kind name, writing a 400 response when it is
// unknown
func (h *IdentifierHandler) kind(c *gin.Context, name string) (identifier.Kind, bool) {
	if strings.TrimSpace(name) == "" {
		return identifier.KindAny, true
	}

	kind, err := identifier.ParseKind(name)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid identifier kind", err.Error(), "INVALID_KIND")
		return identifier.KindNone, false
	}
	return kind, true
}
