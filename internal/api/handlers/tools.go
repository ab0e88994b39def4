package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/justice-tools/internal/models"
	"github.com/nexconsult/justice-tools/internal/tools"
)

// ToolsHandler exposes the agent tools over HTTP
type ToolsHandler struct {
	registry *tools.Registry
	logger   *logrus.Logger
}

// NewToolsHandler creates a new tools handler
func NewToolsHandler(registry *tools.Registry, logger *logrus.Logger) *ToolsHandler {
	return &ToolsHandler{
		registry: registry,
		logger:   logger,
	}
}

// List handles tool listing
// @Summary List agent tools
// @Description List the registered tools with their descriptions and argument schemas
// @Tags Tools
// @Produce json
// @Success 200 {object} models.ToolListResponse
// @Security ApiKeyAuth
// @Router /tools [get]
func (h *ToolsHandler) List(c *gin.Context) {
	registered := h.registry.List()

	response := models.ToolListResponse{
		Tools: make([]models.ToolInfo, 0, len(registered)),
		Count: len(registered),
	}
	for _, t := range registered {
		response.Tools = append(response.Tools, toolInfo(t))
	}

	c.JSON(http.StatusOK, response)
}

// Get handles single tool description
// @Summary Describe an agent tool
// @Tags Tools
// @Produce json
// @Param name path string true "Tool name" example(consult_legal_process)
// @Success 200 {object} models.ToolInfo
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /tools/{name} [get]
func (h *ToolsHandler) Get(c *gin.Context) {
	t, ok := h.registry.Get(c.Param("name"))
	if !ok {
		respondError(c, http.StatusNotFound, "Not found", "Unknown tool "+c.Param("name"), "TOOL_NOT_FOUND")
		return
	}
	c.JSON(http.StatusOK, toolInfo(t))
}

// Execute handles tool execution
// @Summary Execute an agent tool
// @Description Run a tool with the given arguments. Consultation tools take a single user_input string
// @Tags Tools
// @Accept json
// @Produce json
// @Param name path string true "Tool name" example(consult_legal_process)
// @Param request body models.ToolExecuteRequest true "Tool arguments"
// @Success 200 {object} consultation.Result
// @Failure 400 {object} consultation.Result
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} consultation.Result
// @Failure 502 {object} consultation.Result
// @Security ApiKeyAuth
// @Router /tools/{name} [post]
func (h *ToolsHandler) Execute(c *gin.Context) {
	start := time.Now()
	name := c.Param("name")

	var request models.ToolExecuteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request format", err.Error(), "INVALID_REQUEST")
		return
	}

	result, err := h.registry.Execute(c.Request.Context(), name, request.Arguments)
	if errors.Is(err, tools.ErrUnknownTool) {
		respondError(c, http.StatusNotFound, "Not found", err.Error(), "TOOL_NOT_FOUND")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"tool":       name,
		"status":     result.Status,
		"duration":   time.Since(start),
	}).Info("Tool executed")

	c.JSON(resultStatus(result), result)
}

func toolInfo(t tools.Tool) models.ToolInfo {
	return models.ToolInfo{
		Name:         t.Name(),
		Description:  t.Description(),
		Instructions: t.Instructions(),
		Parameters:   t.Parameters(),
	}
}
