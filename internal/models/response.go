package models

import (
	"time"

	"github.com/nexconsult/justice-tools/internal/identifier"
	"github.com/nexconsult/justice-tools/internal/worker"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error" example:"Invalid request format"`
	Message   string    `json:"message" example:"text is required"`
	Code      string    `json:"code,omitempty" example:"INVALID_REQUEST"`
	RequestID string    `json:"request_id,omitempty" example:"3f1c7e8a-2b4d-4c1e-9a55-0f6b2d7c9e10"`
	Timestamp time.Time `json:"timestamp" example:"2024-01-15T10:30:00Z"`
	Path      string    `json:"path" example:"/api/v1/consultations/process"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string                 `json:"status" example:"healthy"`
	Timestamp time.Time              `json:"timestamp" example:"2024-01-15T10:30:00Z"`
	Version   string                 `json:"version" example:"1.0.0"`
	Services  map[string]ServiceInfo `json:"services"`
	Uptime    string                 `json:"uptime" example:"2h30m45s"`
}

// ServiceInfo represents individual service health
type ServiceInfo struct {
	Status    string    `json:"status" example:"healthy"`
	LastCheck time.Time `json:"last_check" example:"2024-01-15T10:30:00Z"`
	Error     string    `json:"error,omitempty"`
}

// StatsResponse represents the service statistics response
type StatsResponse struct {
	Cache     map[string]interface{} `json:"cache"`
	Batch     worker.PoolStats       `json:"batch"`
	RateLimit map[string]interface{} `json:"rate_limit,omitempty"`
	System    SystemMetrics          `json:"system"`
	Timestamp time.Time              `json:"timestamp" example:"2024-01-15T10:30:00Z"`
}

// SystemMetrics represents system metrics
type SystemMetrics struct {
	MemoryUsage float64 `json:"memory_usage" example:"512.5"`
	Goroutines  int     `json:"goroutines" example:"125"`
	Uptime      string  `json:"uptime" example:"2h30m45s"`
}

// ExtractResponse lists the identifiers found in a text
type ExtractResponse struct {
	Kind        identifier.Kind         `json:"kind" swaggertype:"string" example:"ANY"`
	Identifiers []identifier.Identifier `json:"identifiers"`
	Count       int                     `json:"count" example:"1"`
}

// ValidateResponse reports whether a value is a valid identifier
type ValidateResponse struct {
	Value      string          `json:"value" example:"529.982.247-25"`
	Kind       identifier.Kind `json:"kind" swaggertype:"string" example:"DOCUMENT"`
	Valid      bool            `json:"valid" example:"true"`
	Normalized string          `json:"normalized,omitempty" example:"529.982.247-25"`
}

// ToolInfo describes an agent tool
type ToolInfo struct {
	Name         string                 `json:"name" example:"consult_legal_process"`
	Description  string                 `json:"description"`
	Instructions string                 `json:"instructions"`
	Parameters   map[string]interface{} `json:"parameters"`
}

// ToolListResponse lists the registered agent tools
type ToolListResponse struct {
	Tools []ToolInfo `json:"tools"`
	Count int        `json:"count" example:"2"`
}

// BatchResponse represents a batch consultation response
type BatchResponse struct {
	Results    []worker.JobResult `json:"results"`
	Total      int                `json:"total" example:"2"`
	Success    int                `json:"success" example:"2"`
	Errors     int                `json:"errors" example:"0"`
	Cached     int                `json:"cached" example:"0"`
	DurationMs int64              `json:"duration_ms" example:"5200"`
	Timestamp  time.Time          `json:"timestamp" example:"2024-01-15T10:30:00Z"`
}
