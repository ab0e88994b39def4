package services

import (
	"context"

	"github.com/nexconsult/justice-tools/internal/consultation"
	"github.com/nexconsult/justice-tools/internal/identifier"
	"github.com/nexconsult/justice-tools/internal/worker"
)

// ConsultationServiceInterface defines the interface for consultation service
type ConsultationServiceInterface interface {
	// Consult extracts the first identifier of kind from text and consults
	// it. cached reports whether the result came from the response cache.
	Consult(ctx context.Context, text string, kind identifier.Kind) (result *consultation.Result, cached bool)

	// Forget drops the cached result for an identifier and reports whether
	// one was cached
	Forget(ctx context.Context, value string) (bool, error)

	// CheckAuth verifies the configured API key
	CheckAuth(ctx context.Context) error

	// Health returns the remote API health status
	Health(ctx context.Context) map[string]interface{}

	// Close closes the service and releases resources
	Close() error
}

// CacheServiceInterface defines the interface for cache service
type CacheServiceInterface interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value string) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear clears all cache entries
	Clear(ctx context.Context) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)

	// GetStats returns cache statistics
	GetStats(ctx context.Context) (map[string]interface{}, error)

	// Health returns cache service health status
	Health() map[string]interface{}
}

// BatchServiceInterface defines the interface for batch consultations
type BatchServiceInterface interface {
	// ProcessBatch consults every item on the worker pool
	ProcessBatch(ctx context.Context, items []worker.Item) worker.BatchResponse

	// GetStats returns worker pool statistics
	GetStats() worker.PoolStats
}

var (
	_ CacheServiceInterface        = (*CacheService)(nil)
	_ ConsultationServiceInterface = (*ConsultationService)(nil)
	_ BatchServiceInterface        = (*worker.Pool)(nil)
)
