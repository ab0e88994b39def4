package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nexconsult/justice-tools/internal/consultation"
	"github.com/nexconsult/justice-tools/internal/identifier"
	"github.com/nexconsult/justice-tools/internal/metrics"
)

// RemoteAPI is the part of the Web Justice client used outside a consultation
type RemoteAPI interface {
	TestAuthentication(ctx context.Context) error
	HealthCheck(ctx context.Context) map[string]interface{}
	Close() error
}

// ConsultationService answers consultations through the response cache and
// the orchestrator.
type ConsultationService struct {
	orchestrator   *consultation.Orchestrator
	cache          CacheServiceInterface
	api            RemoteAPI
	metrics        *metrics.Metrics
	logger         *logrus.Logger
	requestCounter atomic.Int64
}

// NewConsultationService creates a new consultation service
func NewConsultationService(orchestrator *consultation.Orchestrator, cache CacheServiceInterface, api RemoteAPI, m *metrics.Metrics, logger *logrus.Logger) *ConsultationService {
	return &ConsultationService{
		orchestrator: orchestrator,
		cache:        cache,
		api:          api,
		metrics:      m,
		logger:       logger,
	}
}

// Consult extracts the first identifier of kind from text and consults it.
// Only successful results are cached.
func (s *ConsultationService) Consult(ctx context.Context, text string, kind identifier.Kind) (*consultation.Result, bool) {
	start := time.Now()
	requestID := s.requestCounter.Add(1)

	id, ok := identifier.ExtractFirst(text, kind)
	if !ok {
		result := consultation.NoIdentifier(kind)
		s.record(result, start)
		s.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"kind":       kind.String(),
		}).Warn("No identifier found in consultation input")
		return result, false
	}

	tool := consultation.ToolFor(id.Kind)
	logger := s.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"tool":       tool,
		"identifier": id.Formatted,
	})

	// Check cache first
	key := cacheKey(id)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var result consultation.Result
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			s.metrics.IncCacheLookup(true)
			logger.WithField("duration", time.Since(start)).Info("Consultation served from cache")
			return &result, true
		}
		logger.WithError(err).Warn("Failed to unmarshal cached consultation")
	} else if !errors.Is(err, ErrCacheMiss) {
		logger.WithError(err).Warn("Cache lookup failed")
	}
	s.metrics.IncCacheLookup(false)

	result := s.orchestrator.ConsultIdentifier(ctx, id)
	s.record(result, start)

	if result.Succeeded() {
		if payload, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, key, string(payload)); err != nil {
				logger.WithError(err).Warn("Failed to cache consultation result")
			}
		} else {
			logger.WithError(err).Warn("Failed to encode consultation result")
		}
	}

	logger.WithFields(logrus.Fields{
		"status":   result.Status,
		"duration": time.Since(start),
	}).Info("Consultation request completed")
	return result, false
}

// Forget drops the cached result for the identifier found in value and
// reports whether one was cached.
func (s *ConsultationService) Forget(ctx context.Context, value string) (bool, error) {
	id, ok := identifier.ExtractFirst(value, identifier.KindAny)
	if !ok {
		return false, &identifier.ValidationError{Input: value, Reason: "no valid CPF, CNPJ or process number"}
	}

	key := cacheKey(id)
	exists, err := s.cache.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to check cache: %w", err)
	}
	if !exists {
		return false, nil
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		return false, fmt.Errorf("failed to delete from cache: %w", err)
	}

	s.logger.WithField("identifier", id.Formatted).Info("Cached consultation dropped")
	return true, nil
}

// CheckAuth verifies the configured API key
func (s *ConsultationService) CheckAuth(ctx context.Context) error {
	return s.api.TestAuthentication(ctx)
}

// Health returns the remote API health status
func (s *ConsultationService) Health(ctx context.Context) map[string]interface{} {
	return s.api.HealthCheck(ctx)
}

// Close closes the service and releases resources
func (s *ConsultationService) Close() error {
	return s.api.Close()
}

func (s *ConsultationService) record(result *consultation.Result, start time.Time) {
	code := ""
	if result.Error != nil {
		code = string(result.Error.Code)
	}
	s.metrics.ObserveConsultation(result.Tool, string(result.Status), code, time.Since(start))
}

func cacheKey(id identifier.Identifier) string {
	return fmt.Sprintf("%s:%s", consultation.ToolFor(id.Kind), id.Digits)
}
