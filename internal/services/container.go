package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/justice-tools/internal/config"
	"github.com/nexconsult/justice-tools/internal/consultation"
	"github.com/nexconsult/justice-tools/internal/metrics"
	"github.com/nexconsult/justice-tools/internal/polling"
	"github.com/nexconsult/justice-tools/internal/webjustice"
	"github.com/nexconsult/justice-tools/internal/worker"
)

const cachePrefix = "consultation:"

// Container holds all service dependencies
type Container struct {
	config      *config.Config
	logger      *logrus.Logger
	metrics     *metrics.Metrics
	redisClient *redis.Client
	apiClient   *webjustice.Client

	stopCleanup context.CancelFunc

	CacheService        *CacheService
	ConsultationService ConsultationServiceInterface
	BatchService        *worker.Pool
}

// NewContainer creates a new service container
func NewContainer(cfg *config.Config, logger *logrus.Logger, m *metrics.Metrics) (*Container, error) {
	container := &Container{
		config:  cfg,
		logger:  logger,
		metrics: m,
	}

	// Initialize Redis client
	container.initRedis()

	// Initialize services
	if err := container.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return container, nil
}

// initRedis initializes Redis client. The service runs on the memory cache
// when Redis is unreachable or caching is disabled.
func (c *Container) initRedis() {
	if c.config.Cache.TTL <= 0 {
		c.logger.Info("Response cache disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", c.config.Redis.Host, c.config.Redis.Port),
		Password:     c.config.Redis.Password,
		DB:           c.config.Redis.DB,
		PoolSize:     c.config.Redis.PoolSize,
		DialTimeout:  c.config.Redis.DialTimeout,
		ReadTimeout:  c.config.Redis.ReadTimeout,
		WriteTimeout: c.config.Redis.WriteTimeout,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), c.config.Redis.DialTimeout+c.config.Redis.ReadTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		c.logger.WithError(err).Warn("Redis connection failed, running with memory cache")
		_ = client.Close()
		return
	}

	c.redisClient = client
	c.logger.Info("Redis connection established")
}

// initServices initializes all services
func (c *Container) initServices() error {
	c.CacheService = NewCacheService(c.redisClient, c.config.Cache.TTL, cachePrefix, c.logger)

	cleanupCtx, cancel := context.WithCancel(context.Background())
	c.stopCleanup = cancel
	c.CacheService.StartCleanupRoutine(cleanupCtx, c.config.Cache.CleanupInterval)

	apiClient, err := webjustice.New(WebJusticeConfig(c.config.WebJustice), c.logger,
		webjustice.WithObserver(c.metrics.ObserveAPIRequest))
	if err != nil {
		return fmt.Errorf("failed to initialize Web Justice client: %w", err)
	}
	c.apiClient = apiClient

	pollCfg := PollingConfig(c.config.Polling)
	if err := pollCfg.Validate(); err != nil {
		return fmt.Errorf("invalid polling configuration: %w", err)
	}
	poller := polling.New(pollCfg, c.logger)

	orchestrator := consultation.New(
		sharedDialer(apiClient),
		poller,
		c.logger,
		consultation.WithAuthCheck(c.config.WebJustice.VerifyAuth),
		consultation.WithStatusHook(PollingHook(c.metrics)),
	)

	c.ConsultationService = NewConsultationService(orchestrator, c.CacheService, apiClient, c.metrics, c.logger)

	c.BatchService = worker.NewPool(c.config.Batch.Workers, c.config.Batch.QueueSize, c.ConsultationService, c.logger, c.metrics)
	c.BatchService.Start()

	return nil
}

// Close closes all service connections
func (c *Container) Close() error {
	var errs []error

	if c.BatchService != nil {
		c.BatchService.Stop()
	}

	if c.stopCleanup != nil {
		c.stopCleanup()
	}

	if c.ConsultationService != nil {
		if err := c.ConsultationService.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close consultation service: %w", err))
		}
	}

	// Close Redis connection
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %w", errors.Join(errs...))
	}

	return nil
}

// Health checks the health of all services
func (c *Container) Health(ctx context.Context) map[string]interface{} {
	health := make(map[string]interface{})

	if c.redisClient != nil {
		if err := c.redisClient.Ping(ctx).Err(); err != nil {
			// the memory cache keeps serving, so redis alone never fails the
			// service
			health["redis"] = map[string]interface{}{
				"status": "degraded",
				"error":  err.Error(),
			}
		} else {
			health["redis"] = map[string]interface{}{
				"status": "healthy",
			}
		}
	} else {
		health["redis"] = map[string]interface{}{
			"status": "disabled",
		}
	}

	if c.CacheService != nil {
		health["cache"] = c.CacheService.Health()
	}

	if c.ConsultationService != nil {
		health["web_justice"] = c.ConsultationService.Health(ctx)
	}

	return health
}

// GetMetrics returns the metrics
func (c *Container) GetMetrics() *metrics.Metrics {
	return c.metrics
}

// WebJusticeConfig maps the application configuration onto the client's
func WebJusticeConfig(cfg config.WebJusticeConfig) webjustice.Config {
	return webjustice.Config{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	}
}

// PollingConfig maps the application configuration onto the poller's
func PollingConfig(cfg config.PollingConfig) polling.Config {
	return polling.Config{
		InitialInterval:   cfg.InitialInterval,
		MaxInterval:       cfg.MaxInterval,
		BackoffMultiplier: cfg.BackoffMultiplier,
		MaxWaitTime:       cfg.MaxWaitTime,
		TimeoutBuffer:     cfg.TimeoutBuffer,
	}
}

// PollingHook counts status checks by outcome
func PollingHook(m *metrics.Metrics) consultation.StatusHook {
	return func(status *webjustice.SearchStatus, err error) {
		switch {
		case err != nil:
			m.IncPollingCheck("error")
		case status != nil && status.IsReadyForConsultation:
			m.IncPollingCheck("ready")
		default:
			m.IncPollingCheck("pending")
		}
	}
}

// keepOpen lends the shared client to a single consultation without letting
// it close the connection pool.
type keepOpen struct {
	*webjustice.Client
}

func (keepOpen) Close() error { return nil }

func sharedDialer(client *webjustice.Client) consultation.Dialer {
	return func(context.Context) (consultation.Collaborator, error) {
		return keepOpen{client}, nil
	}
}
