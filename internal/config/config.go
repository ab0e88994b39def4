package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `json:"server"`
	WebJustice WebJusticeConfig `json:"web_justice"`
	Polling    PollingConfig    `json:"polling"`
	Redis      RedisConfig      `json:"redis"`
	Cache      CacheConfig      `json:"cache"`
	Batch      BatchConfig      `json:"batch"`
	Log        LogConfig        `json:"log"`
	Security   SecurityConfig   `json:"security"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         int           `json:"port"`
	Environment  string        `json:"environment"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// WebJusticeConfig holds the remote search API configuration
type WebJusticeConfig struct {
	BaseURL    string        `json:"base_url"`
	APIKey     string        `json:"-"`
	Timeout    time.Duration `json:"timeout"`
	MaxRetries int           `json:"max_retries"`
	RetryDelay time.Duration `json:"retry_delay"`
	VerifyAuth bool          `json:"verify_auth"`
}

// PollingConfig holds the backoff schedule used while waiting for a search
type PollingConfig struct {
	InitialInterval   time.Duration `json:"initial_interval"`
	MaxInterval       time.Duration `json:"max_interval"`
	BackoffMultiplier float64       `json:"backoff_multiplier"`
	MaxWaitTime       time.Duration `json:"max_wait_time"`
	TimeoutBuffer     time.Duration `json:"timeout_buffer"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	Password     string        `json:"-"`
	DB           int           `json:"db"`
	PoolSize     int           `json:"pool_size"`
	DialTimeout  time.Duration `json:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// CacheConfig holds the consultation response cache configuration.
// A zero TTL disables caching.
type CacheConfig struct {
	TTL             time.Duration `json:"ttl"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
}

// BatchConfig holds the batch consultation worker pool configuration
type BatchConfig struct {
	Workers   int `json:"workers"`
	QueueSize int `json:"queue_size"`
	MaxItems  int `json:"max_items"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	File   string `json:"file,omitempty"`
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	APIKeys   []string        `json:"-"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	CORS      CORSConfig      `json:"cors"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int           `json:"requests_per_minute"`
	BurstSize         int           `json:"burst_size"`
	CleanupInterval   time.Duration `json:"cleanup_interval"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := FromEnv()

	// Validate required fields
	if cfg.WebJustice.APIKey == "" {
		return nil, fmt.Errorf("WEB_JUSTICE_API_KEY environment variable is required. Please set it to your Web Justice API key")
	}

	return cfg, nil
}

// FromEnv reads the configuration without checking required fields
func FromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnvAsInt("PORT", 8080),
			Environment:  getEnv("ENVIRONMENT", "development"),
			ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,
			IdleTimeout:  time.Duration(getEnvAsInt("IDLE_TIMEOUT", 60)) * time.Second,
		},
		WebJustice: WebJusticeConfig{
			BaseURL:    getEnv("WEB_JUSTICE_API_URL", "http://localhost:8000"),
			APIKey:     getEnv("WEB_JUSTICE_API_KEY", ""),
			Timeout:    getEnvAsSeconds("WEB_JUSTICE_API_TIMEOUT", 30),
			MaxRetries: getEnvAsInt("WEB_JUSTICE_API_MAX_RETRIES", 3),
			RetryDelay: getEnvAsSeconds("WEB_JUSTICE_API_RETRY_DELAY", 1),
			VerifyAuth: getEnvAsBool("WEB_JUSTICE_VERIFY_AUTH", true),
		},
		Polling: PollingConfig{
			InitialInterval:   getEnvAsSeconds("POLLING_INITIAL_INTERVAL", 2),
			MaxInterval:       getEnvAsSeconds("POLLING_MAX_INTERVAL", 30),
			BackoffMultiplier: getEnvAsFloat("POLLING_BACKOFF_MULTIPLIER", 1.5),
			MaxWaitTime:       getEnvAsSeconds("POLLING_MAX_WAIT_TIME", 900),
			TimeoutBuffer:     getEnvAsSeconds("POLLING_TIMEOUT_BUFFER", 30),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			DialTimeout:  time.Duration(getEnvAsInt("REDIS_DIAL_TIMEOUT", 5)) * time.Second,
			ReadTimeout:  time.Duration(getEnvAsInt("REDIS_READ_TIMEOUT", 3)) * time.Second,
			WriteTimeout: time.Duration(getEnvAsInt("REDIS_WRITE_TIMEOUT", 3)) * time.Second,
		},
		Cache: CacheConfig{
			TTL:             time.Duration(getEnvAsInt("CACHE_TTL", 600)) * time.Second,
			CleanupInterval: time.Duration(getEnvAsInt("CACHE_CLEANUP_INTERVAL", 300)) * time.Second,
		},
		Batch: BatchConfig{
			Workers:   getEnvAsInt("BATCH_WORKERS", 4),
			QueueSize: getEnvAsInt("BATCH_QUEUE_SIZE", 100),
			MaxItems:  getEnvAsInt("BATCH_MAX_ITEMS", 20),
		},
		Log: LogConfig{
			Level:  getEnv("JUSTICE_TOOLS_LOG_LEVEL", "info"),
			Format: getEnv("JUSTICE_TOOLS_LOG_FORMAT", "json"),
			File:   getEnv("JUSTICE_TOOLS_LOG_FILE", ""),
		},
		Security: SecurityConfig{
			APIKeys: getEnvAsList("API_KEYS"),
			RateLimit: RateLimitConfig{
				RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 100),
				BurstSize:         getEnvAsInt("RATE_LIMIT_BURST", 10),
				CleanupInterval:   time.Duration(getEnvAsInt("RATE_LIMIT_CLEANUP", 60)) * time.Second,
			},
			CORS: CORSConfig{
				AllowedOrigins:   []string{"*"},
				AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
				AllowedHeaders:   []string{"*"},
				AllowCredentials: false,
			},
		},
	}

	if origins := getEnvAsList("CORS_ALLOWED_ORIGINS"); len(origins) > 0 {
		cfg.Security.CORS.AllowedOrigins = origins
	}

	return cfg
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsSeconds reads a possibly fractional number of seconds
func getEnvAsSeconds(key string, defaultSeconds float64) time.Duration {
	return time.Duration(getEnvAsFloat(key, defaultSeconds) * float64(time.Second))
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
