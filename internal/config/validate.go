package config

import (
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

// ValidationReport lists the problems found in a configuration. Errors make
// the configuration unusable; warnings only flag suspicious values.
type ValidationReport struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (r *ValidationReport) fail(msg string) {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
}

func (r *ValidationReport) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Validate checks the configuration without failing fast.
func (c *Config) Validate() ValidationReport {
	report := ValidationReport{
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{},
	}

	if c.WebJustice.APIKey == "" {
		report.fail("API key is required")
	}

	if c.WebJustice.BaseURL == "" {
		report.fail("API base URL is required")
	} else if u, err := url.Parse(c.WebJustice.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		report.fail("API base URL must be an absolute http(s) URL")
	}

	if c.WebJustice.Timeout <= 0 {
		report.warn("API timeout should be positive")
	}
	if c.WebJustice.MaxRetries < 0 {
		report.warn("API max retries should not be negative")
	}

	if c.Polling.InitialInterval <= 0 {
		report.warn("Polling initial interval should be positive")
	}
	if c.Polling.MaxInterval < c.Polling.InitialInterval {
		report.warn("Max polling interval should be >= initial interval")
	}
	if c.Polling.BackoffMultiplier < 1 {
		report.warn("Polling backoff multiplier should be >= 1")
	}
	if c.Polling.MaxWaitTime <= 0 {
		report.fail("Max wait time must be positive")
	}
	if c.Polling.TimeoutBuffer < 0 {
		report.warn("Polling timeout buffer should not be negative")
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		report.warn("Unknown log level " + c.Log.Level + ", falling back to info")
	}
	if format := strings.ToLower(c.Log.Format); format != "json" && format != "text" {
		report.warn("Unknown log format " + c.Log.Format + ", falling back to text")
	}

	if c.Batch.Workers <= 0 {
		report.fail("Batch workers must be positive")
	}

	return report
}

// EnvHelp documents the environment variables read by Load.
const EnvHelp = `
Justice Tools Environment Variables:

Required:
  WEB_JUSTICE_API_KEY           API key for Web Justice service

Optional:
  WEB_JUSTICE_API_URL           API base URL (default: http://localhost:8000)
  WEB_JUSTICE_API_TIMEOUT       Request timeout in seconds (default: 30.0)
  WEB_JUSTICE_API_MAX_RETRIES   Max retry attempts for idempotent calls (default: 3)
  WEB_JUSTICE_API_RETRY_DELAY   Delay between retries in seconds (default: 1.0)
  WEB_JUSTICE_VERIFY_AUTH       Verify the API key before each consultation (default: true)

  POLLING_INITIAL_INTERVAL      Initial polling interval in seconds (default: 2.0)
  POLLING_MAX_INTERVAL          Maximum polling interval in seconds (default: 30.0)
  POLLING_BACKOFF_MULTIPLIER    Exponential backoff multiplier (default: 1.5)
  POLLING_MAX_WAIT_TIME         Maximum total wait time in seconds (default: 900.0)
  POLLING_TIMEOUT_BUFFER        Buffer before timeout in seconds (default: 30.0)

  JUSTICE_TOOLS_LOG_LEVEL       Logging level (default: info)
  JUSTICE_TOOLS_LOG_FORMAT      Log format, json or text (default: json)
  JUSTICE_TOOLS_LOG_FILE        Log file path (optional)

Server only:
  PORT                          HTTP port (default: 8080)
  ENVIRONMENT                   development or production (default: development)
  READ_TIMEOUT / WRITE_TIMEOUT / IDLE_TIMEOUT   Seconds (defaults: 30 / 30 / 60)
  API_KEYS                      Comma separated keys accepted in X-API-Key (empty disables auth)
  CORS_ALLOWED_ORIGINS          Comma separated origins (default: *)
  REDIS_HOST / REDIS_PORT / REDIS_PASSWORD / REDIS_DB / REDIS_POOL_SIZE
  REDIS_DIAL_TIMEOUT / REDIS_READ_TIMEOUT / REDIS_WRITE_TIMEOUT
  CACHE_TTL                     Response cache TTL in seconds, 0 disables (default: 600)
  CACHE_CLEANUP_INTERVAL        Memory cache sweep interval in seconds (default: 300)
  BATCH_WORKERS / BATCH_QUEUE_SIZE / BATCH_MAX_ITEMS   (defaults: 4 / 100 / 20)
  RATE_LIMIT_RPM / RATE_LIMIT_BURST / RATE_LIMIT_CLEANUP   (defaults: 100 / 10 / 60)
`
