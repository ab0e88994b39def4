// Package webjustice is the HTTP client of the Web Justice API, the remote
// service that runs legal process searches asynchronously.
package webjustice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	logging "github.com/nexconsult/justice-tools/internal/logger"
)

const (
	DefaultBaseURL   = "http://localhost:8000"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "AI-Agent-Tools/1.0"

	maxResponseBody = 32 << 20
)

// Endpoint names, used in errors, logs and metrics.
const (
	OpInitiateSearch = "initiate_search"
	OpSearchStatus   = "search_status"
	OpGetProcesses   = "get_processes"
	OpTestAuth       = "test_auth"
	OpHealth         = "health"
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	UserAgent  string
}

// RequestObserver is told about every HTTP round trip. statusCode is 0 when
// no response was received.
type RequestObserver func(op string, statusCode int, duration time.Duration)

// Client talks to the Web Justice API. It is safe for concurrent use.
type Client struct {
	config     Config
	baseURL    string
	httpClient *http.Client
	logger     logrus.FieldLogger
	observer   RequestObserver
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithObserver registers a RequestObserver.
func WithObserver(observer RequestObserver) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// New creates a client. The API key is mandatory.
func New(cfg Config, logger logrus.FieldLogger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("API key is required, set WEB_JUSTICE_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if logger == nil {
		logger = logging.Discard()
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}

	c := &Client{
		config:  cfg,
		baseURL: base,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     60 * time.Second,
			},
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.logger.WithField("base_url", c.baseURL).Debug("Web Justice client initialized")
	return c, nil
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// InitiateSearch starts an asynchronous search for document, which is a
// CPF/CNPJ (SearchTypeDocument) or a CNJ process number (SearchTypeProcess).
func (c *Client) InitiateSearch(ctx context.Context, document string, searchType SearchType) (*InitiateResponse, error) {
	payload := map[string]string{
		"document":    document,
		"search_type": string(searchType),
	}

	c.logger.WithFields(logrus.Fields{
		"search_type": searchType,
		"document":    document,
	}).Info("Initiating search")

	var resp InitiateResponse
	if err := c.do(ctx, OpInitiateSearch, http.MethodPost, "/api/ai-agent/initiate-search", payload, &resp); err != nil {
		return nil, err
	}

	c.logger.WithField("job_id", resp.JobID).Info("Search initiated")
	return &resp, nil
}

// GetSearchStatus returns the detailed status of a search job.
func (c *Client) GetSearchStatus(ctx context.Context, jobID string) (*SearchStatus, error) {
	path := "/api/searches/" + url.PathEscape(jobID) + "/detailed-status"

	var status SearchStatus
	if err := c.do(ctx, OpSearchStatus, http.MethodGet, path, nil, &status); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"job_id":   jobID,
		"status":   status.CurrentStatus,
		"progress": status.ProgressPercentage,
	}).Debug("Search status fetched")
	return &status, nil
}

// GetProcesses fetches the consolidated results of a finished search. A
// search that is still running yields an error matching ErrNotReady.
func (c *Client) GetProcesses(ctx context.Context, identifier string) (*ResultSet, error) {
	path := "/api/ai-agent/processos/" + url.PathEscape(identifier)

	c.logger.WithField("document", identifier).Info("Retrieving results")

	var results ResultSet
	if err := c.do(ctx, OpGetProcesses, http.MethodGet, path, nil, &results); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"document":        identifier,
		"total_processos": results.Details.TotalProcessos,
	}).Info("Results retrieved")
	return &results, nil
}

// TestAuthentication checks the API key. A rejected key yields an error
// matching ErrAuthentication.
func (c *Client) TestAuthentication(ctx context.Context) error {
	if err := c.do(ctx, OpTestAuth, http.MethodGet, "/api/ai-agent/test-auth", nil, nil); err != nil {
		c.logger.WithError(err).Error("Authentication test failed")
		return err
	}

	c.logger.Debug("Authentication test successful")
	return nil
}

// HealthCheck returns the health document of the API, or an "unhealthy"
// document describing why it could not be fetched.
func (c *Client) HealthCheck(ctx context.Context) map[string]interface{} {
	var health map[string]interface{}
	if err := c.do(ctx, OpHealth, http.MethodGet, "/health", nil, &health); err != nil {
		c.logger.WithError(err).Warn("Health check failed")
		return map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}
	}
	if health == nil {
		health = map[string]interface{}{"status": "healthy"}
	}
	return health
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// do performs the request, retrying idempotent ones on transport errors and
// 5xx answers, and decodes a successful body into out.
func (c *Client) do(ctx context.Context, op, method, path string, payload interface{}, out interface{}) error {
	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return &APIError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.config.MaxRetries
	}

	var lastErr *APIError
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			c.logger.WithFields(logrus.Fields{
				"op":      op,
				"attempt": attempt,
				"error":   lastErr.Error(),
			}).Warn("Retrying request")

			if err := sleepContext(ctx, c.config.RetryDelay); err != nil {
				return &APIError{Op: op, Err: err}
			}
		}

		apiErr := c.roundTrip(ctx, op, method, path, body, out)
		if apiErr == nil {
			return nil
		}
		lastErr = apiErr

		if ctx.Err() != nil || !apiErr.retryable() {
			break
		}
	}
	return lastErr
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, body []byte, out interface{}) *APIError {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &APIError{Op: op, Err: err}
	}
	req.Header.Set("X-API-Key", c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(op, 0, time.Since(start))
		return &APIError{Op: op, Err: err, Timeout: ctx.Err() == nil && isTimeout(err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	c.observe(op, resp.StatusCode, time.Since(start))
	if err != nil {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err), Timeout: ctx.Err() == nil && isTimeout(err)}
	}

	c.logger.WithFields(logrus.Fields{
		"op":          op,
		"method":      method,
		"path":        path,
		"status_code": resp.StatusCode,
		"duration":    time.Since(start).String(),
	}).Debug("Web Justice request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Header.Get("Content-Type"), data),
		}
		switch resp.StatusCode {
		case http.StatusTooEarly:
			apiErr.Err = ErrNotReady
		case http.StatusUnauthorized, http.StatusForbidden:
			apiErr.Err = ErrAuthentication
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Message: "invalid JSON response", Err: err}
	}
	return nil
}

func (c *Client) observe(op string, statusCode int, d time.Duration) {
	if c.observer != nil {
		c.observer(op, statusCode, d)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
