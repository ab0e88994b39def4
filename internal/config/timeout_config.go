package config

import "time"

// TimeoutConfig gathers the timeouts derived from the rest of the configuration
type TimeoutConfig struct {
	// HTTP server
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Single remote API request
	APIRequestTimeout time.Duration

	// Whole consultation: initiate, poll until done, fetch results
	ConsultationTimeout time.Duration

	ShutdownTimeout time.Duration
}

// Timeouts derives the timeouts of the running service. The server write
// timeout is stretched so a synchronous consultation can finish.
func (c *Config) Timeouts() *TimeoutConfig {
	consultation := c.Polling.MaxWaitTime + c.Polling.TimeoutBuffer + 2*c.WebJustice.Timeout

	write := c.Server.WriteTimeout
	if write < consultation {
		write = consultation
	}

	return &TimeoutConfig{
		ServerReadTimeout:   c.Server.ReadTimeout,
		ServerWriteTimeout:  write,
		ServerIdleTimeout:   c.Server.IdleTimeout,
		APIRequestTimeout:   c.WebJustice.Timeout,
		ConsultationTimeout: consultation,
		ShutdownTimeout:     30 * time.Second,
	}
}
