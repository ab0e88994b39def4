// Package polling drives an asynchronous job to completion by repeatedly
// checking its status with capped exponential backoff inside a fixed time
// budget.
package polling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	logging "github.com/nexconsult/justice-tools/internal/logger"
)

// ErrTimeout is matched by every *TimeoutError.
var ErrTimeout = errors.New("polling timed out")

// Config holds the backoff parameters. The loop stops polling once
// MaxWaitTime-TimeoutBuffer has elapsed.
type Config struct {
	InitialInterval   time.Duration `json:"initial_interval"`
	MaxInterval       time.Duration `json:"max_interval"`
	BackoffMultiplier float64       `json:"backoff_multiplier"`
	MaxWaitTime       time.Duration `json:"max_wait_time"`
	TimeoutBuffer     time.Duration `json:"timeout_buffer"`
}

// DefaultConfig returns 2s initial interval growing 1.5x up to 30s, within a
// 15 minute budget minus a 30s safety buffer.
func DefaultConfig() Config {
	return Config{
		InitialInterval:   2 * time.Second,
		MaxInterval:       30 * time.Second,
		BackoffMultiplier: 1.5,
		MaxWaitTime:       900 * time.Second,
		TimeoutBuffer:     30 * time.Second,
	}
}

// Validate checks that the parameters describe a loop that can terminate.
func (c Config) Validate() error {
	switch {
	case c.InitialInterval <= 0:
		return fmt.Errorf("initial interval must be positive, got %s", c.InitialInterval)
	case c.MaxInterval < c.InitialInterval:
		return fmt.Errorf("max interval %s is shorter than initial interval %s", c.MaxInterval, c.InitialInterval)
	case c.BackoffMultiplier < 1:
		return fmt.Errorf("backoff multiplier must be >= 1, got %g", c.BackoffMultiplier)
	case c.MaxWaitTime <= 0:
		return fmt.Errorf("max wait time must be positive, got %s", c.MaxWaitTime)
	case c.TimeoutBuffer < 0 || c.TimeoutBuffer >= c.MaxWaitTime:
		return fmt.Errorf("timeout buffer %s must be within [0, %s)", c.TimeoutBuffer, c.MaxWaitTime)
	}
	return nil
}

// Deadline is the elapsed time after which no new poll is attempted.
func (c Config) Deadline() time.Duration {
	return c.MaxWaitTime - c.TimeoutBuffer
}

// TimeoutError is returned when the job did not complete inside the budget.
type TimeoutError struct {
	Elapsed time.Duration
	Polls   int
	MaxWait time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("polling timed out after %.1fs (%d polls, max wait %s)", e.Elapsed.Seconds(), e.Polls, e.MaxWait)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// StatusChecker fetches the current status of the job.
type StatusChecker[S any] func(ctx context.Context) (S, error)

// CompletionPredicate reports whether a status is final.
type CompletionPredicate[S any] func(status S) bool

// ProgressCallback receives every successfully fetched status.
type ProgressCallback[S any] func(status S)

// Poller runs polling loops with a fixed Config. It keeps no per-loop state
// and may be shared between goroutines.
type Poller struct {
	config Config
	clock  Clock
	logger logrus.FieldLogger
}

// Option customizes a Poller.
type Option func(*Poller)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(clock Clock) Option {
	return func(p *Poller) {
		p.clock = clock
	}
}

// New creates a Poller. A nil logger discards log output.
func New(cfg Config, logger logrus.FieldLogger, opts ...Option) *Poller {
	if logger == nil {
		logger = logging.Discard()
	}

	p := &Poller{
		config: cfg,
		clock:  SystemClock(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the poller configuration.
func (p *Poller) Config() Config {
	return p.config
}

// Stats is a snapshot of a running loop.
type Stats struct {
	Elapsed         time.Duration `json:"elapsed"`
	Polls           int           `json:"polls"`
	CurrentInterval time.Duration `json:"current_interval"`
	Remaining       time.Duration `json:"remaining"`
}

// Fields renders the snapshot for structured logging.
func (s Stats) Fields() logrus.Fields {
	return logrus.Fields{
		"elapsed_seconds":   s.Elapsed.Seconds(),
		"polls":             s.Polls,
		"interval_seconds":  s.CurrentInterval.Seconds(),
		"remaining_seconds": s.Remaining.Seconds(),
	}
}

// state lives for a single PollUntilComplete call.
type state struct {
	start    time.Time
	interval time.Duration
	polls    int
}

func (p *Poller) stats(st *state) Stats {
	elapsed := p.clock.Now().Sub(st.start)
	remaining := p.config.MaxWaitTime - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return Stats{
		Elapsed:         elapsed,
		Polls:           st.polls,
		CurrentInterval: st.interval,
		Remaining:       remaining,
	}
}

func (p *Poller) nextInterval(current time.Duration) time.Duration {
	next := time.Duration(float64(current) * p.config.BackoffMultiplier)
	if next > p.config.MaxInterval {
		return p.config.MaxInterval
	}
	return next
}

// PollUntilComplete calls check until done reports true for a fetched status
// and returns that status. Each round it checks, reports progress, evaluates
// done, gives up with a *TimeoutError once the deadline has passed, and
// otherwise sleeps before the next round with a longer interval.
//
// A failing check is logged and skips progress and done for that round; it
// still costs a round and its sleep. ctx cancellation aborts the wait and is
// returned as is.
func PollUntilComplete[S any](ctx context.Context, p *Poller, check StatusChecker[S], done CompletionPredicate[S], progress ProgressCallback[S]) (S, error) {
	var zero S

	st := &state{
		start:    p.clock.Now(),
		interval: p.config.InitialInterval,
	}

	p.logger.WithFields(logrus.Fields{
		"initial_interval_seconds": p.config.InitialInterval.Seconds(),
		"max_wait_seconds":         p.config.MaxWaitTime.Seconds(),
	}).Debug("Polling started")

	for {
		status, err := check(ctx)
		st.polls++

		if err != nil {
			p.logger.WithFields(p.stats(st).Fields()).WithError(err).Warn("Status check failed, retrying after backoff")
		} else {
			if progress != nil {
				progress(status)
			}
			if done(status) {
				p.logger.WithFields(p.stats(st).Fields()).Info("Polling completed")
				return status, nil
			}
		}

		stats := p.stats(st)
		if stats.Elapsed >= p.config.Deadline() {
			p.logger.WithFields(stats.Fields()).Error("Polling timed out")
			return zero, &TimeoutError{
				Elapsed: stats.Elapsed,
				Polls:   st.polls,
				MaxWait: p.config.MaxWaitTime,
			}
		}

		p.logger.WithFields(stats.Fields()).Debug("Job not ready, waiting")

		if err := p.clock.Sleep(ctx, st.interval); err != nil {
			return zero, err
		}
		st.interval = p.nextInterval(st.interval)
	}
}
