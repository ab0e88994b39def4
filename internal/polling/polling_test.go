package polling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when Sleep is called.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

type jobStatus struct {
	ready    bool
	progress int
}

// readyAfter returns a checker that reports "not ready" n times, then ready.
func readyAfter(n int) (StatusChecker[jobStatus], *int) {
	calls := 0
	return func(context.Context) (jobStatus, error) {
		calls++
		return jobStatus{ready: calls > n, progress: calls * 10}, nil
	}, &calls
}

func isReady(s jobStatus) bool { return s.ready }

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2*time.Second, cfg.InitialInterval)
	assert.Equal(t, 30*time.Second, cfg.MaxInterval)
	assert.Equal(t, 1.5, cfg.BackoffMultiplier)
	assert.Equal(t, 900*time.Second, cfg.MaxWaitTime)
	assert.Equal(t, 30*time.Second, cfg.TimeoutBuffer)
	assert.Equal(t, 870*time.Second, cfg.Deadline())
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero initial interval", func(c *Config) { c.InitialInterval = 0 }},
		{"max below initial", func(c *Config) { c.MaxInterval = time.Second }},
		{"shrinking multiplier", func(c *Config) { c.BackoffMultiplier = 0.5 }},
		{"zero max wait", func(c *Config) { c.MaxWaitTime = 0 }},
		{"buffer larger than budget", func(c *Config) { c.TimeoutBuffer = c.MaxWaitTime }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPollUntilCompleteReturnsOnReadyStatus(t *testing.T) {
	for _, n := range []int{0, 1, 3, 8} {
		clock := newFakeClock()
		poller := New(DefaultConfig(), nil, WithClock(clock))
		check, calls := readyAfter(n)

		status, err := PollUntilComplete(context.Background(), poller, check, isReady, nil)
		require.NoError(t, err)

		assert.True(t, status.ready)
		assert.Equal(t, n+1, *calls, "returns on call N+1")
		require.Len(t, clock.sleeps, n, "one sleep per not-ready status")
	}
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	clock := newFakeClock()
	cfg := DefaultConfig()
	poller := New(cfg, nil, WithClock(clock))
	check, _ := readyAfter(12)

	_, err := PollUntilComplete(context.Background(), poller, check, isReady, nil)
	require.NoError(t, err)

	require.Len(t, clock.sleeps, 12)
	assert.Equal(t, cfg.InitialInterval, clock.sleeps[0])
	for i := 1; i < len(clock.sleeps); i++ {
		prev, cur := clock.sleeps[i-1], clock.sleeps[i]
		want := time.Duration(float64(prev) * cfg.BackoffMultiplier)
		if want > cfg.MaxInterval {
			want = cfg.MaxInterval
		}
		assert.Equal(t, want, cur, "sleep %d", i)
		assert.LessOrEqual(t, cur, cfg.MaxInterval)
	}
	assert.Equal(t, cfg.MaxInterval, clock.sleeps[len(clock.sleeps)-1])
}

func TestPollUntilCompleteTimesOut(t *testing.T) {
	clock := newFakeClock()
	cfg := Config{
		InitialInterval:   2 * time.Second,
		MaxInterval:       30 * time.Second,
		BackoffMultiplier: 1.5,
		MaxWaitTime:       5 * time.Second,
		TimeoutBuffer:     time.Second,
	}
	poller := New(cfg, nil, WithClock(clock))
	never := func(context.Context) (jobStatus, error) { return jobStatus{}, nil }

	_, err := PollUntilComplete(context.Background(), poller, never, isReady, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)

	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.GreaterOrEqual(t, timeout.Elapsed, 4*time.Second)
	assert.LessOrEqual(t, timeout.Elapsed, 6*time.Second)
	assert.Equal(t, 3, timeout.Polls)
	assert.Equal(t, 5*time.Second, timeout.MaxWait)
}

func TestCheckerErrorsConsumeRound(t *testing.T) {
	clock := newFakeClock()
	poller := New(DefaultConfig(), nil, WithClock(clock))

	calls := 0
	check := func(context.Context) (jobStatus, error) {
		calls++
		if calls <= 2 {
			return jobStatus{}, errors.New("connection reset")
		}
		return jobStatus{ready: true}, nil
	}

	var seen []jobStatus
	progress := func(s jobStatus) { seen = append(seen, s) }
	predicateCalls := 0
	done := func(s jobStatus) bool {
		predicateCalls++
		return s.ready
	}

	status, err := PollUntilComplete(context.Background(), poller, check, done, progress)
	require.NoError(t, err)
	assert.True(t, status.ready)

	assert.Equal(t, 3, calls)
	assert.Len(t, clock.sleeps, 2, "failed checks still wait")
	assert.Equal(t, []time.Duration{2 * time.Second, 3 * time.Second}, clock.sleeps)
	assert.Len(t, seen, 1, "progress only sees fetched statuses")
	assert.Equal(t, 1, predicateCalls)
}

func TestProgressCallbackSeesEveryStatus(t *testing.T) {
	clock := newFakeClock()
	poller := New(DefaultConfig(), nil, WithClock(clock))
	check, _ := readyAfter(3)

	var progress []int
	_, err := PollUntilComplete(context.Background(), poller, check, isReady, func(s jobStatus) {
		progress = append(progress, s.progress)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 30, 40}, progress)
}

func TestPollUntilCompleteHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := newFakeClock()
	poller := New(DefaultConfig(), nil, WithClock(clock))

	calls := 0
	check := func(context.Context) (jobStatus, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return jobStatus{}, nil
	}

	_, err := PollUntilComplete(ctx, poller, check, isReady, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, calls)
}

func TestPollerIsSafeForConcurrentLoops(t *testing.T) {
	poller := New(Config{
		InitialInterval:   time.Millisecond,
		MaxInterval:       2 * time.Millisecond,
		BackoffMultiplier: 2,
		MaxWaitTime:       5 * time.Second,
		TimeoutBuffer:     time.Second,
	}, nil)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			check, _ := readyAfter(i % 4)
			_, errs[i] = PollUntilComplete(context.Background(), poller, check, isReady, nil)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestSystemClockSleep(t *testing.T) {
	clock := SystemClock()
	require.NoError(t, clock.Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, clock.Sleep(ctx, time.Hour), context.Canceled)
}
