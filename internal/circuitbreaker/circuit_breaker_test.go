package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/portfolio-report/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStore = errors.New("store down")

func quietContext() context.Context {
	return logging.WithLogger(context.Background(), logging.Discard())
}

func fail(context.Context) error    { return errStore }
func succeed(context.Context) error { return nil }

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker() (*CircuitBreaker, *clock) {
	c := &clock{t: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)}
	cb := NewCircuitBreaker(&Config{
		Name:             "archive",
		MaxFailures:      3,
		FailureThreshold: 0.5,
		Timeout:          time.Minute,
		HalfOpenMaxCalls: 2,
	})
	cb.now = c.now
	cb.lastStateChange = c.now()
	return cb, c
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb, _ := newTestBreaker()
	ctx := quietContext()

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(ctx, fail), errStore)
	}
	assert.Equal(t, StateOpen, cb.GetState())

	called := false
	err := cb.Execute(ctx, func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestStaysClosedBelowThreshold(t *testing.T) {
	cb, _ := newTestBreaker()
	ctx := quietContext()

	for i := 0; i < 10; i++ {
		_ = cb.Execute(ctx, succeed)
		_ = cb.Execute(ctx, succeed)
		_ = cb.Execute(ctx, fail)
	}
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestRecoversThroughHalfOpen(t *testing.T) {
	cb, c := newTestBreaker()
	ctx := quietContext()
	cb.ForceOpen()

	c.advance(2 * time.Minute)
	require.NoError(t, cb.Execute(ctx, succeed))
	assert.Equal(t, StateHalfOpen, cb.GetState())

	require.NoError(t, cb.Execute(ctx, succeed))
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestFailedProbeReopens(t *testing.T) {
	cb, c := newTestBreaker()
	ctx := quietContext()
	cb.ForceOpen()

	c.advance(2 * time.Minute)
	assert.ErrorIs(t, cb.Execute(ctx, fail), errStore)
	assert.Equal(t, StateOpen, cb.GetState())
	assert.ErrorIs(t, cb.Execute(ctx, succeed), ErrCircuitOpen)
}

func TestHalfOpenLimitsProbes(t *testing.T) {
	cb, c := newTestBreaker()
	ctx := quietContext()
	cb.ForceOpen()
	c.advance(2 * time.Minute)

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- cb.Execute(ctx, func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	require.NoError(t, cb.Execute(ctx, succeed))
	assert.ErrorIs(t, cb.Execute(ctx, succeed), ErrTooManyRequests)

	close(release)
	assert.NoError(t, <-done)
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestManager(t *testing.T) {
	m := NewManager()
	a := m.GetOrCreate("events", nil)
	assert.Same(t, a, m.GetOrCreate("events", nil))
	m.GetOrCreate("archive", nil)

	stats := m.GetAllStats()
	require.Len(t, stats, 2)
	assert.Equal(t, "archive", stats[0].Name)
	assert.Equal(t, "events", stats[1].Name)
	assert.Equal(t, StateClosed, stats[1].State)
}

func TestReset(t *testing.T) {
	cb, _ := newTestBreaker()
	cb.ForceOpen()
	cb.Reset()

	assert.Equal(t, StateClosed, cb.GetState())
	assert.NoError(t, cb.Execute(quietContext(), succeed))
}
