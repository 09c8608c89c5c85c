package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errUpstream = errors.New("upstream down")

func failing(context.Context) error { return errUpstream }

func succeeding(context.Context) error { return nil }

func newTestBreaker(clock *time.Time) *CircuitBreaker {
	cfg := DefaultConfig("midtrans")
	cfg.FailureThreshold = 3
	cfg.Timeout = 10 * time.Second
	cb := New(cfg, nil)
	cb.now = func() time.Time { return *clock }
	cb.expiry = clock.Add(cfg.Interval)
	return cb
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	clock := time.Now()
	cb := newTestBreaker(&clock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(ctx, failing), errUpstream)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitBreakerOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	clock := time.Now()
	cb := newTestBreaker(&clock)
	ctx := context.Background()

	var transitions []string
	cb.config.OnStateChange = func(_ string, from, to State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	}

	for i := 0; i < 3; i++ {
		_ = cb.Execute(ctx, failing)
	}

	clock = clock.Add(11 * time.Second)
	assert.NoError(t, cb.Execute(ctx, succeeding))
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}, transitions)
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := time.Now()
	cb := newTestBreaker(&clock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = cb.Execute(ctx, failing)
	}
	clock = clock.Add(11 * time.Second)

	assert.ErrorIs(t, cb.Execute(ctx, failing), errUpstream)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_IgnoresNonFailures(t *testing.T) {
	clock := time.Now()
	cfg := DefaultConfig("xendit")
	cfg.FailureThreshold = 1
	clientErr := errors.New("400 bad request")
	cfg.IsFailure = func(err error) bool { return err != nil && err != clientErr }
	cb := New(cfg, nil)
	cb.now = func() time.Time { return clock }

	for i := 0; i < 5; i++ {
		_ = cb.Execute(context.Background(), func(context.Context) error { return clientErr })
	}

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(5), cb.Counts().TotalSuccesses)
	assert.Equal(t, uint32(0), cb.Counts().ConsecutiveFailures)
}
