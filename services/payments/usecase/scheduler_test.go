package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/piresc/ramein/services/payments/mocks"
	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunsAndStops(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockPaymentUC(ctrl)

	var calls int32
	uc.EXPECT().ExpireStale(gomock.Any()).DoAndReturn(func(context.Context) error {
		if atomic.AddInt32(&calls, 1)%2 == 0 {
			return errors.New("gateway down")
		}
		return nil
	}).MinTimes(2)

	s := NewScheduler(uc, 5*time.Millisecond, nil)
	s.Start(context.Background())

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 2 }, time.Second, time.Millisecond)
	s.Stop()

	stopped := atomic.LoadInt32(&calls)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt32(&calls))
}

func TestScheduler_SkipsOverlappingRuns(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockPaymentUC(ctrl)

	var inFlight, maxInFlight, calls int32
	release := make(chan struct{})
	uc.EXPECT().ExpireStale(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		n := atomic.AddInt32(&inFlight, 1)
		if n > atomic.LoadInt32(&maxInFlight) {
			atomic.StoreInt32(&maxInFlight, n)
		}
		defer atomic.AddInt32(&inFlight, -1)

		select {
		case <-release:
		case <-ctx.Done():
		}
		return ctx.Err()
	}).MinTimes(1)

	s := NewScheduler(uc, 2*time.Millisecond, nil)
	s.Start(context.Background())

	// several ticks pass while the first run is blocked
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	close(release)
	s.Stop()
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInFlight))
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	s := NewScheduler(nil, 0, nil)
	assert.Equal(t, defaultPollInterval, s.interval)
	s.Stop()
}

func TestScheduler_ContextCancelStopsLoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockPaymentUC(ctrl)
	uc.EXPECT().ExpireStale(gomock.Any()).Return(nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(uc, time.Millisecond, nil)
	s.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancellation")
	}
}
