package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/piresc/ramein/internal/pkg/logger"
	"github.com/piresc/ramein/internal/pkg/metrics"
	nrpkg "github.com/piresc/ramein/internal/pkg/newrelic"
	"github.com/piresc/ramein/services/payments"
)

const defaultPollInterval = time.Minute

// Scheduler periodically runs ExpireStale. A tick that arrives while the
// previous run is still busy is skipped.
type Scheduler struct {
	uc       payments.PaymentUC
	interval time.Duration
	nrApp    *newrelic.Application

	running atomic.Bool
	wg      sync.WaitGroup
	mu      sync.Mutex
	cancel  context.CancelFunc
}

// NewScheduler creates a scheduler; nrApp may be nil
func NewScheduler(uc payments.PaymentUC, interval time.Duration, nrApp *newrelic.Application) *Scheduler {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Scheduler{
		uc:       uc,
		interval: interval,
		nrApp:    nrApp,
	}
}

// Start launches the polling loop. It returns immediately; the loop ends when
// ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.loop(ctx)

	logger.Info("Pending transaction poller started",
		logger.Duration("interval", s.interval))
}

// Stop cancels the loop and waits for an in-flight run to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Pending transaction poller stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		metrics.PollerRun("skipped")
		logger.Debug("Previous poll still running, skipping tick")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)
		s.run(ctx)
	}()
}

func (s *Scheduler) run(ctx context.Context) {
	txnCtx, end := nrpkg.BackgroundTransaction(ctx, s.nrApp, "payments/expire-stale")
	defer end()

	if err := s.uc.ExpireStale(txnCtx); err != nil {
		nrpkg.NoticeTransactionError(nrpkg.FromContext(txnCtx), err)
		metrics.PollerRun("error")
		logger.Error("Pending transaction poll failed", logger.Err(err))
		return
	}
	metrics.PollerRun("ok")
}
