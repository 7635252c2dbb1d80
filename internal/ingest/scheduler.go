package ingest

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Ticker abstracts time.Ticker so tests can drive ticks deterministically.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFactory func(d time.Duration) Ticker

type realTicker struct {
	*time.Ticker
}

func (t realTicker) C() <-chan time.Time { return t.Ticker.C }

func NewTicker(d time.Duration) Ticker {
	return realTicker{time.NewTicker(d)}
}

type CycleRunner interface {
	RunCycle(ctx context.Context) (Summary, error)
}

// Scheduler triggers ingestion cycles: once at startup, then on every
// tick of a fixed interval. At most one cycle is in flight at a time;
// a tick that arrives while a cycle is running is skipped outright, not
// queued. Cycles are never cancelled mid-run.
type Scheduler struct {
	runner    CycleRunner
	interval  time.Duration
	newTicker TickerFactory
	running   atomic.Bool
}

func NewScheduler(runner CycleRunner, interval time.Duration) *Scheduler {
	return &Scheduler{runner: runner, interval: interval, newTicker: NewTicker}
}

// NewSchedulerWithTicker injects the ticker construction, for tests.
func NewSchedulerWithTicker(runner CycleRunner, interval time.Duration, factory TickerFactory) *Scheduler {
	return &Scheduler{runner: runner, interval: interval, newTicker: factory}
}

// Start blocks until ctx is done. A cycle already in flight when ctx
// ends still runs to completion.
func (s *Scheduler) Start(ctx context.Context) {
	s.tryRun(ctx)

	ticker := s.newTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			s.tryRun(ctx)
		}
	}
}

func (s *Scheduler) tryRun(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		slog.Info("ingestion cycle still running, tick skipped")
		return
	}

	go func() {
		defer s.running.Store(false)
		if _, err := s.runner.RunCycle(ctx); err != nil {
			slog.Error("ingestion cycle failed", "error", err)
		}
	}()
}
