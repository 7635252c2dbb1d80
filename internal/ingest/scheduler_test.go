package ingest

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type fakeTicker struct {
	ch chan time.Time
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               {}

// blockingRunner holds each cycle open until release is closed, so
// tests can observe the Running state.
type blockingRunner struct {
	started chan struct{}
	release chan struct{}
	runs    atomic.Int32
}

func newBlockingRunner() *blockingRunner {
	return &blockingRunner{
		started: make(chan struct{}, 8),
		release: make(chan struct{}),
	}
}

func (r *blockingRunner) RunCycle(ctx context.Context) (Summary, error) {
	r.runs.Add(1)
	r.started <- struct{}{}
	<-r.release
	return Summary{}, nil
}

func newTestScheduler(runner CycleRunner) (*Scheduler, *fakeTicker) {
	ticker := &fakeTicker{ch: make(chan time.Time)}
	s := NewSchedulerWithTicker(runner, time.Hour, func(time.Duration) Ticker { return ticker })
	return s, ticker
}

func waitIdle(t *testing.T, s *Scheduler) {
	t.Helper()
	deadline := time.After(time.Second)
	for s.running.Load() {
		select {
		case <-deadline:
			t.Fatal("cycle did not finish")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestScheduler_SkipsTriggerWhileRunning(t *testing.T) {
	runner := newBlockingRunner()
	s := NewScheduler(runner, time.Hour)
	ctx := context.Background()

	s.tryRun(ctx)
	<-runner.started

	// triggers during a running cycle must be dropped, not queued
	s.tryRun(ctx)
	s.tryRun(ctx)

	if got := runner.runs.Load(); got != 1 {
		t.Fatalf("expected concurrent triggers to be skipped, got %d runs", got)
	}

	// once the cycle completes the scheduler is idle again
	close(runner.release)
	waitIdle(t, s)

	s.tryRun(ctx)
	<-runner.started

	if got := runner.runs.Load(); got != 2 {
		t.Fatalf("expected a new run after completion, got %d runs", got)
	}
}

func TestScheduler_RunsAtStartupAndOnTicks(t *testing.T) {
	runner := newBlockingRunner()
	close(runner.release) // cycles complete immediately
	s, ticker := newTestScheduler(runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Start(ctx)

	// startup cycle, before any tick
	<-runner.started
	waitIdle(t, s)

	ticker.ch <- time.Now()
	<-runner.started
	waitIdle(t, s)

	ticker.ch <- time.Now()
	<-runner.started

	if got := runner.runs.Load(); got != 3 {
		t.Fatalf("expected 3 runs (startup + 2 ticks), got %d", got)
	}
}

func TestScheduler_StopsOnContextDone(t *testing.T) {
	runner := newBlockingRunner()
	close(runner.release)
	s, _ := newTestScheduler(runner)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	<-runner.started
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancellation")
	}
}
