package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsSubmittedJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := New(ctx, 2, 16)

	var ran atomic.Int32
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		pool.Submit(func(ctx context.Context) {
			if ran.Add(1) == 5 {
				close(done)
			}
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("jobs did not run, got %d of 5", ran.Load())
	}
}

func TestPoolDropsJobsWhenQueueFull(t *testing.T) {
	// no workers: the queue can never drain
	pool := New(context.Background(), 0, 1)

	pool.Submit(func(ctx context.Context) {})
	pool.Submit(func(ctx context.Context) {}) // dropped, must not block

	select {
	case job := <-pool.queue:
		_ = job
	default:
		t.Fatal("expected one queued job")
	}
}

func TestWithRetryStopsOnSuccess(t *testing.T) {
	var attempts int
	job := WithRetry(5, time.Millisecond, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	job(context.Background())
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithRetryGivesUpAfterMaxAttempts(t *testing.T) {
	var attempts int
	job := WithRetry(3, time.Millisecond, func() error {
		attempts++
		return errors.New("still broken")
	})

	job(context.Background())
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestShutdownWaitsForInflightJobs(t *testing.T) {
	ctx := context.Background()
	pool := New(ctx, 1, 4)

	var finished atomic.Bool
	started := make(chan struct{})
	pool.Submit(func(ctx context.Context) {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
	})

	<-started
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	pool.Shutdown(shutdownCtx)

	if !finished.Load() {
		t.Error("shutdown returned before the in-flight job finished")
	}
}

func TestShutdownDrainsQueuedJobs(t *testing.T) {
	pool := New(context.Background(), 1, 4)

	var ran atomic.Int32
	started := make(chan struct{})
	pool.Submit(func(ctx context.Context) {
		close(started)
		time.Sleep(20 * time.Millisecond)
		ran.Add(1)
	})
	// queued behind the sleeper, dequeued right around shutdown
	pool.Submit(func(ctx context.Context) {
		ran.Add(1)
	})

	<-started
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	pool.Shutdown(shutdownCtx)

	if ran.Load() != 2 {
		t.Errorf("expected both jobs to complete before shutdown returned, got %d", ran.Load())
	}
}
