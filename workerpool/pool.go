package workerpool

import (
	"context"
	"sync"
	"time"

	"github.com/Tough-Day/conference-invites/log"
)

type Job func(ctx context.Context)

// Pool runs best-effort side effects (analytics facts, CRM exports) off the
// request path. Jobs are dropped, not queued unboundedly, when the queue is
// full.
type Pool struct {
	queue chan Job
	wg    sync.WaitGroup
}

func New(ctx context.Context, workerCount, queueSize int) *Pool {
	pool := &Pool{
		queue: make(chan Job, queueSize),
	}

	// wg counts workers, not jobs: a dequeued job keeps its worker alive,
	// so Shutdown never returns under a still-running job.
	pool.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go pool.worker(ctx)
	}

	return pool
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.queue:
			if !ok {
				return
			}
			job(ctx)
		}
	}
}

func (p *Pool) Submit(job Job) {
	select {
	case p.queue <- job:
	default:
		log.Warn("worker pool queue full: job dropped")
	}
}

// Shutdown closes the queue and waits for in-flight jobs, up to the
// context's deadline.
func (p *Pool) Shutdown(ctx context.Context) {
	close(p.queue)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		log.Warn("worker pool shutdown timed out")
	case <-done:
	}
}

// WithRetry wraps a fallible job with a fixed-delay retry loop. The final
// failure is logged and swallowed: these jobs ride on operations whose
// success must not depend on them.
func WithRetry(retries int, delay time.Duration, job func() error) Job {
	return func(ctx context.Context) {
		var err error
		for i := 0; i < retries; i++ {
			if ctx.Err() != nil {
				return
			}
			if err = job(); err == nil {
				return
			}
			log.Debugf("job failed (attempt %d/%d): %v", i+1, retries, err)
			time.Sleep(delay)
		}
		log.Errorf("job failed after %d attempts: %v", retries, err)
	}
}
