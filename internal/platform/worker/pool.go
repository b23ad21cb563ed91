package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
)

// Task is a unit of background work. It receives a context detached from the
// request that scheduled it.
type Task = func(ctx context.Context) error

// ErrPoolFull is returned by Submit when every worker is busy. The task is
// dropped rather than blocking the caller.
var ErrPoolFull = ants.ErrPoolOverload

// Pool runs fire-and-forget tasks on a bounded ants pool. Failures are logged,
// never returned to the caller that submitted them.
type Pool struct {
	pool    *ants.Pool
	logger  *logging.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewPool(size int, timeout time.Duration, logger *logging.Logger) (*Pool, error) {
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = logging.Default()
	}

	p, err := ants.NewPool(size, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	return &Pool{
		pool:    p,
		logger:  logger,
		timeout: timeout,
	}, nil
}

// Submit hands task to an idle worker and returns at once. The returned error
// only reports that the task was not accepted, ErrPoolFull when saturated.
func (p *Pool) Submit(ctx context.Context, name string, task Task) error {
	if p == nil || task == nil {
		return nil
	}

	base := context.WithoutCancel(ctx)
	p.wg.Add(1)
	err := p.pool.Submit(func() {
		defer p.wg.Done()

		runCtx := base
		if p.timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(base, p.timeout)
			defer cancel()
		}

		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				p.logger.ErrorContext(runCtx, "background task panicked", "task", name, "panic", fmt.Sprint(r))
			}
		}()

		if err := task(runCtx); err != nil {
			p.logger.WarnContext(runCtx, "background task failed", "task", name, "error", err, "duration", time.Since(start))
			return
		}
		p.logger.DebugContext(runCtx, "background task finished", "task", name, "duration", time.Since(start))
	})
	if err != nil {
		p.wg.Done()
		p.logger.WarnContext(ctx, "background task dropped", "task", name, "error", err)
		return fmt.Errorf("submit task %s: %w", name, err)
	}
	return nil
}

// Wait blocks until every submitted task has finished.
func (p *Pool) Wait() {
	if p == nil {
		return
	}
	p.wg.Wait()
}

func (p *Pool) Running() int {
	if p == nil {
		return 0
	}
	return p.pool.Running()
}

// Close waits for queued work and releases the pool.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.wg.Wait()
	p.pool.Release()
}
