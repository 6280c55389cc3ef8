package simulate

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/cnsetzer/redback/internal/observe"
)

// eventFunc simulates one event.
type eventFunc func(ctx context.Context, event int) ([]observe.Record, error)

// WorkerPool runs events on a fixed number of goroutines.
type WorkerPool struct {
	workers int
	logger  *slog.Logger
}

// NewWorkerPool creates a worker pool with the given number of workers.
func NewWorkerPool(workers int, logger *slog.Logger) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{
		workers: workers,
		logger:  logger,
	}
}

// RunBatch evaluates events 0..n-1 and returns their records indexed by
// event. The first failure cancels the remaining work and is returned
// with no results.
func (wp *WorkerPool) RunBatch(ctx context.Context, n int, fn eventFunc) ([][]observe.Record, error) {
	results := make([][]observe.Record, n)
	if n == 0 {
		return results, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int, wp.workers*2)

	// Feed jobs.
	g.Go(func() error {
		defer close(jobs)
		for i := range n {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for range min(wp.workers, n) {
		g.Go(func() error {
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					return err
				}
				recs, err := fn(ctx, i)
				if err != nil {
					wp.logger.Warn("event simulation failed", "event", i, "error", err)
					return err
				}
				// Each slot is written by exactly one worker.
				results[i] = recs
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
