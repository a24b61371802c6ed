package app

import (
	"context"
	"fmt"

	"github.com/bft-labs/taxonsync/internal/domain"
	"github.com/bft-labs/taxonsync/internal/ports"
	"github.com/bft-labs/taxonsync/internal/queue"
)

// Worker consumes jobs from the shared queue until it receives domain.Stop.
type Worker struct {
	id       int
	queue    *queue.Queue[domain.Job]
	strategy Strategy
	executor *Executor
	cache    *NameCache
	logger   ports.Logger
}

// NewWorker creates a worker reading from q.
func NewWorker(id int, q *queue.Queue[domain.Job], strategy Strategy, executor *Executor, cache *NameCache, logger ports.Logger) *Worker {
	return &Worker{
		id:       id,
		queue:    q,
		strategy: strategy,
		executor: executor,
		cache:    cache,
		logger:   logger.With(ports.Int("worker", id)),
	}
}

// Run processes jobs until the sentinel arrives and returns the number of
// jobs it handled, the sentinel excluded. Every dequeued item, sentinel
// included, is marked done exactly once.
func (w *Worker) Run(ctx context.Context) int {
	processed := 0
	for {
		job := w.queue.Get()
		if job == domain.Stop {
			w.queue.TaskDone()
			w.logger.Debug("worker stopped", ports.Int("processed", processed))
			return processed
		}
		w.process(ctx, job)
		processed++
	}
}

func (w *Worker) process(ctx context.Context, job domain.Job) {
	defer w.queue.TaskDone()
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("job panicked",
				ports.String("job", job.String()),
				ports.Err(fmt.Errorf("panic: %v", r)),
			)
		}
	}()

	sql := w.strategy.Prepare(job, w.cache)
	if sql == "" {
		w.logger.Debug("nothing to upload", ports.String("job", job.String()))
		return
	}

	out := w.executor.Execute(ctx, job, sql)
	out.Worker = w.id
	w.strategy.Handle(out, w.cache)
}
