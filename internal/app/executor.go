package app

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/bft-labs/taxonsync/internal/domain"
	"github.com/bft-labs/taxonsync/internal/ports"
)

// Outcome is the result of executing one job's SQL.
type Outcome struct {
	Worker   int
	Job      domain.Job
	SQL      string
	Result   *domain.ResultSet
	Err      error
	Attempts int
	Duration time.Duration
}

// OK reports whether the store accepted the SQL.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Retryable reports whether the failure was a transport failure, i.e. the
// kind of error that was retried until the attempt budget ran out.
func (o Outcome) Retryable() bool {
	return o.Err != nil && !domain.IsQueryError(o.Err) &&
		!errors.Is(o.Err, context.Canceled) && !errors.Is(o.Err, context.DeadlineExceeded)
}

// Executor runs SQL against the store, retrying transport failures according
// to a RetryPolicy. Store-reported query errors are returned immediately.
type Executor struct {
	store   ports.SQLStore
	policy  RetryPolicy
	logger  ports.Logger
	emitter UploadEventEmitter
}

// NewExecutor creates an executor. A nil emitter discards events.
func NewExecutor(store ports.SQLStore, policy RetryPolicy, logger ports.Logger, emitter UploadEventEmitter) *Executor {
	if emitter == nil {
		emitter = noopEmitter{}
	}
	return &Executor{
		store:   store,
		policy:  policy.withDefaults(),
		logger:  logger,
		emitter: emitter,
	}
}

// Execute runs sql for job. It never returns an error: failures are
// reported in the Outcome once the retry budget is spent.
func (e *Executor) Execute(ctx context.Context, job domain.Job, sql string) Outcome {
	out := Outcome{Job: job, SQL: sql}
	start := time.Now()

	res, err := backoff.Retry(ctx, func() (*domain.ResultSet, error) {
		out.Attempts++
		res, err := e.store.Query(ctx, sql)
		if err == nil {
			return res, nil
		}
		if domain.IsQueryError(err) || ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	},
		backoff.WithBackOff(e.policy.NewBackOff()),
		backoff.WithMaxTries(e.policy.MaxAttempts),
		backoff.WithMaxElapsedTime(retryElapsedCeiling),
		backoff.WithNotify(func(err error, wait time.Duration) {
			e.logger.Warn("transport error, retrying",
				ports.String("job", job.String()),
				ports.Int("attempt", out.Attempts),
				ports.Duration("backoff", wait),
				ports.Err(err),
			)
			e.emitter.OnRetry(out.Attempts, wait)
		}),
	)

	out.Result = res
	out.Err = err
	out.Duration = time.Since(start)

	if err != nil {
		e.emitter.OnUploadError(err, job.Size(), out.Retryable())
	} else {
		e.emitter.OnUploadSuccess(job.Size(), out.Duration)
	}
	return out
}
