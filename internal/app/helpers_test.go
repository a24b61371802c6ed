package app

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/taxonsync/internal/domain"
)

// recordingEmitter tracks upload events for testing.
type recordingEmitter struct {
	mu        sync.Mutex
	successes int
	failures  int
	retryable []bool
	waits     []time.Duration
}

func (e *recordingEmitter) OnUploadSuccess(names int, d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.successes++
}

func (e *recordingEmitter) OnUploadError(err error, names int, retryable bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failures++
	e.retryable = append(e.retryable, retryable)
}

func (e *recordingEmitter) OnRetry(attempt int, wait time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.waits = append(e.waits, wait)
}

func (e *recordingEmitter) Waits() []time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]time.Duration(nil), e.waits...)
}

// staticExtractor returns a fixed set of names.
type staticExtractor struct {
	names domain.RankNames
	err   error
}

func (e *staticExtractor) Extract(ctx context.Context, path string) (domain.RankNames, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make(domain.RankNames)
	for rank, set := range e.names {
		for n := range set {
			out.Add(rank, n)
		}
	}
	return out, nil
}

// rankNames builds RankNames from rank/value pairs.
func rankNames(pairs ...string) domain.RankNames {
	rn := make(domain.RankNames)
	for i := 0; i+1 < len(pairs); i += 2 {
		rn.Add(domain.Rank(pairs[i]), pairs[i+1])
	}
	return rn
}

// fastPolicy keeps the production shape with millisecond units.
func fastPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 10,
		Initial:     time.Millisecond,
		Max:         8 * time.Millisecond,
	}
}

func ms(v ...int) []time.Duration {
	out := make([]time.Duration, len(v))
	for i, n := range v {
		out[i] = time.Duration(n) * time.Millisecond
	}
	return out
}
