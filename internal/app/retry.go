package app

import (
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Default retry configuration values.
const (
	DefaultRetryAttempts = 10
	DefaultRetryInitial  = 1 * time.Second
	DefaultRetryMax      = 8 * time.Second

	// retryElapsedCeiling keeps backoff's elapsed-time limit out of the way;
	// the attempt budget is what bounds a job.
	retryElapsedCeiling = 24 * time.Hour
)

// RetryPolicy bounds how transport failures of one job are retried.
// Delays start at Initial, double, and are capped at Max, without jitter.
type RetryPolicy struct {
	// MaxAttempts is the total number of calls, the first one included.
	MaxAttempts uint
	Initial     time.Duration
	Max         time.Duration
}

// DefaultRetryPolicy returns 10 attempts with delays 1s,2s,4s,8s,8s,...
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultRetryAttempts,
		Initial:     DefaultRetryInitial,
		Max:         DefaultRetryMax,
	}
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts == 0 {
		p.MaxAttempts = DefaultRetryAttempts
	}
	if p.Initial <= 0 {
		p.Initial = DefaultRetryInitial
	}
	if p.Max <= 0 {
		p.Max = DefaultRetryMax
	}
	if p.Max < p.Initial {
		p.Max = p.Initial
	}
	return p
}

// NewBackOff returns a fresh backoff generator for the policy.
func (p RetryPolicy) NewBackOff() *backoff.ExponentialBackOff {
	p = p.withDefaults()
	return &backoff.ExponentialBackOff{
		InitialInterval:     p.Initial,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         p.Max,
	}
}

// Delays returns the sleeps between attempts when every attempt fails.
func (p RetryPolicy) Delays() []time.Duration {
	p = p.withDefaults()
	b := p.NewBackOff()
	b.Reset()
	out := make([]time.Duration, 0, p.MaxAttempts-1)
	for i := uint(1); i < p.MaxAttempts; i++ {
		out = append(out, b.NextBackOff())
	}
	return out
}
