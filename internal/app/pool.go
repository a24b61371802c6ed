package app

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/taxonsync/internal/domain"
	"github.com/bft-labs/taxonsync/internal/ports"
)

// PoolState represents the lifecycle state of a worker pool.
type PoolState int

const (
	PoolIdle PoolState = iota
	PoolRunning
	PoolDraining
	PoolStopped
)

// String returns a human-readable representation of the state.
func (s PoolState) String() string {
	switch s {
	case PoolIdle:
		return "Idle"
	case PoolRunning:
		return "Running"
	case PoolDraining:
		return "Draining"
	case PoolStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Pool runs a fixed set of workers. A pool is single use:
// Idle -> Running -> Draining -> Stopped.
type Pool struct {
	mu        sync.RWMutex
	state     PoolState
	workers   []*Worker
	group     errgroup.Group
	processed atomic.Int64
	logger    ports.Logger
}

// NewPool creates an idle pool over workers.
func NewPool(workers []*Worker, logger ports.Logger) *Pool {
	return &Pool{
		state:   PoolIdle,
		workers: workers,
		logger:  logger,
	}
}

// State returns the current pool state.
func (p *Pool) State() PoolState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Processed returns the number of jobs handled so far, sentinels excluded.
func (p *Pool) Processed() int {
	return int(p.processed.Load())
}

func (p *Pool) transition(from, to PoolState, reason string) error {
	p.mu.Lock()
	if p.state != from {
		cur := p.state
		p.mu.Unlock()
		if cur == PoolIdle {
			return domain.ErrNotRunning
		}
		return domain.ErrAlreadyRunning
	}
	p.state = to
	p.mu.Unlock()

	p.logger.Debug("pool state transition",
		ports.String("from", from.String()),
		ports.String("to", to.String()),
		ports.String("reason", reason),
	)
	return nil
}

// Start launches every worker. Workers block on the queue until jobs or
// their sentinel arrive.
func (p *Pool) Start(ctx context.Context) error {
	if err := p.transition(PoolIdle, PoolRunning, "start requested"); err != nil {
		return err
	}
	for _, w := range p.workers {
		p.group.Go(func() error {
			p.processed.Add(int64(w.Run(ctx)))
			return nil
		})
	}
	p.logger.Info("worker pool started", ports.Int("workers", len(p.workers)))
	return nil
}

// Wait blocks until every worker has consumed its sentinel.
func (p *Pool) Wait() error {
	if err := p.transition(PoolRunning, PoolDraining, "waiting for workers"); err != nil {
		return err
	}
	err := p.group.Wait()
	if terr := p.transition(PoolDraining, PoolStopped, "all workers stopped"); terr != nil {
		return terr
	}
	p.logger.Info("worker pool stopped", ports.Int("processed", p.Processed()))
	return err
}
