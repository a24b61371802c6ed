package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/taxonsync/internal/domain"
	"github.com/bft-labs/taxonsync/internal/ports"
	"github.com/bft-labs/taxonsync/internal/queue"
)

// DefaultWorkers is the default size of the upload pool.
const DefaultWorkers = 40

// DriverConfig holds the settings of one sync run.
type DriverConfig struct {
	CSVPath string
	Workers int
	Table   TableConfig
	Retry   RetryPolicy
}

// Stage is a step of a sync run.
type Stage int

const (
	StageInit Stage = iota
	StageExtract
	StageFetch
	StageDiff
	StageEnqueue
	StageUpload
	StageReload
	StageDone
)

// String returns a human-readable representation of the stage.
func (s Stage) String() string {
	switch s {
	case StageInit:
		return "Init"
	case StageExtract:
		return "Extract"
	case StageFetch:
		return "Fetch"
	case StageDiff:
		return "Diff"
	case StageEnqueue:
		return "Enqueue"
	case StageUpload:
		return "Upload"
	case StageReload:
		return "Reload"
	case StageDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Report summarizes a finished run.
type Report struct {
	RunID      string
	Strategy   string
	Names      map[string]int
	Unique     int
	Missing    []string
	Jobs       int
	Locations  domain.TaxonLocations
	Unresolved []string
	Before     int
	After      int
	Stages     map[string]time.Duration
	Duration   time.Duration
}

// Driver orchestrates one sync: extract names, diff them against the remote
// table, upload what is missing and rebuild the location projection.
type Driver struct {
	cfg       DriverConfig
	extractor ports.NameExtractor
	store     ports.SQLStore
	strategy  Strategy
	logger    ports.Logger
	emitter   UploadEventEmitter

	mu    sync.Mutex
	stage Stage
}

// NewDriver creates a driver. A nil emitter discards upload events.
func NewDriver(cfg DriverConfig, extractor ports.NameExtractor, store ports.SQLStore, strategy Strategy, logger ports.Logger, emitter UploadEventEmitter) *Driver {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	cfg.Table = cfg.Table.withDefaults()
	cfg.Retry = cfg.Retry.withDefaults()
	if emitter == nil {
		emitter = noopEmitter{}
	}
	return &Driver{
		cfg:       cfg,
		extractor: extractor,
		store:     store,
		strategy:  strategy,
		logger:    logger,
		emitter:   emitter,
		stage:     StageInit,
	}
}

// Stage returns the stage the driver is in.
func (d *Driver) Stage() Stage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stage
}

func (d *Driver) enter(logger ports.Logger, next Stage) {
	d.mu.Lock()
	prev := d.stage
	d.stage = next
	d.mu.Unlock()

	logger.Info("stage transition",
		ports.String("from", prev.String()),
		ports.String("to", next.String()),
	)
}

// Run performs the sync. Errors during extraction and while fetching the
// remote table are returned; failures of individual uploads are logged and
// show up as unresolved names in the report.
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	rep := &Report{
		RunID:    uuid.NewString(),
		Strategy: d.strategy.Name(),
		Stages:   make(map[string]time.Duration),
	}
	logger := d.logger.With(ports.String("run_id", rep.RunID))
	mirror := NewMirror(d.store, d.cfg.Table, logger)

	timed := func(stage Stage, fn func() error) error {
		d.enter(logger, stage)
		t := time.Now()
		err := fn()
		rep.Stages[stage.String()] = time.Since(t)
		return err
	}

	var names domain.RankNames
	err := timed(StageExtract, func() error {
		var err error
		names, err = d.extractor.Extract(ctx, d.cfg.CSVPath)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("extract names: %w", err)
	}
	rep.Names = names.Counts()

	var before domain.TaxonTable
	if err := timed(StageFetch, func() error {
		var err error
		before, err = mirror.Fetch(ctx)
		return err
	}); err != nil {
		return nil, err
	}
	rep.Before = len(before)

	_ = timed(StageDiff, func() error {
		unique := names.Union()
		rep.Unique = unique.Len()
		rep.Missing = before.Missing(unique)
		logger.Info("names compared",
			ports.Int("unique", rep.Unique),
			ports.Int("missing", len(rep.Missing)),
		)
		return nil
	})

	q := queue.New[domain.Job]()
	cache := NewNameCache(before)
	executor := NewExecutor(d.store, d.cfg.Retry, logger, d.emitter)
	workers := make([]*Worker, d.cfg.Workers)
	for i := range workers {
		workers[i] = NewWorker(i, q, d.strategy, executor, cache, logger)
	}
	pool := NewPool(workers, logger)
	if err := pool.Start(ctx); err != nil {
		return nil, err
	}

	_ = timed(StageEnqueue, func() error {
		jobs := d.strategy.Plan(rep.Missing, names)
		for _, job := range jobs {
			q.Put(job)
		}
		for range workers {
			q.Put(domain.Stop)
		}
		rep.Jobs = len(jobs)
		logger.Info("jobs enqueued",
			ports.String("strategy", rep.Strategy),
			ports.Int("jobs", rep.Jobs),
			ports.Int("workers", pool.Size()),
		)
		return nil
	})

	if err := timed(StageUpload, func() error {
		q.Join()
		return pool.Wait()
	}); err != nil {
		return nil, err
	}

	var after domain.TaxonTable
	if err := timed(StageReload, func() error {
		var err error
		after, err = mirror.Fetch(ctx)
		if err != nil {
			return err
		}
		rep.Locations, rep.Unresolved = domain.Locate(names, after, d.cfg.Table.IDColumn)
		return nil
	}); err != nil {
		return nil, err
	}
	rep.After = len(after)

	d.enter(logger, StageDone)
	rep.Duration = time.Since(start)

	logger.Info("sync finished",
		ports.String("strategy", rep.Strategy),
		ports.Int("unique", rep.Unique),
		ports.Int("missing", len(rep.Missing)),
		ports.Int("jobs", rep.Jobs),
		ports.Int("located", len(rep.Locations)),
		ports.Int("unresolved", len(rep.Unresolved)),
		ports.Int("rows_before", rep.Before),
		ports.Int("rows_after", rep.After),
		ports.Duration("duration", rep.Duration),
	)
	if len(rep.Unresolved) > 0 {
		logger.Warn("names not found after upload", ports.Any("names", rep.Unresolved))
	}
	logger.Debug("taxon locations", ports.Any("locations", rep.Locations))
	return rep, nil
}
