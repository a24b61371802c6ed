package taxonsync

import (
	"context"
	"fmt"
	"sync"

	"github.com/bft-labs/taxonsync/internal/adapters/carto"
	"github.com/bft-labs/taxonsync/internal/adapters/csvfile"
	"github.com/bft-labs/taxonsync/internal/adapters/metrics"
	"github.com/bft-labs/taxonsync/internal/adapters/postgres"
	"github.com/bft-labs/taxonsync/internal/app"
	"github.com/bft-labs/taxonsync/internal/domain"
	"github.com/bft-labs/taxonsync/internal/ports"
	"github.com/bft-labs/taxonsync/internal/rewrite"
	"github.com/bft-labs/taxonsync/internal/watch"
)

// Report summarizes a finished sync.
type Report = app.Report

// QueryError is returned when the store rejected a statement.
type QueryError = domain.QueryError

// Errors returned by a Syncer.
var (
	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrInvalidConfig   = domain.ErrInvalidConfig
	ErrUnknownColumn   = domain.ErrUnknownColumn
	ErrUnknownStrategy = domain.ErrUnknownStrategy
)

// Syncer uploads the names of one CSV to one taxon table.
// Use New to create it. Sync, Rewrite and Watch may be called repeatedly,
// but only one sync runs at a time.
type Syncer struct {
	config Config
	opts   options
	logger ports.Logger

	mu      sync.Mutex
	running bool
}

// New creates a Syncer. It validates the configuration but does not contact
// the store.
func New(cfg Config, opts ...Option) (*Syncer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Syncer{
		config: cfg,
		opts:   o,
		logger: o.logger,
	}, nil
}

// Config returns the effective configuration.
func (s *Syncer) Config() Config {
	return s.config
}

// Sync extracts the names of the CSV, uploads the missing ones and returns
// the report of the run. Failed uploads do not fail the sync; they show up
// in Report.Unresolved.
func (s *Syncer) Sync(ctx context.Context) (*Report, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	store, closeStore, err := s.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	strategy, err := app.NewStrategy(s.config.Strategy, s.config.table(), s.config.BatchSize, s.logger)
	if err != nil {
		return nil, err
	}

	emitter := &eventEmitterWrapper{handler: s.opts.eventHandler}
	var recorder *metrics.Recorder
	if s.config.PushgatewayURL != "" {
		recorder = metrics.NewRecorder()
		emitter.others = append(emitter.others, recorder)
	}

	driver := app.NewDriver(app.DriverConfig{
		CSVPath: s.config.CSVPath,
		Workers: s.config.Workers,
		Table:   s.config.table(),
		Retry:   s.config.retry(),
	}, csvfile.NewExtractor(s.logger), store, strategy, s.logger, emitter)

	report, err := driver.Run(ctx)
	if recorder != nil {
		// The run's own context may already be cancelled.
		if perr := recorder.Push(context.WithoutCancel(ctx), s.config.PushgatewayURL); perr != nil {
			s.logger.Warn("failed to push metrics",
				ports.String("url", s.config.PushgatewayURL),
				ports.Err(perr),
			)
		}
	}
	return report, err
}

// Rewrite builds the statement copying the staging table SourceTable into
// TargetTable, typed after the CSV header. With execute set the statement
// is also run once against the store.
func (s *Syncer) Rewrite(ctx context.Context, execute bool) (string, error) {
	cols, err := rewrite.ReadHeader(s.config.CSVPath)
	if err != nil {
		return "", fmt.Errorf("read header: %w", err)
	}
	stmt, err := rewrite.Statement(cols, s.config.TargetTable, s.config.SourceTable)
	if err != nil {
		return "", err
	}
	if !execute {
		return stmt, nil
	}

	store, closeStore, err := s.openStore(ctx)
	if err != nil {
		return stmt, err
	}
	defer closeStore()

	rs, err := store.Query(ctx, stmt)
	if err != nil {
		return stmt, fmt.Errorf("execute rewrite: %w", err)
	}
	s.logger.Info("rewrite executed",
		ports.String("target", s.config.TargetTable),
		ports.String("source", s.config.SourceTable),
		ports.Int("columns", len(cols)),
		ports.Int("rows", rs.TotalRows),
	)
	return stmt, nil
}

// Watch syncs once and then again after every write to the CSV file. An
// error of the first sync is returned; later ones are logged. Watch returns
// nil when ctx is cancelled.
func (s *Syncer) Watch(ctx context.Context) error {
	if _, err := s.Sync(ctx); err != nil {
		return err
	}
	w := watch.New(s.config.CSVPath, func(ctx context.Context) error {
		_, err := s.Sync(ctx)
		return err
	}, s.config.WatchDebounce, s.logger, watch.WithoutInitialSync())
	return w.Run(ctx)
}

func (s *Syncer) openStore(ctx context.Context) (ports.SQLStore, func(), error) {
	if s.opts.store != nil {
		return s.opts.store, func() {}, nil
	}

	switch s.config.Store {
	case StorePostgres:
		if s.config.DSN == "" {
			return nil, nil, fmt.Errorf("%w: dsn is required for the postgres store", domain.ErrInvalidConfig)
		}
		store, err := postgres.Open(ctx, s.config.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		cartoOpts := []carto.Option{carto.WithLogger(s.logger)}
		if s.opts.httpClient != nil {
			cartoOpts = append(cartoOpts, carto.WithHTTPClient(s.opts.httpClient))
		}
		client, err := carto.New(ctx, s.config.cartoConfig(), cartoOpts...)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil
	}
}
