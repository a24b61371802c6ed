package taxonsync

import (
	"fmt"
	"time"

	"github.com/bft-labs/taxonsync/internal/adapters/carto"
	"github.com/bft-labs/taxonsync/internal/app"
	"github.com/bft-labs/taxonsync/internal/domain"
	"github.com/bft-labs/taxonsync/internal/rewrite"
	"github.com/bft-labs/taxonsync/internal/watch"
)

// Store backends.
const (
	StoreCarto    = "carto"
	StorePostgres = "postgres"
)

// Strategies.
const (
	StrategyBulk    = app.StrategyBulk
	StrategyPerName = app.StrategyPerName
)

// Config holds the settings of a Syncer.
type Config struct {
	// CSVPath is the occurrence CSV names are read from.
	CSVPath string

	// Store selects the backend: "carto" (default) or "postgres". It is
	// ignored when a store is injected with WithStore.
	Store string

	// CARTO account.
	User              string
	Domain            string
	APIKey            string
	ConsumerKey       string
	ConsumerSecret    string
	Password          string
	Endpoint          string
	TokenURL          string
	HTTPTimeout       time.Duration
	RequestsPerSecond float64

	// DSN is the PostgreSQL connection string.
	DSN string

	TaxonTable string
	NameColumn string
	IDColumn   string

	Strategy  string
	Workers   int
	BatchSize int

	RetryAttempts int
	RetryInitial  time.Duration
	RetryMax      time.Duration

	// PushgatewayURL, when set, receives upload metrics after each sync.
	PushgatewayURL string

	// TargetTable and SourceTable are used by Rewrite.
	TargetTable string
	SourceTable string

	// WatchDebounce coalesces bursts of file events in Watch.
	WatchDebounce time.Duration
}

// SetDefaults fills zero values with defaults.
func (c *Config) SetDefaults() {
	if c.Store == "" {
		c.Store = StoreCarto
	}
	if c.Domain == "" {
		c.Domain = carto.DefaultDomain
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = carto.DefaultTimeout
	}
	table := app.DefaultTableConfig()
	if c.TaxonTable == "" {
		c.TaxonTable = table.Table
	}
	if c.NameColumn == "" {
		c.NameColumn = table.NameColumn
	}
	if c.IDColumn == "" {
		c.IDColumn = table.IDColumn
	}
	if c.Strategy == "" {
		c.Strategy = StrategyBulk
	}
	if c.Workers <= 0 {
		c.Workers = app.DefaultWorkers
	}
	if c.BatchSize <= 0 {
		c.BatchSize = domain.DefaultBatchSize
	}
	retry := app.DefaultRetryPolicy()
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = int(retry.MaxAttempts)
	}
	if c.RetryInitial <= 0 {
		c.RetryInitial = retry.Initial
	}
	if c.RetryMax <= 0 {
		c.RetryMax = retry.Max
	}
	if c.TargetTable == "" {
		c.TargetTable = rewrite.DefaultTarget
	}
	if c.WatchDebounce <= 0 {
		c.WatchDebounce = watch.DefaultDebounceDelay
	}
}

// Validate checks the configuration. Store credentials are checked when the
// store is opened.
func (c *Config) Validate() error {
	if c.CSVPath == "" {
		return fmt.Errorf("%w: csv path is required", domain.ErrInvalidConfig)
	}
	switch c.Store {
	case StoreCarto, StorePostgres:
	default:
		return fmt.Errorf("%w: unknown store %q", domain.ErrInvalidConfig, c.Store)
	}
	switch c.Strategy {
	case StrategyBulk, StrategyPerName:
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, c.Strategy)
	}
	if c.RetryMax < c.RetryInitial {
		return fmt.Errorf("%w: retry max must not be below retry initial", domain.ErrInvalidConfig)
	}
	return nil
}

func (c *Config) table() app.TableConfig {
	return app.TableConfig{
		Table:      c.TaxonTable,
		NameColumn: c.NameColumn,
		IDColumn:   c.IDColumn,
	}
}

func (c *Config) retry() app.RetryPolicy {
	return app.RetryPolicy{
		MaxAttempts: uint(c.RetryAttempts),
		Initial:     c.RetryInitial,
		Max:         c.RetryMax,
	}
}

func (c *Config) cartoConfig() carto.Config {
	return carto.Config{
		User:              c.User,
		Domain:            c.Domain,
		APIKey:            c.APIKey,
		ConsumerKey:       c.ConsumerKey,
		ConsumerSecret:    c.ConsumerSecret,
		Password:          c.Password,
		Endpoint:          c.Endpoint,
		TokenURL:          c.TokenURL,
		Timeout:           c.HTTPTimeout,
		RequestsPerSecond: c.RequestsPerSecond,
	}
}
