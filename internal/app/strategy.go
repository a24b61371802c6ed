package app

import (
	"fmt"

	"github.com/bft-labs/taxonsync/internal/domain"
	"github.com/bft-labs/taxonsync/internal/ports"
)

// Strategy names accepted by NewStrategy.
const (
	StrategyBulk    = "bulk"
	StrategyPerName = "per-name"
)

// TableConfig names the remote taxon table and its columns.
type TableConfig struct {
	Table      string
	NameColumn string
	IDColumn   string
}

// DefaultTableConfig returns the CARTO layout: taxon(name, cartodb_id).
func DefaultTableConfig() TableConfig {
	return TableConfig{
		Table:      "taxon",
		NameColumn: "name",
		IDColumn:   "cartodb_id",
	}
}

func (t TableConfig) withDefaults() TableConfig {
	d := DefaultTableConfig()
	if t.Table == "" {
		t.Table = d.Table
	}
	if t.NameColumn == "" {
		t.NameColumn = d.NameColumn
	}
	if t.IDColumn == "" {
		t.IDColumn = d.IDColumn
	}
	return t
}

// Strategy decides how missing names become jobs and how a job is turned
// into SQL. Both strategies share the same queue and workers.
//
// Prepare and Handle are called concurrently from every worker.
type Strategy interface {
	// Name identifies the strategy in logs and reports.
	Name() string

	// Plan turns the missing names into jobs. Every missing name must be
	// carried by exactly one job.
	Plan(missing []string, names domain.RankNames) []domain.Job

	// Prepare renders the SQL for job. An empty string means there is
	// nothing left to do for it.
	Prepare(job domain.Job, cache *NameCache) string

	// Handle receives the outcome of an executed job and logs it.
	Handle(out Outcome, cache *NameCache)
}

// NewStrategy returns the strategy registered under name.
func NewStrategy(name string, table TableConfig, batchSize int, logger ports.Logger) (Strategy, error) {
	switch name {
	case StrategyBulk, "":
		return NewBulkStrategy(table, batchSize, logger), nil
	case StrategyPerName:
		return NewPerNameStrategy(table, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, name)
	}
}
