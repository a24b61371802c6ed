package app

import (
	"context"
	"fmt"

	"github.com/bft-labs/taxonsync/internal/domain"
	"github.com/bft-labs/taxonsync/internal/ports"
)

// Mirror downloads the remote taxon table into memory.
//
// Fetch is deliberately not retried: it runs before any work is queued and
// after all work is done, so a failure leaves nothing half finished.
type Mirror struct {
	store  ports.SQLStore
	table  TableConfig
	logger ports.Logger
}

// NewMirror creates a mirror of table on store.
func NewMirror(store ports.SQLStore, table TableConfig, logger ports.Logger) *Mirror {
	return &Mirror{store: store, table: table.withDefaults(), logger: logger}
}

// Query returns the SELECT statement used by Fetch.
func (m *Mirror) Query() string {
	return fmt.Sprintf("SELECT %s, %s FROM %s", m.table.NameColumn, m.table.IDColumn, m.table.Table)
}

// Fetch returns a fresh snapshot of the table keyed by normalized name.
func (m *Mirror) Fetch(ctx context.Context) (domain.TaxonTable, error) {
	res, err := m.store.Query(ctx, m.Query())
	if err != nil {
		return nil, fmt.Errorf("fetch taxon table: %w", err)
	}

	table := make(domain.TaxonTable, res.Len())
	skipped := 0
	for _, row := range res.Rows {
		raw, ok := row.String(m.table.NameColumn)
		name := domain.NormalizeName(raw)
		id, idOK := row.Int64(m.table.IDColumn)
		if !ok || name == "" || !idOK {
			skipped++
			continue
		}
		table[name] = id
	}
	if skipped > 0 {
		m.logger.Warn("skipped unusable taxon rows", ports.Int("rows", skipped))
	}
	m.logger.Info("fetched taxon table",
		ports.String("table", m.table.Table),
		ports.Int("rows", res.Len()),
		ports.Int("names", len(table)),
	)
	return table, nil
}
