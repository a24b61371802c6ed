package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memlog "github.com/bft-labs/taxonsync/internal/adapters/log"
	"github.com/bft-labs/taxonsync/internal/cartotest"
	"github.com/bft-labs/taxonsync/internal/domain"
)

// rowsStore returns fixed rows for every query.
type rowsStore struct {
	rows []domain.Row
	sql  string
}

func (s *rowsStore) Query(ctx context.Context, sql string) (*domain.ResultSet, error) {
	s.sql = sql
	return &domain.ResultSet{Rows: s.rows, TotalRows: len(s.rows)}, nil
}

func TestMirror_Fetch(t *testing.T) {
	table := cartotest.NewTable("plantae", "Quercus ")
	m := NewMirror(table, TableConfig{}, memlog.NewMemoryLogger())

	got, err := m.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.TaxonTable{"plantae": 1, "quercus": 2}, got)
}

func TestMirror_QueryUsesConfiguredColumns(t *testing.T) {
	store := &rowsStore{}
	m := NewMirror(store, TableConfig{Table: "taxa", NameColumn: "label", IDColumn: "id"}, memlog.NewMemoryLogger())

	_, err := m.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SELECT label, id FROM taxa", store.sql)
}

func TestMirror_SkipsUnusableRows(t *testing.T) {
	store := &rowsStore{rows: []domain.Row{
		{"name": "quercus", "cartodb_id": "12"},
		{"name": "alba", "cartodb_id": float64(13)},
		{"name": nil, "cartodb_id": float64(14)},
		{"name": "fagus", "cartodb_id": "not-a-number"},
		{"name": "  ", "cartodb_id": float64(15)},
	}}
	logger := memlog.NewMemoryLogger()

	got, err := NewMirror(store, TableConfig{}, logger).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.TaxonTable{"quercus": 12, "alba": 13}, got)

	warn := logger.Find("skipped unusable taxon rows")
	require.Len(t, warn, 1)
	assert.Equal(t, 3, warn[0].Fields["rows"])
}

func TestMirror_ErrorsAreWrapped(t *testing.T) {
	table := cartotest.NewTable()
	table.FailWith(func(int, string) error { return errReset })

	_, err := NewMirror(table, TableConfig{}, memlog.NewMemoryLogger()).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errReset)
	assert.Contains(t, err.Error(), "fetch taxon table")
	assert.Equal(t, 1, table.Calls(), "fetch is not retried")
}
