package cartotest

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/taxonsync/internal/domain"
)

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{"single", "SELECT name, cartodb_id FROM taxon", []string{"SELECT name, cartodb_id FROM taxon"}},
		{"trailing semicolon", "INSERT INTO taxon (name) VALUES ('a');", []string{"INSERT INTO taxon (name) VALUES ('a')"}},
		{"semicolon in literal", "INSERT INTO taxon (name) VALUES ('a;b');SELECT 1", []string{"INSERT INTO taxon (name) VALUES ('a;b')", "SELECT 1"}},
		{"empty", " ; ;", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitStatements(tt.sql))
		})
	}
}

func TestTable_Statements(t *testing.T) {
	ctx := context.Background()
	table := NewTable("plantae")

	_, err := table.Query(ctx, "INSERT INTO taxon (name) VALUES ('o''brien');INSERT INTO taxon (name) VALUES ('quercus');")
	require.NoError(t, err)
	assert.Equal(t, 1, table.Count("o'brien"))
	assert.Equal(t, 2, table.Inserts())

	insertNew := "INSERT INTO taxon (name) SELECT 'quercus' WHERE NOT EXISTS (SELECT 1 FROM taxon WHERE name = 'quercus');" +
		"SELECT name, cartodb_id FROM taxon WHERE name = 'quercus'"
	rs, err := table.Query(ctx, insertNew)
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())
	id, ok := rs.Rows[0].Int64("cartodb_id")
	require.True(t, ok)
	assert.Equal(t, int64(3), id)
	assert.Equal(t, 1, table.Count("quercus"), "select-or-insert must not duplicate")

	rs, err = table.Query(ctx, "SELECT name, cartodb_id FROM taxon")
	require.NoError(t, err)
	assert.Equal(t, 3, rs.TotalRows)
	assert.Equal(t, 3, table.Calls())
}

func TestTable_Errors(t *testing.T) {
	ctx := context.Background()
	table := NewTable()

	_, err := table.Query(ctx, "SELECT name, cartodb_id FROM species")
	var qe *domain.QueryError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, 400, qe.Status)

	_, err = table.Query(ctx, "DROP TABLE taxon")
	assert.True(t, domain.IsQueryError(err))

	boom := errors.New("boom")
	table.FailWith(func(n int, sql string) error {
		if n == 3 {
			return boom
		}
		return nil
	})
	_, err = table.Query(ctx, "SELECT name, cartodb_id FROM taxon")
	assert.ErrorIs(t, err, boom)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = table.Query(cctx, "SELECT name, cartodb_id FROM taxon")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestServer(t *testing.T) {
	srv := NewServer(NewTable("quercus"))
	srv.APIKey = "secret"
	defer srv.Close()

	post := func(form url.Values) *http.Response {
		resp, err := http.Post(srv.SQLURL(), "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
		require.NoError(t, err)
		resp.Body.Close()
		return resp
	}

	q := "SELECT name, cartodb_id FROM taxon"
	assert.Equal(t, http.StatusOK, post(url.Values{"q": {q}, "api_key": {"secret"}}).StatusCode)
	assert.Equal(t, http.StatusUnauthorized, post(url.Values{"q": {q}, "api_key": {"wrong"}}).StatusCode)
	assert.Equal(t, http.StatusBadRequest, post(url.Values{"q": {"SELECT * FROM nope"}, "api_key": {"secret"}}).StatusCode)

	srv.RespondWith(http.StatusServiceUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, post(url.Values{"q": {q}, "api_key": {"secret"}}).StatusCode)
	assert.Equal(t, 4, srv.Requests())
}
