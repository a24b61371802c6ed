package rewrite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/taxonsync/internal/domain"
)

func TestColumns(t *testing.T) {
	got := Columns([]string{" Genus", `"Order"`, "Class ", "year"})
	assert.Equal(t, []string{"class", "genus", "order", "year"}, got)
}

func TestColumnType(t *testing.T) {
	tests := []struct {
		col  string
		want string
	}{
		{"scientificname", "text"},
		{"month", "int4"},
		{"decimallatitude", "numeric"},
		{"decimallongitude", "text"},
		{"names_cartodb_id", "float8"},
		{"created_at", "timestamp"},
		{"the_geom", "geometry"},
	}
	for _, tt := range tests {
		got, ok := ColumnType(tt.col)
		assert.True(t, ok, tt.col)
		assert.Equal(t, tt.want, got, tt.col)
	}
	_, ok := ColumnType("colour")
	assert.False(t, ok)
	assert.Len(t, columnTypes, 184)
}

func TestStatement(t *testing.T) {
	got, err := Statement([]string{"class", "genus", "year"}, "", "staging")
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO occurrence ("class","genus","year") (SELECT `+
		`CASE WHEN "class"='' THEN NULL ELSE "class"::text END,`+
		`CASE WHEN "genus"='' THEN NULL ELSE "genus"::text END,`+
		`CASE WHEN "year"='' THEN NULL ELSE "year"::int4 END`+
		` FROM staging);`, got)
}

func TestStatement_Errors(t *testing.T) {
	_, err := Statement([]string{"genus", "colour", "shape"}, "occurrence", "staging")
	require.ErrorIs(t, err, domain.ErrUnknownColumn)
	assert.Contains(t, err.Error(), "colour, shape")

	_, err = Statement(nil, "occurrence", "staging")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = Statement([]string{"genus"}, "occurrence", "")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestReadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nysm.csv")
	require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBFYear,Genus, Order \n2001,Quercus,Fagales\n"), 0o644))

	cols, err := ReadHeader(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"genus", "order", "year"}, cols)

	stmt, err := Statement(cols, "occurrence", "nysm")
	require.NoError(t, err)
	assert.Contains(t, stmt, `"order"::text`)
}
