package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Quercus", "quercus"},
		{"  quercus ", "quercus"},
		{"QUERCUS ALBA", "quercus alba"},
		{"", ""},
		{"   ", ""},
		{"\tPlantae\n", "plantae"},
		// decomposed e + combining acute accent composes to U+00E9
		{"Ame\u0301rica", "am\u00e9rica"},
		{"Émile", "émile"},
	}

	for _, tt := range tests {
		got := NormalizeName(tt.in)
		if got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRankNames_AddAndUnion(t *testing.T) {
	rn := make(RankNames)
	assert.True(t, rn.Add(RankGenus, "Quercus"))
	assert.True(t, rn.Add(RankGenus, "quercus "))
	assert.False(t, rn.Add(RankGenus, "  "))
	assert.True(t, rn.Add(RankSpecies, "Alba"))
	assert.True(t, rn.Add(RankScientificName, "quercus"))

	assert.Equal(t, []string{"quercus"}, rn[RankGenus].Sorted())
	assert.Equal(t, []string{"alba"}, rn[RankSpecies].Sorted())
	assert.Equal(t, []string{"alba", "quercus"}, rn.Union().Sorted())
	assert.Equal(t, map[string]int{"genus": 1, "species": 1, "scientificname": 1}, rn.Counts())

	rank, ok := rn.FirstRank("quercus")
	assert.True(t, ok)
	assert.Equal(t, RankGenus, rank)

	_, ok = rn.FirstRank("missing")
	assert.False(t, ok)
}

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, "'quercus'", QuoteLiteral("quercus"))
	assert.Equal(t, "'o''brien'", QuoteLiteral("o'brien"))
	assert.Equal(t, "''", QuoteLiteral(""))
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"order"`, QuoteIdent("order"))
	assert.Equal(t, `"a""b"`, QuoteIdent(`a"b`))
}
