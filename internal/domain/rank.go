package domain

import "fmt"

// Rank is a recognized taxonomic level. Its value is the lowercase CSV
// column name it is read from.
type Rank string

const (
	RankKingdom        Rank = "kingdom"
	RankPhylum         Rank = "phylum"
	RankClass          Rank = "class"
	RankOrder          Rank = "order"
	RankFamily         Rank = "family"
	RankGenus          Rank = "genus"
	RankSpecies        Rank = "species"
	RankScientificName Rank = "scientificname"
)

// Ranks lists every recognized rank from the most general to the most specific.
// Iteration order over ranks always follows this slice.
var Ranks = []Rank{
	RankKingdom,
	RankPhylum,
	RankClass,
	RankOrder,
	RankFamily,
	RankGenus,
	RankSpecies,
	RankScientificName,
}

// String returns the column name of the rank.
func (r Rank) String() string {
	return string(r)
}

// ForeignKeyColumn returns the occurrence column that references the taxon
// table for this rank, e.g. "taxon_genus_cartodb_id".
func (r Rank) ForeignKeyColumn(idColumn string) string {
	return fmt.Sprintf("taxon_%s_%s", r, idColumn)
}
