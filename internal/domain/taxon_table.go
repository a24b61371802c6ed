package domain

import "sort"

// TaxonTable is a point-in-time snapshot of the remote taxon table,
// mapping normalized name to remote row id. A TaxonTable is never patched
// locally; a new fetch replaces it.
type TaxonTable map[string]int64

// Lookup returns the id recorded for name.
func (t TaxonTable) Lookup(name string) (int64, bool) {
	id, ok := t[name]
	return id, ok
}

// Missing returns, in lexical order, the names of set that are absent from t.
func (t TaxonTable) Missing(set NameSet) []string {
	var out []string
	for n := range set {
		if _, ok := t[n]; !ok {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// TaxonLocations maps a name to the occurrence foreign key columns that
// reference it, e.g. {"quercus": {"taxon_genus_cartodb_id": 12}}.
type TaxonLocations map[string]map[string]int64

// Locate builds the TaxonLocations projection of names against t. A name
// that appears under several ranks receives one column per rank. Names that
// t does not know are returned, sorted, as unresolved.
func Locate(names RankNames, t TaxonTable, idColumn string) (TaxonLocations, []string) {
	locs := make(TaxonLocations)
	unresolved := make(NameSet)
	for _, rank := range Ranks {
		for name := range names[rank] {
			id, ok := t[name]
			if !ok {
				unresolved.Add(name)
				continue
			}
			cols, ok := locs[name]
			if !ok {
				cols = make(map[string]int64, 1)
				locs[name] = cols
			}
			cols[rank.ForeignKeyColumn(idColumn)] = id
		}
	}
	return locs, unresolved.Sorted()
}
