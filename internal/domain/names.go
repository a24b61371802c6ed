package domain

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName trims surrounding whitespace, applies Unicode NFC and
// lowercases the result. Every name stored in a NameSet or TaxonTable goes
// through this function so that "Quercus" and "quercus " compare equal.
func NormalizeName(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	// Caser is stateful and not safe for concurrent use.
	return cases.Lower(language.Und).String(s)
}

// NameSet is a set of normalized names.
type NameSet map[string]struct{}

// NewNameSet builds a set from already normalized names.
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Add inserts name unchanged.
func (s NameSet) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether name is in the set.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of names.
func (s NameSet) Len() int {
	return len(s)
}

// Sorted returns the names in lexical order.
func (s NameSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// RankNames maps each rank to the names found under it.
type RankNames map[Rank]NameSet

// Add normalizes raw and records it under rank. Empty values are ignored.
// It reports whether a name was recorded.
func (rn RankNames) Add(rank Rank, raw string) bool {
	name := NormalizeName(raw)
	if name == "" {
		return false
	}
	set, ok := rn[rank]
	if !ok {
		set = make(NameSet)
		rn[rank] = set
	}
	set.Add(name)
	return true
}

// Union returns the flat set of all unique names across ranks.
func (rn RankNames) Union() NameSet {
	out := make(NameSet)
	for _, set := range rn {
		for n := range set {
			out.Add(n)
		}
	}
	return out
}

// FirstRank returns the first rank, in Ranks order, under which name appears.
func (rn RankNames) FirstRank(name string) (Rank, bool) {
	for _, r := range Ranks {
		if rn[r].Has(name) {
			return r, true
		}
	}
	return "", false
}

// Counts returns the number of names per rank, keyed by rank name.
func (rn RankNames) Counts() map[string]int {
	out := make(map[string]int, len(rn))
	for r, set := range rn {
		out[r.String()] = set.Len()
	}
	return out
}

// QuoteLiteral renders s as a SQL string literal, doubling embedded quotes.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteIdent renders s as a SQL identifier, doubling embedded double quotes.
func QuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
