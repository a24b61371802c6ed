// Package rewrite builds the statement that copies a raw, all-text staging
// table into the typed occurrence table.
package rewrite

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bft-labs/taxonsync/internal/adapters/csvfile"
	"github.com/bft-labs/taxonsync/internal/domain"
)

// DefaultTarget is the typed table rows are copied into.
const DefaultTarget = "occurrence"

// ColumnType returns the SQL type of a known column.
func ColumnType(col string) (string, bool) {
	t, ok := columnTypes[col]
	return t, ok
}

// Columns normalizes header names and sorts them.
func Columns(header []string) []string {
	cols := csvfile.NormalizeHeader(header)
	sort.Strings(cols)
	return cols
}

// ReadHeader returns the sorted, normalized columns of the CSV at path.
func ReadHeader(path string) ([]string, error) {
	f, err := csvfile.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, err := f.Header()
	if err != nil {
		return nil, err
	}
	sort.Strings(header)
	return header, nil
}

// Statement renders
//
//	INSERT INTO target (cols) (SELECT CASE WHEN c='' THEN NULL ELSE c::type END,... FROM source);
//
// Column identifiers are quoted; table names are used as given so they may
// be schema qualified. Every unknown column is reported in one error.
func Statement(cols []string, target, source string) (string, error) {
	if len(cols) == 0 {
		return "", fmt.Errorf("%w: no columns", domain.ErrInvalidConfig)
	}
	if source == "" {
		return "", fmt.Errorf("%w: source table is required", domain.ErrInvalidConfig)
	}
	if target == "" {
		target = DefaultTarget
	}

	var unknown []string
	idents := make([]string, len(cols))
	cases := make([]string, len(cols))
	for i, c := range cols {
		typ, ok := columnTypes[c]
		if !ok {
			unknown = append(unknown, c)
			continue
		}
		id := domain.QuoteIdent(c)
		idents[i] = id
		cases[i] = fmt.Sprintf("CASE WHEN %s='' THEN NULL ELSE %s::%s END", id, id, typ)
	}
	if len(unknown) > 0 {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownColumn, strings.Join(unknown, ", "))
	}

	return fmt.Sprintf("INSERT INTO %s (%s) (SELECT %s FROM %s);",
		target, strings.Join(idents, ","), strings.Join(cases, ","), source), nil
}
