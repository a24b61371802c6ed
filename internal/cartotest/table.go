// Package cartotest provides an in-memory stand-in for a CARTO account
// holding a taxon table. Table understands the handful of statements the
// sync emits and can be used directly as a ports.SQLStore; Server exposes
// the same table over the CARTO SQL API.
package cartotest

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/bft-labs/taxonsync/internal/domain"
)

const lit = `'((?:[^']|'')*)'`

var (
	reSelectAll = regexp.MustCompile(`^SELECT (\w+), (\w+) FROM (\w+)$`)
	reSelectOne = regexp.MustCompile(`^SELECT (\w+), (\w+) FROM (\w+) WHERE (\w+) = ` + lit + `$`)
	reInsert    = regexp.MustCompile(`^INSERT INTO (\w+) \((\w+)\) VALUES \(` + lit + `\)$`)
	reInsertNew = regexp.MustCompile(`^INSERT INTO (\w+) \((\w+)\) SELECT ` + lit +
		` WHERE NOT EXISTS \(SELECT 1 FROM (\w+) WHERE (\w+) = ` + lit + `\)$`)
)

type row struct {
	name string
	id   int64
}

// FailFunc decides whether call number n (1-based) fails. Returning a nil
// error lets the call through.
type FailFunc func(n int, sql string) error

// Table is a taxon(name, cartodb_id) table. It is safe for concurrent use.
type Table struct {
	mu     sync.Mutex
	rows   []row
	nextID int64
	calls  int
	stmts  []string
	fail   FailFunc
}

// NewTable returns an empty table, optionally seeded with names.
func NewTable(names ...string) *Table {
	t := &Table{nextID: 1}
	t.Seed(names...)
	return t
}

// Seed appends rows without going through SQL.
func (t *Table) Seed(names ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, n := range names {
		t.insertLocked(n)
	}
}

// FailWith installs fn as the failure hook.
func (t *Table) FailWith(fn FailFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fail = fn
}

// Names returns every stored name, duplicates included, sorted.
func (t *Table) Names() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.name
	}
	sort.Strings(out)
	return out
}

// Count returns the number of rows holding name.
func (t *Table) Count(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, r := range t.rows {
		if r.name == name {
			n++
		}
	}
	return n
}

// Calls returns the number of Query calls, failed ones included.
func (t *Table) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Statements returns every statement executed successfully, in order.
func (t *Table) Statements() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.stmts...)
}

// Inserts returns how many INSERT statements were executed.
func (t *Table) Inserts() int {
	n := 0
	for _, s := range t.Statements() {
		if strings.HasPrefix(s, "INSERT") {
			n++
		}
	}
	return n
}

// Query implements ports.SQLStore. Statements of a call run in order and
// the rows of the last one are returned. A failing statement aborts the
// call but earlier statements stay applied, as on CARTO.
func (t *Table) Query(ctx context.Context, sql string) (*domain.ResultSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls++
	if t.fail != nil {
		if err := t.fail(t.calls, sql); err != nil {
			return nil, err
		}
	}

	res := &domain.ResultSet{}
	for _, stmt := range SplitStatements(sql) {
		rows, err := t.execLocked(stmt)
		if err != nil {
			return nil, err
		}
		t.stmts = append(t.stmts, stmt)
		res.Rows = rows
	}
	res.TotalRows = len(res.Rows)
	return res, nil
}

func (t *Table) execLocked(stmt string) ([]domain.Row, error) {
	if m := reSelectAll.FindStringSubmatch(stmt); m != nil {
		if err := checkTable(m[3]); err != nil {
			return nil, err
		}
		out := make([]domain.Row, 0, len(t.rows))
		for _, r := range t.rows {
			out = append(out, domain.Row{m[1]: r.name, m[2]: float64(r.id)})
		}
		return out, nil
	}
	if m := reSelectOne.FindStringSubmatch(stmt); m != nil {
		if err := checkTable(m[3]); err != nil {
			return nil, err
		}
		want := unquote(m[5])
		var out []domain.Row
		for _, r := range t.rows {
			if r.name == want {
				out = append(out, domain.Row{m[1]: r.name, m[2]: float64(r.id)})
			}
		}
		return out, nil
	}
	if m := reInsert.FindStringSubmatch(stmt); m != nil {
		if err := checkTable(m[1]); err != nil {
			return nil, err
		}
		t.insertLocked(unquote(m[3]))
		return nil, nil
	}
	if m := reInsertNew.FindStringSubmatch(stmt); m != nil {
		if err := checkTable(m[1]); err != nil {
			return nil, err
		}
		name := unquote(m[3])
		for _, r := range t.rows {
			if r.name == name {
				return nil, nil
			}
		}
		t.insertLocked(name)
		return nil, nil
	}
	return nil, &domain.QueryError{
		Status:   400,
		Messages: []string{fmt.Sprintf("syntax error at or near %q", firstWord(stmt))},
	}
}

func (t *Table) insertLocked(name string) {
	t.rows = append(t.rows, row{name: name, id: t.nextID})
	t.nextID++
}

func checkTable(name string) error {
	if name == "taxon" {
		return nil
	}
	return &domain.QueryError{
		Status:   400,
		Messages: []string{fmt.Sprintf("relation %q does not exist", name)},
	}
}

func unquote(s string) string {
	return strings.ReplaceAll(s, "''", "'")
}

func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i > 0 {
		return s[:i]
	}
	return s
}

// SplitStatements splits sql on semicolons outside string literals and
// drops empty statements.
func SplitStatements(sql string) []string {
	var (
		out     []string
		b       strings.Builder
		inQuote bool
	)
	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			out = append(out, s)
		}
		b.Reset()
	}
	for _, r := range sql {
		switch {
		case r == '\'':
			inQuote = !inQuote
		case r == ';' && !inQuote:
			flush()
			continue
		}
		b.WriteRune(r)
	}
	flush()
	return out
}
