package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Row is one row returned by the remote store, keyed by column name.
// Values are decoded JSON values (CARTO) or text (PostgreSQL).
type Row map[string]any

// String returns the column value as a string.
func (r Row) String(col string) (string, bool) {
	switch v := r[col].(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case nil:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}

// Int64 returns the column value as an integer. Numeric JSON values and
// integer text are both accepted.
func (r Row) Int64(col string) (int64, bool) {
	switch v := r[col].(type) {
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case int:
		return int64(v), true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		return i, err == nil
	case []byte:
		i, err := strconv.ParseInt(string(v), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

// ResultSet is the response to one SQL call. For a multi-statement call it
// holds the rows of the last statement.
type ResultSet struct {
	Rows      []Row
	TotalRows int
	Elapsed   time.Duration
}

// Len returns the number of rows.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}
