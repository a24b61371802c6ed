package carto

import (
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/bft-labs/taxonsync/internal/domain"
)

var errNotJSON = errors.New("body is not valid JSON")

// decodeRows parses {"rows":[...],"time":..,"total_rows":..}.
func decodeRows(body []byte) (*domain.ResultSet, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("decode response: %w", errNotJSON)
	}
	doc := gjson.ParseBytes(body)
	rows := doc.Get("rows")
	if !rows.IsArray() {
		return nil, fmt.Errorf("decode response: rows missing")
	}

	res := &domain.ResultSet{}
	for _, r := range rows.Array() {
		if !r.IsObject() {
			return nil, fmt.Errorf("decode response: row is %s, want object", r.Type)
		}
		row := make(domain.Row)
		r.ForEach(func(k, v gjson.Result) bool {
			row[k.String()] = v.Value()
			return true
		})
		res.Rows = append(res.Rows, row)
	}
	res.TotalRows = len(res.Rows)
	if tr := doc.Get("total_rows"); tr.Exists() {
		res.TotalRows = int(tr.Int())
	}
	res.Elapsed = time.Duration(doc.Get("time").Float() * float64(time.Second))
	return res, nil
}

// decodeError extracts {"error": [...]} or {"error": "..."} from a 4xx body.
// It returns nil when the body carries no error message.
func decodeError(status int, body []byte) *domain.QueryError {
	if !gjson.ValidBytes(body) {
		return nil
	}
	e := gjson.GetBytes(body, "error")
	if !e.Exists() {
		return nil
	}
	qe := &domain.QueryError{Status: status}
	if e.IsArray() {
		for _, m := range e.Array() {
			qe.Messages = append(qe.Messages, m.String())
		}
	} else {
		qe.Messages = []string{e.String()}
	}
	return qe
}
