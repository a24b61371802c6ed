// Package postgres implements ports.SQLStore against a PostgreSQL database
// holding the taxon table directly, without the CARTO HTTP layer.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bft-labs/taxonsync/internal/domain"
)

// Store runs statements over a connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: parse dsn: %v", domain.ErrInvalidConfig, err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases every pooled connection.
func (s *Store) Close() {
	s.pool.Close()
}

// Query runs sql with the simple protocol, so several semicolon-separated
// statements are allowed, and returns the rows of the last statement.
// Values are returned as text.
func (s *Store) Query(ctx context.Context, sql string) (*domain.ResultSet, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	start := time.Now()
	results, err := conn.Conn().PgConn().Exec(ctx, sql).ReadAll()
	if err != nil {
		return nil, classify(err)
	}
	res := lastResult(results)
	res.Elapsed = time.Since(start)
	return res, nil
}

func lastResult(results []*pgconn.Result) *domain.ResultSet {
	res := &domain.ResultSet{}
	if len(results) == 0 {
		return res
	}
	last := results[len(results)-1]
	for _, values := range last.Rows {
		row := make(domain.Row, len(last.FieldDescriptions))
		for i, fd := range last.FieldDescriptions {
			if i >= len(values) || values[i] == nil {
				row[fd.Name] = nil
				continue
			}
			row[fd.Name] = string(values[i])
		}
		res.Rows = append(res.Rows, row)
	}
	res.TotalRows = len(res.Rows)
	return res
}

// classify turns server-side errors into *domain.QueryError and leaves
// connection failures as transport errors.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		msgs := []string{pgErr.Message}
		if pgErr.Detail != "" {
			msgs = append(msgs, pgErr.Detail)
		}
		return &domain.QueryError{Code: pgErr.Code, Messages: msgs}
	}
	return fmt.Errorf("exec: %w", err)
}
