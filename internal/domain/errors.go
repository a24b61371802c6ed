package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent error conditions in the taxonsync domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrQuery matches every store-reported query failure (see QueryError).
	ErrQuery = errors.New("taxonsync: query rejected by store")

	// ErrAlreadyRunning is returned when Start() is called on a running pool.
	ErrAlreadyRunning = errors.New("taxonsync: already running")

	// ErrNotRunning is returned when Wait() is called on a pool that was never started.
	ErrNotRunning = errors.New("taxonsync: not running")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("taxonsync: invalid configuration")

	// ErrUnknownColumn is returned by the rewrite utility for a column missing
	// from the column type table.
	ErrUnknownColumn = errors.New("taxonsync: unknown column")

	// ErrUnknownStrategy is returned for an upload strategy name that is not registered.
	ErrUnknownStrategy = errors.New("taxonsync: unknown upload strategy")
)

// QueryError is an error reported by the remote store itself (bad SQL,
// constraint violation, permission problem). Query errors are never retried.
type QueryError struct {
	// Status is the HTTP status or zero when the store is not HTTP based.
	Status int

	// Code is the store specific error code (e.g. a SQLSTATE), if any.
	Code string

	// Messages holds the messages returned by the store.
	Messages []string
}

func (e *QueryError) Error() string {
	msg := strings.Join(e.Messages, "; ")
	if msg == "" {
		msg = "no message"
	}
	switch {
	case e.Code != "":
		return fmt.Sprintf("query error (%s): %s", e.Code, msg)
	case e.Status != 0:
		return fmt.Sprintf("query error (status %d): %s", e.Status, msg)
	default:
		return "query error: " + msg
	}
}

// Is reports whether target is ErrQuery.
func (e *QueryError) Is(target error) bool {
	return target == ErrQuery
}

// IsQueryError reports whether err carries a store-reported QueryError.
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}
