package ports

import (
	"context"

	"github.com/bft-labs/taxonsync/internal/domain"
)

// SQLStore executes SQL against the remote table store.
//
// A call accepts one statement or several statements joined by semicolons.
// Implementations must return a *domain.QueryError when the store itself
// rejected the SQL, and any other error for transport failures (network,
// timeouts, malformed responses). Callers retry only the latter.
type SQLStore interface {
	Query(ctx context.Context, sql string) (*domain.ResultSet, error)
}
