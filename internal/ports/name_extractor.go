package ports

import (
	"context"

	"github.com/bft-labs/taxonsync/internal/domain"
)

// NameExtractor reads the taxon names of every recognized rank from a file.
type NameExtractor interface {
	Extract(ctx context.Context, path string) (domain.RankNames, error)
}
