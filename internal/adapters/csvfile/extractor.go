package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"

	"github.com/bft-labs/taxonsync/internal/domain"
	"github.com/bft-labs/taxonsync/internal/ports"
)

// ctxCheckInterval is how many rows are decoded between context checks.
const ctxCheckInterval = 100

// TaxonRecord is one CSV row reduced to the rank columns.
type TaxonRecord struct {
	Kingdom        string `csv:"kingdom"`
	Phylum         string `csv:"phylum"`
	Class          string `csv:"class"`
	Order          string `csv:"order"`
	Family         string `csv:"family"`
	Genus          string `csv:"genus"`
	Species        string `csv:"species"`
	ScientificName string `csv:"scientificname"`
}

// Value returns the raw value of rank.
func (r *TaxonRecord) Value(rank domain.Rank) string {
	switch rank {
	case domain.RankKingdom:
		return r.Kingdom
	case domain.RankPhylum:
		return r.Phylum
	case domain.RankClass:
		return r.Class
	case domain.RankOrder:
		return r.Order
	case domain.RankFamily:
		return r.Family
	case domain.RankGenus:
		return r.Genus
	case domain.RankSpecies:
		return r.Species
	case domain.RankScientificName:
		return r.ScientificName
	default:
		return ""
	}
}

// Extractor implements ports.NameExtractor for CSV files.
type Extractor struct {
	logger ports.Logger
}

// NewExtractor creates an extractor.
func NewExtractor(logger ports.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract reads path and collects the distinct normalized names per rank.
// Rank columns absent from the file are simply empty.
func (e *Extractor) Extract(ctx context.Context, path string) (domain.RankNames, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, err := f.Header()
	if err != nil {
		return nil, err
	}
	dec, err := csvutil.NewDecoder(f.Reader, header...)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	names := make(domain.RankNames)
	rows := 0
	for {
		if rows%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		var rec TaxonRecord
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		rows++
		for _, rank := range domain.Ranks {
			names.Add(rank, rec.Value(rank))
		}
	}

	e.logger.Debug("extracted names",
		ports.String("path", path),
		ports.Int("rows", rows),
		ports.Any("ranks", names.Counts()),
	)
	return names, nil
}
