package app

import (
	"fmt"

	"github.com/bft-labs/taxonsync/internal/domain"
	"github.com/bft-labs/taxonsync/internal/ports"
)

// PerNameStrategy uploads one name per job with a select-or-insert call
// and caches the id the store returns.
type PerNameStrategy struct {
	table  TableConfig
	logger ports.Logger
}

// NewPerNameStrategy creates a per-name strategy.
func NewPerNameStrategy(table TableConfig, logger ports.Logger) *PerNameStrategy {
	return &PerNameStrategy{
		table:  table.withDefaults(),
		logger: logger,
	}
}

func (s *PerNameStrategy) Name() string { return StrategyPerName }

// Plan emits one job per missing name, attributed to the most general rank
// the name was found under.
func (s *PerNameStrategy) Plan(missing []string, names domain.RankNames) []domain.Job {
	jobs := make([]domain.Job, 0, len(missing))
	for _, name := range missing {
		rank, _ := names.FirstRank(name)
		jobs = append(jobs, domain.NameJob{Rank: rank, Name: name})
	}
	return jobs
}

// Prepare renders an insert guarded by NOT EXISTS followed by a select of
// the row, so the call returns the id whether or not it inserted.
func (s *PerNameStrategy) Prepare(job domain.Job, cache *NameCache) string {
	nj, ok := job.(domain.NameJob)
	if !ok {
		s.logger.Warn("per-name strategy cannot run job", ports.String("job", job.String()))
		return ""
	}
	if cache.Known(nj.Name) {
		return ""
	}
	t, n, id := s.table.Table, s.table.NameColumn, s.table.IDColumn
	lit := domain.QuoteLiteral(nj.Name)
	return fmt.Sprintf(
		"INSERT INTO %[1]s (%[2]s) SELECT %[4]s WHERE NOT EXISTS (SELECT 1 FROM %[1]s WHERE %[2]s = %[4]s);"+
			"SELECT %[2]s, %[3]s FROM %[1]s WHERE %[2]s = %[4]s",
		t, n, id, lit)
}

// Handle caches the returned id and logs the outcome.
func (s *PerNameStrategy) Handle(out Outcome, cache *NameCache) {
	nj, _ := out.Job.(domain.NameJob)
	fields := []ports.Field{
		ports.Int("worker", out.Worker),
		ports.String("rank", nj.Rank.String()),
		ports.String("name", nj.Name),
		ports.Int("attempts", out.Attempts),
	}
	if !out.OK() {
		s.logger.Error("name upload failed", append(fields,
			ports.Bool("retryable", out.Retryable()),
			ports.Err(out.Err),
		)...)
		return
	}

	for _, row := range out.Result.Rows {
		if id, ok := row.Int64(s.table.IDColumn); ok {
			cache.Resolve(nj.Name, id)
			s.logger.Info("name uploaded", append(fields, ports.Int64("id", id))...)
			return
		}
	}
	cache.MarkInserted(nj.Name)
	s.logger.Warn("name uploaded without id", fields...)
}
