package app

import (
	"fmt"
	"strings"

	"github.com/bft-labs/taxonsync/internal/domain"
	"github.com/bft-labs/taxonsync/internal/ports"
)

// BulkStrategy uploads missing names in fixed-size batches, one
// multi-statement INSERT call per batch.
type BulkStrategy struct {
	table     TableConfig
	batchSize int
	logger    ports.Logger
}

// NewBulkStrategy creates a bulk strategy. A non-positive batchSize uses
// domain.DefaultBatchSize.
func NewBulkStrategy(table TableConfig, batchSize int, logger ports.Logger) *BulkStrategy {
	if batchSize <= 0 {
		batchSize = domain.DefaultBatchSize
	}
	return &BulkStrategy{
		table:     table.withDefaults(),
		batchSize: batchSize,
		logger:    logger,
	}
}

func (s *BulkStrategy) Name() string { return StrategyBulk }

// Plan returns ceil(len(missing)/batchSize) batch jobs.
func (s *BulkStrategy) Plan(missing []string, _ domain.RankNames) []domain.Job {
	batches := domain.Partition(missing, s.batchSize)
	jobs := make([]domain.Job, len(batches))
	for i, b := range batches {
		jobs[i] = b
	}
	return jobs
}

// pending returns the names of batch the cache does not know yet. Batches
// are disjoint, so the result is the same in Prepare and in Handle.
func pending(batch domain.BatchJob, cache *NameCache) []string {
	var out []string
	for _, name := range batch.Names {
		if !cache.Known(name) {
			out = append(out, name)
		}
	}
	return out
}

// Prepare renders one INSERT statement per name the cache does not know.
func (s *BulkStrategy) Prepare(job domain.Job, cache *NameCache) string {
	batch, ok := job.(domain.BatchJob)
	if !ok {
		s.logger.Warn("bulk strategy cannot run job", ports.String("job", job.String()))
		return ""
	}
	var b strings.Builder
	for _, name := range pending(batch, cache) {
		fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (%s);", s.table.Table, s.table.NameColumn, domain.QuoteLiteral(name))
	}
	return b.String()
}

// Handle logs the outcome and, on success, records the names as inserted.
// Only names that were sent are counted; cached ones were skipped.
func (s *BulkStrategy) Handle(out Outcome, cache *NameCache) {
	batch, _ := out.Job.(domain.BatchJob)
	sent := pending(batch, cache)
	if !out.OK() {
		s.logger.Error("batch upload failed",
			ports.Int("worker", out.Worker),
			ports.Int("names", len(sent)),
			ports.Int("attempts", out.Attempts),
			ports.Bool("retryable", out.Retryable()),
			ports.Err(out.Err),
		)
		return
	}
	for _, name := range sent {
		cache.MarkInserted(name)
	}
	s.logger.Info("batch uploaded",
		ports.Int("worker", out.Worker),
		ports.Int("names", len(sent)),
		ports.Int("skipped", len(batch.Names)-len(sent)),
		ports.Int("attempts", out.Attempts),
		ports.Int("rows", out.Result.Len()),
		ports.Duration("duration", out.Duration),
	)
}
