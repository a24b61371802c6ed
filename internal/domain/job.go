package domain

import "fmt"

// DefaultBatchSize is the number of names carried by one BatchJob.
const DefaultBatchSize = 500

// Job is a unit of upload work placed on the work queue. A job is consumed
// by exactly one worker and is not modified after it is enqueued.
type Job interface {
	// Size returns the number of names the job carries.
	Size() int

	// String returns a short description for logs.
	String() string

	job()
}

// BatchJob inserts a batch of names with one multi-statement call.
type BatchJob struct {
	Names []string
}

func (j BatchJob) Size() int      { return len(j.Names) }
func (j BatchJob) String() string { return fmt.Sprintf("batch(%d names)", len(j.Names)) }
func (BatchJob) job()             {}

// NameJob selects or inserts a single name, attributed to Rank.
type NameJob struct {
	Rank Rank
	Name string
}

func (j NameJob) Size() int      { return 1 }
func (j NameJob) String() string { return fmt.Sprintf("name(%s=%s)", j.Rank, j.Name) }
func (NameJob) job()             {}

type stopJob struct{}

func (stopJob) Size() int      { return 0 }
func (stopJob) String() string { return "stop" }
func (stopJob) job()           {}

// Stop is the sentinel telling a worker there is no more work. One Stop is
// enqueued per worker.
var Stop Job = stopJob{}

// Partition splits names into consecutive batches of at most size names.
// It returns ceil(len(names)/size) batches and every name lands in exactly
// one of them. A non-positive size falls back to DefaultBatchSize.
func Partition(names []string, size int) []BatchJob {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if len(names) == 0 {
		return nil
	}
	out := make([]BatchJob, 0, (len(names)+size-1)/size)
	for start := 0; start < len(names); start += size {
		end := start + size
		if end > len(names) {
			end = len(names)
		}
		batch := make([]string, end-start)
		copy(batch, names[start:end])
		out = append(out, BatchJob{Names: batch})
	}
	return out
}
