package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition_CountAndCoverage(t *testing.T) {
	sizes := []int{1, 2, 3, 7, 500}
	counts := []int{0, 1, 2, 6, 7, 499, 500, 501, 1000, 1203}

	for _, b := range sizes {
		for _, m := range counts {
			t.Run(fmt.Sprintf("B=%d/M=%d", b, m), func(t *testing.T) {
				names := make([]string, m)
				for i := range names {
					names[i] = fmt.Sprintf("name-%04d", i)
				}

				batches := Partition(names, b)

				assert.Len(t, batches, (m+b-1)/b)
				seen := make(map[string]int, m)
				for _, batch := range batches {
					assert.LessOrEqual(t, batch.Size(), b)
					assert.NotZero(t, batch.Size())
					for _, n := range batch.Names {
						seen[n]++
					}
				}
				require.Len(t, seen, m)
				for n, c := range seen {
					assert.Equal(t, 1, c, "name %s appears in %d batches", n, c)
				}
			})
		}
	}
}

func TestPartition_DefaultSize(t *testing.T) {
	names := make([]string, DefaultBatchSize+1)
	for i := range names {
		names[i] = fmt.Sprint(i)
	}
	batches := Partition(names, 0)
	require.Len(t, batches, 2)
	assert.Equal(t, DefaultBatchSize, batches[0].Size())
	assert.Equal(t, 1, batches[1].Size())
}

func TestPartition_DoesNotAliasInput(t *testing.T) {
	names := []string{"a", "b", "c"}
	batches := Partition(names, 2)
	names[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, batches[0].Names)
}

func TestStopSentinel(t *testing.T) {
	var j Job = stopJob{}
	assert.True(t, j == Stop)
	assert.False(t, Job(BatchJob{}) == Stop)
	assert.False(t, Job(NameJob{Rank: RankGenus, Name: "quercus"}) == Stop)
	assert.Equal(t, "stop", Stop.String())
	assert.Equal(t, 0, Stop.Size())
}

func TestJob_String(t *testing.T) {
	assert.Equal(t, "batch(2 names)", BatchJob{Names: []string{"a", "b"}}.String())
	assert.Equal(t, "name(genus=quercus)", NameJob{Rank: RankGenus, Name: "quercus"}.String())
}
