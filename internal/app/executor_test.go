package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memlog "github.com/bft-labs/taxonsync/internal/adapters/log"
	"github.com/bft-labs/taxonsync/internal/cartotest"
	"github.com/bft-labs/taxonsync/internal/domain"
)

var errReset = errors.New("connection reset by peer")

func TestRetryPolicy_Delays(t *testing.T) {
	got := DefaultRetryPolicy().Delays()
	want := []time.Duration{
		1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second,
		8 * time.Second, 8 * time.Second, 8 * time.Second, 8 * time.Second, 8 * time.Second,
	}
	assert.Equal(t, want, got)
}

func TestRetryPolicy_WithDefaults(t *testing.T) {
	p := RetryPolicy{}.withDefaults()
	assert.Equal(t, DefaultRetryPolicy(), p)

	p = RetryPolicy{MaxAttempts: 3, Initial: 5 * time.Second, Max: time.Second}.withDefaults()
	assert.Equal(t, 5*time.Second, p.Max, "max below initial is raised")
	assert.Len(t, p.Delays(), 2)
}

func TestRetryPolicy_ZeroMaxUsesDefault(t *testing.T) {
	tests := []struct {
		name   string
		policy RetryPolicy
		want   []time.Duration
	}{
		{"zero value", RetryPolicy{}, ms(1000, 2000, 4000, 8000, 8000, 8000, 8000, 8000, 8000)},
		{"initial only", RetryPolicy{MaxAttempts: 5, Initial: time.Second}, ms(1000, 2000, 4000, 8000)},
		{"initial above default max", RetryPolicy{MaxAttempts: 3, Initial: 10 * time.Second}, ms(10000, 10000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Delays())
		})
	}

	exec := NewExecutor(cartotest.NewTable(), RetryPolicy{}, memlog.NewMemoryLogger(), nil)
	assert.Equal(t, DefaultRetryPolicy(), exec.policy)
}

func TestExecutor_TransportErrorsExhaustBudget(t *testing.T) {
	table := cartotest.NewTable()
	table.FailWith(func(int, string) error { return errReset })
	logger := memlog.NewMemoryLogger()
	emitter := &recordingEmitter{}

	exec := NewExecutor(table, fastPolicy(), logger, emitter)
	out := exec.Execute(context.Background(), domain.BatchJob{Names: []string{"quercus"}}, "INSERT INTO taxon (name) VALUES ('quercus');")

	require.Error(t, out.Err)
	assert.ErrorIs(t, out.Err, errReset)
	assert.True(t, out.Retryable())
	assert.Equal(t, 10, out.Attempts)
	assert.Equal(t, 10, table.Calls())
	assert.Equal(t, ms(1, 2, 4, 8, 8, 8, 8, 8, 8), emitter.Waits())
	assert.Equal(t, 9, logger.Count("warn", "transport error, retrying"))
	assert.Equal(t, 1, emitter.failures)
	assert.Equal(t, []bool{true}, emitter.retryable)
}

func TestExecutor_QueryErrorIsNotRetried(t *testing.T) {
	table := cartotest.NewTable()
	logger := memlog.NewMemoryLogger()
	emitter := &recordingEmitter{}

	exec := NewExecutor(table, fastPolicy(), logger, emitter)
	out := exec.Execute(context.Background(), domain.BatchJob{Names: []string{"x"}}, "DROP TABLE taxon")

	require.Error(t, out.Err)
	assert.ErrorIs(t, out.Err, domain.ErrQuery)
	assert.False(t, out.Retryable())
	assert.Equal(t, 1, out.Attempts)
	assert.Equal(t, 1, table.Calls())
	assert.Empty(t, emitter.Waits())
	assert.Zero(t, logger.Count("warn", "transport error, retrying"))
	assert.Equal(t, []bool{false}, emitter.retryable)
}

func TestExecutor_RecoversAfterTransientFailures(t *testing.T) {
	table := cartotest.NewTable()
	table.FailWith(func(n int, _ string) error {
		if n < 3 {
			return errReset
		}
		return nil
	})
	emitter := &recordingEmitter{}

	exec := NewExecutor(table, fastPolicy(), memlog.NewMemoryLogger(), emitter)
	out := exec.Execute(context.Background(), domain.BatchJob{Names: []string{"alba"}}, "INSERT INTO taxon (name) VALUES ('alba');")

	require.NoError(t, out.Err)
	assert.True(t, out.OK())
	assert.Equal(t, 3, out.Attempts)
	assert.Equal(t, ms(1, 2), emitter.Waits())
	assert.Equal(t, 1, emitter.successes)
	assert.Equal(t, 1, table.Count("alba"))
}

func TestExecutor_CanceledContextStopsRetrying(t *testing.T) {
	table := cartotest.NewTable()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := NewExecutor(table, fastPolicy(), memlog.NewMemoryLogger(), nil)
	out := exec.Execute(ctx, domain.BatchJob{Names: []string{"x"}}, "SELECT name, cartodb_id FROM taxon")

	require.Error(t, out.Err)
	assert.ErrorIs(t, out.Err, context.Canceled)
	assert.False(t, out.Retryable())
	assert.LessOrEqual(t, out.Attempts, 1)
}
