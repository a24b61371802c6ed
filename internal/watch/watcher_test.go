package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memlog "github.com/bft-labs/taxonsync/internal/adapters/log"
)

func TestWatcher_ResyncsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "occurrences.csv")
	require.NoError(t, os.WriteFile(path, []byte("genus\nquercus\n"), 0o644))

	var runs atomic.Int32
	w := New(path, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, 20*time.Millisecond, memlog.NewMemoryLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond, "initial sync")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x"), 0o644))
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("genus\nquercus\nfagus\n"), 0o644))
	}
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond, "resync after write")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcher_WithoutInitialSync(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "occurrences.csv")
	require.NoError(t, os.WriteFile(path, []byte("genus\nquercus\n"), 0o644))

	var runs atomic.Int32
	w := New(path, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, 20*time.Millisecond, memlog.NewMemoryLogger(), WithoutInitialSync())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, runs.Load(), "no sync before the file changes")

	require.Eventually(t, func() bool {
		if runs.Load() >= 1 {
			return true
		}
		_ = os.WriteFile(path, []byte("genus\nfagus\n"), 0o644)
		return false
	}, 2*time.Second, 100*time.Millisecond, "sync after write")

	cancel()
	assert.NoError(t, <-done)
}

func TestWatcher_SyncErrorsAreLogged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "occurrences.csv")
	require.NoError(t, os.WriteFile(path, []byte("genus\n"), 0o644))
	logger := memlog.NewMemoryLogger()

	w := New(path, func(ctx context.Context) error {
		return errors.New("store unreachable")
	}, 0, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return logger.Count("error", "sync failed") == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "occurrences.csv")
	w := New(path, func(context.Context) error { return nil }, 0, memlog.NewMemoryLogger())

	err := w.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch")
}
