// Package watch re-runs a sync whenever the input CSV is rewritten.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/taxonsync/internal/ports"
)

// DefaultDebounceDelay is how long a file must stay quiet before a sync.
const DefaultDebounceDelay = 500 * time.Millisecond

// SyncFunc performs one sync run.
type SyncFunc func(ctx context.Context) error

// Watcher triggers SyncFunc on writes to one file.
type Watcher struct {
	path     string
	fn       SyncFunc
	debounce time.Duration
	logger   ports.Logger

	skipInitial bool

	mu      sync.Mutex
	timer   *time.Timer
	trigger chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithoutInitialSync makes Run wait for the first change instead of syncing
// at startup, for callers that already synced.
func WithoutInitialSync() Option {
	return func(w *Watcher) {
		w.skipInitial = true
	}
}

// New creates a watcher for path. A non-positive debounce uses
// DefaultDebounceDelay.
func New(path string, fn SyncFunc, debounce time.Duration, logger ports.Logger, opts ...Option) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounceDelay
	}
	w := &Watcher{
		path:     filepath.Clean(path),
		fn:       fn,
		debounce: debounce,
		logger:   logger.With(ports.String("path", path)),
		trigger:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run syncs once (unless WithoutInitialSync was given), then again after
// every burst of changes to the file, until ctx is cancelled. Syncs never
// overlap; changes seen during a sync cause exactly one more. Sync failures
// are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	// Watch the directory: editors often replace the file instead of
	// writing it in place.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info("watching for changes")

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.syncLoop(ctx)
	}()
	defer wg.Wait()
	defer cancel()
	defer w.stopTimer()

	if !w.skipInitial {
		w.fire()
	}
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debug("file changed", ports.String("op", event.Op.String()))
			w.schedule()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", ports.Err(err))
		}
	}
}

func (w *Watcher) syncLoop(ctx context.Context) {
	runs := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.trigger:
		}
		runs++
		if err := w.fn(ctx); err != nil {
			w.logger.Error("sync failed", ports.Int("run", runs), ports.Err(err))
			continue
		}
		w.logger.Info("sync completed", ports.Int("run", runs))
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// fire requests a sync; pending requests coalesce.
func (w *Watcher) fire() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}
