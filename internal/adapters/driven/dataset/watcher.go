package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
	"github.com/custodia-labs/bestiary-cli/internal/logger"
)

// DefaultSettle is how long the watcher waits after the last change event
// before reloading. Editors often write a file in several steps.
const DefaultSettle = 100 * time.Millisecond

// ReloadFunc receives the freshly parsed records.
type ReloadFunc func([]domain.Record)

// Watcher reloads a dataset file whenever it changes on disk.
type Watcher struct {
	path   string
	settle time.Duration
	onLoad ReloadFunc

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a watcher for path. onLoad is called after every
// successful reload; parse failures are logged and the previous data kept.
func NewWatcher(path string, onLoad ReloadFunc) *Watcher {
	return &Watcher{
		path:   filepath.Clean(path),
		settle: DefaultSettle,
		onLoad: onLoad,
	}
}

// SetSettle overrides the quiet period before a reload.
func (w *Watcher) SetSettle(d time.Duration) {
	w.settle = d
}

// Run watches until ctx is cancelled.
// The parent directory is watched so atomic rename-on-save is seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}
	logger.Debug("watching dataset %s", w.path)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.schedule()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("dataset watcher: %v", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// schedule (re)arms the settle timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.settle, w.reload)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) reload() {
	records, err := Load(w.path)
	if err != nil {
		logger.Warn("dataset reload failed, keeping previous data: %v", err)
		return
	}
	logger.Info("reloaded %d records from %s", len(records), w.path)
	if w.onLoad != nil {
		w.onLoad(records)
	}
}
