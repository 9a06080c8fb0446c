package dataset

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
)

type reloads struct {
	mu   sync.Mutex
	sets [][]domain.Record
}

func (r *reloads) record(records []domain.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets = append(r.sets, records)
}

func (r *reloads) last() []domain.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sets) == 0 {
		return nil
	}
	return r.sets[len(r.sets)-1]
}

func (r *reloads) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sets)
}

func startWatcher(t *testing.T, path string, got *reloads) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWatcher(path, got.record)
	w.SetSettle(10 * time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})
	// Give fsnotify a moment to register the directory.
	time.Sleep(50 * time.Millisecond)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeFile(t, "creatures.json", jsonDataset)
	got := &reloads{}
	startWatcher(t, path, got)

	updated := `[{"name": "Abra", "hp": 20, "cp": 3, "types": ["Psychic"]}]`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	require.Eventually(t, func() bool {
		last := got.last()
		return len(last) == 1 && last[0].Name == "Abra"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_KeepsPreviousDataOnParseError(t *testing.T) {
	path := writeFile(t, "creatures.json", jsonDataset)
	got := &reloads{}
	startWatcher(t, path, got)

	require.NoError(t, os.WriteFile(path, []byte(`[{"name": `), 0o600))
	time.Sleep(200 * time.Millisecond)

	assert.Zero(t, got.count())
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := NewWatcher("/nonexistent/dir/creatures.json", nil)
	err := w.Run(context.Background())
	assert.Error(t, err)
}
