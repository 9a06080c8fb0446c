package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/bestiary-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
	"github.com/custodia-labs/bestiary-cli/internal/core/ports/driving"
	"github.com/custodia-labs/bestiary-cli/internal/core/services"
)

// mockGateway is an in-memory RecordGateway that can be switched to degrade.
type mockGateway struct {
	mu      sync.Mutex
	records []domain.Record
	down    bool
	updated []domain.Record
	deleted []int
}

func newMockGateway() *mockGateway {
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return &mockGateway{records: []domain.Record{
		{ID: 1, Name: "Bulbasaur", HP: 25, CP: 5, Categories: []string{domain.CategoryGrass, domain.CategoryPoison}, Created: created},
		{ID: 4, Name: "Charmander", HP: 24, CP: 6, Categories: []string{domain.CategoryFire}, Created: created},
		{ID: 25, Name: "Pikachu", HP: 21, CP: 4, Picture: "https://example.test/25.png", Categories: []string{domain.CategoryElectric}, Created: created},
	}}
}

func (m *mockGateway) ListAll(_ context.Context) []domain.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return []domain.Record{}
	}
	return append([]domain.Record(nil), m.records...)
}

func (m *mockGateway) GetByID(_ context.Context, id int) domain.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return domain.Record{}
	}
	for _, rec := range m.records {
		if rec.ID == id {
			return rec.Clone()
		}
	}
	return domain.Record{}
}

func (m *mockGateway) Search(_ context.Context, term string) []domain.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	results := []domain.Record{}
	if m.down {
		return results
	}
	for _, rec := range m.records {
		if strings.Contains(strings.ToLower(rec.Name), strings.ToLower(term)) {
			results = append(results, rec)
		}
	}
	return results
}

func (m *mockGateway) Add(_ context.Context, rec domain.Record) *domain.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return nil
	}
	for _, r := range m.records {
		if r.ID >= rec.ID {
			rec.ID = r.ID + 1
		}
	}
	m.records = append(m.records, rec)
	return &rec
}

func (m *mockGateway) Update(_ context.Context, rec domain.Record) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return false
	}
	for i, r := range m.records {
		if r.ID == rec.ID {
			m.records[i] = rec
			m.updated = append(m.updated, rec)
			return true
		}
	}
	return false
}

func (m *mockGateway) DeleteByID(_ context.Context, id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return false
	}
	for i, r := range m.records {
		if r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			m.deleted = append(m.deleted, id)
			return true
		}
	}
	return false
}

// testEnv holds the services installed by setupTestServices.
type testEnv struct {
	gateway  *mockGateway
	settings *services.SettingsService
}

// setupTestServices installs mock services and restores the previous ones on cleanup.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		gateway:  newMockGateway(),
		settings: services.NewSettingsService(memory.NewConfigStore()),
	}

	servicesMu.Lock()
	prevLoaded, prevFactory := loaded, serviceFactory
	loaded = &Services{
		Records:  env.gateway,
		Settings: env.settings,
		NewSearchStream: func(ctx context.Context) driving.SearchStream {
			return services.NewQueryStream(ctx, env.gateway, services.QueryStreamConfig{
				Debounce:      time.Hour,
				MinTermLength: 1,
			})
		},
		AppSettings: domain.DefaultAppSettings(),
	}
	servicesMu.Unlock()

	t.Cleanup(func() {
		servicesMu.Lock()
		loaded, serviceFactory = prevLoaded, prevFactory
		servicesMu.Unlock()
	})
	return env
}

// resetFlags restores every flag in the tree to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCommandWithInput(t, strings.NewReader(""), args...)
}

// executeCommandWithInput runs the root command reading stdin from in.
func executeCommandWithInput(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(in)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
