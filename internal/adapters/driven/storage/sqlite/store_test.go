package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), DefaultFile))
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testRecords() []domain.Record {
	created := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	return []domain.Record{
		{ID: 1, Name: "Bulbasaur", HP: 25, CP: 5, Categories: []string{domain.CategoryGrass, domain.CategoryPoison}, Created: created},
		{ID: 2, Name: "Charmander", HP: 24, CP: 6, Picture: "https://example.test/4.png", Categories: []string{domain.CategoryFire}, Created: created},
		{ID: 3, Name: "Charmeleon", HP: 40, CP: 12, Categories: []string{domain.CategoryFire}},
	}
}

func TestNewStore_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", DefaultFile)

	store, err := NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, path, store.Path())
	assert.FileExists(t, path)
}

func TestNewStore_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	ctx := context.Background()

	first, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Replace(ctx, testRecords()))
	require.NoError(t, first.Close())

	second, err := NewStore(path)
	require.NoError(t, err)
	defer second.Close()

	n, err := second.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestStore_ReplaceAndList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, testRecords()))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, testRecords(), records)
}

func TestStore_ReplaceNumbersMissingIDsAfterExplicitOnes(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, []domain.Record{
		{Name: "Abra", Categories: []string{domain.CategoryPsychic}},
		{ID: 5, Name: "Zubat", Categories: []string{domain.CategoryPoison}},
	}))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 5, records[0].ID)
	assert.Equal(t, 6, records[1].ID)
	assert.Equal(t, "Abra", records[1].Name)
}

func TestStore_SeedIfEmpty(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedIfEmpty(ctx, testRecords()))
	require.NoError(t, store.SeedIfEmpty(ctx, testRecords()[:1]))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestStore_Get(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Replace(ctx, testRecords()))

	rec, err := store.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Charmander", rec.Name)
	assert.Equal(t, "https://example.test/4.png", rec.Picture)

	_, err = store.Get(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Search(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Replace(ctx, testRecords()))

	tests := []struct {
		term string
		want []string
	}{
		{"char", []string{"Charmander", "Charmeleon"}},
		{"SAUR", []string{"Bulbasaur"}},
		{"mew", nil},
		{"%", nil},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			records, err := store.Search(ctx, tt.term)
			require.NoError(t, err)
			require.NotNil(t, records)

			var names []string
			for _, rec := range records {
				names = append(names, rec.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestStore_Create(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Replace(ctx, testRecords()))

	created, err := store.Create(ctx, domain.Record{Name: "Vulpix", HP: 30, Categories: []string{domain.CategoryFire}})
	require.NoError(t, err)
	assert.Equal(t, 4, created.ID)

	got, err := store.Get(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Vulpix", got.Name)
	assert.True(t, got.Created.IsZero())

	_, err = store.Create(ctx, domain.Record{ID: 7, Name: "Dup"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_Update(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Replace(ctx, testRecords()))

	rec := testRecords()[2]
	rec.CP = 99
	rec.Categories = []string{domain.CategoryFire, domain.CategoryFlying}
	require.NoError(t, store.Update(ctx, rec))

	got, err := store.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 99, got.CP)
	assert.Equal(t, rec.Categories, got.Categories)

	err = store.Update(ctx, domain.Record{ID: 42, Name: "Ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Replace(ctx, testRecords()))

	require.NoError(t, store.Delete(ctx, 1))
	assert.ErrorIs(t, store.Delete(ctx, 1), domain.ErrNotFound)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
