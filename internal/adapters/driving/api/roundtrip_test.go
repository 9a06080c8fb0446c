package api

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bestiary-cli/internal/adapters/driven/rest"
	"github.com/custodia-labs/bestiary-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
	"github.com/custodia-labs/bestiary-cli/internal/core/services"
)

func newGateway(t *testing.T) *services.RecordGateway {
	t.Helper()
	handler := NewHandler(memory.NewRecordStore(memory.SeedRecords()), Options{})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := rest.NewClient(rest.Config{BaseURL: server.URL + DefaultPrefix})
	require.NoError(t, err)
	return services.NewRecordGateway(client)
}

func TestRoundTrip_AddThenGet(t *testing.T) {
	gw := newGateway(t)
	ctx := context.Background()
	created := time.Date(2022, time.July, 9, 8, 7, 6, 0, time.UTC)
	rec := domain.Record{
		Name:       "Growlithe",
		HP:         35,
		CP:         11,
		Picture:    "https://example.com/growlithe.png",
		Categories: []string{domain.CategoryFire},
		Created:    created,
	}

	added := gw.Add(ctx, rec)
	require.NotNil(t, added)
	assert.Positive(t, added.ID)

	got := gw.GetByID(ctx, added.ID)
	assert.Equal(t, rec.Name, got.Name)
	assert.Equal(t, rec.HP, got.HP)
	assert.Equal(t, rec.CP, got.CP)
	assert.Equal(t, rec.Picture, got.Picture)
	assert.Equal(t, rec.Categories, got.Categories)
	assert.True(t, created.Equal(got.Created))
}

func TestRoundTrip_SearchUpdateDelete(t *testing.T) {
	gw := newGateway(t)
	ctx := context.Background()

	found := gw.Search(ctx, "squir")
	require.Len(t, found, 1)

	rec := found[0]
	rec.CP = 50
	require.True(t, gw.Update(ctx, rec))
	assert.Equal(t, 50, gw.GetByID(ctx, rec.ID).CP)

	require.True(t, gw.DeleteByID(ctx, rec.ID))
	assert.True(t, gw.GetByID(ctx, rec.ID).IsZero())
	assert.False(t, gw.DeleteByID(ctx, rec.ID))
	assert.Len(t, gw.ListAll(ctx), 11)
}

func TestRoundTrip_FailuresDegrade(t *testing.T) {
	gw := newGateway(t)
	ctx := context.Background()

	assert.True(t, gw.GetByID(ctx, 999).IsZero())
	assert.Nil(t, gw.Add(ctx, domain.Record{Name: "", Categories: nil}))
	assert.False(t, gw.Update(ctx, domain.Record{ID: 999, Name: "Ghost", Categories: []string{"Normal"}}))
	assert.Empty(t, gw.Search(ctx, "x"))
}
