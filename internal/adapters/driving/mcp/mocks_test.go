package mcp

import (
	"context"
	"strings"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
)

// mockGateway is a mock implementation of driving.RecordGateway.
type mockGateway struct {
	records []domain.Record
}

func (m *mockGateway) ListAll(_ context.Context) []domain.Record {
	return append([]domain.Record{}, m.records...)
}

func (m *mockGateway) GetByID(_ context.Context, id int) domain.Record {
	for _, r := range m.records {
		if r.ID == id {
			return r
		}
	}
	return domain.Record{}
}

func (m *mockGateway) Search(_ context.Context, term string) []domain.Record {
	out := []domain.Record{}
	for _, r := range m.records {
		if strings.Contains(strings.ToLower(r.Name), strings.ToLower(term)) {
			out = append(out, r)
		}
	}
	return out
}

func (m *mockGateway) Add(_ context.Context, _ domain.Record) *domain.Record { return nil }

func (m *mockGateway) Update(_ context.Context, _ domain.Record) bool { return false }

func (m *mockGateway) DeleteByID(_ context.Context, _ int) bool { return false }

func testRecords() []domain.Record {
	return []domain.Record{
		{ID: 1, Name: "Bulbasaur", HP: 25, CP: 5, Categories: []string{"Grass", "Poison"}},
		{ID: 2, Name: "Charmander", HP: 28, CP: 4, Categories: []string{"Fire"}},
		{ID: 7, Name: "Ekans", HP: 30, CP: 7, Categories: []string{"Poison"}},
		{ID: 8, Name: "Pikachu", HP: 21, CP: 4, Categories: []string{"Electric"}},
	}
}

func newTestServer(records []domain.Record) *Server {
	server, err := NewServer(&Ports{Records: &mockGateway{records: records}})
	if err != nil {
		panic(err)
	}
	return server
}
