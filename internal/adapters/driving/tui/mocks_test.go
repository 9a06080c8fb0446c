package tui

import (
	"context"
	"sync"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
	"github.com/custodia-labs/bestiary-cli/internal/core/ports/driving"
)

// mockGateway implements driving.RecordGateway for testing.
type mockGateway struct {
	records  []domain.Record
	deleteOK bool
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

func (m *mockGateway) Search(_ context.Context, _ string) []domain.Record { return []domain.Record{} }

func (m *mockGateway) Add(_ context.Context, rec domain.Record) *domain.Record {
	rec.ID = len(m.records) + 1
	return &rec
}

func (m *mockGateway) Update(_ context.Context, _ domain.Record) bool { return true }

func (m *mockGateway) DeleteByID(_ context.Context, _ int) bool { return m.deleteOK }

// fakeStream implements driving.SearchStream for testing.
type fakeStream struct {
	mu     sync.Mutex
	closed bool
	out    chan driving.SearchResult
}

func (f *fakeStream) Submit(string) {}

func (f *fakeStream) Results() <-chan driving.SearchResult { return f.out }

func (f *fakeStream) Flush() {}

func (f *fakeStream) Wait() {}

func (f *fakeStream) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.out)
	}
}

// streamRecorder hands out fake streams and remembers them.
type streamRecorder struct {
	streams []*fakeStream
}

func (r *streamRecorder) open(_ context.Context) driving.SearchStream {
	s := &fakeStream{out: make(chan driving.SearchResult, 1)}
	r.streams = append(r.streams, s)
	return s
}

func testRecords() []domain.Record {
	return []domain.Record{
		{ID: 1, Name: "Bulbasaur", HP: 25, CP: 5, Categories: []string{"Grass", "Poison"}},
		{ID: 2, Name: "Charmander", HP: 28, CP: 4, Categories: []string{"Fire"}},
	}
}

func newTestPorts() (*Ports, *mockGateway, *streamRecorder) {
	gw := &mockGateway{records: testRecords(), deleteOK: true}
	rec := &streamRecorder{}
	return NewPorts(gw, rec.open), gw, rec
}
