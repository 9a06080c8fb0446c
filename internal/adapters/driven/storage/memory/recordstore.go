package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
)

// RecordStore is an in-memory creature collection with sequential ids.
// It backs the mock collection server.
type RecordStore struct {
	mu      sync.RWMutex
	records map[int]domain.Record
	nextID  int
}

// NewRecordStore creates a store holding the given records.
// Records without an id are assigned one.
func NewRecordStore(seed []domain.Record) *RecordStore {
	s := &RecordStore{}
	s.Replace(seed)
	return s
}

// Replace swaps the whole collection, e.g. after a dataset reload.
func (s *RecordStore) Replace(records []domain.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[int]domain.Record, len(records))
	s.nextID = 1
	for _, rec := range records {
		if rec.ID >= s.nextID {
			s.nextID = rec.ID + 1
		}
	}
	for _, rec := range records {
		if rec.ID <= 0 {
			rec.ID = s.nextID
			s.nextID++
		}
		s.records[rec.ID] = rec.Clone()
	}
}

// List returns every record ordered by id.
func (s *RecordStore) List(_ context.Context) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(func(domain.Record) bool { return true }), nil
}

// Get retrieves a record by id.
func (s *RecordStore) Get(_ context.Context, id int) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("record %d: %w", id, domain.ErrNotFound)
	}
	rec = rec.Clone()
	return &rec, nil
}

// Search returns records whose name contains name, ignoring case.
func (s *RecordStore) Search(_ context.Context, name string) ([]domain.Record, error) {
	needle := strings.ToLower(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(func(rec domain.Record) bool {
		return strings.Contains(strings.ToLower(rec.Name), needle)
	}), nil
}

// Create stores a new record and returns it with its assigned id.
func (s *RecordStore) Create(_ context.Context, rec domain.Record) (domain.Record, error) {
	if !rec.IsNew() {
		return domain.Record{}, fmt.Errorf("%w: new record already has id %d", domain.ErrInvalidInput, rec.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.nextID
	s.nextID++
	s.records[rec.ID] = rec.Clone()
	return rec, nil
}

// Update replaces an existing record.
func (s *RecordStore) Update(_ context.Context, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ID]; !ok {
		return fmt.Errorf("record %d: %w", rec.ID, domain.ErrNotFound)
	}
	s.records[rec.ID] = rec.Clone()
	return nil
}

// Delete removes a record.
func (s *RecordStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("record %d: %w", id, domain.ErrNotFound)
	}
	delete(s.records, id)
	return nil
}

// Len returns the number of stored records.
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// sortedLocked returns matching records ordered by id (caller must hold lock).
func (s *RecordStore) sortedLocked(match func(domain.Record) bool) []domain.Record {
	result := make([]domain.Record, 0, len(s.records))
	for _, rec := range s.records {
		if match(rec) {
			result = append(result, rec.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
