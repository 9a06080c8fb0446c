package driving

import (
	"context"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
)

// RecordGateway is the single point of contact with the remote collection.
//
// Every operation degrades instead of failing: a remote failure is logged and
// the documented fallback value is returned. Callers treat the fallback itself
// as the failure signal.
type RecordGateway interface {
	// ListAll returns every record, or an empty slice on failure.
	ListAll(ctx context.Context) []domain.Record

	// GetByID returns the record with the given id, or a zero Record on failure.
	GetByID(ctx context.Context, id int) domain.Record

	// Search returns records whose name matches term, or an empty slice on failure.
	Search(ctx context.Context, term string) []domain.Record

	// Add stores a new record and returns it with its assigned id, or nil on failure.
	Add(ctx context.Context, rec domain.Record) *domain.Record

	// Update replaces a stored record. It returns false on failure.
	Update(ctx context.Context, rec domain.Record) bool

	// DeleteByID removes a record. It returns false on failure.
	DeleteByID(ctx context.Context, id int) bool
}

// SearchResult is one delivered result set and the term that produced it.
type SearchResult struct {
	Term    string
	Records []domain.Record
}

// SearchStream turns raw keystroke terms into delivered search results.
type SearchStream interface {
	// Submit records a raw term. It never blocks on the remote collection.
	Submit(term string)

	// Results delivers one result set per accepted query, newest wins.
	Results() <-chan SearchResult

	// Flush promotes the held term without waiting out the quiescence window.
	Flush()

	// Wait blocks until every dispatched search has resolved.
	Wait()

	// Close stops the stream and closes the results channel.
	Close()
}
